package common

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var fencePattern = regexp.MustCompile("(?s)```(?:[a-zA-Z]*[ \\t]*\\r?\\n)?(.*?)```")

// StripCodeFence returns the body of the first fenced block in s, or s trimmed when there is none.
func StripCodeFence(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

// ExtractJSON cuts the outermost JSON object or array out of an LLM response.
// It handles common LLM quirks like surrounding markdown or extra text.
func ExtractJSON(response string) (string, error) {
	text := StripCodeFence(response)

	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response (missing '{' or '[')")
	}

	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end < start {
		return "", fmt.Errorf("unterminated JSON in response")
	}

	candidate := text[start : end+1]
	if !gjson.Valid(candidate) {
		return "", fmt.Errorf("invalid JSON in response: %s", candidate)
	}
	return candidate, nil
}
