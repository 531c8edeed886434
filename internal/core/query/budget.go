package query

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/agenthands/graphqa/internal/core/model"
)

// TokenCounter returns the number of model tokens in text.
type TokenCounter func(text string) int

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

// DefaultTokenCounter counts with the cl100k_base encoding. The encoding is loaded once.
func DefaultTokenCounter() (TokenCounter, error) {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding("cl100k_base")
	})
	if encodingErr != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", encodingErr)
	}
	return func(text string) int {
		return len(encoding.Encode(text, nil, nil))
	}, nil
}

// fitRows keeps the longest prefix of rows whose JSON rendering fits in maxTokens.
func fitRows(rows []model.Row, maxTokens int, count TokenCounter) []model.Row {
	if maxTokens <= 0 || count == nil {
		return rows
	}

	used := 2 // enclosing brackets
	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return rows[:i]
		}
		used += count(string(data))
		if used > maxTokens {
			return rows[:i]
		}
	}
	return rows
}
