package query

import (
	"regexp"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
)

var mutatingClauses = mapset.NewSet(
	"CREATE", "MERGE", "DELETE", "DETACH", "SET", "REMOVE", "DROP", "FOREACH", "LOAD",
)

// Procedures known to only read. Any other CALL counts as a write.
var readOnlyProcedures = mapset.NewSet(
	"db.labels", "db.relationshiptypes", "db.propertykeys", "db.indexes", "db.constraints",
	"db.info", "db.ping", "db.awaitindex", "db.awaitindexes",
	"db.index.fulltext.querynodes", "db.index.fulltext.queryrelationships",
	"db.index.vector.querynodes", "db.index.vector.queryrelationships",
	"dbms.components", "dbms.procedures", "dbms.functions", "apoc.help", "apoc.version",
)

var readOnlyProcedurePrefixes = []string{"db.schema.", "apoc.meta."}

// procedureCall matches CALL followed by a dotted name; CALL { and CALL ( subqueries
// do not match and are covered by the clause check.
var procedureCall = regexp.MustCompile(`(?i)\bCALL\s+([A-Za-z_][A-Za-z0-9_]*(?:\s*\.\s*[A-Za-z_][A-Za-z0-9_]*)*)`)

var blank = regexp.MustCompile(`\s+`)

// IsMutating reports whether statement contains a write clause or calls a procedure
// outside the read-only set. The check is syntactic: string literals, quoted
// identifiers, comments, property keys and parameters are ignored for clauses.
func IsMutating(statement string) bool {
	for _, word := range clauseWords(stripLiterals(statement, false)) {
		if mutatingClauses.Contains(word) {
			return true
		}
	}

	for _, m := range procedureCall.FindAllStringSubmatch(stripLiterals(statement, true), -1) {
		if !isReadOnlyProcedure(blank.ReplaceAllString(m[1], "")) {
			return true
		}
	}
	return false
}

func isReadOnlyProcedure(name string) bool {
	name = strings.ToLower(name)
	if readOnlyProcedures.Contains(name) {
		return true
	}
	for _, prefix := range readOnlyProcedurePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// stripLiterals blanks out quoted strings and comments. Backtick identifiers are
// blanked too unless unquote is set, in which case their text is kept with spaces
// replaced by underscores.
func stripLiterals(s string, unquote bool) string {
	var b strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' || r == '"' || r == '`':
			quote := r
			keep := unquote && quote == '`'
			if !keep {
				b.WriteRune(' ')
			}
			for i++; i < len(runes); i++ {
				if runes[i] == '\\' && quote != '`' {
					i++
					continue
				}
				if runes[i] == quote {
					break
				}
				if keep {
					if unicode.IsSpace(runes[i]) {
						b.WriteRune('_')
					} else {
						b.WriteRune(runes[i])
					}
				}
			}
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			b.WriteRune('\n')
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// clauseWords returns upper-cased bare words, skipping property keys (n.set),
// parameters ($set) and labels (:Set).
func clauseWords(s string) []string {
	var words []string
	runes := []rune(s)

	for i := 0; i < len(runes); {
		if !isWordStart(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && isWordPart(runes[i]) {
			i++
		}
		if prev := previousNonSpace(runes, start); prev == '.' || prev == '$' || prev == ':' {
			continue
		}
		words = append(words, strings.ToUpper(string(runes[start:i])))
	}
	return words
}

func previousNonSpace(runes []rune, at int) rune {
	for j := at - 1; j >= 0; j-- {
		if !unicode.IsSpace(runes[j]) {
			return runes[j]
		}
	}
	return 0
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
