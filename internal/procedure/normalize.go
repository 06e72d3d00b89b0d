package procedure

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywords are uppercased by Normalize so that pattern matching can be
// case-sensitive on keywords while identifiers keep their spelling.
var keywords = map[string]bool{
	"ALL": true, "ALTER": true, "AND": true, "APPLY": true, "AS": true,
	"BEGIN": true, "BETWEEN": true, "BY": true, "CASE": true, "CREATE": true,
	"CROSS": true, "DECLARE": true, "DELETE": true, "DISTINCT": true, "ELSE": true,
	"END": true, "EXCEPT": true, "EXEC": true, "EXECUTE": true, "EXISTS": true,
	"FOR": true, "FROM": true, "FULL": true, "GROUP": true, "HAVING": true,
	"IF": true, "IN": true, "INNER": true, "INSERT": true, "INTERSECT": true,
	"INTO": true, "IS": true, "JOIN": true, "LEFT": true, "LIKE": true,
	"MERGE": true, "NOLOCK": true, "NOT": true, "NULL": true, "ON": true,
	"OPTION": true, "OR": true, "ORDER": true, "OUTER": true, "OUTPUT": true,
	"PIVOT": true, "PROC": true, "PROCEDURE": true, "RETURN": true, "RIGHT": true,
	"SELECT": true, "SET": true, "TABLE": true, "THEN": true, "TOP": true,
	"TRUNCATE": true, "UNION": true, "UNPIVOT": true, "UPDATE": true, "USING": true,
	"VALUES": true, "WHEN": true, "WHERE": true, "WHILE": true, "WITH": true,
}

// reserved words can follow a table reference but never name an alias.
var reserved = map[string]bool{
	"CROSS": true, "EXCEPT": true, "FOR": true, "FULL": true, "GROUP": true,
	"HAVING": true, "INNER": true, "INTERSECT": true, "JOIN": true, "LEFT": true,
	"ON": true, "OPTION": true, "ORDER": true, "OUTER": true, "PIVOT": true,
	"RIGHT": true, "SELECT": true, "SET": true, "UNION": true, "UNPIVOT": true,
	"WHERE": true, "WITH": true, "WHEN": true, "THEN": true, "ELSE": true,
	"END": true, "BEGIN": true, "DELETE": true, "INSERT": true, "UPDATE": true,
	"IF": true, "WHILE": true, "RETURN": true, "EXEC": true, "EXECUTE": true,
	"DECLARE": true, "MERGE": true, "USING": true, "OUTPUT": true, "VALUES": true,
	"TRUNCATE": true, "AND": true, "OR": true, "AS": true,
	// statements that may follow a table without a terminating semicolon
	"BREAK": true, "CLOSE": true, "COMMIT": true, "CONTINUE": true, "DEALLOCATE": true,
	"FETCH": true, "GO": true, "OPEN": true, "PRINT": true, "RAISERROR": true,
	"ROLLBACK": true, "THROW": true, "WAITFOR": true,
}

// Normalize strips comments and uppercases keywords. String literals,
// bracketed and double-quoted identifiers are copied verbatim.
func Normalize(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))

	n := len(sql)
	for i := 0; i < n; {
		ch := sql[i]
		switch {
		case ch == '-' && i+1 < n && sql[i+1] == '-':
			for i < n && sql[i] != '\n' {
				i++
			}
		case ch == '/' && i+1 < n && sql[i+1] == '*':
			// T-SQL block comments nest.
			depth := 0
			for i < n {
				if sql[i] == '/' && i+1 < n && sql[i+1] == '*' {
					depth++
					i += 2
					continue
				}
				if sql[i] == '*' && i+1 < n && sql[i+1] == '/' {
					depth--
					i += 2
					if depth == 0 {
						break
					}
					continue
				}
				i++
			}
			b.WriteByte(' ')
		case ch == '\'':
			i = copyQuoted(&b, sql, i, '\'')
		case ch == '"':
			i = copyQuoted(&b, sql, i, '"')
		case ch == '[':
			i = copyQuoted(&b, sql, i, ']')
		case isWordStart(sql[i:]):
			j := i
			for j < n {
				r, size := utf8.DecodeRuneInString(sql[j:])
				if !isWordRune(r) {
					break
				}
				j += size
			}
			word := sql[i:j]
			if upper := strings.ToUpper(word); keywords[upper] {
				b.WriteString(upper)
			} else {
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

// copyQuoted writes the quoted run starting at sql[start] and returns the
// index just past its closing quote. A doubled closing quote is an escape.
func copyQuoted(b *strings.Builder, sql string, start int, closing byte) int {
	i := start + 1
	for i < len(sql) {
		if sql[i] == closing {
			if i+1 < len(sql) && sql[i+1] == closing {
				i += 2
				continue
			}
			i++
			break
		}
		i++
	}
	b.WriteString(sql[start:i])
	return i
}

func isWordStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isWordRune(r)
}

// isWordRune reports whether r can appear in a regular identifier or a
// keyword. Identifiers may carry any Unicode letter or digit.
func isWordRune(r rune) bool {
	return r == '_' || r == '@' || r == '#' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
