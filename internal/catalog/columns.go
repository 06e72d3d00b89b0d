package catalog

import (
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	createTablePattern = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+[^(]*\(`)
	columnDefPattern   = regexp.MustCompile(`^\[([\p{L}\p{N}_]+)\]\s+(.+)$`)
)

// ParseColumnTypes reads a CREATE TABLE script and maps each bracket-quoted
// column to its declared type tokens. Elements that are not shaped
// "[Column] <type>" (constraints, indexes, computed columns) are omitted.
func ParseColumnTypes(script string) map[string]string {
	types := map[string]string{}

	normalized := strings.Join(strings.Fields(script), " ")
	normalized = strings.ReplaceAll(normalized, ", NULL", "")

	loc := createTablePattern.FindStringIndex(normalized)
	if loc == nil {
		return types
	}
	for _, element := range splitTopLevel(normalized[loc[1]:]) {
		m := columnDefPattern.FindStringSubmatch(strings.TrimSpace(element))
		if m == nil {
			continue
		}
		types[m[1]] = strings.TrimSpace(m[2])
	}
	return types
}

// splitTopLevel splits the body of a parenthesised list at commas that
// are not nested in parentheses, stopping at the list's closing paren.
// String literals and bracketed names are skipped whole.
func splitTopLevel(body string) []string {
	var (
		elements []string
		depth    int
		start    int
	)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\'':
			i = skipQuoted(body, i, '\'')
		case '[':
			i = skipQuoted(body, i, ']')
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return append(elements, body[start:i])
			}
			depth--
		case ',':
			if depth == 0 {
				elements = append(elements, body[start:i])
				start = i + 1
			}
		}
	}
	return append(elements, body[start:])
}

// skipQuoted returns the index of the closing quote of the run that opens
// at body[start]. A doubled closing quote is an escape.
func skipQuoted(body string, start int, closing byte) int {
	for i := start + 1; i < len(body); i++ {
		if body[i] != closing {
			continue
		}
		if i+1 < len(body) && body[i+1] == closing {
			i++
			continue
		}
		return i
	}
	return len(body) - 1
}

var (
	errEmptyScript = errors.New("script is empty")
	errEncoding    = errors.New("script is not valid UTF-8")
)

func readScript(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	if !utf8.Valid(data) {
		return "", errors.Wrapf(errEncoding, "unable to read %s", path)
	}
	script := strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff"))
	if script == "" {
		return "", errors.Wrapf(errEmptyScript, "%s", path)
	}
	return script, nil
}

// LoadColumnTypes reads a definition script and parses it. Every failure
// is logged and yields an empty map.
func LoadColumnTypes(fs afero.Fs, path string) map[string]string {
	log := logrus.WithField("script", path)

	script, err := readScript(fs, path)
	switch {
	case errors.Is(err, errEmptyScript), errors.Is(err, os.ErrNotExist):
		log.Warn(err)
		return map[string]string{}
	case err != nil:
		log.Error(err)
		return map[string]string{}
	}

	types := ParseColumnTypes(script)
	if len(types) == 0 {
		log.Warn("No columns found in CREATE TABLE script. Check file format.")
	}
	return types
}
