package procedure

import (
	"regexp"
	"strings"

	"sp-depends/internal/schema"
)

// UnknownName is reported when no CREATE PROCEDURE header is found.
const UnknownName = "Unknown_Procedure"

// Options carries the defaults used to qualify partial table names.
type Options struct {
	DefaultDatabase string
	DefaultSchema   string
}

const identPattern = `(?:\[(?:[^\]]|\]\])+\]|[\p{L}_#][\p{L}\p{N}_$#@]*)`

var (
	namePattern = regexp.MustCompile(`(?i)\bCREATE\s+(?:OR\s+ALTER\s+)?PROC(?:EDURE)?\s+(` +
		identPattern + `(?:\.` + identPattern + `)*)`)

	// FROM|JOIN followed by a 1-3 part name. The alias is read separately
	// so a following JOIN keyword is never swallowed by the match.
	tableRefPattern = regexp.MustCompile(`\b(?:FROM|JOIN)\s+(` + identPattern + `(?:\.` + identPattern + `){0,2})`)
	aliasPattern    = regexp.MustCompile(`^\s+(?:AS\s+)?(` + identPattern + `)`)
	callPattern     = regexp.MustCompile(`^\s*\(`)

	selectListPattern = regexp.MustCompile(`(?s)\bSELECT\s+(.*?)\s+FROM\b`)
	columnRefPattern  = regexp.MustCompile(`(` + identPattern + `(?:\.` + identPattern + `)*)\.(` + identPattern + `)(\s*\()?`)
	joinPredPattern   = regexp.MustCompile(`\bON\s+(` + identPattern + `(?:\.` + identPattern + `)*)\.(` + identPattern + `)\s*=\s*(` +
		identPattern + `(?:\.` + identPattern + `)*)\.(` + identPattern + `)`)
)

// ExtractName returns the procedure name from its CREATE header, without
// bracket quoting.
func ExtractName(sql string) string {
	m := namePattern.FindStringSubmatch(Normalize(sql))
	if m == nil {
		return UnknownName
	}
	return schema.StripBrackets(m[1])
}

// Extract scans a procedure body for table references after FROM/JOIN and
// for qualified column references in SELECT lists and ON predicates. It is
// a best-effort text scan and never fails; no match yields empty sets.
func Extract(sql string, opts Options) *Extraction {
	sql = Normalize(sql)
	ex := newExtraction()
	aliases := scanTables(sql, opts, ex)

	for _, m := range selectListPattern.FindAllStringSubmatch(sql, -1) {
		for _, c := range columnRefPattern.FindAllStringSubmatch(m[1], -1) {
			if c[3] != "" {
				// schema.function( call, not a column
				continue
			}
			ex.addReference(aliases, c[1], c[2])
		}
	}

	for _, m := range joinPredPattern.FindAllStringSubmatch(sql, -1) {
		ex.addReference(aliases, m[1], m[2])
		ex.addReference(aliases, m[3], m[4])
	}
	return ex
}

// scanTables fills ex.Tables and returns the alias map for this body.
func scanTables(sql string, opts Options, ex *Extraction) map[string]string {
	aliases := map[string]string{}
	for _, loc := range tableRefPattern.FindAllStringSubmatchIndex(sql, -1) {
		written := sql[loc[2]:loc[3]]
		rest := sql[loc[1]:]
		if callPattern.MatchString(rest) {
			// table-valued function
			continue
		}
		full := schema.Qualify(written, opts.DefaultDatabase, opts.DefaultSchema)
		ex.Tables.Add(full)
		aliases[full] = full

		if alias := trailingAlias(rest); alias != "" {
			aliases[alias] = full
			continue
		}
		parts := schema.SplitParts(written)
		aliases[strings.Join(parts, ".")] = full
		aliases[parts[len(parts)-1]] = full
	}
	return aliases
}

func trailingAlias(rest string) string {
	m := aliasPattern.FindStringSubmatch(rest)
	if m == nil {
		return ""
	}
	if reserved[strings.ToUpper(m[1])] {
		return ""
	}
	return schema.StripBrackets(m[1])
}

// addReference resolves qualifier through aliases and records column on
// the resolved table, or under Unresolved when nothing matches.
func (ex *Extraction) addReference(aliases map[string]string, qualifier, column string) {
	qualifier = schema.StripBrackets(qualifier)
	column = schema.StripBrackets(column)
	if table, ok := resolve(aliases, qualifier); ok {
		addColumn(ex.Columns, table, column)
		return
	}
	addColumn(ex.Unresolved, qualifier, column)
}

func resolve(aliases map[string]string, qualifier string) (string, bool) {
	if table, ok := aliases[qualifier]; ok {
		return table, true
	}
	// aliases are case-insensitive under the default collation
	match := ""
	for alias := range aliases {
		if strings.EqualFold(alias, qualifier) && (match == "" || alias < match) {
			match = alias
		}
	}
	if match == "" {
		return "", false
	}
	return aliases[match], true
}
