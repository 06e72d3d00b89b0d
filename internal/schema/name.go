package schema

import "strings"

// DefaultSchema is used when an identifier carries no schema part.
const DefaultSchema = "dbo"

// StripBrackets removes T-SQL bracket quoting from every part of a
// (possibly dotted) identifier: [Db].[dbo].[T] -> Db.dbo.T.
func StripBrackets(ident string) string {
	if !strings.ContainsAny(ident, "[]") {
		return ident
	}
	parts := SplitParts(ident)
	return strings.Join(parts, ".")
}

// SplitParts splits a dotted identifier, respecting brackets, and strips
// the quoting from each part. Dots inside [..] do not split.
func SplitParts(ident string) []string {
	var (
		parts  []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(ident); i++ {
		ch := ident[i]
		switch {
		case ch == '[' && !quoted:
			quoted = true
		case ch == ']' && quoted:
			// ]] is an escaped bracket inside a quoted identifier
			if i+1 < len(ident) && ident[i+1] == ']' {
				cur.WriteByte(']')
				i++
				continue
			}
			quoted = false
		case ch == '.' && !quoted:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	parts = append(parts, strings.TrimSpace(cur.String()))
	return parts
}

// ParseTableName splits a 1-3 part identifier and fills the missing
// database and schema with the given defaults. An empty defaultSchema
// falls back to DefaultSchema.
func ParseTableName(ident, defaultDatabase, defaultSchema string) TableName {
	if defaultSchema == "" {
		defaultSchema = DefaultSchema
	}
	parts := SplitParts(ident)
	switch len(parts) {
	case 1:
		return TableName{Database: defaultDatabase, Schema: defaultSchema, Table: parts[0]}
	case 2:
		return TableName{Database: defaultDatabase, Schema: orDefault(parts[0], defaultSchema), Table: parts[1]}
	default:
		// Anything beyond three parts (linked server names) keeps the last three.
		n := len(parts)
		return TableName{
			Database: orDefault(parts[n-3], defaultDatabase),
			Schema:   orDefault(parts[n-2], defaultSchema),
			Table:    parts[n-1],
		}
	}
}

// Qualify renders ident in Database.Schema.Table form. Without a default
// database a 1- or 2-part name cannot be resolved and is returned as
// written, brackets stripped.
func Qualify(ident, defaultDatabase, defaultSchema string) string {
	name := ParseTableName(ident, defaultDatabase, defaultSchema)
	if name.Database == "" {
		return StripBrackets(ident)
	}
	return name.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
