package base

import "strings"

// QuoteIdentifier wraps a name in double quotes, doubling embedded quotes.
// Both backends accept the ANSI form, which also shields reserved words such
// as "transaction" and "user".
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
