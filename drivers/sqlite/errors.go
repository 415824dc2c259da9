package sqlite

import (
	"errors"
	"strconv"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	msqlite "modernc.org/sqlite"

	"github.com/northway/migrator/types"
)

// SQLite reports most schema errors as SQLITE_ERROR, so the kind is derived
// from the message text. Patterns are matched case-insensitively.
var errorPatterns = []struct {
	pattern string
	kind    types.ErrorKind
}{
	{"duplicate column name", types.KindAlreadyPresent},
	{"already exists", types.KindAlreadyPresent},
	{"no such table", types.KindMissingRelation},
	{"no such column", types.KindMissingRelation},
	{"syntax error", types.KindMalformed},
	{"incomplete input", types.KindMalformed},
}

// ClassifyError maps an error from either SQLite driver onto an error kind.
// A nil error yields nil.
func ClassifyError(err error, statement string) *types.SQLError {
	if err == nil {
		return nil
	}

	var existing *types.SQLError
	if errors.As(err, &existing) {
		return existing
	}

	sqlErr := &types.SQLError{
		Kind:      types.KindOther,
		Code:      resultCode(err),
		Message:   err.Error(),
		Statement: statement,
		Err:       err,
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			sqlErr.Kind = p.kind
			break
		}
	}
	return sqlErr
}

// resultCode extracts the primary SQLite result code when the driver exposes one
func resultCode(err error) string {
	var mattnErr sqlite3.Error
	if errors.As(err, &mattnErr) {
		return strconv.Itoa(int(mattnErr.Code))
	}
	var moderncErr *msqlite.Error
	if errors.As(err, &moderncErr) {
		// extended codes carry the primary code in the low byte
		return strconv.Itoa(moderncErr.Code() & 0xff)
	}
	return ""
}
