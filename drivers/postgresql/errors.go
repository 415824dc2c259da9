package postgresql

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/northway/migrator/types"
)

// SQLSTATE codes the migrator cares about
const (
	codeDuplicateColumn = "42701"
	codeDuplicateTable  = "42P07"
	codeDuplicateObject = "42710"
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
	codeSyntaxError     = "42601"
)

var codeKinds = map[string]types.ErrorKind{
	codeDuplicateColumn: types.KindAlreadyPresent,
	codeDuplicateTable:  types.KindAlreadyPresent,
	codeDuplicateObject: types.KindAlreadyPresent,
	codeUndefinedTable:  types.KindMissingRelation,
	codeUndefinedColumn: types.KindMissingRelation,
	codeSyntaxError:     types.KindMalformed,
}

// ClassifyError maps an error from lib/pq or pgx onto an error kind using its
// SQLSTATE. A nil error yields nil.
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
		Code:      sqlState(err),
		Message:   err.Error(),
		Statement: statement,
		Err:       err,
	}

	switch {
	case sqlErr.Code != "":
		if kind, ok := codeKinds[sqlErr.Code]; ok {
			sqlErr.Kind = kind
		} else if strings.HasPrefix(sqlErr.Code, "08") {
			// class 08: connection exception
			sqlErr.Kind = types.KindConnectError
		}
	case strings.Contains(strings.ToLower(err.Error()), "already exists"):
		sqlErr.Kind = types.KindAlreadyPresent
	}
	return sqlErr
}

// sqlState returns the SQLSTATE carried by a driver error, if any
func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
