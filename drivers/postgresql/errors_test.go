package postgresql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northway/migrator/types"
)

func TestClassifyError_SQLState(t *testing.T) {
	tests := []struct {
		code     string
		expected types.ErrorKind
	}{
		{"42701", types.KindAlreadyPresent},
		{"42P07", types.KindAlreadyPresent},
		{"42710", types.KindAlreadyPresent},
		{"42P01", types.KindMissingRelation},
		{"42703", types.KindMissingRelation},
		{"42601", types.KindMalformed},
		{"08006", types.KindConnectError},
		{"23505", types.KindOther},
	}

	for _, tt := range tests {
		t.Run("pq/"+tt.code, func(t *testing.T) {
			raw := &pq.Error{Code: pq.ErrorCode(tt.code), Message: "boom"}
			classified := ClassifyError(fmt.Errorf("exec: %w", raw), "SELECT 1")
			require.NotNil(t, classified)
			assert.Equal(t, tt.expected, classified.Kind)
			assert.Equal(t, tt.code, classified.Code)
			assert.Equal(t, "SELECT 1", classified.Statement)
		})

		t.Run("pgx/"+tt.code, func(t *testing.T) {
			raw := &pgconn.PgError{Code: tt.code, Message: "boom"}
			classified := ClassifyError(raw, "SELECT 1")
			require.NotNil(t, classified)
			assert.Equal(t, tt.expected, classified.Kind)
			assert.Equal(t, tt.code, classified.Code)

			var pgErr *pgconn.PgError
			assert.True(t, errors.As(classified, &pgErr))
		})
	}
}

func TestClassifyError_WithoutSQLState(t *testing.T) {
	assert.Nil(t, ClassifyError(nil, ""))

	classified := ClassifyError(errors.New(`relation "task" already exists`), "")
	assert.Equal(t, types.KindAlreadyPresent, classified.Kind)

	classified = ClassifyError(errors.New("driver: bad connection"), "")
	assert.Equal(t, types.KindOther, classified.Kind)
	assert.Empty(t, classified.Code)
}

func TestPostgreSQLCapabilities(t *testing.T) {
	caps := NewPostgreSQLCapabilities()

	assert.Equal(t, `"transaction"`, caps.QuoteIdentifier("transaction"))
	assert.Equal(t, `"odd""name"`, caps.QuoteIdentifier(`odd"name`))
	assert.True(t, caps.EnforcesForeignKeys())
	assert.Equal(t, "TRUE", caps.GetBooleanLiteral(true))
	assert.Equal(t, "SERIAL PRIMARY KEY", caps.AutoIncrementColumn("INTEGER"))
	assert.Equal(t, "BIGSERIAL PRIMARY KEY", caps.AutoIncrementColumn("bigint"))
	assert.True(t, caps.IsSystemIndex("task_pkey"))
	assert.False(t, caps.IsSystemIndex("idx_user_supabase_uid"))
	assert.True(t, caps.IsSystemTable("pg_class"))
	assert.False(t, caps.IsSystemTable("sql_audit"))
}
