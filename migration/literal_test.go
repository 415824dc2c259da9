package migration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northway/migrator/drivers/postgresql"
	"github.com/northway/migrator/drivers/sqlite"
)

func TestRenderLiteral(t *testing.T) {
	caps := sqlite.NewSQLiteCapabilities()

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"null", Null, "NULL"},
		{"expression", Expr("CURRENT_TIMESTAMP"), "CURRENT_TIMESTAMP"},
		{"true", true, "TRUE"},
		{"false", false, "FALSE"},
		{"int", 0, "0"},
		{"negative int64", int64(-42), "-42"},
		{"uint8", uint8(7), "7"},
		{"zero float", 0.0, "0.0"},
		{"whole float", 3.0, "3.0"},
		{"fraction", 0.25, "0.25"},
		{"float32", float32(1.5), "1.5"},
		{"exponent", 1e21, "1e+21"},
		{"string", "trial", "'trial'"},
		{"embedded quote", "O'Brien", "'O''Brien'"},
		{"empty string", "", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderLiteral(tt.value, caps)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRenderLiteral_Errors(t *testing.T) {
	caps := postgresql.NewPostgreSQLCapabilities()

	for _, value := range []any{nil, Expr("  "), math.NaN(), math.Inf(1), []int{1}, struct{}{}} {
		_, err := RenderLiteral(value, caps)
		assert.Error(t, err, "%#v", value)
	}
}

func TestIsNull(t *testing.T) {
	assert.True(t, isNull(nil))
	assert.True(t, isNull(Null))
	assert.False(t, isNull(0))
	assert.False(t, isNull(""))
	assert.False(t, isNull(false))
}
