package migration

import (
	"fmt"
	"strings"

	"github.com/northway/migrator/types"
)

// Column declares one column for AddColumn or CreateTable
type Column struct {
	Name string
	// Type is the portable declared type, e.g. VARCHAR(50) or TIMESTAMP
	Type string
	// DialectTypes overrides Type per backend, e.g. JSONB on PostgreSQL
	DialectTypes map[types.DriverType]string
	// Default is nil for no DEFAULT clause, Null for DEFAULT NULL, an Expr for
	// a raw expression, or a bool, number or string literal.
	Default       any
	NotNull       bool
	Unique        bool
	AutoIncrement bool
	References    *Reference
}

// Reference is an inline REFERENCES clause
type Reference struct {
	Table  string
	Column string
}

// ForeignKey is a table-level FOREIGN KEY constraint
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string // optional referential action, e.g. CASCADE
}

// TypeFor returns the declared type for a backend
func (c Column) TypeFor(driverType types.DriverType) string {
	if t, ok := c.DialectTypes[driverType]; ok && t != "" {
		return t
	}
	return c.Type
}

func (c Column) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("column name is required")
	}
	if strings.TrimSpace(c.Type) == "" && !c.AutoIncrement {
		return fmt.Errorf("column %s: type is required", c.Name)
	}
	if c.AutoIncrement && c.Default != nil {
		return fmt.Errorf("column %s: auto-increment columns cannot have a default", c.Name)
	}
	if c.NotNull {
		if _, ok := c.Default.(nullValue); ok {
			return fmt.Errorf("column %s: NOT NULL contradicts DEFAULT NULL", c.Name)
		}
	}
	if c.References != nil && (c.References.Table == "" || c.References.Column == "") {
		return fmt.Errorf("column %s: reference needs a table and a column", c.Name)
	}
	return nil
}

// definition renders the column as it appears after ADD COLUMN or inside
// CREATE TABLE
func (c Column) definition(caps types.DriverCapabilities) (string, error) {
	var sb strings.Builder
	sb.WriteString(caps.QuoteIdentifier(c.Name))
	sb.WriteString(" ")

	if c.AutoIncrement {
		sb.WriteString(caps.AutoIncrementColumn(c.TypeFor(caps.GetDriverType())))
		return sb.String(), nil
	}

	sb.WriteString(c.TypeFor(caps.GetDriverType()))

	if c.Default != nil {
		lit, err := RenderLiteral(c.Default, caps)
		if err != nil {
			return "", fmt.Errorf("column %s: invalid default: %w", c.Name, err)
		}
		sb.WriteString(" DEFAULT ")
		sb.WriteString(lit)
	}
	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if c.Unique {
		sb.WriteString(" UNIQUE")
	}
	if c.References != nil {
		fmt.Fprintf(&sb, " REFERENCES %s (%s)",
			caps.QuoteIdentifier(c.References.Table),
			caps.QuoteIdentifier(c.References.Column))
	}
	return sb.String(), nil
}

func (fk ForeignKey) validate() error {
	if len(fk.Columns) == 0 || fk.RefTable == "" {
		return fmt.Errorf("foreign key needs columns and a referenced table")
	}
	if len(fk.RefColumns) != len(fk.Columns) {
		return fmt.Errorf("foreign key on %s: %d columns reference %d columns",
			strings.Join(fk.Columns, ","), len(fk.Columns), len(fk.RefColumns))
	}
	switch strings.ToUpper(fk.OnDelete) {
	case "", "CASCADE", "SET NULL", "SET DEFAULT", "RESTRICT", "NO ACTION":
	default:
		return fmt.Errorf("foreign key on %s: unknown ON DELETE action %q", strings.Join(fk.Columns, ","), fk.OnDelete)
	}
	return nil
}

func (fk ForeignKey) definition(caps types.DriverCapabilities) string {
	def := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		joinQuoted(caps, fk.Columns),
		caps.QuoteIdentifier(fk.RefTable),
		joinQuoted(caps, fk.RefColumns))
	if fk.OnDelete != "" {
		def += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	return def
}

func joinQuoted(caps types.DriverCapabilities, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = caps.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}
