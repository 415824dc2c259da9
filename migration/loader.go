package migration

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/northway/migrator/types"
)

// File documents are declared like:
//
//	migrations:
//	  - id: transaction_amount_paid
//	    description: Track partial payments
//	    steps:
//	      - add_column: {table: transaction, name: amount_paid, type: FLOAT, default: 0.0}
//	      - backfill: {table: transaction, column: amount_paid, value: 0.0}
//
// Every step holds exactly one of add_column, create_table, create_index or
// backfill, plus an optional continue_on_error.

type fileDoc struct {
	Migrations []migrationDoc `yaml:"migrations"`
}

type migrationDoc struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Steps       []stepDoc `yaml:"steps"`
}

type stepDoc struct {
	AddColumn       *columnDoc      `yaml:"add_column"`
	CreateTable     *createTableDoc `yaml:"create_table"`
	CreateIndex     *createIndexDoc `yaml:"create_index"`
	Backfill        *backfillDoc    `yaml:"backfill"`
	ContinueOnError *bool           `yaml:"continue_on_error"`
}

type columnDoc struct {
	Table         string            `yaml:"table"` // add_column only
	Name          string            `yaml:"name"`
	Type          string            `yaml:"type"`
	Types         map[string]string `yaml:"types"`
	Default       yaml.Node         `yaml:"default"`
	DefaultExpr   string            `yaml:"default_expr"`
	NotNull       bool              `yaml:"not_null"`
	Unique        bool              `yaml:"unique"`
	AutoIncrement bool              `yaml:"auto_increment"`
	References    string            `yaml:"references"` // table.column
}

type createTableDoc struct {
	Table       string          `yaml:"table"`
	Columns     []columnDoc     `yaml:"columns"`
	PrimaryKey  []string        `yaml:"primary_key"`
	ForeignKeys []foreignKeyDoc `yaml:"foreign_keys"`
}

type foreignKeyDoc struct {
	Columns    []string `yaml:"columns"`
	References string   `yaml:"references"` // table
	RefColumns []string `yaml:"ref_columns"`
	OnDelete   string   `yaml:"on_delete"`
}

type createIndexDoc struct {
	Name    string   `yaml:"name"`
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
}

type backfillDoc struct {
	Table  string    `yaml:"table"`
	Column string    `yaml:"column"`
	Value  yaml.Node `yaml:"value"`
	Where  string    `yaml:"where"`
}

// LoadFile reads migrations from a YAML file
func LoadFile(path string) ([]*Migration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration file: %w", err)
	}
	migrations, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return migrations, nil
}

// Parse decodes and validates migrations from YAML. Unknown keys are errors.
func Parse(data []byte) ([]*Migration, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}
	if len(doc.Migrations) == 0 {
		return nil, fmt.Errorf("no migrations declared")
	}

	seen := make(map[string]bool)
	migrations := make([]*Migration, 0, len(doc.Migrations))
	for _, md := range doc.Migrations {
		if seen[md.ID] {
			return nil, fmt.Errorf("duplicate migration id %q", md.ID)
		}
		seen[md.ID] = true

		m := &Migration{ID: md.ID, Description: md.Description}
		for i, sd := range md.Steps {
			step, err := sd.toStep()
			if err != nil {
				return nil, fmt.Errorf("migration %s step %d: %w", md.ID, i+1, err)
			}
			m.Steps = append(m.Steps, step)
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

func (sd stepDoc) toStep() (Step, error) {
	declared := 0
	for _, set := range []bool{sd.AddColumn != nil, sd.CreateTable != nil, sd.CreateIndex != nil, sd.Backfill != nil} {
		if set {
			declared++
		}
	}
	if declared != 1 {
		return nil, fmt.Errorf("expected exactly one of add_column, create_table, create_index, backfill; got %d", declared)
	}

	switch {
	case sd.AddColumn != nil:
		col, err := sd.AddColumn.toColumn()
		if err != nil {
			return nil, err
		}
		return &AddColumn{Table: sd.AddColumn.Table, Column: col, ContinueOnFailure: sd.ContinueOnError}, nil

	case sd.CreateTable != nil:
		ct := &CreateTable{
			Table:             sd.CreateTable.Table,
			PrimaryKey:        sd.CreateTable.PrimaryKey,
			ContinueOnFailure: sd.ContinueOnError,
		}
		for _, cd := range sd.CreateTable.Columns {
			if cd.Table != "" {
				return nil, fmt.Errorf("column %s: table is not allowed inside create_table", cd.Name)
			}
			col, err := cd.toColumn()
			if err != nil {
				return nil, err
			}
			ct.Columns = append(ct.Columns, col)
		}
		for _, fd := range sd.CreateTable.ForeignKeys {
			ct.ForeignKeys = append(ct.ForeignKeys, ForeignKey{
				Columns:    fd.Columns,
				RefTable:   fd.References,
				RefColumns: fd.RefColumns,
				OnDelete:   fd.OnDelete,
			})
		}
		return ct, nil

	case sd.CreateIndex != nil:
		return &CreateIndex{
			Name:              sd.CreateIndex.Name,
			Table:             sd.CreateIndex.Table,
			Columns:           sd.CreateIndex.Columns,
			Unique:            sd.CreateIndex.Unique,
			ContinueOnFailure: sd.ContinueOnError,
		}, nil

	default:
		value, err := decodeLiteral(&sd.Backfill.Value)
		if err != nil {
			return nil, fmt.Errorf("backfill value: %w", err)
		}
		return &Backfill{
			Table:             sd.Backfill.Table,
			Column:            sd.Backfill.Column,
			Value:             value,
			Where:             sd.Backfill.Where,
			ContinueOnFailure: sd.ContinueOnError,
		}, nil
	}
}

func (cd columnDoc) toColumn() (Column, error) {
	col := Column{
		Name:          cd.Name,
		Type:          cd.Type,
		NotNull:       cd.NotNull,
		Unique:        cd.Unique,
		AutoIncrement: cd.AutoIncrement,
	}

	if len(cd.Types) > 0 {
		col.DialectTypes = make(map[types.DriverType]string, len(cd.Types))
		for name, t := range cd.Types {
			dt, err := types.ParseDriverType(name)
			if err != nil {
				return Column{}, fmt.Errorf("column %s: %w", cd.Name, err)
			}
			col.DialectTypes[dt] = t
		}
	}

	def, err := decodeLiteral(&cd.Default)
	if err != nil {
		return Column{}, fmt.Errorf("column %s default: %w", cd.Name, err)
	}
	if cd.DefaultExpr != "" {
		if def != nil {
			return Column{}, fmt.Errorf("column %s: default and default_expr are exclusive", cd.Name)
		}
		def = Expr(cd.DefaultExpr)
	}
	col.Default = def

	if cd.References != "" {
		table, column, ok := strings.Cut(cd.References, ".")
		if !ok || table == "" || column == "" {
			return Column{}, fmt.Errorf("column %s: references must be table.column, got %q", cd.Name, cd.References)
		}
		col.References = &Reference{Table: table, Column: column}
	}
	return col, nil
}

// decodeLiteral turns a YAML scalar into a literal value. An absent node
// yields nil, an explicit null yields Null.
func decodeLiteral(node *yaml.Node) (any, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: expected a scalar", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		return Null, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, err
		}
		return i, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case "!!str":
		return node.Value, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported value tag %s", node.Line, node.ShortTag())
	}
}
