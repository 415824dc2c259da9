package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/northway/migrator/types"
)

// Step is one idempotent structural change. The set of Step kinds is closed:
// AddColumn, CreateTable, CreateIndex and Backfill.
type Step interface {
	Kind() StepKind
	// Target names the object the Step touches, e.g. "task.completed_at"
	Target() string
	// ContinueOnError reports whether the Runner moves on after this Step fails
	ContinueOnError() bool
	// Validate checks the declaration without touching a database
	Validate() error

	apply(ctx context.Context, sc *stepContext) outcome
}

// Bool returns a pointer to b, for the ContinueOnFailure overrides
func Bool(b bool) *bool {
	return &b
}

func continueOnError(override *bool, def bool) bool {
	if override != nil {
		return *override
	}
	return def
}

// AddColumn adds one column to an existing table.
//
// A NOT NULL column without a default is refused on non-empty tables, and
// always on SQLite, which never accepts one through ALTER TABLE. Column-level
// UNIQUE cannot be added this way; declare a unique CreateIndex instead.
type AddColumn struct {
	Table  string
	Column Column
	// ContinueOnFailure overrides the default of true
	ContinueOnFailure *bool
}

func (a *AddColumn) Kind() StepKind { return KindAddColumn }

func (a *AddColumn) Target() string { return a.Table + "." + a.Column.Name }

func (a *AddColumn) ContinueOnError() bool { return continueOnError(a.ContinueOnFailure, true) }

func (a *AddColumn) Validate() error {
	if strings.TrimSpace(a.Table) == "" {
		return fmt.Errorf("table is required")
	}
	if err := a.Column.validate(); err != nil {
		return err
	}
	if a.Column.AutoIncrement {
		return fmt.Errorf("column %s: auto-increment columns can only be declared by CreateTable", a.Column.Name)
	}
	if a.Column.Unique {
		return fmt.Errorf("column %s: UNIQUE cannot be added by ALTER TABLE, use a unique CreateIndex", a.Column.Name)
	}
	return nil
}

func (a *AddColumn) apply(ctx context.Context, sc *stepContext) outcome {
	exists, err := sc.migrator.ColumnExists(ctx, sc.tx, a.Table, a.Column.Name)
	if err != nil {
		return sc.failed(err, "")
	}
	if exists {
		return outcome{status: StatusAlreadyPresent, message: "column already exists"}
	}

	if a.Column.NotNull && isNull(a.Column.Default) {
		if o, refused := a.refuseNotNull(ctx, sc); refused {
			return o
		}
	}

	def, err := a.Column.definition(sc.caps)
	if err != nil {
		return sc.failedKind(types.KindMalformed, "", err.Error())
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", sc.caps.QuoteIdentifier(a.Table), def)

	if _, sqlErr := sc.exec(ctx, stmt); sqlErr != nil {
		if sqlErr.Kind == types.KindAlreadyPresent {
			return outcome{status: StatusAlreadyPresent, message: "column already exists", rollback: true}
		}
		return sc.failedSQL(sqlErr)
	}

	sc.markAdded(a.Table, a.Column.Name)
	msg := "added " + a.Column.TypeFor(sc.driverType())
	if a.Column.References != nil && !sc.caps.EnforcesForeignKeys() {
		msg += ", foreign key not enforced"
	}
	return outcome{status: StatusApplied, message: msg}
}

func (a *AddColumn) refuseNotNull(ctx context.Context, sc *stepContext) (outcome, bool) {
	if sc.driverType().IsEmbedded() {
		return sc.failedKind(types.KindNonNullableWithoutDefault, "",
			"NOT NULL column without a default cannot be added on this backend"), true
	}

	stmt := "SELECT COUNT(*) FROM " + sc.caps.QuoteIdentifier(a.Table)
	var rows int64
	if err := sc.tx.QueryRowContext(ctx, stmt).Scan(&rows); err != nil {
		return sc.failed(err, stmt), true
	}
	if rows > 0 {
		return sc.failedKind(types.KindNonNullableWithoutDefault, "",
			fmt.Sprintf("NOT NULL column without a default on a table with %d rows", rows)), true
	}
	return outcome{}, false
}

// CreateTable creates a table with its columns, primary key and foreign keys
// in one statement. Foreign keys are declared inline; SQLite accepts them
// even when it does not enforce them.
type CreateTable struct {
	Table       string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
	// ContinueOnFailure overrides the default of false
	ContinueOnFailure *bool
}

func (c *CreateTable) Kind() StepKind { return KindCreateTable }

func (c *CreateTable) Target() string { return c.Table }

func (c *CreateTable) ContinueOnError() bool { return continueOnError(c.ContinueOnFailure, false) }

func (c *CreateTable) Validate() error {
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("table is required")
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", c.Table)
	}

	names := make(map[string]bool, len(c.Columns))
	autoIncrement := ""
	for _, col := range c.Columns {
		if err := col.validate(); err != nil {
			return err
		}
		if names[col.Name] {
			return fmt.Errorf("duplicate column %s", col.Name)
		}
		names[col.Name] = true
		if col.AutoIncrement {
			if autoIncrement != "" {
				return fmt.Errorf("only one auto-increment column is allowed")
			}
			autoIncrement = col.Name
		}
	}

	for _, pk := range c.PrimaryKey {
		if !names[pk] {
			return fmt.Errorf("primary key column %s is not declared", pk)
		}
	}
	if autoIncrement != "" && len(c.PrimaryKey) > 0 &&
		(len(c.PrimaryKey) != 1 || c.PrimaryKey[0] != autoIncrement) {
		return fmt.Errorf("auto-increment column %s must be the whole primary key", autoIncrement)
	}

	for _, fk := range c.ForeignKeys {
		if err := fk.validate(); err != nil {
			return err
		}
		for _, col := range fk.Columns {
			if !names[col] {
				return fmt.Errorf("foreign key column %s is not declared", col)
			}
		}
	}
	return nil
}

// Statement renders the CREATE TABLE statement for a dialect
func (c *CreateTable) Statement(caps types.DriverCapabilities) (string, error) {
	var defs []string
	hasAutoIncrement := false
	for _, col := range c.Columns {
		def, err := col.definition(caps)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
		hasAutoIncrement = hasAutoIncrement || col.AutoIncrement
	}

	// an auto-increment column already carries PRIMARY KEY
	if len(c.PrimaryKey) > 0 && !hasAutoIncrement {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", joinQuoted(caps, c.PrimaryKey)))
	}
	for _, fk := range c.ForeignKeys {
		defs = append(defs, fk.definition(caps))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)",
		caps.QuoteIdentifier(c.Table), strings.Join(defs, ",\n\t")), nil
}

func (c *CreateTable) apply(ctx context.Context, sc *stepContext) outcome {
	if sc.caps.IsSystemTable(c.Table) {
		return sc.failedKind(types.KindMalformed, "", fmt.Sprintf("table name %s is reserved by the backend", c.Table))
	}

	exists, err := sc.migrator.TableExists(ctx, sc.tx, c.Table)
	if err != nil {
		return sc.failed(err, "")
	}
	if exists {
		return outcome{status: StatusAlreadyPresent, message: "table already exists"}
	}

	stmt, err := c.Statement(sc.caps)
	if err != nil {
		return sc.failedKind(types.KindMalformed, "", err.Error())
	}

	if _, sqlErr := sc.exec(ctx, stmt); sqlErr != nil {
		if sqlErr.Kind == types.KindAlreadyPresent {
			return outcome{status: StatusAlreadyPresent, message: "table already exists", rollback: true}
		}
		return sc.failedSQL(sqlErr)
	}

	for _, col := range c.Columns {
		sc.markAdded(c.Table, col.Name)
	}
	msg := fmt.Sprintf("created with %d columns", len(c.Columns))
	if c.hasReferences() && !sc.caps.EnforcesForeignKeys() {
		msg += ", foreign keys not enforced"
	}
	return outcome{status: StatusApplied, message: msg}
}

func (c *CreateTable) hasReferences() bool {
	if len(c.ForeignKeys) > 0 {
		return true
	}
	for _, col := range c.Columns {
		if col.References != nil {
			return true
		}
	}
	return false
}

// CreateIndex creates a named index. A unique index is the portable way to
// enforce uniqueness on an existing table. Both backends treat NULLs as
// distinct, so any number of rows may leave a uniquely indexed column NULL.
type CreateIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
	// ContinueOnFailure overrides the default of true
	ContinueOnFailure *bool
}

func (c *CreateIndex) Kind() StepKind { return KindCreateIndex }

func (c *CreateIndex) Target() string { return c.Name }

func (c *CreateIndex) ContinueOnError() bool { return continueOnError(c.ContinueOnFailure, true) }

func (c *CreateIndex) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("index name is required")
	}
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("table is required")
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("index %s has no columns", c.Name)
	}
	return nil
}

func (c *CreateIndex) apply(ctx context.Context, sc *stepContext) outcome {
	if sc.caps.IsSystemIndex(c.Name) {
		return sc.failedKind(types.KindMalformed, "", fmt.Sprintf("index name %s is reserved by the backend", c.Name))
	}
	if sc.caps.IsSystemTable(c.Table) {
		return sc.failedKind(types.KindMalformed, "", fmt.Sprintf("cannot index internal table %s", c.Table))
	}

	exists, err := sc.migrator.IndexExists(ctx, sc.tx, c.Name)
	if err != nil {
		return sc.failed(err, "")
	}
	if exists {
		return outcome{status: StatusAlreadyPresent, message: "index already exists"}
	}

	unique := ""
	if c.Unique {
		unique = "UNIQUE "
	}
	stmt := fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique, sc.caps.QuoteIdentifier(c.Name), sc.caps.QuoteIdentifier(c.Table), joinQuoted(sc.caps, c.Columns))

	if _, sqlErr := sc.exec(ctx, stmt); sqlErr != nil {
		if sqlErr.Kind == types.KindAlreadyPresent {
			return outcome{status: StatusAlreadyPresent, message: "index already exists", rollback: true}
		}
		return sc.failedSQL(sqlErr)
	}

	msg := "created on " + c.Table
	if c.Unique {
		msg = "created unique on " + c.Table
	}
	return outcome{status: StatusApplied, message: msg}
}

// Backfill writes Value into cells of Column that are NULL, optionally
// narrowed by Where. Non-NULL cells are never overwritten, so a second run
// writes nothing. It never changes the schema. Writing zero rows reports
// AlreadyPresent, unless the column was added earlier in the same run.
type Backfill struct {
	Table  string
	Column string
	Value  any
	// Where is a raw SQL predicate ANDed with "<column> IS NULL"
	Where string
	// ContinueOnFailure overrides the default of false
	ContinueOnFailure *bool
}

func (b *Backfill) Kind() StepKind { return KindBackfill }

func (b *Backfill) Target() string { return b.Table + "." + b.Column }

func (b *Backfill) ContinueOnError() bool { return continueOnError(b.ContinueOnFailure, false) }

func (b *Backfill) Validate() error {
	if strings.TrimSpace(b.Table) == "" {
		return fmt.Errorf("table is required")
	}
	if strings.TrimSpace(b.Column) == "" {
		return fmt.Errorf("column is required")
	}
	if isNull(b.Value) {
		return fmt.Errorf("backfill value for %s must not be NULL", b.Column)
	}
	return nil
}

// Statement renders the UPDATE statement for a dialect
func (b *Backfill) Statement(caps types.DriverCapabilities) (string, error) {
	lit, err := RenderLiteral(b.Value, caps)
	if err != nil {
		return "", fmt.Errorf("invalid backfill value: %w", err)
	}
	column := caps.QuoteIdentifier(b.Column)
	predicate := column + " IS NULL"
	if where := strings.TrimSpace(b.Where); where != "" {
		predicate += " AND (" + where + ")"
	}
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s",
		caps.QuoteIdentifier(b.Table), column, lit, predicate), nil
}

func (b *Backfill) apply(ctx context.Context, sc *stepContext) outcome {
	exists, err := sc.migrator.TableExists(ctx, sc.tx, b.Table)
	if err != nil {
		return sc.failed(err, "")
	}
	if !exists {
		return sc.failedKind(types.KindMissingRelation, "", fmt.Sprintf("table %s does not exist", b.Table))
	}

	exists, err = sc.migrator.ColumnExists(ctx, sc.tx, b.Table, b.Column)
	if err != nil {
		return sc.failed(err, "")
	}
	if !exists {
		return sc.failedKind(types.KindMissingColumn, "", fmt.Sprintf("column %s does not exist on %s", b.Column, b.Table))
	}

	stmt, err := b.Statement(sc.caps)
	if err != nil {
		return sc.failedKind(types.KindMalformed, "", err.Error())
	}

	result, sqlErr := sc.exec(ctx, stmt)
	if sqlErr != nil {
		return sc.failedSQL(sqlErr)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sc.failed(err, stmt)
	}

	if affected == 0 && !sc.wasAdded(b.Table, b.Column) {
		return outcome{status: StatusAlreadyPresent, message: "no rows to update"}
	}
	return outcome{status: StatusApplied, message: fmt.Sprintf("updated %d rows", affected)}
}

var (
	_ Step = (*AddColumn)(nil)
	_ Step = (*CreateTable)(nil)
	_ Step = (*CreateIndex)(nil)
	_ Step = (*Backfill)(nil)
)
