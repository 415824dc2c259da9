package cli

import (
	"fmt"
	"strings"

	"github.com/northway/migrator/database"
)

// The Inspect command prints the columns of a table.
type Inspect struct {
	Table string `arg:"" help:"Table to inspect."`
	URL   string `arg:"" optional:"" name:"url" help:"Database URL."`
}

// Run the inspect command.
func (c *Inspect) Run(app *appContext) error {
	url, err := app.resolveURL(c.URL)
	if err != nil {
		return err
	}

	db, err := database.Open(app.ctx, url, app.connectOptions(url))
	if err != nil {
		return &exitError{code: ExitFailure, err: err}
	}
	defer db.Close()

	if db.GetCapabilities().IsSystemTable(c.Table) {
		return &exitError{code: ExitFailure, err: fmt.Errorf("table %q is internal to the database", c.Table)}
	}

	migrator := db.GetMigrator()
	exists, err := migrator.TableExists(app.ctx, db, c.Table)
	if err != nil {
		return &exitError{code: ExitFailure, err: fmt.Errorf("failed checking table %s: %w", c.Table, err)}
	}
	if !exists {
		return &exitError{code: ExitFailure, err: missingTable(app, db, c.Table)}
	}

	columns, err := migrator.GetColumns(app.ctx, db, c.Table)
	if err != nil {
		return &exitError{code: ExitFailure, err: fmt.Errorf("failed listing columns of %s: %w", c.Table, err)}
	}

	data := make([][]string, len(columns))
	for i, col := range columns {
		data[i] = []string{col.Name, col.Type, yesNo(col.Nullable), col.DefaultString(), yesNo(col.PrimaryKey)}
	}
	header := []string{"Column", "Type", "Nullable", "Default", "Primary Key"}
	if err := renderTable(header, data, app.env.Stdout); err != nil {
		return fmt.Errorf("failed rendering columns: %w", err)
	}
	return nil
}

func missingTable(app *appContext, db database.Database, table string) error {
	tables, err := db.GetMigrator().GetTables(app.ctx, db)
	if err != nil {
		app.logger().Debug("Failed listing tables: %v", err)
		return fmt.Errorf("table %q does not exist", table)
	}
	if len(tables) == 0 {
		return fmt.Errorf("table %q does not exist; the database has no tables", table)
	}
	return fmt.Errorf("table %q does not exist; existing tables: %s", table, strings.Join(tables, ", "))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
