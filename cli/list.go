package cli

import (
	"fmt"
	"strconv"
)

// The List command lists the available migrations.
type List struct{}

// Run the list command.
func (c *List) Run(app *appContext) error {
	migrations, err := app.migrations()
	if err != nil {
		return err
	}

	data := make([][]string, len(migrations))
	for i, m := range migrations {
		data[i] = []string{m.ID, strconv.Itoa(len(m.Steps)), m.Description}
	}
	if err := renderTable([]string{"ID", "Steps", "Description"}, data, app.env.Stdout); err != nil {
		return fmt.Errorf("failed rendering migrations: %w", err)
	}
	return nil
}
