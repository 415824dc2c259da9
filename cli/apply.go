package cli

import (
	"strings"

	"github.com/northway/migrator/migration"
)

// The Apply command applies a single migration.
type Apply struct {
	ID  string `arg:"" name:"migration-id" help:"Id of the migration to apply."`
	URL string `arg:"" optional:"" name:"url" help:"Database URL."`
}

// Run the apply command.
func (c *Apply) Run(app *appContext) error {
	migrations, err := app.migrations()
	if err != nil {
		return err
	}

	var selected *migration.Migration
	ids := make([]string, 0, len(migrations))
	for _, m := range migrations {
		ids = append(ids, m.ID)
		if m.ID == c.ID {
			selected = m
		}
	}
	if selected == nil {
		return usageErrorf("unknown migration %q, expected one of: %s", c.ID, strings.Join(ids, ", "))
	}

	url, err := app.resolveURL(c.URL)
	if err != nil {
		return err
	}

	report := app.runner(url).Apply(app.ctx, selected)
	return app.finish([]*migration.Report{report})
}

// The ApplyAll command applies every migration in declared order.
type ApplyAll struct {
	URL string `arg:"" optional:"" name:"url" help:"Database URL."`
}

// Run the apply-all command.
func (c *ApplyAll) Run(app *appContext) error {
	migrations, err := app.migrations()
	if err != nil {
		return err
	}
	url, err := app.resolveURL(c.URL)
	if err != nil {
		return err
	}

	reports := app.runner(url).ApplyAll(app.ctx, migrations)
	if n := len(migrations) - len(reports); n > 0 {
		app.logger().Warn("%d migrations were not started", n)
	}
	return app.finish(reports)
}

// finish prints the transcript and maps the reports onto an exit code.
// An interrupted run is never a success.
func (a *appContext) finish(reports []*migration.Report) error {
	interrupted := false
	for _, r := range reports {
		writeTranscript(a.env.Stdout, r)
		a.logger().Info("%s: %s (%s)", r.MigrationID, r.Summary(), r.Elapsed)
		if r.Interrupted {
			interrupted = true
		}
	}

	switch {
	case interrupted:
		a.logger().Warn("Interrupted, remaining steps were not run")
		return &exitError{code: ExitFailure}
	case migration.AnyFailed(reports):
		return &exitError{code: ExitFailure}
	default:
		return nil
	}
}
