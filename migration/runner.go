package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/northway/migrator/database"
	"github.com/northway/migrator/logger"
	"github.com/northway/migrator/types"
)

// Runner applies migrations to one database. It opens a fresh connection for
// every Apply or ApplyAll call and closes it before returning.
type Runner struct {
	uri    string
	opts   types.ConnectOptions
	logger logger.Logger
}

// NewRunner creates a runner for the database at uri
func NewRunner(uri string, opts types.ConnectOptions, l logger.Logger) *Runner {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Runner{uri: uri, opts: opts, logger: l}
}

// Apply connects, applies one migration and disconnects. A connection failure
// yields a report holding a single synthetic ConnectError result.
func (r *Runner) Apply(ctx context.Context, m *Migration) *Report {
	reports := r.ApplyAll(ctx, []*Migration{m})
	return reports[0]
}

// ApplyAll applies migrations in order over one connection. Every migration
// is attempted even if an earlier one failed; an interrupt stops the run and
// later migrations get no report. If the connection cannot be opened, a
// single report attributed to the first migration carries the ConnectError.
func (r *Runner) ApplyAll(ctx context.Context, migrations []*Migration) []*Report {
	if len(migrations) == 0 {
		return nil
	}

	if ctx.Err() != nil {
		// interrupted before connecting: every Step of the first migration is skipped
		return []*Report{newSession(nil, r.logger).run(ctx, migrations[0])}
	}

	start := time.Now()
	db, err := database.Open(ctx, r.uri, r.opts)
	if err != nil {
		r.logger.Error("Failed to connect: %v", err)
		return []*Report{connectFailure(migrations[0].ID, err, time.Since(start))}
	}
	defer func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("Failed to close connection: %v", err)
		}
	}()

	s := newSession(db, r.logger)
	var reports []*Report
	for _, m := range migrations {
		report := s.run(ctx, m)
		reports = append(reports, report)
		if report.Interrupted {
			break
		}
	}
	return reports
}

// Execute applies a migration over an already connected database. The caller
// keeps ownership of db.
func (r *Runner) Execute(ctx context.Context, db types.Database, m *Migration) *Report {
	return newSession(db, r.logger).run(ctx, m)
}

func connectFailure(migrationID string, err error, elapsed time.Duration) *Report {
	return &Report{
		MigrationID: migrationID,
		Elapsed:     elapsed,
		Results: []StepResult{{
			Index:     -1,
			Kind:      KindConnect,
			Target:    "database",
			Status:    StatusFailed,
			Message:   err.Error(),
			ErrorKind: types.KindConnectError,
			Elapsed:   elapsed,
		}},
	}
}

type columnKey struct {
	table  string
	column string
}

// session is one Runner invocation over one connection
type session struct {
	db     types.Database
	logger logger.Logger
	// columns created by Steps of this session
	added map[columnKey]bool
}

func newSession(db types.Database, l logger.Logger) *session {
	return &session{db: db, logger: l, added: make(map[columnKey]bool)}
}

func (s *session) run(ctx context.Context, m *Migration) *Report {
	start := time.Now()
	report := &Report{MigrationID: m.ID}
	s.logger.Info("Applying migration %s (%d steps)", m.ID, len(m.Steps))

	stopped := false
	for i, step := range m.Steps {
		if ctx.Err() != nil {
			report.Interrupted = true
		}
		if report.Interrupted || stopped {
			reason := "not run: an earlier step failed"
			if report.Interrupted {
				reason = "not run: interrupted"
			}
			report.Results = append(report.Results, StepResult{
				Index:   i,
				Kind:    step.Kind(),
				Target:  step.Target(),
				Status:  StatusSkipped,
				Message: reason,
			})
			continue
		}

		res := s.runStep(ctx, i, step)
		report.Results = append(report.Results, res)
		if ctx.Err() != nil {
			report.Interrupted = true
			continue
		}

		if res.Status == StatusFailed && !step.ContinueOnError() {
			s.logger.Warn("Stopping migration %s after failed step %d", m.ID, i+1)
			stopped = true
		}
	}

	report.Elapsed = time.Since(start)
	s.logger.Info("Migration %s finished: %s", m.ID, report.Summary())
	return report
}

func (s *session) runStep(ctx context.Context, index int, step Step) StepResult {
	start := time.Now()
	res := StepResult{Index: index, Kind: step.Kind(), Target: step.Target()}

	o := s.applyStep(ctx, step)
	if o.status == StatusFailed && ctx.Err() != nil {
		// the failure is the cancellation itself; the transaction is gone
		o = outcome{status: StatusSkipped, message: "interrupted: rolled back"}
	}
	res.Status = o.status
	res.Message = o.message
	if o.err != nil {
		res.ErrorKind = o.err.Kind
		res.Statement = o.err.Statement
	}
	res.Elapsed = time.Since(start)

	switch res.Status {
	case StatusFailed:
		s.logger.Error("%s %s failed: %s", res.Kind, res.Target, res.Message)
		if res.Statement != "" {
			s.logger.Error("Statement: %s", res.Statement)
		}
	default:
		s.logger.Debug("%s %s: %s (%s)", res.Kind, res.Target, res.Status, res.Elapsed)
	}
	return res
}

// applyStep runs one Step inside its own transaction
func (s *session) applyStep(ctx context.Context, step Step) outcome {
	if err := step.Validate(); err != nil {
		return outcome{status: StatusFailed, message: err.Error(),
			err: types.NewSQLError(types.KindMalformed, "%v", err)}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		sqlErr := s.db.ClassifyError(err, "")
		return outcome{status: StatusFailed, message: sqlErr.Error(), err: sqlErr}
	}
	// no-op once committed
	defer tx.Rollback()

	sc := &stepContext{
		tx:       tx,
		db:       s.db,
		caps:     s.db.GetCapabilities(),
		migrator: s.db.GetMigrator(),
		session:  s,
	}
	o := step.apply(ctx, sc)

	if o.status == StatusFailed || o.rollback {
		if err := tx.Rollback(); err != nil {
			s.logger.Warn("Rollback failed: %v", err)
		}
		// a rolled-back step must not leave marks for later Backfills
		sc.forgetAdded()
		return o
	}

	if err := tx.Commit(); err != nil {
		sc.forgetAdded()
		sqlErr := s.db.ClassifyError(err, "COMMIT")
		return outcome{status: StatusFailed, message: sqlErr.Error(), err: sqlErr}
	}
	return o
}

// outcome is what a Step reports back to the runner
type outcome struct {
	status  Status
	message string
	err     *types.SQLError
	// rollback discards the transaction even though the Step succeeded,
	// used when the backend has already aborted it
	rollback bool
}

// stepContext is what a Step sees while it runs
type stepContext struct {
	tx       types.Transaction
	db       types.Database
	caps     types.DriverCapabilities
	migrator types.DatabaseMigrator
	session  *session
	marked   []columnKey
}

func (sc *stepContext) driverType() types.DriverType {
	return sc.caps.GetDriverType()
}

func (sc *stepContext) exec(ctx context.Context, stmt string) (sql.Result, *types.SQLError) {
	result, err := sc.tx.ExecContext(ctx, stmt)
	if err != nil {
		return nil, sc.db.ClassifyError(err, stmt)
	}
	return result, nil
}

func (sc *stepContext) failed(err error, stmt string) outcome {
	return sc.failedSQL(sc.db.ClassifyError(err, stmt))
}

func (sc *stepContext) failedSQL(sqlErr *types.SQLError) outcome {
	return outcome{status: StatusFailed, message: sqlErr.Error(), err: sqlErr}
}

func (sc *stepContext) failedKind(kind types.ErrorKind, stmt, message string) outcome {
	sqlErr := &types.SQLError{Kind: kind, Message: message, Statement: stmt}
	return outcome{status: StatusFailed, message: fmt.Sprintf("%s: %s", kind, message), err: sqlErr}
}

func (sc *stepContext) markAdded(table, column string) {
	key := columnKey{table, column}
	if !sc.session.added[key] {
		sc.session.added[key] = true
		sc.marked = append(sc.marked, key)
	}
}

func (sc *stepContext) forgetAdded() {
	for _, key := range sc.marked {
		delete(sc.session.added, key)
	}
	sc.marked = nil
}

func (sc *stepContext) wasAdded(table, column string) bool {
	return sc.session.added[columnKey{table, column}]
}
