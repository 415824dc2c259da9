// Package cli is the command line front-end of the migrator.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/northway/migrator/catalog"
	"github.com/northway/migrator/config"
	"github.com/northway/migrator/database"
	"github.com/northway/migrator/logger"
	"github.com/northway/migrator/migration"
	"github.com/northway/migrator/types"
)

// Process exit codes
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitUnresolved = 3
)

// CLI is the command line interface of the migrator.
type CLI struct {
	Apply    Apply    `kong:"cmd,help='Apply one migration by id.'"`
	ApplyAll ApplyAll `kong:"cmd,name='apply-all',help='Apply every migration in declared order.'"`
	Inspect  Inspect  `kong:"cmd,help='Print the columns of a table.'"`
	List     List     `kong:"cmd,help='List the available migrations.'"`

	URL          string `kong:"name='url',placeholder='URL',help='Database URL. Falls back to DATABASE_URL and .env files.'"`
	File         string `kong:"name='file',short='f',type='existingfile',help='Load migrations from a YAML file instead of the built-in catalog.'"`
	SQLiteDriver string `name:"sqlite-driver" enum:"mattn,modernc" default:"mattn" help:"SQLite driver (${enum})."`
	PGDriver     string `name:"pg-driver" enum:"pq,pgx" default:"pq" help:"PostgreSQL driver (${enum})."`
	LogLevel     string `name:"log-level" enum:"debug,info,warn,error,none" default:"warn" help:"Set the logging level (${enum})."`

	Version kong.VersionFlag `kong:"help='Output version and exit.'"`
}

// Env carries the process surroundings of one CLI invocation
type Env struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  logger.Logger
	WorkDir string // where .env lookup starts
	Version string
}

func (e *Env) setDefaults() {
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.Logger == nil {
		l := logger.NewDefaultLogger("migrator")
		l.SetOutput(e.Stderr)
		e.Logger = l
	}
	if e.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			e.WorkDir = wd
		}
	}
	if e.Version == "" {
		e.Version = "dev"
	}
}

// exitError carries a process exit code through kong's Run
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

// Run parses args, executes the selected command and returns the exit code.
// Cancelling ctx interrupts a running migration after its in-flight Step.
func Run(ctx context.Context, args []string, env Env) int {
	env.setDefaults()

	c := &CLI{}
	exitCode := -1
	parser, err := kong.New(c,
		kong.Name("migrator"),
		kong.Description("Idempotent, forward-only schema migrations for SQLite and PostgreSQL.\n\n"+
			"Environment:\n"+strings.TrimRight(config.EnvHelp(), "\n")),
		kong.Writers(env.Stdout, env.Stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{"version": env.Version},
	)
	if err != nil {
		fmt.Fprintf(env.Stderr, "migrator: failed creating the Kong parser: %v\n", err)
		return ExitUsage
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// --help or --version
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		return ExitUsage
	}

	env.Logger.SetLevel(logger.ParseLogLevel(c.LogLevel))
	logger.SetGlobalLogger(env.Logger)

	app := &appContext{ctx: ctx, cli: c, env: env}
	if err := kctx.Run(app); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				parser.Errorf("%s", ee.err)
			}
			return ee.code
		}
		parser.Errorf("%s", err)
		return ExitFailure
	}
	return ExitOK
}

// appContext is what every command receives from Run
type appContext struct {
	ctx context.Context
	cli *CLI
	env Env
}

func (a *appContext) logger() logger.Logger { return a.env.Logger }

// resolveURL picks the database URL. A positional URL beats --url.
func (a *appContext) resolveURL(positional string) (string, error) {
	arg := positional
	if arg == "" {
		arg = a.cli.URL
	}
	url, source, err := config.Resolve(arg, a.env.WorkDir)
	if err != nil {
		return "", &exitError{code: ExitUnresolved, err: err}
	}
	a.logger().Debug("Using database URL from %s", source)
	return url, nil
}

// connectOptions maps the driver flags onto the backend the URL targets.
// An unrecognized URL gets the defaults and fails later at connect time.
func (a *appContext) connectOptions(url string) types.ConnectOptions {
	driverType, err := database.DriverTypeOf(url)
	if err != nil {
		return types.ConnectOptions{}
	}
	switch driverType {
	case types.DriverSQLite:
		return types.ConnectOptions{SQLDriver: a.cli.SQLiteDriver}
	case types.DriverPostgreSQL:
		return types.ConnectOptions{SQLDriver: a.cli.PGDriver}
	default:
		return types.ConnectOptions{}
	}
}

// migrations returns the migrations from --file, or the built-in catalog
func (a *appContext) migrations() ([]*migration.Migration, error) {
	if a.cli.File == "" {
		return catalog.All(), nil
	}
	migrations, err := migration.LoadFile(a.cli.File)
	if err != nil {
		return nil, &exitError{code: ExitUsage, err: err}
	}
	return migrations, nil
}

func (a *appContext) runner(url string) *migration.Runner {
	return migration.NewRunner(url, a.connectOptions(url), a.logger())
}
