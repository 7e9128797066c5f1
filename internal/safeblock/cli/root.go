package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/haukened/safe-block/internal/safeblock/common/log"
	"github.com/haukened/safe-block/internal/safeblock/config"
)

const appName = "safeblock"

type command struct {
	name        string
	usage       string
	description string
	configure   func(fs *flag.FlagSet)
	run         func(fs *flag.FlagSet, args []string, app *Application, s *streams) error
	skipInit    bool
}

// streams bundles the process I/O a command may touch.
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// RootCommand parses global flags and dispatches to a subcommand.
type RootCommand struct {
	commands map[string]command
	std      streams
	logLevel string

	// seams for tests
	loadConfig func() (*config.AppConfig, error)
	buildApp   func(cfg *config.AppConfig, logger log.Logger) (*Application, error)
}

// NewRootCommand constructs the dispatcher with every subcommand registered.
func NewRootCommand() *RootCommand {
	rc := &RootCommand{
		commands:   make(map[string]command),
		std:        streams{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr},
		loadConfig: config.Load,
		buildApp:   Build,
	}
	rc.register(newStatusCommand())
	rc.register(newSetupCommand())
	rc.register(newAddCommand())
	rc.register(newRemoveCommand())
	rc.register(newCheckCommand())
	rc.register(newRulesCommand())
	rc.register(newResetCommand())
	rc.register(newVersionCommand())
	return rc
}

// SetIO replaces the process streams, mainly for tests.
func (rc *RootCommand) SetIO(stdin io.Reader, stdout, stderr io.Writer) {
	rc.std = streams{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (rc *RootCommand) register(cmd command) {
	rc.commands[cmd.name] = cmd
}

// ErrUnknownCommand is returned for a subcommand name that is not registered.
var ErrUnknownCommand = errors.New("unknown command")

// Execute evaluates args (without the program name) and runs the selected
// subcommand.
func (rc *RootCommand) Execute(args []string) error {
	rootFlags := flag.NewFlagSet(appName, flag.ContinueOnError)
	rootFlags.SetOutput(rc.std.stderr)
	rootFlags.Usage = func() { rc.printHelp() }
	rootFlags.StringVar(&rc.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	if err := rootFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	remaining := rootFlags.Args()
	if len(remaining) == 0 {
		rc.printHelp()
		return nil
	}

	sub, ok := rc.commands[remaining[0]]
	if !ok {
		fmt.Fprintf(rc.std.stderr, "Unknown command %q\n\n", remaining[0])
		rc.printHelp()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, remaining[0])
	}

	fs := flag.NewFlagSet(sub.name, flag.ContinueOnError)
	fs.SetOutput(rc.std.stderr)
	fs.Usage = func() {
		fmt.Fprintf(rc.std.stdout, "Usage: %s %s %s\n", appName, sub.name, sub.usage)
		fmt.Fprintln(rc.std.stdout, sub.description)
		fs.PrintDefaults()
	}
	if sub.configure != nil {
		sub.configure(fs)
	}
	if err := fs.Parse(remaining[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var app *Application
	if !sub.skipInit {
		var err error
		if app, err = rc.initApp(); err != nil {
			return err
		}
		defer func() {
			if cerr := app.Close(); cerr != nil {
				log.Warn(map[string]any{"error": cerr.Error()}, "close_failed")
			}
		}()
	}

	return sub.run(fs, fs.Args(), app, &rc.std)
}

func (rc *RootCommand) initApp() (*Application, error) {
	cfg, err := rc.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if rc.logLevel != "" {
		cfg.LogLevel = rc.logLevel
	}
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("logging configuration error: %w", err)
	}
	return rc.buildApp(cfg, log.GetLogger())
}

func (rc *RootCommand) printHelp() {
	fmt.Fprintf(rc.std.stdout, "%s - blocklist settings and enforcement\nVersion: %s\n\n", appName, versionString())
	fmt.Fprintf(rc.std.stdout, "Usage: %s [global flags] <command> [command flags]\n", appName)
	fmt.Fprintln(rc.std.stdout, "Global flags:")
	fmt.Fprintln(rc.std.stdout, "  -log-level string   Override log level (debug, info, warn, error)")
	fmt.Fprintln(rc.std.stdout, "")
	fmt.Fprintln(rc.std.stdout, "Available commands:")

	names := make([]string, 0, len(rc.commands))
	for name := range rc.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(rc.std.stdout, "  %-8s %s\n", name, rc.commands[name].description)
	}
}
