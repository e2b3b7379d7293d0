// Command nameofperson formats person names and manages a small people store.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"nameofperson/internal/config"
)

// errUsage marks errors caused by bad arguments; they exit with status 2
var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

const usageText = `Usage: nameofperson [-config path] [-db path] [-v] <command> [arguments]

Commands:
  format [-json] <name>            show every format of a name
  possessive [-as format] <name>   possessive form (full, first, last, abbreviated, sorted, initials)
  add [-email addr] <name>         store a person
  list                             list stored people
  show <id>                        show one person as JSON
  rename <id> <name>               replace a person's name
  rm <id>                          delete a person
  mention <handle>                 find people by @handle
  export [-format json|yaml]       write all people to stdout
  import [-format json|yaml] <file> read people from a file ("-" for stdin)
  config                           show the effective configuration
  init [-force] [path]             write a default config file
  serve [-addr host:port]          run the HTTP API
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nameofperson", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }

	configPath := fs.String("config", "", "config file path (default: search standard locations)")
	dbPath := fs.String("db", "", "SQLite database path (overrides config)")
	verbose := fs.Bool("v", false, "print change events to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	a := &app{
		cfg:        cfg,
		configPath: *configPath,
		verbose:    *verbose,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
	}

	cmdName, cmdArgs := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		fs.Usage()
		return 2
	}

	if err := cmd(a, cmdArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", strings.TrimPrefix(err.Error(), errUsage.Error()+": "))
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, _, err = config.LoadFromPath(path)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
