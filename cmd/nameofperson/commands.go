package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"nameofperson/internal/codec"
	"nameofperson/internal/config"
	"nameofperson/internal/domain"
	"nameofperson/internal/repository/sqlite"
	"nameofperson/internal/service"
)

type app struct {
	cfg        *config.Config
	configPath string
	verbose    bool
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

type command func(a *app, args []string) error

var commands = map[string]command{
	"format":     cmdFormat,
	"possessive": cmdPossessive,
	"add":        cmdAdd,
	"list":       cmdList,
	"show":       cmdShow,
	"rename":     cmdRename,
	"rm":         cmdRemove,
	"mention":    cmdMention,
	"export":     cmdExport,
	"import":     cmdImport,
	"config":     cmdConfig,
	"init":       cmdInit,
	"serve":      cmdServe,
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse parses subcommand flags and checks the positional argument count
func parse(fs *flag.FlagSet, args []string, want int, usage string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, usageError("%s: %v", fs.Name(), err)
	}
	if fs.NArg() != want {
		return nil, usageError("usage: nameofperson %s %s", fs.Name(), usage)
	}
	return fs.Args(), nil
}

// withService opens the configured database for the duration of fn
func (a *app) withService(fn func(ctx context.Context, svc *service.PeopleService) error) error {
	caster, err := a.cfg.NameCast()
	if err != nil {
		return err
	}

	repo, err := sqlite.New(a.cfg.Database.Path, caster)
	if err != nil {
		return err
	}
	defer repo.Close()

	var bus *service.EventBus
	events := make(chan service.Event, 64)
	if a.verbose {
		bus = service.NewEventBus()
		bus.Subscribe(events)
	}

	err = fn(context.Background(), service.NewPeopleService(repo, bus))
	a.drainEvents(events)
	return err
}

// drainEvents prints the events buffered while a command ran
func (a *app) drainEvents(events <-chan service.Event) {
	for {
		select {
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(a.stderr, "event: %s\n", data)
		default:
			return
		}
	}
}

func parseName(full string) (*domain.PersonName, error) {
	name, err := domain.FromFull(full)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return nil, usageError("name is required")
	}
	return name, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printPeople(people []domain.Person) error {
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMENTION\tEMAIL")
	for _, p := range people {
		name, mention := "-", "-"
		if p.Name != nil {
			name, mention = p.Name.Sorted(), "@"+p.Name.Mentionable()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, name, mention, p.Email)
	}
	return w.Flush()
}

func cmdFormat(a *app, args []string) error {
	fs := a.flags("format")
	asJSON := fs.Bool("json", false, "print as JSON")
	rest, err := parse(fs, args, 1, "[-json] <name>")
	if err != nil {
		return err
	}

	name, err := parseName(rest[0])
	if err != nil {
		return err
	}
	report := service.Formats(name)
	if *asJSON {
		return a.printJSON(report)
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"first", report.First},
		{"last", report.Last},
		{"full", report.Full},
		{"sorted", report.Sorted},
		{"abbreviated", report.Abbreviated},
		{"familiar", report.Familiar},
		{"initials", report.Initials},
		{"mentionable", report.Mentionable},
		{"possessive", report.Possessive},
	} {
		fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
	}
	return w.Flush()
}

func cmdPossessive(a *app, args []string) error {
	fs := a.flags("possessive")
	as := fs.String("as", string(domain.FormatFull), "name format")
	rest, err := parse(fs, args, 1, "[-as format] <name>")
	if err != nil {
		return err
	}

	format, err := domain.ParseNameFormat(*as)
	if err != nil {
		return usageError("%v", err)
	}
	name, err := parseName(rest[0])
	if err != nil {
		return err
	}

	out, err := name.Possessive(format)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, out)
	return nil
}

func cmdAdd(a *app, args []string) error {
	fs := a.flags("add")
	email := fs.String("email", "", "email address")
	rest, err := parse(fs, args, 1, "[-email addr] <name>")
	if err != nil {
		return err
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		person, err := svc.Add(ctx, rest[0], *email)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, person.ID)
		return nil
	})
}

func cmdList(a *app, args []string) error {
	if _, err := parse(a.flags("list"), args, 0, ""); err != nil {
		return err
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		people, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return a.printPeople(people)
	})
}

func cmdShow(a *app, args []string) error {
	rest, err := parse(a.flags("show"), args, 1, "<id>")
	if err != nil {
		return err
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		person, err := svc.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.printJSON(person)
	})
}

func cmdRename(a *app, args []string) error {
	rest, err := parse(a.flags("rename"), args, 2, "<id> <name>")
	if err != nil {
		return err
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		person, err := svc.Rename(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, person.Name.Full())
		return nil
	})
}

func cmdRemove(a *app, args []string) error {
	rest, err := parse(a.flags("rm"), args, 1, "<id>")
	if err != nil {
		return err
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		return svc.Remove(ctx, rest[0])
	})
}

func cmdMention(a *app, args []string) error {
	rest, err := parse(a.flags("mention"), args, 1, "<handle>")
	if err != nil {
		return err
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		people, err := svc.FindByMention(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.printPeople(people)
	})
}

func cmdExport(a *app, args []string) error {
	fs := a.flags("export")
	format := fs.String("format", a.cfg.Export.Format, "output format (json, yaml)")
	if _, err := parse(fs, args, 0, "[-format json|yaml]"); err != nil {
		return err
	}

	c, err := codec.ForFormat(*format)
	if err != nil {
		return usageError("%v", err)
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		return svc.Export(ctx, c, a.stdout)
	})
}

func cmdImport(a *app, args []string) error {
	fs := a.flags("import")
	format := fs.String("format", a.cfg.Export.Format, "input format (json, yaml)")
	rest, err := parse(fs, args, 1, "[-format json|yaml] <file>")
	if err != nil {
		return err
	}

	c, err := codec.ForFormat(*format)
	if err != nil {
		return usageError("%v", err)
	}

	in := a.stdin
	if rest[0] != "-" {
		f, err := os.Open(rest[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		in = f
	}

	return a.withService(func(ctx context.Context, svc *service.PeopleService) error {
		result, err := svc.Import(ctx, c, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "imported %d, skipped %d\n", result.Imported, result.Skipped)
		return nil
	})
}

func cmdConfig(a *app, args []string) error {
	if _, err := parse(a.flags("config"), args, 0, ""); err != nil {
		return err
	}

	path := a.configPath
	if path == "" {
		path = config.FindConfigPath()
	}
	if path == "" {
		path = "(none, using defaults)"
	}
	fmt.Fprintf(a.stdout, "Config file: %s\n%s\n", path, a.cfg.Summary())
	return nil
}

func cmdInit(a *app, args []string) error {
	fs := a.flags("init")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError("init: %v", err)
	}
	if fs.NArg() > 1 {
		return usageError("usage: nameofperson init [-force] [path]")
	}

	path := config.DefaultConfigPath()
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("config file %s already exists (use -force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)
	return nil
}
