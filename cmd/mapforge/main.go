// Package main is the entry point for the mapforge settings tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mapforge/mapforge/internal/app"
	"github.com/mapforge/mapforge/internal/plugin"
	"github.com/mapforge/mapforge/internal/prefs"
	"github.com/mapforge/mapforge/internal/prefs/registry"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		userDir    string
		projectDir string
		dataDir    string
		logLevel   string
		showVer    bool
	)

	flag.StringVar(&userDir, "user-dir", "", "Override the user settings directory")
	flag.StringVar(&projectDir, "project", "", "Project directory with a config.toml")
	flag.StringVar(&projectDir, "p", "", "Project directory (shorthand)")
	flag.StringVar(&dataDir, "data-dir", "", "Override the application data directory")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVer, "version", false, "Show version information")
	flag.BoolVar(&showVer, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mapforge - map editor settings tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mapforge [options] <command>\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  config get <path>         Print a setting\n")
		fmt.Fprintf(os.Stderr, "  config set <path> <value> Change a setting\n")
		fmt.Fprintf(os.Stderr, "  config unset <path>       Remove a setting override\n")
		fmt.Fprintf(os.Stderr, "  config list               Print all effective settings\n")
		fmt.Fprintf(os.Stderr, "  session show              Print the current session\n")
		fmt.Fprintf(os.Stderr, "  plugins list              List discovered plugins\n")
		fmt.Fprintf(os.Stderr, "  plugins enable <name>     Enable a plugin\n")
		fmt.Fprintf(os.Stderr, "  plugins disable <name>    Disable a plugin\n")
		fmt.Fprintf(os.Stderr, "  objecttypes list          List object types\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVer {
		fmt.Printf("mapforge %s (%s)\n", version, commit)
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return 2
	}

	logger := app.NewLogger(app.DefaultLoggerConfig())
	if logLevel != "" {
		logger.SetLevel(app.ParseLogLevel(logLevel))
	}

	application := app.New(app.Config{
		UserDir:    userDir,
		ProjectDir: projectDir,
		DataDir:    dataDir,
		Logger:     logger,
		// One-shot invocations have no use for live reload.
		DisableWatchers: true,
	})

	ctx := context.Background()
	if err := application.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Close()

	if err := dispatch(ctx, application, args); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

var errUsage = errors.New("usage")

func dispatch(ctx context.Context, application *app.App, args []string) error {
	switch args[0] {
	case "config":
		return runConfig(application.Prefs(), args[1:])
	case "session":
		return runSession(application.Prefs(), args[1:])
	case "plugins":
		return runPlugins(application.Plugins(), args[1:])
	case "objecttypes":
		return runObjectTypes(application, args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func runConfig(p *prefs.Prefs, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		value, ok := p.Get(args[1])
		if !ok {
			return fmt.Errorf("no setting %q", args[1])
		}
		fmt.Println(formatValue(value))
		return nil

	case "set":
		if len(args) != 3 {
			return errUsage
		}
		return p.Set(args[1], parseValue(p, args[1], args[2]))

	case "unset":
		if len(args) != 2 {
			return errUsage
		}
		return p.Remove(args[1])

	case "list":
		printSettings(p.Merged(), "")
		return nil

	default:
		return fmt.Errorf("%w: unknown config command %q", errUsage, args[0])
	}
}

func runSession(p *prefs.Prefs, args []string) error {
	if len(args) != 1 || args[0] != "show" {
		return errUsage
	}

	s := p.Session()
	fmt.Printf("session: %s\n", s.FileName())
	if active := s.ActiveFile(); active != "" {
		fmt.Printf("active: %s\n", active)
	}
	for _, f := range s.OpenFiles() {
		fmt.Printf("open: %s\n", f)
	}
	for _, f := range s.RecentFiles() {
		fmt.Printf("recent: %s\n", f)
	}
	return nil
}

func runPlugins(m *plugin.Manager, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "list":
		for _, pl := range m.Plugins() {
			if pl.Err != nil {
				fmt.Printf("%-30s broken: %v\n", "?", pl.Err)
				continue
			}
			name := pl.Manifest.Name
			fmt.Printf("%-30s %-8s %s\n", name, m.State(name), pl.Manifest.Version)
		}
		return nil

	case "enable", "disable":
		if len(args) != 2 {
			return errUsage
		}
		return m.SetEnabled(args[1], args[0] == "enable")

	default:
		return fmt.Errorf("%w: unknown plugins command %q", errUsage, args[0])
	}
}

func runObjectTypes(application *app.App, args []string) error {
	if len(args) != 1 || args[0] != "list" {
		return errUsage
	}

	store := application.ObjectTypes()
	if store == nil {
		return fmt.Errorf("object types unavailable")
	}
	for _, t := range store.Types() {
		fmt.Printf("%-30s %s\n", t.Name, t.Color)
	}
	return nil
}

// parseValue converts a command line string to the setting's value
// type. Unregistered settings stay strings unless they parse as a
// bool or number.
func parseValue(p *prefs.Prefs, path, raw string) any {
	if setting := p.Registry().Get(path); setting != nil {
		switch setting.Type {
		case registry.TypeBool:
			v, err := strconv.ParseBool(raw)
			if err == nil {
				return v
			}
		case registry.TypeInt:
			v, err := strconv.Atoi(raw)
			if err == nil {
				return v
			}
		case registry.TypeFloat:
			v, err := strconv.ParseFloat(raw, 64)
			if err == nil {
				return v
			}
		case registry.TypeStringList:
			if raw == "" {
				return []string{}
			}
			return strings.Split(raw, ",")
		}
		return raw
	}

	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(v)
	}
}

func printSettings(data map[string]any, prefix string) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := data[k].(map[string]any); ok {
			printSettings(nested, path)
			continue
		}
		fmt.Printf("%s = %s\n", path, formatValue(data[k]))
	}
}
