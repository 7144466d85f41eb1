// ABOUTME: Admin CLI for the coven-control agent action control plane.
// ABOUTME: Browses the tool catalog, checks capabilities, and drives pending actions.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/coven-control/internal/actions"
	"github.com/2389/coven-control/internal/capability"
	"github.com/2389/coven-control/internal/config"
	"github.com/2389/coven-control/internal/executors"
	"github.com/2389/coven-control/internal/store"
	"github.com/2389/coven-control/internal/tools"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                                                    _             _
  ___ _____   _____ _ __         ___ ___  _ __  ___| |_ _ __ ___ | |
 / __/ _ \ \ / / _ \ '_ \ _____ / __/ _ \| '_ \/ __| __| '__/ _ \| |
| (_| (_) \ V /  __/ | | |_____| (_| (_) | | | \__ \ |_| | | (_) | |
 \___\___/ \_/ \___|_| |_|      \___\___/|_| |_|___/\__|_|  \___/|_|
`

// getConfigPath returns the path to the control config file.
// Priority: COVEN_CONTROL_CONFIG env var > CLI defaults file >
// XDG_CONFIG_HOME/coven/control.yaml > ~/.config/coven/control.yaml
func getConfigPath(defaults *cliDefaults) string {
	if envPath := os.Getenv("COVEN_CONTROL_CONFIG"); envPath != "" {
		return envPath
	}
	if defaults != nil && defaults.ConfigPath != "" {
		return defaults.ConfigPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "control.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "coven", "control.yaml")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "tools":
		err = cmdTools(args)
	case "search":
		err = cmdSearch(args)
	case "categories":
		err = cmdCategories()
	case "check":
		err = cmdCheck(args)
	case "actions":
		err = cmdActions()
	case "audit":
		err = cmdAudit(args)
	case "version":
		fmt.Println("coven-control", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: coven-control <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  tools [category]        List registered tools, optionally by category")
	fmt.Println("  search <query...>       Search tools by relevance")
	fmt.Println("  categories              Show tool categories with counts and keywords")
	fmt.Println("  check <capability...>   Check capability availability")
	fmt.Println("  actions                 Interactive pending-action session")
	fmt.Println("  audit [limit]           Show executed control-plane changes")
	fmt.Println("  version                 Print version")
	fmt.Println()
	fmt.Println("Config: COVEN_CONTROL_CONFIG or ~/.config/coven/control.yaml")
	fmt.Println("CLI defaults: ~/.config/coven/control-cli.toml")
}

// env bundles everything the subcommands need.
type env struct {
	cfg      *config.Config
	registry *tools.Registry
	gate     *capability.Gate
	actions  *actions.Store
	store    *store.SQLiteStore
}

// openEnv loads configuration, opens the settings store, seeds the tool
// registry, and wires the executor pack into a fresh action store.
func openEnv() (*env, error) {
	defaults := loadCLIDefaults()

	cfg, err := config.Load(getConfigPath(defaults))
	if err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(logger)
	if cfg.Catalog.Path != "" {
		cat, err := tools.LoadCatalogFile(cfg.Catalog.Path)
		if err != nil {
			st.Close()
			return nil, err
		}
		n := registry.RegisterCatalog(cat)
		logger.Debug("seeded tool catalog", "path", cfg.Catalog.Path, "tools", n)
	}

	gate := capability.NewGate(&secretChecker{store: st}, cfg.Capabilities.CacheTTL, logger)

	as := actions.NewStore(cfg.Actions.TTL, cfg.Actions.SweepInterval, logger)
	executors.New(st, logger).RegisterAll(as)

	return &env{cfg: cfg, registry: registry, gate: gate, actions: as, store: st}, nil
}

func (e *env) close() {
	e.actions.Close()
	e.store.Close()
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func cmdTools(args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	var list []*tools.Metadata
	if len(args) > 0 {
		list = e.registry.GetToolsByCategory(tools.Category(args[0]))
	} else {
		for _, info := range e.registry.GetAllCategories() {
			list = append(list, e.registry.GetToolsByCategory(info.Name)...)
		}
	}

	if len(list) == 0 {
		fmt.Println("No tools registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tKEYWORDS\tDESCRIPTION")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.Category, strings.Join(m.Keywords, ","), m.Description)
	}
	return w.Flush()
}

func cmdSearch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <query...>")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	results := e.registry.SearchTools(strings.Join(args, " "))
	if len(results) == 0 {
		fmt.Println("No matching tools.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tNAME\tMATCHED\tDESCRIPTION")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Score, r.Tool.Name, strings.Join(r.MatchedKeywords, ","), r.Tool.Description)
	}
	return w.Flush()
}

func cmdCategories() error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	infos := e.registry.GetAllCategories()
	if len(infos) == 0 {
		fmt.Println("No tools registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTOOLS\tKEYWORDS\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.Name, info.ToolCount, strings.Join(info.Keywords, ","), info.Description)
	}
	return w.Flush()
}

func cmdCheck(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: check <capability...>")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	statuses := e.gate.Statuses(context.Background(), args)
	for _, s := range statuses {
		if s.Available {
			color.Green("  %-30s %-8s available", s.Name, s.Type)
		} else {
			color.Red("  %-30s %-8s unavailable", s.Name, s.Type)
		}
	}

	if e.gate.AllAvailable(context.Background(), args) {
		color.Green("\nAll %d capabilities available.", len(args))
	} else {
		color.Yellow("\nSome capabilities are unavailable.")
	}
	return nil
}

func cmdAudit(args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	limit := 0
	if len(args) > 0 {
		if _, err := fmt.Sscanf(args[0], "%d", &limit); err != nil {
			return fmt.Errorf("invalid limit %q", args[0])
		}
	}

	entries, err := e.store.ListAudit(context.Background(), nil, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Audit log is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tOUTCOME\tTYPE\tOPERATION\tTARGET\tACTION ID")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Outcome,
			entry.ActionType,
			entry.Operation,
			entry.Target,
			entry.ActionID,
		)
	}
	return w.Flush()
}
