package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"arthub-go/internal/app"
	"arthub-go/internal/arthub"
	"arthub-go/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var verbose bool

// newApp reads the config and creates an ArtHubApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Scan", "Lock").
func newApp(operation string) (*app.ArtHubApp, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewArtHubApp(cfg, operation, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readConfig loads the config from its default (or overridden) location.
func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// parseID converts a positional id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %q", arg)
	}
	return id, nil
}

// parseIDs converts a list of positional id arguments.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var rootCmd = &cobra.Command{
	Use:   "arthub",
	Short: "Game art asset manager",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		userName, _ := cmd.Flags().GetString("user")
		if userName == "" {
			if u, err := user.Current(); err == nil {
				userName = u.Username
			}
		}
		if userName == "" {
			return fmt.Errorf("cannot determine user name, pass --user")
		}

		machine, _ := cmd.Flags().GetString("machine")
		if machine == "" {
			machine, err = os.Hostname()
			if err != nil {
				return fmt.Errorf("cannot determine hostname, pass --machine: %w", err)
			}
		}

		sharedRoot, _ := cmd.Flags().GetString("shared-root")

		// Each client gets its own id, which also names its index database.
		clientID := uuid.New().String()

		cfg := config.NewConfig(userName, machine, clientID, defaults["base_dir"])
		cfg.SharedRoot = sharedRoot

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("User:      %s\n", userName)
		fmt.Printf("Machine:   %s\n", machine)
		fmt.Printf("Client ID: %s\n", clientID)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("User:        %s\n", cfg.User)
		fmt.Printf("Machine:     %s\n", cfg.Machine)
		fmt.Printf("Client ID:   %s\n", cfg.ClientID)
		fmt.Printf("Shared Root: %s\n", cfg.SharedRoot)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Index:       %s (%s)\n", cfg.Index.Type, cfg.Index.DataDir)
		fmt.Printf("Thumbnails:  %s (max width %d)\n", cfg.Thumbnails.Dir, cfg.ThumbWidth())
		return nil
	},
}

var configSetRootCmd = &cobra.Command{
	Use:   "set-root PATH",
	Short: "Point the client at a shared team root",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		clearRoot, _ := cmd.Flags().GetBool("clear")
		switch {
		case clearRoot:
			cfg.SharedRoot = ""
		case len(args) == 1:
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[0], err)
			}
			if _, err := os.Stat(root); err != nil {
				return fmt.Errorf("shared root not accessible: %w", err)
			}
			cfg.SharedRoot = root
		default:
			return fmt.Errorf("pass a path or --clear")
		}

		if err := config.Save(defaults["config_path"], cfg); err != nil {
			return err
		}

		if cfg.SharedRoot == "" {
			fmt.Println("Shared root cleared. Running solo.")
		} else {
			fmt.Printf("Shared root set to %s\n", cfg.SharedRoot)
		}
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the index database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		if err := app.MigrateIndex(cfg); err != nil {
			return err
		}
		fmt.Println("Index schema is up to date.")
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check schema migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		if err := app.IndexStatus(cfg); err != nil {
			fmt.Printf("Schema out of date: %v\n", err)
			fmt.Println("Run 'arthub db migrate'.")
			return nil
		}
		fmt.Println("Index schema is up to date.")
		return nil
	},
}

// folder command
var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage tracked folders",
}

var folderAddCmd = &cobra.Command{
	Use:   "add PATH",
	Short: "Track a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		space, _ := cmd.Flags().GetString("space")

		a, err := newApp("AddFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		folder, err := a.AddFolder(args[0], space)
		if err != nil {
			return fmt.Errorf("tracking folder: %w", err)
		}

		fmt.Printf("Tracking folder #%d: %s (%s)\n", folder.ID, folder.Path, folder.SpaceType)
		return nil
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		space, _ := cmd.Flags().GetString("space")

		a, err := newApp("ListFolders")
		if err != nil {
			return err
		}
		defer a.Close()

		folders, err := a.Folders(space)
		if err != nil {
			return err
		}

		if len(folders) == 0 {
			fmt.Println("No folders tracked.")
			return nil
		}

		for _, f := range folders {
			fmt.Printf("#%-4d %-8s %6d asset(s)  %s\n", f.ID, f.SpaceType, f.AssetCount, f.Path)
		}
		return nil
	},
}

var folderRemoveCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Stop tracking a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("RemoveFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveFolder(id); err != nil {
			return err
		}

		fmt.Printf("Removed folder #%d from the index. Files on disk are untouched.\n", id)
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan FOLDER_ID",
	Short: "Re-index a tracked folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("Scan")
		if err != nil {
			return err
		}
		defer a.Close()

		progress := make(chan arthub.ScanProgress, 64)
		done := make(chan struct{})
		go func() {
			defer close(done)
			renderProgress(progress)
		}()

		count, err := a.Scan(cmd.Context(), id, progress)
		close(progress)
		<-done
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		fmt.Printf("Indexed %d file(s)\n", count)
		return nil
	},
}

// renderProgress consumes scan progress events. On a terminal the current
// file is redrawn on one line; otherwise only the initial count prints.
func renderProgress(events <-chan arthub.ScanProgress) {
	fd := int(os.Stdout.Fd())
	tty := term.IsTerminal(fd)

	width := 80
	if tty {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	for p := range events {
		switch p.Phase {
		case arthub.PhaseScanning:
			fmt.Printf("Found %d file(s)\n", p.Total)
		case arthub.PhaseThumbnails:
			if !tty {
				continue
			}
			line := fmt.Sprintf("[%d/%d] %s", p.Current, p.Total, p.FileName)
			if len(line) >= width {
				line = line[:width-1]
			}
			fmt.Printf("\r%-*s", width-1, line)
		case arthub.PhaseComplete:
			if tty {
				fmt.Printf("\r%-*s\r", width-1, "")
			}
		}
	}
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("Folders: %d\n", stats.TotalFolders)
		fmt.Printf("Assets:  %d\n", stats.TotalAssets)
		fmt.Printf("Size:    %s\n", formatSize(stats.TotalSize))
		if len(stats.FormatCounts) > 0 {
			fmt.Println("\nBy format:")
			for _, fc := range stats.FormatCounts {
				fmt.Printf("  %-6s %d\n", fc.Ext, fc.Count)
			}
		}
		return nil
	},
}

// formatSize renders a byte count with a binary unit suffix.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror log output to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetRootCmd)
	configSetRootCmd.Flags().Bool("clear", false, "Clear the shared root and return to solo mode")
	configInitCmd.Flags().String("user", "", "User name for curation and team operations (default: OS user)")
	configInitCmd.Flags().String("machine", "", "Machine name shown in locks (default: hostname)")
	configInitCmd.Flags().String("shared-root", "", "Shared filesystem root for team coordination")

	// db subcommands
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)

	// folder subcommands
	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderRemoveCmd)
	folderAddCmd.Flags().String("space", "", "Space type: personal or shared (default personal)")
	folderListCmd.Flags().String("space", "", "Filter by space type")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statsCmd)
}
