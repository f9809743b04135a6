package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/client"
	"github.com/windrosehq/windrose-go/internal/config"
	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/telemetry"
)

var (
	workspaceFlag string
	projectFlag   string
	jsonOutput    bool
	verboseFlag   bool
	quietFlag     bool

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// cl is the SDK client shared by all subcommands. Nil for commands
	// in noClientCommands.
	cl *client.Client

	// settings is the merged configuration snapshot for this invocation.
	settings config.Settings
)

// noClientCommands run without credentials and never talk to the API.
var noClientCommands = map[string]bool{
	"init":       true,
	"config":     true,
	"version":    true,
	"help":       true,
	"completion": true,
}

// needsClient walks up the command tree so subcommands inherit their
// parent's exemption (wr config set, wr completion bash, ...).
func needsClient(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if noClientCommands[c.Name()] {
			return false
		}
	}
	return true
}

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace slug (default: config or .windrose state)")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project id (default: config or .windrose state)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")

	// Add --version flag to root command (same behavior as version subcommand)
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	// Command groups for organized help output
	rootCmd.AddGroup(&cobra.Group{ID: "work", Title: "Working With Issues:"})
	rootCmd.AddGroup(&cobra.Group{ID: "views", Title: "Workspace Views:"})
	rootCmd.AddGroup(&cobra.Group{ID: "setup", Title: "Setup & Configuration:"})
}

var rootCmd = &cobra.Command{
	Use:   "wr",
	Short: "wr - Windrose from the command line",
	Long: `A cached command line client for the Windrose project tracker.

Reads are served from a local query cache and refreshed in the background;
writes apply immediately and roll back if the server rejects them.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("wr version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyFlagOverrides(cmd)
		applyVerbosityFlags()
		loadSettings()

		if err := telemetry.Init(rootCtx, "wr", Version); err != nil {
			debug.Logf("telemetry init failed: %v\n", err)
		}

		if !needsClient(cmd) {
			return
		}
		openClient()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cl != nil {
			cl.Close()
			cl = nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		telemetry.Shutdown(shutdownCtx)
		cancel()

		if rootCancel != nil {
			rootCancel()
		}
	},
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// applyFlagOverrides writes changed persistent flags into the config view so
// one merged precedence holds everywhere: flags > env > file > defaults.
func applyFlagOverrides(cmd *cobra.Command) {
	if cmd.Flags().Changed("workspace") {
		config.Set(config.KeyWorkspace, workspaceFlag)
	}
	if cmd.Flags().Changed("project") {
		config.Set(config.KeyProject, projectFlag)
	}
	if cmd.Flags().Changed("json") {
		config.Set(config.KeyJSON, jsonOutput)
	}
	if cmd.Flags().Changed("verbose") {
		config.Set(config.KeyVerbose, verboseFlag)
	}
	if cmd.Flags().Changed("quiet") {
		config.Set(config.KeyQuiet, quietFlag)
	}
	jsonOutput = config.GetBool(config.KeyJSON)
}

func applyVerbosityFlags() {
	debug.SetVerbose(config.GetBool(config.KeyVerbose))
	debug.SetQuiet(config.GetBool(config.KeyQuiet))
}

// openClient builds the API transport and the cached SDK client from the
// merged settings.
func openClient() {
	if settings.APIKey == "" {
		FatalErrorWithHint("no API key configured", "Run 'wr init' or set WR_API_KEY")
	}

	apic, err := api.New(api.Config{
		BaseURL:         settings.BaseURL,
		APIToken:        settings.APIKey,
		UserAgent:       "wr/" + Version,
		RetryMaxElapsed: settings.RetryMaxElapsed,
	})
	if err != nil {
		FatalError("%v", err)
	}

	c, err := client.New(client.Options{
		API: apic,
		Cache: cache.Options{
			StaleTime: settings.StaleTime,
			GCTime:    settings.GCTime,
		},
	})
	if err != nil {
		FatalError("%v", err)
	}
	cl = c
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
