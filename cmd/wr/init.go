package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/client"
	"github.com/windrosehq/windrose-go/internal/config"
	"github.com/windrosehq/windrose-go/internal/configfile"
	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/types"
)

var (
	initBaseURL string
	initAPIKey  string
	initForce   bool
	initNoInput bool
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "setup",
	Short:   "Initialize wr in the current directory",
	Long: `Initialize wr in the current directory by creating a .windrose/ directory
with a config.yaml and workspace metadata.

Prompts for the API base URL and an API key, verifies the connection,
then lets you pick a default workspace and project. Use --no-input to
run non-interactively from flags and WR_* environment variables.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runInit()
	},
}

func init() {
	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "API base URL (default: "+config.DefaultBaseURL+")")
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "API key (default: WR_API_KEY)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing .windrose/config.yaml")
	initCmd.Flags().BoolVar(&initNoInput, "no-input", false, "Never prompt; use flags and environment only")
	rootCmd.AddCommand(initCmd)
}

func runInit() {
	cwd, err := os.Getwd()
	if err != nil {
		FatalError("getting current directory: %v", err)
	}

	windroseDir := filepath.Join(cwd, config.DirName)
	configPath := filepath.Join(windroseDir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !initForce {
		FatalErrorWithHint("already initialized",
			fmt.Sprintf("%s exists. Use --force to overwrite it.", configPath))
	}

	baseURL := initBaseURL
	if baseURL == "" {
		baseURL = settings.BaseURL
	}
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	apiKey := initAPIKey
	if apiKey == "" {
		apiKey = settings.APIKey
	}

	if !initNoInput {
		baseURL, apiKey = promptCredentials(baseURL, apiKey)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	if err := validateBaseURL(baseURL); err != nil {
		FatalError("%v", err)
	}
	if apiKey == "" {
		FatalErrorWithHint("no API key provided",
			"Pass --api-key, set WR_API_KEY, or run 'wr init' without --no-input")
	}

	ctx, cancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer cancel()

	setupClient, err := openSetupClient(baseURL, apiKey)
	if err != nil {
		FatalError("connecting to %s: %v", baseURL, err)
	}
	defer setupClient.Close()

	workspaces, err := setupClient.Workspaces.List(ctx)
	if err != nil {
		FatalErrorWithHint(fmt.Sprintf("verifying credentials against %s: %v", baseURL, err),
			"Check the base URL and that the API key is valid")
	}
	if len(workspaces) == 0 {
		FatalErrorWithHint("the API key has no workspaces",
			"Create a workspace in the web app first, then re-run 'wr init'")
	}

	workspace := chooseWorkspace(workspaces)

	projects, err := setupClient.Projects.List(ctx, workspace)
	if err != nil {
		WarnError("listing projects in %s: %v", workspace, err)
	}
	project := chooseProject(projects)

	if err := os.MkdirAll(windroseDir, 0750); err != nil {
		FatalError("creating %s: %v", windroseDir, err)
	}

	if err := writeConfigYaml(configPath, baseURL, apiKey, workspace, project); err != nil {
		FatalError("%v", err)
	}

	st, err := configfile.Load(windroseDir)
	if err != nil || st == nil {
		st = &configfile.State{}
	}
	st.Workspace = workspace
	st.Project = project
	if err := st.Save(windroseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write metadata.json: %v\n", err)
	}

	printInitSuccess(configPath, workspace, project)
}

// promptCredentials collects the base URL and API key interactively,
// pre-filled from flags, config, and environment.
func promptCredentials(baseURL, apiKey string) (string, string) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API base URL").
				Description("Where your Windrose instance lives").
				Placeholder(config.DefaultBaseURL).
				Value(&baseURL).
				Validate(func(s string) error {
					return validateBaseURL(strings.TrimRight(strings.TrimSpace(s), "/"))
				}),

			huh.NewInput().
				Title("API key").
				Description("Personal API token from Settings > API Tokens").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("an API key is required")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Setup cancelled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	return strings.TrimSpace(baseURL), strings.TrimSpace(apiKey)
}

// chooseWorkspace picks the default workspace. A single workspace is
// taken as-is; more than one prompts unless --no-input, which takes the
// configured one or the first.
func chooseWorkspace(workspaces []types.Workspace) string {
	if w := firstNonEmpty(workspaceFlag, settings.Workspace); w != "" {
		for _, ws := range workspaces {
			if ws.Slug == w {
				return w
			}
		}
		WarnError("workspace %q not found for this API key, choosing another", w)
	}
	if len(workspaces) == 1 || initNoInput {
		return workspaces[0].Slug
	}

	options := make([]huh.Option[string], 0, len(workspaces))
	for _, ws := range workspaces {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", ws.Name, ws.Slug), ws.Slug))
	}

	var slug string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default workspace").
				Options(options...).
				Value(&slug),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Setup cancelled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	return slug
}

// chooseProject picks the default project, or "" to leave it unset.
func chooseProject(projects []types.Project) string {
	if p := firstNonEmpty(projectFlag, settings.Project); p != "" {
		for _, proj := range projects {
			if proj.ID == p {
				return p
			}
		}
	}
	if len(projects) == 0 {
		return ""
	}
	if initNoInput {
		return projects[0].ID
	}

	options := make([]huh.Option[string], 0, len(projects)+1)
	for _, proj := range projects {
		options = append(options, huh.NewOption(proj.Name, proj.ID))
	}
	options = append(options, huh.NewOption("(none - pass --project per command)", ""))

	var id string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default project").
				Options(options...).
				Value(&id),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Setup cancelled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	return id
}

// openSetupClient builds a throwaway client for verifying credentials
// before anything is written to disk.
func openSetupClient(baseURL, apiKey string) (*client.Client, error) {
	apiClient, err := api.New(api.Config{
		BaseURL:   baseURL,
		APIToken:  apiKey,
		UserAgent: "wr/" + Version,
	})
	if err != nil {
		return nil, err
	}
	return client.New(client.Options{API: apiClient})
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("a base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base URL %q (want e.g. %s)", raw, config.DefaultBaseURL)
	}
	return nil
}

func writeConfigYaml(configPath, baseURL, apiKey, workspace, project string) error {
	projectLine := "# project: \"\""
	if project != "" {
		projectLine = fmt.Sprintf("project: %q", project)
	}

	configTemplate := fmt.Sprintf(`# Windrose configuration file
# Settings here apply to every wr command run under this directory.
# Each key can be overridden by a WR_* environment variable
# (base-url -> WR_BASE_URL) or a command-line flag.

base-url: %q

# API key for authentication. Prefer WR_API_KEY in shared checkouts so
# the key never lands in version control.
api-key: %q

# Default workspace slug and project ID for scoped commands.
workspace: %q
%s

# Enable JSON output by default
# json: false

# Send traces and metrics via OpenTelemetry (also WR_OTEL_ENABLED)
# telemetry: false

# How long cached reads stay fresh before background refresh
# stale-time: 5m

# How long unused cache entries linger before eviction
# gc-time: 30m

# Total retry budget for failed API calls (negative disables retries)
# retry-max-elapsed: 15s
`, baseURL, apiKey, workspace, projectLine)

	if err := os.WriteFile(configPath, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	return nil
}

func printInitSuccess(configPath, workspace, project string) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	debug.PrintNormal("\n%s wr initialized successfully!\n\n", green("✓"))
	debug.PrintNormal("  Config:    %s\n", cyan(configPath))
	debug.PrintNormal("  Workspace: %s\n", cyan(workspace))
	if project != "" {
		debug.PrintNormal("  Project:   %s\n", cyan(project))
	}
	debug.PrintNormal("\nRun %s to see your issues.\n\n", cyan("wr issues list"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
