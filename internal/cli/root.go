package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/folio/internal/config"
	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/store"
	"github.com/existflow/folio/internal/tui"
)

var (
	apiURL     string
	logLevel   string
	logFile    string
	logConsole bool

	// appConfig is loaded once per invocation by the root pre-run hook
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio - portfolio showcase and admin panel",
	Long: `Folio browses a portfolio's projects and manages them as the site admin.

Run 'folio' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("api-url") {
			cfg.APIURL = apiURL
			configChanged = true
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		appConfig = cfg
		logger.Info("Folio started", logger.F("command", cmd.Name()), logger.F("api_url", cfg.APIURL))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.RefreshInterval > 0 {
			refresher := store.NewAutoRefresh(a.projects, a.cfg.RefreshInterval, a.cfg.Timeout)
			defer refresher.Stop()
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(tui.Deps{
			Projects: a.projects,
			Session:  a.session,
			Gateway:  a.client,
		})
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Folio exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API base URL (saved to config)")

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
}
