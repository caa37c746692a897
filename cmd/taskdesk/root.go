package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskdesk/internal/app"
	"github.com/mesh-intelligence/taskdesk/internal/logging"
	"github.com/mesh-intelligence/taskdesk/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagIdentity  string
	flagJSON      bool
)

var (
	// commandStarted is set once flags and arguments have been accepted.
	// Errors raised before that are usage errors.
	commandStarted bool

	// current is the application opened for the running command.
	current *app.App

	// dataDir is the resolved data directory of the running command.
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:           "taskdesk",
	Short:         "Taskdesk tracks projects, tasks and accesses for a small team",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		commandStarted = true
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return openApp(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for the sqlite backend")
	rootCmd.PersistentFlags().StringVar(&flagIdentity, "as", "", "telegram id to act as (default: $TASKDESK_IDENTITY)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(accessCmd)
}

// openApp loads the configuration, opens the backend and logs the caller
// in.
func openApp(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	logger, err := logging.New(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return usageError(err.Error())
	}

	dataDir, err = paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return err
	}
	cfg := appConfig(v, dataDir)
	if err := cfg.Storage.Validate(); err != nil {
		return err
	}

	a, err := app.Open(cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	current = a

	identity := flagIdentity
	if identity == "" {
		identity = v.GetString(cfgKeyIdentity)
	}
	if identity != "" {
		a.Session.LoginByIdentity(cmd.Context(), identity)
		logger.Debug("session", zap.String("identity", identity), zap.Bool("authenticated", a.Session.IsAuthenticated()))
	}
	return nil
}

// closeApp detaches the backend opened by openApp, if any.
func closeApp() {
	if current == nil {
		return
	}
	_ = current.Logger.Sync()
	_ = current.Close()
	current = nil
}
