// Package cli implements the quotectl commands. They share configuration
// and storage with the service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotesync/internal/bootstrap"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

// App holds global flags and the components built for the running command.
type App struct {
	version string

	profile  string
	logLevel string
	storage  string
	dbPath   string
	asJSON   bool

	components *bootstrap.Components
}

// New creates the CLI application.
func New(version string) *App {
	return &App{version: version}
}

// Execute runs the command line in args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)

	if a.components != nil {
		err = errors.Join(err, a.components.Close())
		a.components = nil
	}

	return err
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "quotectl",
		Short:   "Manage the quote collection",
		Version: a.version,
		Long: `quotectl reads and edits the quote collection used by the quotesync
service and can run a sync cycle against the remote endpoint.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.profile, "profile", "", "config profile (default $APP_ENVIRONMENT or local)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.storage, "storage", "", "storage driver override: sqlite or memory")
	flags.StringVar(&a.dbPath, "db", "", "sqlite database path override")
	flags.BoolVar(&a.asJSON, "json", false, "print JSON instead of text")

	root.SetVersionTemplate("quotectl {{.Version}}\n")

	root.AddCommand(
		a.listCommand(),
		a.randomCommand(),
		a.addCommand(),
		a.categoriesCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.syncCommand(),
		a.resetCommand(),
		a.statusCommand(),
	)

	return root
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	profile := a.profile
	if profile == "" {
		profile = os.Getenv("APP_ENVIRONMENT")
	}

	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if a.storage != "" {
		cfg.Storage.Driver = a.storage
	}

	if a.dbPath != "" {
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.Path = a.dbPath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   a.logLevel,
		Format:  "pretty",
		Service: "quotectl",
		Version: a.version,
	}, cmd.ErrOrStderr())

	a.components, err = bootstrap.Build(cmd.Context(), bootstrap.Options{
		Config:    cfg,
		Logger:    logger,
		UserAgent: "quotectl/" + a.version,
	})

	return err
}
