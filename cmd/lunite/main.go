package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/cli/backups"
	"github.com/julianstephens/lunite/internal/cli/plans"
	"github.com/julianstephens/lunite/internal/cli/settings"
	"github.com/julianstephens/lunite/internal/cli/system"
	"github.com/julianstephens/lunite/internal/cli/tasks"
	"github.com/julianstephens/lunite/internal/config"
	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/errors"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/storage"
	"github.com/julianstephens/lunite/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to lunite.toml." type:"path" env:"LUNITE_CONFIG"`
	Storage string `help:"SQLite path, *.json path, PostgreSQL connection string without password, or 'keyring'. Overrides the config file."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize lunite storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check the week for conflicts."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Static struct {
		Add    tasks.StaticAddCmd    `cmd:"" help:"Add a weekly static task."`
		List   tasks.StaticListCmd   `cmd:"" help:"List static tasks."`
		Done   tasks.StaticDoneCmd   `cmd:"" help:"Mark a static task done for this week."`
		Remove tasks.StaticRemoveCmd `cmd:"" help:"Remove a static task."`
	} `cmd:"" help:"Manage weekly static tasks."`
	Dynamic struct {
		Add    tasks.DynamicAddCmd    `cmd:"" help:"Add a one-off dynamic task."`
		List   tasks.DynamicListCmd   `cmd:"" help:"List dynamic tasks."`
		Done   tasks.DynamicDoneCmd   `cmd:"" help:"Complete one of today's dynamic tasks."`
		Remove tasks.DynamicRemoveCmd `cmd:"" help:"Remove a pending dynamic task."`
	} `cmd:"" help:"Manage one-off dynamic tasks."`
	Freetime plans.FreetimeCmd `cmd:"" help:"Show a day's static tasks and free time."`
	Schedule plans.ScheduleCmd `cmd:"" help:"Show a day's schedule with dynamic tasks placed."`

	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Change settings."`
	} `cmd:"" help:"Manage planner settings."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly planner: recurring static tasks, one-off dynamic tasks, and the free time between them"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configFile := CLI.Config
	if configFile == "" {
		path, err := config.DefaultPath()
		errors.Fatal(err)
		configFile = path
	}
	cfg, err := config.Load(configFile)
	errors.Fatal(err)

	configDir, err := cfg.Dir()
	errors.Fatal(err)
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatalf("failed to initialize logger: %w", err)
	}
	defer logger.Close()
	for _, key := range cfg.Unknown {
		logger.Warn("unknown config key", "key", key, "file", cfg.Path)
	}

	command := strings.Fields(ctx.Command())[0]
	appCtx := &cli.Context{
		Config:     cfg,
		ConfigFile: configFile,
		ConfigDir:  configDir,
	}

	// Keyring commands must work before any storage is reachable.
	if command != "keyring" {
		store, err := openStore(cfg)
		errors.Fatal(err)
		defer store.Close()
		appCtx.Store = store

		if command != "init" && command != "doctor" {
			errors.Fatal(store.Load())
		}
	}

	logger.Debug("running command", "command", ctx.Command())
	if err := ctx.Run(appCtx); err != nil {
		logger.Close()
		errors.Fatal(err)
	}
}

// openStore picks the storage target from --storage or the config file.
func openStore(cfg *config.Config) (storage.Provider, error) {
	raw := cfg.Storage
	if CLI.Storage != "" {
		raw = CLI.Storage
	}
	// Passwords are only accepted through the keyring or LUNITE_DB_CONNECTION.
	if postgres.IsConnString(raw) {
		if err := postgres.ValidateConnString(raw); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				os.Stderr.WriteString("❌ PostgreSQL connection strings with embedded credentials are not allowed here.\n" +
					"   Use 'lunite keyring set', " + constants.EnvDBConnection + ", or a .pgpass file instead.\n")
			}
			return nil, err
		}
	}
	target, err := config.ResolveStorage(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("using storage", "kind", storage.KindOf(target))
	return storage.Open(target), nil
}
