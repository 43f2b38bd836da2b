package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/utils"
)

type Globals struct {
	Version  kong.VersionFlag `help:"Print the version and exit."`
	Config   string           `help:"SQLite file path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, DAILYOS_DB_CONNECTION, or .pgpass." env:"DAILYOS_CONFIG" default:"${default_config}"`
	User     string           `help:"User id to act as." env:"DAILYOS_USER" default:"${default_user}"`
	Timezone string           `help:"IANA zone that decides what 'today' means." env:"DAILYOS_TZ"`
	Debug    bool             `help:"Log debug output to stderr."`
}

// App is the full command tree.
type App struct {
	Globals `embed:""`

	Init    InitCmd    `cmd:"" help:"Initialize dailyos storage."`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve   ServeCmd   `cmd:"" help:"Serve the JSON API over HTTP."`

	Today       TodayCmd       `cmd:"" help:"Show today."`
	Day         DayCmd         `cmd:"" help:"Show a past day."`
	Focus       FocusCmd       `cmd:"" help:"Pick today's work unit."`
	Intent      IntentCmd      `cmd:"" help:"Set today's intent."`
	Horizon     HorizonCmd     `cmd:"" help:"Set one of today's horizons."`
	Checkpoint  CheckpointCmd  `cmd:"" help:"Record today's checkpoint."`
	Checkpoints CheckpointsCmd `cmd:"" help:"List recent checkpoints."`
	Streaks     StreaksCmd     `cmd:"" help:"Show this month's streaks."`
	Momentum    MomentumCmd    `cmd:"" help:"Show the last seven days."`

	Unit struct {
		Add      UnitAddCmd      `cmd:"" help:"Add a work unit."`
		List     UnitListCmd     `cmd:"" help:"List work units." default:"1"`
		Show     UnitShowCmd     `cmd:"" help:"Show a work unit with its checklist."`
		Edit     UnitEditCmd     `cmd:"" help:"Edit a work unit."`
		Status   UnitStatusCmd   `cmd:"" help:"Change a work unit's status."`
		Complete UnitCompleteCmd `cmd:"" help:"Mark a work unit completed."`
		Delete   UnitDeleteCmd   `cmd:"" help:"Delete a work unit and its checklist."`
	} `cmd:"" help:"Manage work units."`
	Check struct {
		Add    CheckAddCmd    `cmd:"" help:"Add a checklist item."`
		Toggle CheckToggleCmd `cmd:"" help:"Toggle a checklist item."`
		Rename CheckRenameCmd `cmd:"" help:"Rename a checklist item."`
		Delete CheckDeleteCmd `cmd:"" help:"Delete a checklist item."`
	} `cmd:"" help:"Manage work unit checklists."`
	Nail struct {
		Add    NailAddCmd    `cmd:"" help:"Add a nail to today."`
		Toggle NailToggleCmd `cmd:"" help:"Toggle one of today's nails."`
		Delete NailDeleteCmd `cmd:"" help:"Delete one of today's nails."`
	} `cmd:"" help:"Manage today's nails (at most three)."`
	Backup struct {
		Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    BackupListCmd    `cmd:"" help:"List available backups."`
		Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite backups."`
	Settings struct {
		Show            ConfigShowCmd            `cmd:"" help:"Show the active configuration." default:"1"`
		SetConnection   ConfigSetConnectionCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		ClearConnection ConfigClearConnectionCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" name:"config" help:"Manage connection settings."`
}

// Options configures the parser the same way for main and tests.
func Options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Daily focus, checklists, checkpoints and momentum."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"default_user":   constants.DefaultUserID,
			"default_addr":   constants.DefaultAddr,
		},
	}
}

// noPreload lists commands that open (or skip) the store themselves.
var noPreload = map[string]bool{
	"init":   true,
	"doctor": true,
	"backup": true,
	"config": true,
}

// Execute parses args, prepares storage and logging, and runs the selected command.
func Execute(args []string, out io.Writer) error {
	var app App
	parser, err := kong.New(&app, Options()...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx, err := app.NewContext(kctx.Command(), out)
	if err != nil {
		return err
	}
	defer ctx.Store.Close()
	defer logger.Close()

	return kctx.Run(ctx)
}

// NewContext opens storage and the logger for command.
func (g *Globals) NewContext(command string, out io.Writer) (*Context, error) {
	loc, err := utils.LoadLocation(g.Timezone)
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(g.Config)
	if err != nil {
		return nil, err
	}

	name := commandName(command)
	if err := logger.Init(logger.Config{
		Debug:     g.Debug,
		ConfigDir: ConfigDir(store),
		Console:   name == "serve",
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !noPreload[name] {
		if err := store.Load(); err != nil {
			store.Close()
			return nil, err
		}
	}
	return &Context{
		Store:    store,
		UserID:   strings.TrimSpace(g.User),
		Location: loc,
		Out:      out,
	}, nil
}

func commandName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
