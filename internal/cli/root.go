package cli

import (
	"io"
	"log/slog"

	"github.com/alexanderramin/autobacklog/internal/config"
	"github.com/alexanderramin/autobacklog/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Generate service.GenerateService
	Import   service.ImportService
	Items    service.ItemService
	Boards   service.BoardService

	Config *config.Config
	Logger *slog.Logger

	// Setup builds the services once configuration is loaded. Tests fill
	// the services and Config directly and leave it nil.
	Setup func(a *App) error

	// IsInteractive reports whether stdin is a terminal. When it does, the
	// bare command opens the shell and destructive commands may prompt.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// globalFlags are the persistent flags every command accepts.
type globalFlags struct {
	configFile string
	apiURL     string
	logLevel   string
}

// NewRootCmd creates the top-level "autobacklog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "autobacklog",
		Short: "Generate, browse and plan project backlogs from requirements PDFs",
		Long: `autobacklog sends a requirements PDF to the backlog backend, then lets you
browse the generated hierarchy, edit items and move them across a kanban board.

Run without arguments in a terminal to open the full-screen shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.configure(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runShell(app, nil)
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file (default is "+config.ConfigFile()+")")
	pf.StringVar(&flags.apiURL, "api-url", "", "backend base URL (overrides api.base_url)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newProjectCmd(app),
		newUploadCmd(app),
		newBacklogCmd(app),
		newSprintCmd(app),
		newBoardCmd(app),
		newShellCmd(app),
		newDevServerCmd(app),
	)

	return root
}

// configure loads configuration once, applying flag overrides, and then
// runs Setup. A preset Config is kept as is.
func (a *App) configure(cmd *cobra.Command, flags globalFlags) error {
	if a.Config == nil {
		v, err := config.New(flags.configFile)
		if err != nil {
			return err
		}
		pf := cmd.Root().PersistentFlags()
		_ = v.BindPFlag("api.base_url", pf.Lookup("api-url"))
		_ = v.BindPFlag("log.level", pf.Lookup("log-level"))

		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.Setup != nil {
		return a.Setup(a)
	}
	return nil
}

// out returns where a command writes its primary output.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
