package cli

import (
	"fmt"
	"net"

	"github.com/alexanderramin/autobacklog/internal/cli/formatter"
	"github.com/alexanderramin/autobacklog/internal/db"
	"github.com/alexanderramin/autobacklog/internal/devserver"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newDevServerCmd(app *App) *cobra.Command {
	var addr, dbPath, fixture string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stand-in for the backlog backend",
		Long: `Serve the backend API from a local SQLite database so the CLI and the
shell can be used without the real service.

PDF analysis needs a model the dev server does not have. With --fixture,
every upload is answered with the backlog stored in that JSON or YAML
file; without it uploads fail with 501.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config != nil {
				fromConfig(cmd.Flags(), "addr", &addr, app.Config.DevServer.Addr)
				fromConfig(cmd.Flags(), "db", &dbPath, app.Config.DevServer.DB)
			}

			opts := []devserver.Option{devserver.WithLogger(app.logger())}
			if fixture != "" {
				a, err := devserver.NewFixtureAnalyzer(fixture)
				if err != nil {
					return err
				}
				opts = append(opts, devserver.WithAnalyzer(a))
			}

			database, err := db.OpenDB(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()

			srv := devserver.New(database, opts...)
			return srv.ListenAndServe(cmd.Context(), addr, func(a net.Addr) {
				fmt.Fprintf(out(cmd), "%s Dev server listening on %s %s\n",
					formatter.StyleGreen.Render("●"), formatter.Bold("http://"+a.String()), formatter.Dim("(db "+dbPath+")"))
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (default devserver.addr)")
	cmd.Flags().StringVar(&dbPath, "db", db.MemoryPath, "SQLite database path (default devserver.db)")
	cmd.Flags().StringVar(&fixture, "fixture", "", "Answer uploads with this JSON or YAML backlog")
	return cmd
}

// fromConfig replaces *dst with the configured value unless the flag was
// given on the command line.
func fromConfig(fs *pflag.FlagSet, name string, dst *string, configured string) {
	if !fs.Changed(name) && configured != "" {
		*dst = configured
	}
}
