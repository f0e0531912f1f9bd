package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqline/internal/server"
)

// serveCommand creates the serve command running the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		themePath string
		sf        storeFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout and document API",
		Long: `Run the HTTP layout and document API.

The server exposes a stateless layout endpoint (POST /v1/layout) and a
document resource (GET/PUT/DELETE /v1/documents/{id}) backed by the selected
store. It shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := loadTheme(themePath)
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd, &sf)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(server.Config{
				Addr:   addr,
				Store:  st,
				Theme:  th,
				Logger: c.Logger,
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&themePath, "theme", "", "TOML theme file overlaying the defaults")
	sf.register(cmd)

	return cmd
}
