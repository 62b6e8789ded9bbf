package cmd

import (
	"fmt"
	"log"

	"github.com/agentic-research/formtab/internal/mcpserver"
	"github.com/agentic-research/formtab/internal/session"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the form's data to agents over MCP (stdio)",
		Long: `Serve loads the schema and data once and answers MCP tool calls on
stdin/stdout: list_fields, count_by, frequencies, stats, summarize,
crosstab and reload. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			open, err := opener(cfg)
			if err != nil {
				return err
			}
			sess, err := open(cmd.Context())
			if err != nil {
				return fmt.Errorf("initial load: %w", err)
			}
			log.Printf("loaded %s: %d fields, %d rows", sess.Schema.IDString, len(sess.Schema.Fields), sess.Table.Len())

			srv := mcpserver.New(session.NewHotSwap(sess), open)
			return srv.ServeStdio()
		},
	}
}
