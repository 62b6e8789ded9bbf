package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/agentic-research/formtab/internal/config"
	"github.com/agentic-research/formtab/internal/loader"
	"github.com/agentic-research/formtab/internal/session"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	schemaPath string
	dataPath   string
	selector   string
	table      string
	language   string
	raw        bool
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "formtab",
		Short: "formtab: aggregate form submissions by their schema",
		Long: `formtab loads a form schema and its submissions, then answers
count, frequency and summary statistic queries over any field, with
answers shown as labels in any of the form's languages.

Schema and data may be local files or http(s) URLs. Data may also be a
SQLite database (.db, .sqlite) holding one JSON record per row.`,
		SilenceUsage: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to an HCL config file")
	f.StringVarP(&opts.schemaPath, "schema", "s", "", "Path or URL of the form schema")
	f.StringVarP(&opts.dataPath, "data", "d", "", "Path or URL of the submissions")
	f.StringVar(&opts.selector, "selector", "", "JSONPath picking the records out of the data document")
	f.StringVar(&opts.table, "table", "", "SQLite table holding the records")
	f.StringVarP(&opts.language, "lang", "l", "", "Label language")
	f.BoolVar(&opts.raw, "raw", false, "Show stored values instead of labels")
	f.BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newFieldsCmd(opts),
		newLanguagesCmd(opts),
		newCountCmd(opts),
		newFreqCmd(opts),
		newStatsCmd(opts),
		newSummarizeCmd(opts),
		newCrossTabCmd(opts),
		newServeCmd(opts),
		newInferCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
// Both a schema and data location must end up set.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := o.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Schema == "" {
		return nil, fmt.Errorf("no schema given: use --schema or set schema in the config file")
	}
	if cfg.Data == "" {
		return nil, fmt.Errorf("no data given: use --data or set data in the config file")
	}
	return cfg, nil
}

func (o *options) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("schema") {
		cfg.Schema = o.schemaPath
	}
	if flags.Changed("data") {
		cfg.Data = o.dataPath
	}
	if flags.Changed("selector") {
		cfg.Selector = o.selector
	}
	if flags.Changed("table") {
		cfg.Table = o.table
	}
	if flags.Changed("lang") {
		cfg.Language = o.language
	}
	if flags.Changed("raw") {
		cfg.ShowLabels = !o.raw
	}
	return cfg, nil
}

// opener returns a function building a session from cfg.
func opener(cfg *config.Config) (func(context.Context) (*session.Session, error), error) {
	lopts := cfg.LoaderOptions()
	schema, err := loader.OpenSchema(cfg.Schema, lopts)
	if err != nil {
		return nil, err
	}
	data, err := loader.OpenRecords(cfg.Data, lopts)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (*session.Session, error) {
		return session.Open(ctx, schema, data, cfg.Resolver())
	}, nil
}

func (o *options) openSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	open, err := opener(cfg)
	if err != nil {
		return nil, err
	}
	return open(cmd.Context())
}

// print writes v as JSON when --json is set, otherwise calls table.
func (o *options) print(cmd *cobra.Command, v any, table func(w io.Writer) error) error {
	out := cmd.OutOrStdout()
	if o.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := table(tw); err != nil {
		return err
	}
	return tw.Flush()
}
