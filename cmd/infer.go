package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/agentic-research/formtab/internal/infer"
	"github.com/agentic-research/formtab/internal/loader"
	"github.com/spf13/cobra"
)

func newInferCmd(opts *options) *cobra.Command {
	cfg := infer.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Guess a form schema from the submissions alone",
		Long: `Infer reads the data, samples up to --sample records and prints a
schema document whose field paths match the data's keys. Numeric values
become integer or decimal fields, small closed sets of values become
select questions, and "/" in a key nests the field into groups.

The output can be saved and passed back with --schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.resolveConfig(cmd)
			if err != nil {
				return err
			}
			if c.Data == "" {
				return fmt.Errorf("no data given: use --data or set data in the config file")
			}
			data, err := loader.OpenRecords(c.Data, c.LoaderOptions())
			if err != nil {
				return err
			}
			records, err := data.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load data: %w", err)
			}

			doc, err := (&infer.Inferrer{Config: cfg}).Infer(records)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVar(&cfg.IDString, "id", cfg.IDString, "id_string of the inferred form")
	cmd.Flags().IntVar(&cfg.SampleSize, "sample", cfg.SampleSize, "Max records to sample (0 reads all)")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for sampling")
	return cmd
}
