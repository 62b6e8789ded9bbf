package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentic-research/formtab/internal/aggregate"
	"github.com/spf13/cobra"
)

func newFieldsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields of the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}

			type row struct {
				Path  string `json:"path"`
				Type  string `json:"type"`
				Label string `json:"label"`
			}
			rows := make([]row, 0, len(sess.Schema.Fields))
			for _, f := range sess.Schema.Fields {
				l, err := f.Label(sess.Resolver.Language)
				if err != nil {
					return err
				}
				rows = append(rows, row{Path: f.Path, Type: f.Type, Label: l})
			}

			return opts.print(cmd, rows, func(w io.Writer) error {
				_, _ = fmt.Fprintln(w, "PATH\tTYPE\tLABEL")
				for _, r := range rows {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Type, r.Label)
				}
				return nil
			})
		},
	}
}

func newLanguagesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages the form's labels are written in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			langs := sess.Schema.Languages
			return opts.print(cmd, langs, func(w io.Writer) error {
				for _, l := range langs {
					if l == sess.Schema.DefaultLanguage {
						_, _ = fmt.Fprintf(w, "%s\t(default)\n", l)
						continue
					}
					_, _ = fmt.Fprintln(w, l)
				}
				return nil
			})
		},
	}
}

func newCountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "count <field>",
		Short: "Count submissions by the value of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			rows, err := sess.Frequencies(args[0])
			if err != nil {
				return err
			}
			heading, err := sess.Heading(args[0])
			if err != nil {
				return err
			}
			type count struct {
				Answer string `json:"answer"`
				Count  int    `json:"count"`
			}
			counts := make([]count, len(rows))
			for i, r := range rows {
				counts[i] = count{Answer: r.Answer, Count: r.Count}
			}
			return opts.print(cmd, counts, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "%s\tCOUNT\n", strings.ToUpper(heading))
				for _, c := range counts {
					_, _ = fmt.Fprintf(w, "%s\t%d\n", c.Answer, c.Count)
				}
				return nil
			})
		},
	}
}

func newFreqCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "freq <field>",
		Aliases: []string{"frequencies"},
		Short:   "Show count and percentage of each value of a field",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			rows, err := sess.Frequencies(args[0])
			if err != nil {
				return err
			}
			heading, err := sess.Heading(args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd, rows, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "%s\tCOUNT\tPERCENT\n", strings.ToUpper(heading))
				for _, r := range rows {
					_, _ = fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", r.Answer, r.Count, r.Percentage)
				}
				return nil
			})
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <field>",
		Short: "Summary statistics of a numeric field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			st, err := sess.Stats(args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd, st, func(w io.Writer) error {
				if !st.HasData() {
					_, _ = fmt.Fprintln(w, "no numeric values")
					return nil
				}
				_, _ = fmt.Fprintf(w, "n\t%d\n", st.N)
				_, _ = fmt.Fprintf(w, "mean\t%g\n", st.Mean)
				_, _ = fmt.Fprintf(w, "median\t%g\n", st.Median)
				_, _ = fmt.Fprintf(w, "mode\t%g\n", st.Mode)
				_, _ = fmt.Fprintf(w, "min\t%g\n", st.Min)
				_, _ = fmt.Fprintf(w, "max\t%g\n", st.Max)
				_, _ = fmt.Fprintf(w, "range\t%g\n", st.Range)
				return nil
			})
		},
	}
}

func newSummarizeCmd(opts *options) *cobra.Command {
	var methods string
	cmd := &cobra.Command{
		Use:   "summarize <field>",
		Short: "Run several summary methods over a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, unknown := aggregate.ParseMethods(methods)
			if len(unknown) > 0 {
				return fmt.Errorf("unknown methods: %s", strings.Join(unknown, ", "))
			}
			if m == 0 {
				return fmt.Errorf("no methods given")
			}
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			sum, err := sess.Summarize(args[0], m)
			if err != nil {
				return err
			}
			_, field, err := sess.Lookup(args[0])
			if err != nil {
				return err
			}
			rows, err := sess.Resolver.Frequencies(field, sum.Frequencies)
			if err != nil {
				return err
			}

			return opts.print(cmd, sum, func(w io.Writer) error {
				if len(rows) > 0 {
					_, _ = fmt.Fprintln(w, "ANSWER\tCOUNT\tPERCENT")
					for _, r := range rows {
						count, pct := "", ""
						if m.Has(aggregate.MethodFrequencies) {
							count = fmt.Sprint(r.Count)
						}
						if m.Has(aggregate.MethodPercentages) {
							pct = fmt.Sprintf("%.1f%%", r.Percentage)
						}
						_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Answer, count, pct)
					}
				}
				for _, c := range []struct {
					name string
					v    *float64
				}{{"mean", sum.Mean}, {"median", sum.Median}, {"mode", sum.Mode}} {
					if c.v != nil {
						_, _ = fmt.Fprintf(w, "%s\t%g\n", c.name, *c.v)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&methods, "methods", "m", "frequencies,percentages", "Comma separated: frequencies, percentages, mean, median, mode")
	return cmd
}

func newCrossTabCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "crosstab <field> <by>",
		Short: "Count submissions by the values of two fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			cells, err := sess.CrossTab(args[0], args[1])
			if err != nil {
				return err
			}
			left, err := sess.Heading(args[0])
			if err != nil {
				return err
			}
			right, err := sess.Heading(args[1])
			if err != nil {
				return err
			}
			return opts.print(cmd, cells, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "%s\t%s\tCOUNT\n", strings.ToUpper(left), strings.ToUpper(right))
				for _, c := range cells {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", c.Key, c.By, c.Count)
				}
				return nil
			})
		},
	}
}
