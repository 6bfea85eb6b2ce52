package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/toto/internal/domain/types"
)

const exportFileMode = 0o644

type generateOptions struct {
	picks       string
	out         string
	lines       bool
	constraints constraintFlags
}

// generateReport is the JSON payload of generate.
type generateReport struct {
	types.GenerationResult
	File string `json:"file,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate --picks \"1 10 2 102 ...\"",
		Short: "Generate and filter the columns of a coupon",
		Long: `Generate every column admitted by the picks and keep the ones that
pass the constraints.

Picks are fifteen whitespace separated tokens, one per match, each listing
the admissible symbols (e.g. "10" for home or draw, "102" for all three).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, o, cmd)
		},
	}
	cmd.Flags().StringVar(&o.picks, "picks", "", "fifteen pick tokens (required)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the kept columns to this CSV file")
	cmd.Flags().BoolVar(&o.lines, "lines", false, "print every kept column, one per line")
	_ = cmd.MarkFlagRequired("picks")
	o.constraints.register(cmd)
	return cmd
}

func runGenerate(opts *RootOptions, o *generateOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	sel, err := selections(o.picks)
	if err != nil {
		return f.Fail("generate failed", err)
	}

	svc, cfg, err := startService(ctx, opts, cmd)
	if err != nil {
		return f.Fail("generate failed", err)
	}
	defer svc.Stop()

	sess, err := svc.CreateSession(ctx)
	if err != nil {
		return f.Fail("generate failed", err)
	}
	constraints := o.constraints.resolve(cmd, cfg.Constraints)
	res, err := svc.Generate(ctx, sess.ID, types.GenerateRequest{Selections: sel, Constraints: &constraints})
	if err != nil {
		return f.Fail("generate failed", err)
	}
	f.VerboseLog("generated %d columns, kept %d", res.Raw, res.Filtered)

	report := generateReport{GenerationResult: res}
	var text strings.Builder
	writeGeneration(&text, res)

	if res.Filtered > 0 && o.lines {
		exp, err := svc.ExportLines(ctx, sess.ID)
		if err != nil {
			return f.Fail("generate failed", err)
		}
		text.WriteString("\n")
		text.Write(exp.Body)
	}

	if res.Filtered > 0 && o.out != "" {
		exp, err := svc.ExportCSV(ctx, sess.ID)
		if err != nil {
			return f.Fail("generate failed", err)
		}
		if err := os.WriteFile(o.out, exp.Body, exportFileMode); err != nil {
			return f.Fail("generate failed", err)
		}
		report.File = o.out
		fmt.Fprintf(&text, "Saved %d columns to %s\n", exp.Rows, o.out)
	}

	return f.Success(report, text.String())
}

func writeGeneration(b *strings.Builder, res types.GenerationResult) {
	fmt.Fprintf(b, "Raw columns:      %d\n", res.Raw)
	fmt.Fprintf(b, "Filtered columns: %d\n", res.Filtered)
	fmt.Fprintf(b, "Cost:             %g %s\n", res.Cost, res.Currency)
	fmt.Fprintf(b, "Filters:          %s\n", strings.Join(res.Filters, ", "))
	if len(res.Rejections) > 0 {
		keys := make([]string, 0, len(res.Rejections))
		for k := range res.Rejections {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%d", k, res.Rejections[k])
		}
		fmt.Fprintf(b, "Rejected:         %s\n", strings.Join(parts, " "))
	}
	for _, c := range res.Preview {
		fmt.Fprintf(b, "%6d  %s\n", c.Index, c.Column)
	}
	if res.Message != "" {
		b.WriteString(res.Message + "\n")
	}
}
