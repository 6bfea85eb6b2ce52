package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/toto/internal/domain/types"
)

type scoreOptions struct {
	picks       string
	official    string
	constraints constraintFlags
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	o := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score --picks \"...\" --official \"...\"",
		Short: "Generate a coupon and check it against the official results",
		Long: `Generate and filter the columns of the picks, then count the correct
predictions of every column. Columns with 12 or more correct are winners.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(rootOpts, o, cmd)
		},
	}
	cmd.Flags().StringVar(&o.picks, "picks", "", "fifteen pick tokens (required)")
	cmd.Flags().StringVar(&o.official, "official", "", "fifteen official result symbols (required)")
	_ = cmd.MarkFlagRequired("picks")
	_ = cmd.MarkFlagRequired("official")
	o.constraints.register(cmd)
	return cmd
}

func runScore(opts *RootOptions, o *scoreOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	sel, err := selections(o.picks)
	if err != nil {
		return f.Fail("score failed", err)
	}

	svc, cfg, err := startService(ctx, opts, cmd)
	if err != nil {
		return f.Fail("score failed", err)
	}
	defer svc.Stop()

	sess, err := svc.CreateSession(ctx)
	if err != nil {
		return f.Fail("score failed", err)
	}
	constraints := o.constraints.resolve(cmd, cfg.Constraints)
	if _, err := svc.Generate(ctx, sess.ID, types.GenerateRequest{Selections: sel, Constraints: &constraints}); err != nil {
		return f.Fail("score failed", err)
	}
	res, err := svc.Score(ctx, sess.ID, o.official)
	if err != nil {
		return f.Fail("score failed", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Official: %s\n", res.Official)
	fmt.Fprintf(&text, "15: %d  14: %d  13: %d  12: %d\n", res.Hits15, res.Hits14, res.Hits13, res.Hits12)
	writeWinners(&text, res.Winners)
	text.WriteString(res.Message + "\n")
	return f.Success(res, text.String())
}

func writeWinners(b *strings.Builder, winners []types.Winner) {
	for _, w := range winners {
		fmt.Fprintf(b, "%6d  %s  %s\n", w.Index, w.Column, w.Mark)
	}
}
