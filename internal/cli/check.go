package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var official string
	cmd := &cobra.Command{
		Use:   "check --official \"...\" <columns.csv>",
		Short: "Check an exported column table against the official results",
		Long: `Read a table with the header Column,Match1,...,Match15 and count the
correct predictions of every row. Rows with more than 12 correct are
winners. Malformed rows are skipped and counted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], official, cmd)
		},
	}
	cmd.Flags().StringVar(&official, "official", "", "fifteen official result symbols (required)")
	_ = cmd.MarkFlagRequired("official")
	return cmd
}

func runCheck(opts *RootOptions, path, official string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	file, err := os.Open(path)
	if err != nil {
		_ = f.Error("not_found", err.Error())
		return WrapExitError(ExitFailure, "check failed", err)
	}
	defer func() { _ = file.Close() }()

	svc, _, err := startService(ctx, opts, cmd)
	if err != nil {
		return f.Fail("check failed", err)
	}
	defer svc.Stop()

	res, err := svc.CheckTable(ctx, file, official)
	if err != nil {
		return f.Fail("check failed", err)
	}
	f.VerboseLog("read %d rows from %s, dropped %d", res.Rows, path, res.Dropped)

	var text strings.Builder
	fmt.Fprintf(&text, "Official: %s\n", res.Official)
	fmt.Fprintf(&text, "Rows: %d  Dropped: %d\n", res.Rows, res.Dropped)
	fmt.Fprintf(&text, "15: %d  14: %d  13: %d\n", res.Hits15, res.Hits14, res.Hits13)
	writeWinners(&text, res.Winners)
	text.WriteString(res.Message + "\n")
	return f.Success(res, text.String())
}
