package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/toto/internal/adapters/source"
	service "github.com/okian/toto/internal/app"
	"github.com/okian/toto/internal/domain/types"
)

// NewMatchesCommand creates the matches command.
func NewMatchesCommand(rootOpts *RootOptions) *cobra.Command {
	var file, url string
	cmd := &cobra.Command{
		Use:   "matches [--file events.json | --url schedule-page]",
		Short: "Show the fifteen-match slate",
		Long: `Show the slate loaded from a JSON file of {home, away} pairs, or
scraped from a schedule page. Without either, the configured source is used
and numbered placeholders fill in when there is none.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatches(rootOpts, file, url, cmd)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file with fifteen {home, away} pairs")
	cmd.Flags().StringVar(&url, "url", "", "schedule page to scrape")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

func runMatches(opts *RootOptions, file, url string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	var extra []service.Option
	if file != "" {
		src := source.NewFileSource(file)
		// The service falls back to placeholders; an explicit file must load.
		if _, err := src.Matches(ctx); err != nil {
			_ = f.Error("invalid_slate", err.Error())
			return WrapExitError(ExitFailure, "matches failed", err)
		}
		extra = append(extra, service.WithSlateSource(src))
	}
	if url != "" {
		extra = append(extra, service.WithScheduleSource(source.NewScheduleSource(url)))
	}

	svc, _, err := startService(ctx, opts, cmd, extra...)
	if err != nil {
		return f.Fail("matches failed", err)
	}
	defer svc.Stop()

	slate := svc.Matches(ctx)
	if url != "" {
		if slate, err = svc.RefreshSchedule(ctx); err != nil {
			return f.Fail("matches failed", err)
		}
	}

	return f.Success(slate, formatSlate(slate))
}

func formatSlate(slate types.Slate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", slate.Source)
	for _, m := range slate.Matches {
		fmt.Fprintf(&b, "%2d. %s - %s\n", m.Number, m.Home, m.Away)
	}
	return b.String()
}
