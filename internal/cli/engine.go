package cli

import (
	"context"

	"github.com/spf13/cobra"

	service "github.com/okian/toto/internal/app"
	"github.com/okian/toto/internal/config"
	"github.com/okian/toto/internal/domain/filter"
	"github.com/okian/toto/internal/domain/model"
	"github.com/okian/toto/pkg/logger"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// startService loads the configuration, points the logger at stderr and
// starts a service. The caller stops it.
func startService(ctx context.Context, opts *RootOptions, cmd *cobra.Command, extra ...service.Option) (*service.Service, *config.Config, error) {
	level := "error"
	if opts.Verbose {
		level = "debug"
	}
	if err := logger.InitWithOptions(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithJSON(opts.Format == "json"),
		logger.WithLevel(level),
	); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	svc := service.New(append(service.FromConfig(cfg), extra...)...)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

// selections converts coupon notation into the per-match lists a
// generate request carries.
func selections(picks string) ([][]string, error) {
	sel, err := model.ParsePicks(picks)
	if err != nil {
		return nil, err
	}
	out := make([][]string, model.SlateSize)
	for i := range out {
		syms := sel.Symbols(i + 1)
		out[i] = make([]string, len(syms))
		for j, s := range syms {
			out[i][j] = s.String()
		}
	}
	return out, nil
}

// constraintFlags binds the filter flags. Only flags set on the command
// line override the configured defaults.
type constraintFlags struct {
	values filter.Config
}

func (c *constraintFlags) register(cmd *cobra.Command) {
	d := filter.DefaultConfig()
	fs := cmd.Flags()
	fs.IntVar(&c.values.Draws.Min, "draws-min", d.Draws.Min, "minimum draws in a column")
	fs.IntVar(&c.values.Draws.Max, "draws-max", d.Draws.Max, "maximum draws in a column")
	fs.IntVar(&c.values.MaxConsecutiveDraws, "max-consecutive-draws", d.MaxConsecutiveDraws, "longest allowed run of draws")
	fs.IntVar(&c.values.MaxHomeWins, "max-home-wins", d.MaxHomeWins, "maximum home wins (15 = unlimited)")
	fs.IntVar(&c.values.MinAwayWins, "min-away-wins", d.MinAwayWins, "minimum away wins")
	fs.IntVar(&c.values.Group1Draws.Min, "group1-draws-min", d.Group1Draws.Min, "minimum draws in matches 1-8")
	fs.IntVar(&c.values.Group1Draws.Max, "group1-draws-max", d.Group1Draws.Max, "maximum draws in matches 1-8")
	fs.IntVar(&c.values.Group2Draws.Min, "group2-draws-min", d.Group2Draws.Min, "minimum draws in matches 9-15")
	fs.IntVar(&c.values.Group2Draws.Max, "group2-draws-max", d.Group2Draws.Max, "maximum draws in matches 9-15")
}

func (c *constraintFlags) resolve(cmd *cobra.Command, base filter.Config) filter.Config {
	out := base
	fs := cmd.Flags()
	set := func(name string, dst *int, v int) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("draws-min", &out.Draws.Min, c.values.Draws.Min)
	set("draws-max", &out.Draws.Max, c.values.Draws.Max)
	set("max-consecutive-draws", &out.MaxConsecutiveDraws, c.values.MaxConsecutiveDraws)
	set("max-home-wins", &out.MaxHomeWins, c.values.MaxHomeWins)
	set("min-away-wins", &out.MinAwayWins, c.values.MinAwayWins)
	set("group1-draws-min", &out.Group1Draws.Min, c.values.Group1Draws.Min)
	set("group1-draws-max", &out.Group1Draws.Max, c.values.Group1Draws.Max)
	set("group2-draws-min", &out.Group2Draws.Min, c.values.Group2Draws.Min)
	set("group2-draws-max", &out.Group2Draws.Max, c.values.Group2Draws.Max)
	return out
}
