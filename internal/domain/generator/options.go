package generator

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithCutoff sets the practical ceiling on columns. Expansion aborts once
// the partial product exceeds twice this value.
func WithCutoff(cutoff int) Option {
	return func(g *Generator) {
		if cutoff > 0 {
			g.cutoff = cutoff
		}
	}
}
