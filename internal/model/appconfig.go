package model

// EngineConfig holds the tunable tolerances of the geometry engine. The
// defaults match the values the algorithms were calibrated with; they are
// exposed because two of them (the zero-overlap nudge and the index
// deviation check) are policy rather than geometry.
type EngineConfig struct {
	// Nudge is added to a step vector when the overlap is exactly zero, to
	// defeat floating-point hairline gaps in downstream renderers.
	Nudge float64 `json:"nudge"`

	// SpacingTolFrac scales the coordinate span of a selection into the
	// same-row/same-column tolerance used by grid inference.
	SpacingTolFrac float64 `json:"spacing_tol_frac"`

	// SpacingTolFloor is the minimum same-row/same-column tolerance,
	// protecting tiny selections from a vanishing adaptive tolerance.
	SpacingTolFloor float64 `json:"spacing_tol_floor"`

	// StrictIndexCheck, when set, makes inference fail if a region center
	// reprojects further than IndexDeviationFrac of a step from its rounded
	// grid index. When unset (the default) the nearest index is accepted.
	StrictIndexCheck   bool    `json:"strict_index_check"`
	IndexDeviationFrac float64 `json:"index_deviation_frac"`

	// GuidePadding is the default extension past the grid's outer boundary
	// for guide lines, in drawing units.
	GuidePadding float64 `json:"guide_padding"`
}

// DefaultEngineConfig returns the calibrated defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Nudge:              1e-6,
		SpacingTolFrac:     0.01,
		SpacingTolFloor:    1e-6,
		StrictIndexCheck:   false,
		IndexDeviationFrac: 0.25,
		GuidePadding:       10.0,
	}
}
