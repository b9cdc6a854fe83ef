package internal

import "go.uber.org/zap"

type LocatorStrategy string

const (
	// Jump-and-walk point location. Expected sublinear time.
	WalkLocator LocatorStrategy = "walk"
	// Linear scan over every face. Slow, but with no walking to go wrong.
	ScanLocator LocatorStrategy = "scan"
)

type Options struct {
	// Nil means no logging
	Logger *zap.Logger
	// Seed for the random face sample used to start a point location walk. The
	// default of zero is deterministic, which keeps failures reproducible.
	Seed    int64
	Locator LocatorStrategy
	// Upper bound on flips in a single legalization pass, as a safety valve
	// against degenerate flip cycles. Zero means unbounded.
	MaxFlips int
	// Fail instead of dropping constraint points and segments that fall
	// outside the triangulated domain.
	StrictConstraints bool
	// Legalize every edge of the initial mesh once it is built, so that the
	// mesh is Delaunay before any constraint goes in.
	Delaunize bool
	// Run the full invariant check after every mutating public operation.
	CheckInvariants bool
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Locator == "" {
		o.Locator = WalkLocator
	}
	return o
}

// Counters for the work done on a mesh, mostly useful for logging and tests
type Stats struct {
	Flips           int
	EdgeSplits      int
	FaceSplits      int
	SkippedPoints   int
	SkippedSegments int
}
