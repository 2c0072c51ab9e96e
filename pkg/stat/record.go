package stat

// Record is one decoded raw entry of a stats dump, handed to ProcessRecord
// once per owner.
type Record struct {
	Type string // Group, Scalar or Distribution
	Name string

	// Value is the scalar payload; Missing when the dump had no number.
	Value Value

	// Distribution payload: NumBins equal-width bins of BinSize starting at Min.
	Counts  []float64
	NumBins int
	BinSize int64
	Min     int64
}
