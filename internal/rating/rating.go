// Package rating provides the shared 0-5 rating scale used by all
// site evaluation categories.
package rating

// Value is a rating on the 0-5 scale. Zero means "not yet rated" and is
// excluded from averages; 1-5 is a valid manual or inferred rating.
type Value int

// Rating scale bounds.
const (
	Min Value = 0
	Max Value = 5

	// Unrated is the sentinel for a sub-metric with no data yet.
	Unrated Value = 0
)

// Clamp converts an arbitrary integer to a Value, clamping into [0, 5].
// Out-of-range input is silently clamped rather than rejected; callers
// needing hard validation re-check at the aggregate boundary.
func Clamp(v int) Value {
	if v < int(Min) {
		return Min
	}
	if v > int(Max) {
		return Max
	}
	return Value(v)
}

// Rated reports whether the value carries actual rating data.
func (v Value) Rated() bool {
	return v > Unrated
}

// InRange reports whether v is a valid explicit rating (1-5).
// Used by strict validation passes; the permissive path uses Clamp.
func InRange(v int) bool {
	return v >= 1 && v <= int(Max)
}
