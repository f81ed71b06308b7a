package coverage

import "math"

// Percent is an optional percentage value. It distinguishes "no data" from a
// genuine 0%, so degenerate inputs (empty caches, zero found counts) never
// leak NaN into the display layer.
type Percent struct {
	value   float64
	defined bool
}

// NoPercent is the absent percentage.
var NoPercent = Percent{}

// PercentValue wraps a concrete percentage.
func PercentValue(v float64) Percent {
	return Percent{value: v, defined: true}
}

// Ratio converts a hit/found pair into a percentage. A zero found count
// yields the undefined percentage, never a division by zero.
func Ratio(hit, found int) Percent {
	if found == 0 {
		return NoPercent
	}
	return PercentValue(math.Round(100 * float64(hit) / float64(found)))
}

// RatioOrZero is like Ratio but defines a zero found count as exactly 0%.
// Workspace aggregates use it so an empty workspace reads 0, not "unknown".
func RatioOrZero(hit, found int) Percent {
	if found == 0 {
		return PercentValue(0)
	}
	return Ratio(hit, found)
}

// Defined reports whether the percentage carries a value.
func (p Percent) Defined() bool { return p.defined }

// Value returns the rounded percentage. Only meaningful when Defined.
func (p Percent) Value() int { return int(p.value) }
