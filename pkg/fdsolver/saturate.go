package fdsolver

import "golang.org/x/exp/constraints"

// Public range constants, per spec.md §6. All variable bounds and interval
// arithmetic are clamped into this range so that saturating add/sub can
// never overflow int64 (end = start + duration is the case spec.md §3
// calls out explicitly for intervals).
const (
	MaxValidValue int64 = math_MaxInt64 >> 2
	MinValidValue int64 = -MaxValidValue
)

// math_MaxInt64 avoids importing "math" solely for one constant; kept as a
// private alias so the two public constants above read cleanly.
const math_MaxInt64 = 1<<63 - 1

// clampToValidRange saturates v into [MinValidValue, MaxValidValue].
func clampToValidRange(v int64) int64 {
	if v > MaxValidValue {
		return MaxValidValue
	}
	if v < MinValidValue {
		return MinValidValue
	}
	return v
}

// saturatingAdd adds a and b using saturating arithmetic over the full
// int64 range, per spec.md §4.3's "numerical saturation" edge-case policy.
// Generic over any signed integer via golang.org/x/exp/constraints; every
// current call site (interval.go, solver.go) instantiates it with int64.
func saturatingAdd[T constraints.Signed](a, b T) T {
	var maxV T = 1<<(unsafeBitSize[T]()-1) - 1
	minV := -maxV - 1
	if b > 0 && a > maxV-b {
		return maxV
	}
	if b < 0 && a < minV-b {
		return minV
	}
	return a + b
}

// saturatingSub subtracts b from a using saturating arithmetic.
func saturatingSub[T constraints.Signed](a, b T) T {
	var maxV T = 1<<(unsafeBitSize[T]()-1) - 1
	minV := -maxV - 1
	if b < 0 && a > maxV+b {
		return maxV
	}
	if b > 0 && a < minV+b {
		return minV
	}
	return a - b
}

// unsafeBitSize returns the bit width of T via a type switch on T's zero
// value; int64 (the only instantiation in use) and int fall into the
// default case and report 64. Kept generic (rather than hardcoding
// int64) so saturatingAdd/Sub stay reusable if a narrower reversible cell
// is introduced later.
func unsafeBitSize[T constraints.Signed]() int {
	var zero T
	switch any(zero).(type) {
	case int8:
		return 8
	case int16:
		return 16
	case int32:
		return 32
	default:
		return 64
	}
}
