package common

// Lerp linearly interpolates between a and b by fraction f.
// f is not clamped; callers wanting clamped behavior should clamp first.
//
// Parameters:
//   - a: value at f = 0
//   - b: value at f = 1
//   - f: interpolation fraction
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, f float32) float32 {
	return a + (b-a)*f
}

// Clamp constrains v to the inclusive range [min, max].
//
// Parameters:
//   - v: value to constrain
//   - min: lower bound
//   - max: upper bound
//
// Returns:
//   - float32: v limited to [min, max]
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Wrap01 wraps v into [0, 1), looping values past 1 back around to 0.
// Negative inputs wrap upward symmetrically.
//
// Parameters:
//   - v: value to wrap
//
// Returns:
//   - float32: v wrapped into [0, 1)
func Wrap01(v float32) float32 {
	for v >= 1 {
		v -= 1
	}
	for v < 0 {
		v += 1
	}
	return v
}
