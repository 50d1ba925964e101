package track

// TrackBuilderOption is a functional option for configuring a Track.
// Use the With* functions to create options that are applied directly to the track instance.
type TrackBuilderOption func(*trackImpl)

// WithSpeedBounds sets the [min, max] range checkpoint speeds are clamped to.
// Invalid ranges (min >= max) are ignored.
//
// Parameters:
//   - min: lower speed bound in parameter units per second
//   - max: upper speed bound in parameter units per second
//
// Returns:
//   - TrackBuilderOption: option function to apply
func WithSpeedBounds(min, max float32) TrackBuilderOption {
	return func(t *trackImpl) {
		if min >= max {
			return
		}
		t.minSpeed = min
		t.maxSpeed = max
	}
}

// WithPolylineResolution sets the segment count of the polyline cache built
// by Refresh. Values < 1 are ignored.
//
// Parameters:
//   - segments: number of line segments in the sampled polyline
//
// Returns:
//   - TrackBuilderOption: option function to apply
func WithPolylineResolution(segments int) TrackBuilderOption {
	return func(t *trackImpl) {
		if segments < 1 {
			return
		}
		t.polylineResolution = segments
	}
}
