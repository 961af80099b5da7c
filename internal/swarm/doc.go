// Package swarm provides the shared value types and error kinds of the
// cohesion engine.
//
// The package defines the vocabulary every other stage speaks:
//
//   - [Position]: a robot's 2-D location in arena units
//   - [Sampling]: stride and count of the sampled time axis
//   - [Series]: one run's metric values, one per sample
//   - [RunID]: the (configuration, seed) pair that names a run
//
// # Errors
//
// Decoding, sampling and aggregation failures are reported as
// [*DataFormatError], [*OutOfRangeError] and [*ShapeMismatchError]. Each wraps
// one of the sentinel errors so callers can branch with errors.Is:
//
//	if errors.Is(err, swarm.ErrDataFormat) {
//	    // malformed log, drop the run
//	}
package swarm
