// Package blow decides when candles are blown out.
//
// # Overview
//
// Detection is a loop over volume samples. Each sample is a level in [0, 1]
// read from a [VolumeSource]. When a level reaches the [Policy] threshold
// the sample counts as a blow, and every lit candle goes out with the
// policy's probability. A probability of 1 blows out the whole cake at once;
// lower values leave some candles standing for another breath.
//
// Both the volume and the randomness are injected, so the heuristic runs
// the same way against a microphone, a recording or a fixed test sequence:
//
//	d := &blow.Detector{
//	    Policy:   blow.DefaultPolicy(),
//	    Source:   blow.NewSamples(0.05, 0.1, 0.6),
//	    Rand:     blow.NewRand(42),
//	    Interval: 100 * time.Millisecond,
//	}
//	summary, err := d.Run(ctx, c)
//
// # Sources
//
//   - [Samples]: a fixed sequence of levels
//   - [SourceFunc]: adapts a function
//   - [WAVSource]: RMS levels of consecutive windows of a WAV recording
//   - [Unavailable]: a device that could not be opened
//
// A source that reports a device-unavailable error disables the detector:
// the failure is logged once and later runs return immediately.
package blow
