// Package probe classifies media files by attempting to decode their leading
// frames.
//
// A Prober never fails: every outcome, including a missing file, a decoder
// crash, or a timeout, is folded into a Result whose State is one of
// Healthy, Missing, Empty, or DecodeError. The underlying cause is retained
// on the Result for logging. Decoding itself is delegated to a Decoder; the
// production implementation shells out to ffprobe.
package probe
