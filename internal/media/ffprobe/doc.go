// Package ffprobe provides a typed wrapper around the ffprobe binary.
//
// This package has no clipkeeper-specific dependencies.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - CountFrames: decodes the leading frames of the first video stream and
//     reports how many were read
package ffprobe
