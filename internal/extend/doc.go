package extend

// Package extend turns a downloaded video into an extended-duration version
// by repeating it in an ffmpeg concat manifest and trimming the result to
// the target length. Stream copy is the default; re-encoding is optional.
