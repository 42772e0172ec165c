package audio

import "errors"

// ErrFileNotFound indicates the specified input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidOverlap indicates the overlap is negative or at least as
// long as the segment length, which would stall the window advance.
var ErrInvalidOverlap = errors.New("invalid overlap")

// ErrProbeFailed indicates ffprobe could not produce a usable duration.
var ErrProbeFailed = errors.New("could not determine audio duration")

// ErrUnsupportedFormat indicates an output format with no encoder settings.
var ErrUnsupportedFormat = errors.New("unsupported output format")
