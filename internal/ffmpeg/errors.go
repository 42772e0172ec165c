package ffmpeg

import "errors"

// ErrNotFound indicates a required FFmpeg suite binary could not be
// located by any resolution step. The wrapping error names the tool and
// carries install instructions.
var ErrNotFound = errors.New("tool not found")
