package audio

import (
	"fmt"
	"time"

	"lectio/internal/format"
)

// Default splitting parameters.
const (
	// DefaultSegmentLength keeps each segment safely inside transcription
	// service limits while minimizing the number of boundaries.
	DefaultSegmentLength = 30 * time.Minute

	// DefaultOverlap repeats half a minute across consecutive segments so
	// words spoken at a boundary appear whole in at least one segment.
	DefaultOverlap = 30 * time.Second

	// DefaultFormat is the output container for split segments.
	DefaultFormat = "mp3"
)

// SplitOptions bundles the user-tunable splitting parameters.
type SplitOptions struct {
	SegmentLength time.Duration // nominal window length
	Overlap       time.Duration // audio shared by consecutive windows
	Format        string        // output extension: mp3, m4a, ogg
}

// DefaultSplitOptions returns the documented defaults: 30-minute
// segments, 30-second overlap, mp3 output.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		SegmentLength: DefaultSegmentLength,
		Overlap:       DefaultOverlap,
		Format:        DefaultFormat,
	}
}

// Window is one planned slice of the source audio.
type Window struct {
	Index  int           // zero-based position in the plan
	Start  time.Duration // offset into the source
	Length time.Duration // extracted duration
}

// End returns the source offset where this window stops.
func (w Window) End() time.Duration {
	return w.Start + w.Length
}

// String returns a human-readable representation for logging.
func (w Window) String() string {
	return fmt.Sprintf("window %d: %s-%s",
		w.Index,
		format.Duration(w.Start),
		format.Duration(w.End()))
}

// Plan is the ordered set of windows covering a source file.
type Plan struct {
	Total   time.Duration // source duration, truncated to whole seconds
	Windows []Window
}

// NeedsSplit reports whether the plan contains windows to encode.
// A plan without windows means the file fits in a single segment and
// must be passed through unchanged.
func (p Plan) NeedsSplit() bool {
	return len(p.Windows) > 0
}

// PlanWindows computes the overlapping windows covering a recording of
// the given total duration.
//
// The duration is truncated to whole seconds first; all boundary
// arithmetic uses the truncated value. When the truncated duration fits
// inside a single segment the returned plan has no windows. Otherwise
// window i starts at i*(segmentLength-overlap); every window is
// segmentLength long except the last, which runs to the exact end of the
// truncated duration. A trailing window that would repeat mostly
// already-covered overlap is folded into its predecessor, so the final
// window may overshoot segmentLength by up to overlap.
func PlanWindows(total, segmentLength, overlap time.Duration) (Plan, error) {
	if overlap < 0 || overlap >= segmentLength {
		return Plan{}, fmt.Errorf("%w: overlap %v, segment length %v",
			ErrInvalidOverlap, overlap, segmentLength)
	}

	truncated := total.Truncate(time.Second)
	plan := Plan{Total: truncated}
	if truncated <= segmentLength {
		return plan, nil
	}

	step := segmentLength - overlap
	count := int((truncated-overlap)/step) + 1

	// A tail shorter than the overlap contains almost no new audio; the
	// previous window extends to the end instead of emitting it.
	if count > 2 {
		tail := truncated - (time.Duration(count-2)*step + segmentLength)
		if tail <= overlap {
			count--
		}
	}

	plan.Windows = make([]Window, count)
	for i := range plan.Windows {
		start := time.Duration(i) * step
		length := segmentLength
		if i == count-1 {
			length = truncated - start
		}
		plan.Windows[i] = Window{Index: i, Start: start, Length: length}
	}

	return plan, nil
}
