package enhance

import (
	"fmt"
	"strings"
)

// Options selects the enhancement stages to apply.
// The zero value is the gentle default: mixed-voice rumble cutoff, mild
// noise reduction, no voice isolation.
type Options struct {
	Voice               Voice
	RemoveKeyboardNoise bool
	VoiceIsolation      bool
}

// rumbleCutoff returns the high-pass cutoff in Hz for a voice profile.
// Male fundamentals reach down to about 85 Hz, female voices rarely sit
// below 165 Hz; mixed recordings split the difference.
func rumbleCutoff(v Voice) int {
	switch v {
	case VoiceMale:
		return 90
	case VoiceFemale:
		return 110
	default:
		return 100
	}
}

// BuildChain assembles the ordered filter stages for the given options.
// Deterministic: equal options always produce an identical stage list.
// Stage order is fixed; options only select which stages are present.
func BuildChain(opts Options) []string {
	chain := make([]string, 0, 12)

	// Rumble below the voice band carries no speech information.
	chain = append(chain, fmt.Sprintf("highpass=f=%d", rumbleCutoff(opts.Voice)))

	// Exactly one noise-reduction variant. The keyboard variant tracks
	// clicks aggressively and gates between keystrokes; the default
	// variant stays mild to avoid denoiser artifacts on clean speech.
	if opts.RemoveKeyboardNoise {
		chain = append(chain,
			"afftdn=nr=24:nf=-40:tn=1",
			"adeclick",
			"adeclip",
			"agate=threshold=0.02:ratio=2:attack=10:release=250",
			"lowpass=f=7000",
		)
	} else {
		chain = append(chain,
			"afftdn=nr=12:nf=-28",
			"lowpass=f=8000",
		)
	}

	// dialoguenhance requires a stereo input layout.
	if opts.VoiceIsolation {
		chain = append(chain,
			"aformat=channel_layouts=stereo,dialoguenhance",
			"speechnorm=e=6.25:r=0.00001:l=1",
		)
	}

	// Fixed tail: dereverb trick (high-pass the reversed signal so the
	// filter hits reverb tails as onsets), gentle compression, mud cut,
	// presence boost, broadcast loudness.
	chain = append(chain,
		"areverse,highpass=f=200,areverse",
		"acompressor=threshold=-25dB:ratio=4",
		"equalizer=f=300:width_type=h:width=200:g=-2",
		"equalizer=f=3000:width_type=h:width=2000:g=4",
		"loudnorm=I=-16:TP=-1.5",
	)

	return chain
}

// Graph joins filter stages into a single ffmpeg filtergraph string.
func Graph(chain []string) string {
	return strings.Join(chain, ",")
}
