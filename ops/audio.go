package ops

import (
	"fmt"
	"math"
)

// AudioFormats is the fixed set of audio containers accepted for conversion
// and extraction.
var AudioFormats = []string{"mp3", "wav", "aac", "ogg", "flac"}

// audioCodecFor maps a supported audio format to its encoder.
func audioCodecFor(format string) string {
	switch format {
	case "wav":
		return "pcm_s16le"
	case "aac":
		return "aac"
	case "ogg":
		return "libvorbis"
	case "flac":
		return "flac"
	default:
		return "libmp3lame"
	}
}

func audioOperations() []*Operation {
	return []*Operation{
		{
			Name:        "adjust_volume",
			Kind:        KindAudio,
			Description: "Scale the audio volume. 1 is unchanged, 0.5 halves it, 2 doubles it.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "volume", Type: TypeFloat, Required: true, Min: minOf(0), Description: "Volume multiplier, 0 or greater."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				v, _ := args.Float("volume")
				return &Graph{AudioFilter: fmt.Sprintf("volume=%g", v), OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "speed_audio",
			Kind:        KindAudio,
			Description: "Change audio playback speed without changing pitch.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "speed", Type: TypeFloat, Required: true, GreaterThan: moreThan(0), Max: maxOf(100), Description: "Speed multiplier."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				speed, _ := args.Float("speed")
				return &Graph{AudioFilter: atempoChain(speed), OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "trim_audio",
			Kind:        KindAudio,
			Description: "Cut a time range out of the audio. A start of exactly 0 is valid.",
			Mode:        ModeBuffered,
			Params: []Param{
				{Name: "start", Type: TypeFloat, Required: true, Min: minOf(0), Description: "Start time in seconds."},
				{Name: "end", Type: TypeFloat, Min: minOf(0), Description: "End time in seconds; must be after start."},
				{Name: "duration", Type: TypeFloat, GreaterThan: moreThan(0), Description: "Length to keep in seconds; alternative to end."},
			},
			Check: func(args Args) error {
				start, _ := args.Float("start")
				if end, ok := args.Float("end"); ok && end <= start {
					return &ValidationError{Field: "end", Constraint: "must be after start"}
				}
				return nil
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				start, _ := args.Float("start")
				g := &Graph{
					InputArgs:  [][]string{{"-ss", fmtSeconds(start)}},
					OutputArgs: []string{"-vn", "-c:a", "copy"},
				}
				if end, ok := args.Float("end"); ok {
					g.OutputArgs = append([]string{"-t", fmtSeconds(end - start)}, g.OutputArgs...)
				} else if dur, ok := args.Float("duration"); ok {
					g.OutputArgs = append([]string{"-t", fmtSeconds(dur)}, g.OutputArgs...)
				}
				return g, nil
			},
		},
		{
			Name:        "reverse_audio",
			Kind:        KindAudio,
			Description: "Play the audio backwards.",
			Mode:        ModeBuffered,
			Build: func(_ Args, _ []InputInfo) (*Graph, error) {
				return &Graph{AudioFilter: "areverse", OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "fade_audio",
			Kind:        KindAudio,
			Description: "Fade the audio in at the start, or out at the end.",
			Mode:        ModeBuffered,
			NeedsProbe:  true,
			Params: []Param{
				{Name: "type", Type: TypeEnum, Required: true, Enum: []string{"in", "out"}, Description: "Fade direction."},
				{Name: "duration", Type: TypeFloat, Required: true, GreaterThan: moreThan(0), Max: maxOf(60), Description: "Fade length in seconds."},
			},
			Build: func(args Args, inputs []InputInfo) (*Graph, error) {
				kind, _ := args.String("type")
				dur, _ := args.Float("duration")
				g := &Graph{OutputArgs: []string{"-vn"}}
				if kind == "in" {
					g.AudioFilter = fmt.Sprintf("afade=t=in:st=0:d=%s", fmtSeconds(dur))
					return g, nil
				}
				if len(inputs) == 0 || inputs[0].Duration <= 0 {
					return nil, buildErr("fade_audio", "input duration unknown, cannot place fade-out")
				}
				st := inputs[0].Duration - dur
				if st < 0 {
					st = 0
				}
				g.AudioFilter = fmt.Sprintf("afade=t=out:st=%s:d=%s", fmtSeconds(st), fmtSeconds(dur))
				return g, nil
			},
		},
		{
			Name:        "pan_audio",
			Kind:        KindAudio,
			Description: "Shift the stereo balance. -1 is full left, 1 is full right, 0 is centered.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "pan", Type: TypeFloat, Required: true, Min: minOf(-1), Max: maxOf(1), Description: "Balance between -1 and 1."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				pan, _ := args.Float("pan")
				return &Graph{AudioFilter: panFilter(pan), OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "pitch_audio",
			Kind:        KindAudio,
			Description: "Shift the pitch by a number of semitones without changing the duration.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "semitones", Type: TypeFloat, Required: true, Min: minOf(-24), Max: maxOf(24), Description: "Semitones to shift; negative lowers the pitch."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				semitones, _ := args.Float("semitones")
				factor := math.Pow(2, semitones/12)
				filter := fmt.Sprintf("asetrate=%d*%g,aresample=%d,%s",
					silentSampleRate, factor, silentSampleRate, atempoChain(1/factor))
				return &Graph{AudioFilter: filter, OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "bass_boost",
			Kind:        KindAudio,
			Description: "Boost or cut the low frequencies by a gain in decibels.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "gain", Type: TypeFloat, Required: true, Min: minOf(-20), Max: maxOf(20), Description: "Gain in dB."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				gain, _ := args.Float("gain")
				return &Graph{AudioFilter: fmt.Sprintf("bass=g=%g", gain), OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "treble_boost",
			Kind:        KindAudio,
			Description: "Boost or cut the high frequencies by a gain in decibels.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "gain", Type: TypeFloat, Required: true, Min: minOf(-20), Max: maxOf(20), Description: "Gain in dB."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				gain, _ := args.Float("gain")
				return &Graph{AudioFilter: fmt.Sprintf("treble=g=%g", gain), OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "equalize_audio",
			Kind:        KindAudio,
			Description: "Apply a peaking equalizer band at a center frequency.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "frequency", Type: TypeFloat, Required: true, GreaterThan: moreThan(0), Max: maxOf(20000), Description: "Center frequency in Hz."},
				{Name: "width", Type: TypeFloat, GreaterThan: moreThan(0), Max: maxOf(10000), Default: 200.0, Description: "Band width in Hz."},
				{Name: "gain", Type: TypeFloat, Required: true, Min: minOf(-20), Max: maxOf(20), Description: "Gain in dB."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				freq, _ := args.Float("frequency")
				width, _ := args.Float("width")
				gain, _ := args.Float("gain")
				return &Graph{
					AudioFilter: fmt.Sprintf("equalizer=f=%g:width_type=h:width=%g:g=%g", freq, width, gain),
					OutputArgs:  []string{"-vn"},
				}, nil
			},
		},
		{
			Name:        "normalize_audio",
			Kind:        KindAudio,
			Description: "Normalize loudness to a broadcast-friendly level.",
			Mode:        ModeStream,
			Build: func(_ Args, _ []InputInfo) (*Graph, error) {
				return &Graph{AudioFilter: "loudnorm=I=-16:TP=-1.5:LRA=11", OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "echo_audio",
			Kind:        KindAudio,
			Description: "Add an echo with the given delay and decay.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "delay", Type: TypeFloat, Min: minOf(1), Max: maxOf(5000), Default: 500.0, Description: "Echo delay in milliseconds."},
				{Name: "decay", Type: TypeFloat, GreaterThan: moreThan(0), Max: maxOf(1), Default: 0.5, Description: "Echo decay between 0 and 1."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				delay, _ := args.Float("delay")
				decay, _ := args.Float("decay")
				return &Graph{
					AudioFilter: fmt.Sprintf("aecho=0.8:0.9:%g:%g", delay, decay),
					OutputArgs:  []string{"-vn"},
				}, nil
			},
		},
		{
			Name:        "lowpass_audio",
			Kind:        KindAudio,
			Description: "Apply a low-pass filter, keeping frequencies below the cutoff.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "frequency", Type: TypeFloat, Required: true, GreaterThan: moreThan(0), Max: maxOf(20000), Description: "Cutoff frequency in Hz."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				freq, _ := args.Float("frequency")
				return &Graph{AudioFilter: fmt.Sprintf("lowpass=f=%g", freq), OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "highpass_audio",
			Kind:        KindAudio,
			Description: "Apply a high-pass filter, keeping frequencies above the cutoff.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "frequency", Type: TypeFloat, Required: true, GreaterThan: moreThan(0), Max: maxOf(20000), Description: "Cutoff frequency in Hz."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				freq, _ := args.Float("frequency")
				return &Graph{AudioFilter: fmt.Sprintf("highpass=f=%g", freq), OutputArgs: []string{"-vn"}}, nil
			},
		},
		{
			Name:        "convert_audio",
			Kind:        KindAudio,
			Description: "Convert the audio to a different format.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "format", Type: TypeEnum, Required: true, Enum: AudioFormats, Description: "Target format."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				format, _ := args.String("format")
				return &Graph{OutputArgs: []string{"-vn", "-c:a", audioCodecFor(format)}}, nil
			},
		},
	}
}
