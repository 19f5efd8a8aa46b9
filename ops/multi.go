package ops

import (
	"fmt"
	"strings"
)

// TransitionTypes lists the accepted transition identifiers. All of them are
// rendered as a concatenation with edge fades: true time-overlapped blending
// would need per-clip offset math, so the directional variants share the same
// fade mechanic and differ only in fade color.
var TransitionTypes = []string{
	"crossfade", "dissolve", "fade", "fadeblack", "fadewhite",
	"wipeleft", "wiperight", "wipeup", "wipedown",
	"slideleft", "slideright", "slideup", "slidedown",
}

// SubtitleStyles and SubtitlePositions are the supported caption presets.
var (
	SubtitleStyles    = []string{"default", "white_on_black", "yellow"}
	SubtitlePositions = []string{"top", "bottom"}
)

// Reserved argument keys the server injects after staging secondary inputs.
// Validation strips them from caller-supplied bags.
const (
	ArgSubtitlePath    = "_subtitle_path"
	ArgTranslationPath = "_translation_path"
)

// Canvas every transition clip is normalized to before concatenation, so
// clips of mixed resolutions can share one output stream.
const (
	transitionWidth  = 1280
	transitionHeight = 720
	transitionFPS    = 30
)

func multiOperations() []*Operation {
	return []*Operation{
		transitionOperation(),
		addAudioOperation(),
		addSubtitlesOperation(),
		{
			Name:        "get_video_info",
			Kind:        KindInfo,
			Description: "Report the media file's duration, resolution, codecs, and frame rate.",
			Mode:        ModeBuffered,
			NeedsProbe:  true,
			// Introspection only: the dispatcher answers from the probe
			// result and never starts an engine run.
			Build: func(_ Args, _ []InputInfo) (*Graph, error) {
				return &Graph{}, nil
			},
		},
	}
}

func transitionOperation() *Operation {
	return &Operation{
		Name:        "transition",
		Kind:        KindMulti,
		Description: "Join 2-10 clips into one video with a fade between them.",
		Mode:        ModeBuffered,
		NeedsProbe:  true,
		MinInputs:   2,
		MaxInputs:   10,
		Params: []Param{
			{Name: "transition", Type: TypeEnum, Enum: TransitionTypes, Default: "crossfade", Description: "Transition style."},
			{Name: "duration", Type: TypeFloat, GreaterThan: moreThan(0), Max: maxOf(10), Default: 1.0, Description: "Fade length in seconds."},
		},
		Build: buildTransition,
	}
}

// buildTransition produces the concat graph: every clip is scaled onto a
// common canvas, clips after the first fade in over the cut, and for exactly
// two clips the first also fades out so the seam is symmetric. Inputs without
// audio get a synthesized silent pad when any sibling carries audio; when no
// input has audio the graph is video-only and maps no audio pad at all.
func buildTransition(args Args, inputs []InputInfo) (*Graph, error) {
	if len(inputs) < 2 {
		return nil, buildErr("transition", "need at least 2 clips, got %d", len(inputs))
	}
	kind := args.StringOr("transition", "crossfade")
	dur, _ := args.Float("duration")
	fadeColor := "black"
	if kind == "fadewhite" {
		fadeColor = "white"
	}

	anyAudio := false
	for _, in := range inputs {
		if in.HasAudio {
			anyAudio = true
			break
		}
	}

	var b strings.Builder
	for i, in := range inputs {
		fmt.Fprintf(&b, "[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,"+
			"pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d",
			i, transitionWidth, transitionHeight, transitionWidth, transitionHeight, transitionFPS)
		if i > 0 {
			fmt.Fprintf(&b, ",fade=t=in:st=0:d=%s:color=%s", fmtSeconds(dur), fadeColor)
		}
		if len(inputs) == 2 && i == 0 && in.Duration > 0 {
			st := in.Duration - dur
			if st < 0 {
				st = 0
			}
			fmt.Fprintf(&b, ",fade=t=out:st=%s:d=%s:color=%s", fmtSeconds(st), fmtSeconds(dur), fadeColor)
		}
		fmt.Fprintf(&b, "[v%d];", i)
	}

	if anyAudio {
		for i, in := range inputs {
			if in.HasAudio {
				fmt.Fprintf(&b, "[%d:a]aformat=sample_rates=%d:channel_layouts=%s[a%d];",
					i, silentSampleRate, silentChannelLayout, i)
			} else {
				// Probe normally supplies the clip length; fall back to a
				// second of silence when it could not.
				d := in.Duration
				if d <= 0 {
					d = 1.0
				}
				fmt.Fprintf(&b, "anullsrc=channel_layout=%s:sample_rate=%d,atrim=duration=%s[a%d];",
					silentChannelLayout, silentSampleRate, fmtSeconds(d), i)
			}
		}
	}

	for i := range inputs {
		fmt.Fprintf(&b, "[v%d]", i)
		if anyAudio {
			fmt.Fprintf(&b, "[a%d]", i)
		}
	}
	audioCount := 0
	if anyAudio {
		audioCount = 1
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=%d[v]", len(inputs), audioCount)
	labels := []string{"[v]"}
	if anyAudio {
		b.WriteString("[a]")
		labels = append(labels, "[a]")
	}

	out := []string{"-c:v", "libx264", "-preset", "fast", "-crf", "23", "-pix_fmt", "yuv420p"}
	if anyAudio {
		out = append(out, "-c:a", "aac", "-b:a", "192k")
	}
	return &Graph{Complex: b.String(), OutputLabels: labels, OutputArgs: out}, nil
}

func addAudioOperation() *Operation {
	return &Operation{
		Name:        "add_audio",
		Kind:        KindMulti,
		Description: "Add an audio track to the video, either replacing the original audio or mixing over it.",
		Mode:        ModeBuffered,
		NeedsProbe:  true,
		MinInputs:   2,
		MaxInputs:   2,
		Params: []Param{
			{Name: "mode", Type: TypeEnum, Enum: []string{"replace", "mix"}, Default: "replace", Description: "replace drops the original audio; mix blends the new track over it."},
			{Name: "volume", Type: TypeFloat, Min: minOf(0), Max: maxOf(10), Default: 1.0, Description: "Gain applied to the new track."},
		},
		Build: func(args Args, inputs []InputInfo) (*Graph, error) {
			if len(inputs) < 2 {
				return nil, buildErr("add_audio", "need a video and an audio track, got %d inputs", len(inputs))
			}
			mode := args.StringOr("mode", "replace")
			gain := args.FloatOr("volume", 1.0)

			// Mixing needs an original track to mix with; without one the
			// new track simply becomes the audio.
			if mode == "mix" && inputs[0].HasAudio {
				complexExpr := fmt.Sprintf(
					"[1:a]volume=%g[na];[0:a][na]amix=inputs=2:duration=shortest:dropout_transition=2[a]",
					gain)
				return &Graph{
					Complex:      complexExpr,
					OutputLabels: []string{"0:v:0", "[a]"},
					OutputArgs:   []string{"-c:v", "copy"},
				}, nil
			}
			g := &Graph{
				OutputArgs: []string{"-map", "0:v:0", "-map", "1:a:0", "-c:v", "copy", "-shortest"},
			}
			if gain != 1.0 {
				g.AudioFilter = fmt.Sprintf("volume=%g", gain)
			}
			return g, nil
		},
	}
}

func addSubtitlesOperation() *Operation {
	return &Operation{
		Name:        "add_subtitles",
		Kind:        KindMulti,
		Description: "Burn a subtitle track into the video, with an optional second track for a translation.",
		Mode:        ModeBuffered,
		Params: []Param{
			{Name: "style", Type: TypeEnum, Enum: SubtitleStyles, Default: "default", Description: "Caption style preset."},
			{Name: "position", Type: TypeEnum, Enum: SubtitlePositions, Default: "bottom", Description: "Caption placement."},
		},
		Build: func(args Args, _ []InputInfo) (*Graph, error) {
			subPath, ok := args.String(ArgSubtitlePath)
			if !ok || subPath == "" {
				return nil, buildErr("add_subtitles", "no subtitle track supplied")
			}
			style := args.StringOr("style", "default")
			position := args.StringOr("position", "bottom")

			filters := []string{subtitleFilter(subPath, style, position)}
			if trPath, ok := args.String(ArgTranslationPath); ok && trPath != "" {
				// The translation sits on the opposite edge so the two
				// tracks never overlap.
				filters = append(filters, subtitleFilter(trPath, style, oppositePosition(position)))
			}
			return &Graph{
				VideoFilter: strings.Join(filters, ","),
				OutputArgs:  []string{"-c:a", "copy"},
			}, nil
		},
	}
}

// subtitleFilter renders one subtitles= filter with the preset's ASS styling.
func subtitleFilter(path, style, position string) string {
	styleParts := []string{"FontName=Arial", "FontSize=24"}
	switch style {
	case "white_on_black":
		styleParts = append(styleParts,
			"PrimaryColour=&HFFFFFF", "OutlineColour=&H000000", "BorderStyle=3", "Outline=3", "Shadow=0")
	case "yellow":
		// ASS colors are BGR, so yellow is &H00FFFF.
		styleParts = append(styleParts,
			"PrimaryColour=&H00FFFF", "OutlineColour=&H000000", "BorderStyle=1", "Outline=2", "Shadow=1")
	default:
		styleParts = append(styleParts,
			"PrimaryColour=&HFFFFFF", "OutlineColour=&H000000", "BorderStyle=1", "Outline=2", "Shadow=1")
	}
	if position == "top" {
		styleParts = append(styleParts, "Alignment=8", "MarginV=20")
	} else {
		styleParts = append(styleParts, "Alignment=2", "MarginV=20")
	}
	return fmt.Sprintf("subtitles='%s':force_style='%s'",
		escapeFilterPath(path), strings.Join(styleParts, ","))
}

func oppositePosition(position string) string {
	if position == "top" {
		return "bottom"
	}
	return "top"
}
