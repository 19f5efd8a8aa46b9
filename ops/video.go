package ops

import "fmt"

// VideoFormats is the fixed set of containers convert_video accepts. Anything
// else is rejected by validation instead of being passed through to ffmpeg.
var VideoFormats = []string{"mp4", "webm", "mov", "mkv", "avi", "gif"}

// ImageFormats is the fixed set extract_frame can produce.
var ImageFormats = []string{"jpg", "png"}

func videoOperations() []*Operation {
	return []*Operation{
		{
			Name:        "resize_video",
			Kind:        KindVideo,
			Description: "Resize the video to the given width and height in pixels.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "width", Type: TypeInt, Required: true, GreaterThan: moreThan(0), Description: "Output width in pixels."},
				{Name: "height", Type: TypeInt, Required: true, GreaterThan: moreThan(0), Description: "Output height in pixels."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				w, _ := args.Int("width")
				h, _ := args.Int("height")
				return &Graph{
					VideoFilter: fmt.Sprintf("scale=%d:%d", w, h),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "crop_video",
			Kind:        KindVideo,
			Description: "Crop a rectangle out of the video. x and y are the top-left offset; zero offsets are valid.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "width", Type: TypeInt, Required: true, GreaterThan: moreThan(0), Description: "Crop width in pixels."},
				{Name: "height", Type: TypeInt, Required: true, GreaterThan: moreThan(0), Description: "Crop height in pixels."},
				{Name: "x", Type: TypeInt, Min: minOf(0), Default: 0, Description: "Left offset in pixels."},
				{Name: "y", Type: TypeInt, Min: minOf(0), Default: 0, Description: "Top offset in pixels."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				w, _ := args.Int("width")
				h, _ := args.Int("height")
				x, _ := args.Int("x")
				y, _ := args.Int("y")
				return &Graph{
					VideoFilter: fmt.Sprintf("crop=%d:%d:%d:%d", w, h, x, y),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "rotate_video",
			Kind:        KindVideo,
			Description: "Rotate the video by an angle in degrees. Negative angles and angles beyond 360 are allowed.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "angle", Type: TypeFloat, Required: true, Description: "Rotation angle in degrees, clockwise."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				angle, _ := args.Float("angle")
				return &Graph{
					VideoFilter: fmt.Sprintf("rotate=%g*PI/180", angle),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "flip_video",
			Kind:        KindVideo,
			Description: "Mirror the video horizontally or vertically.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "direction", Type: TypeEnum, Required: true, Enum: []string{"horizontal", "vertical"}, Description: "Mirror axis."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				filter := "hflip"
				if d, _ := args.String("direction"); d == "vertical" {
					filter = "vflip"
				}
				return &Graph{VideoFilter: filter, OutputArgs: []string{"-c:a", "copy"}}, nil
			},
		},
		{
			Name:        "trim_video",
			Kind:        KindVideo,
			Description: "Cut a time range out of the video. A start of exactly 0 is valid.",
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
					OutputArgs: []string{"-c", "copy"},
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
			Name:        "speed_video",
			Kind:        KindVideo,
			Description: "Change playback speed. 2 doubles the speed, 0.5 halves it. Audio pitch is preserved.",
			Mode:        ModeBuffered,
			NeedsProbe:  true,
			Params: []Param{
				{Name: "speed", Type: TypeFloat, Required: true, GreaterThan: moreThan(0), Max: maxOf(100), Description: "Speed multiplier."},
			},
			Build: func(args Args, inputs []InputInfo) (*Graph, error) {
				speed, _ := args.Float("speed")
				g := &Graph{VideoFilter: fmt.Sprintf("setpts=PTS/%g", speed)}
				if len(inputs) > 0 && inputs[0].HasAudio {
					g.AudioFilter = atempoChain(speed)
				}
				return g, nil
			},
		},
		{
			Name:        "reverse_video",
			Kind:        KindVideo,
			Description: "Play the video backwards.",
			Mode:        ModeBuffered,
			NeedsProbe:  true,
			Build: func(_ Args, inputs []InputInfo) (*Graph, error) {
				g := &Graph{VideoFilter: "reverse"}
				if len(inputs) > 0 && inputs[0].HasAudio {
					g.AudioFilter = "areverse"
				}
				return g, nil
			},
		},
		{
			Name:        "adjust_brightness",
			Kind:        KindVideo,
			Description: "Adjust brightness. 0 is unchanged; range -1 to 1.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "brightness", Type: TypeFloat, Required: true, Min: minOf(-1), Max: maxOf(1), Description: "Brightness offset."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				v, _ := args.Float("brightness")
				return &Graph{
					VideoFilter: fmt.Sprintf("eq=brightness=%g", v),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "adjust_contrast",
			Kind:        KindVideo,
			Description: "Adjust contrast. 1 is unchanged; range 0 to 4.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "contrast", Type: TypeFloat, Required: true, Min: minOf(0), Max: maxOf(4), Description: "Contrast multiplier."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				v, _ := args.Float("contrast")
				return &Graph{
					VideoFilter: fmt.Sprintf("eq=contrast=%g", v),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "adjust_saturation",
			Kind:        KindVideo,
			Description: "Adjust color saturation. 1 is unchanged; 0 removes all color; max 3.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "saturation", Type: TypeFloat, Required: true, Min: minOf(0), Max: maxOf(3), Description: "Saturation multiplier."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				v, _ := args.Float("saturation")
				return &Graph{
					VideoFilter: fmt.Sprintf("eq=saturation=%g", v),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "adjust_hue",
			Kind:        KindVideo,
			Description: "Rotate the hue by an angle in degrees.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "hue", Type: TypeFloat, Required: true, Min: minOf(-360), Max: maxOf(360), Description: "Hue rotation in degrees."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				v, _ := args.Float("hue")
				return &Graph{
					VideoFilter: fmt.Sprintf("hue=h=%g", v),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "grayscale_video",
			Kind:        KindVideo,
			Description: "Convert the video to grayscale.",
			Mode:        ModeStream,
			Build: func(_ Args, _ []InputInfo) (*Graph, error) {
				return &Graph{VideoFilter: "hue=s=0", OutputArgs: []string{"-c:a", "copy"}}, nil
			},
		},
		{
			Name:        "sepia_video",
			Kind:        KindVideo,
			Description: "Apply a sepia tone to the video.",
			Mode:        ModeStream,
			Build: func(_ Args, _ []InputInfo) (*Graph, error) {
				return &Graph{
					VideoFilter: "colorchannelmixer=.393:.769:.189:0:.349:.686:.168:0:.272:.534:.131",
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "blur_video",
			Kind:        KindVideo,
			Description: "Blur the video. Higher radius means stronger blur.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "radius", Type: TypeInt, Min: minOf(1), Max: maxOf(50), Default: 5, Description: "Blur radius in pixels."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				r, _ := args.Int("radius")
				return &Graph{
					VideoFilter: fmt.Sprintf("boxblur=%d", r),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "sharpen_video",
			Kind:        KindVideo,
			Description: "Sharpen the video.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "amount", Type: TypeFloat, Min: minOf(0), Max: maxOf(5), Default: 1.0, Description: "Sharpening strength."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				a, _ := args.Float("amount")
				return &Graph{
					VideoFilter: fmt.Sprintf("unsharp=5:5:%g", a),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "add_text",
			Kind:        KindVideo,
			Description: "Draw a text overlay on the video at the given position.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "text", Type: TypeString, Required: true, Description: "Text to draw."},
				{Name: "x", Type: TypeInt, Min: minOf(0), Default: 10, Description: "Left offset in pixels."},
				{Name: "y", Type: TypeInt, Min: minOf(0), Default: 10, Description: "Top offset in pixels."},
				{Name: "size", Type: TypeInt, Min: minOf(8), Max: maxOf(200), Default: 24, Description: "Font size."},
				{Name: "color", Type: TypeString, Default: "white", Description: "Font color name or hex value."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				text, _ := args.String("text")
				x, _ := args.Int("x")
				y, _ := args.Int("y")
				size, _ := args.Int("size")
				color := args.StringOr("color", "white")
				return &Graph{
					VideoFilter: fmt.Sprintf("drawtext=text='%s':x=%d:y=%d:fontsize=%d:fontcolor=%s",
						escapeFilterText(text), x, y, size, color),
					OutputArgs: []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "fade_video",
			Kind:        KindVideo,
			Description: "Fade the video in from black at the start, or out to black at the end.",
			Mode:        ModeBuffered,
			NeedsProbe:  true,
			Params: []Param{
				{Name: "type", Type: TypeEnum, Required: true, Enum: []string{"in", "out"}, Description: "Fade direction."},
				{Name: "duration", Type: TypeFloat, Required: true, GreaterThan: moreThan(0), Max: maxOf(30), Description: "Fade length in seconds."},
			},
			Build: func(args Args, inputs []InputInfo) (*Graph, error) {
				kind, _ := args.String("type")
				dur, _ := args.Float("duration")
				g := &Graph{OutputArgs: []string{"-c:a", "copy"}}
				if kind == "in" {
					g.VideoFilter = fmt.Sprintf("fade=t=in:st=0:d=%s", fmtSeconds(dur))
					return g, nil
				}
				if len(inputs) == 0 || inputs[0].Duration <= 0 {
					return nil, buildErr("fade_video", "input duration unknown, cannot place fade-out")
				}
				st := inputs[0].Duration - dur
				if st < 0 {
					st = 0
				}
				g.VideoFilter = fmt.Sprintf("fade=t=out:st=%s:d=%s", fmtSeconds(st), fmtSeconds(dur))
				return g, nil
			},
		},
		{
			Name:        "change_fps",
			Kind:        KindVideo,
			Description: "Resample the video to a new frame rate.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "fps", Type: TypeInt, Required: true, Min: minOf(1), Max: maxOf(240), Description: "Target frames per second."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				fps, _ := args.Int("fps")
				return &Graph{
					VideoFilter: fmt.Sprintf("fps=%d", fps),
					OutputArgs:  []string{"-c:a", "copy"},
				}, nil
			},
		},
		{
			Name:        "loop_video",
			Kind:        KindVideo,
			Description: "Repeat the whole clip a number of extra times.",
			Mode:        ModeBuffered,
			Params: []Param{
				{Name: "count", Type: TypeInt, Required: true, Min: minOf(1), Max: maxOf(10), Description: "Number of extra repetitions."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				count, _ := args.Int("count")
				return &Graph{
					InputArgs:  [][]string{{"-stream_loop", fmt.Sprintf("%d", count)}},
					OutputArgs: []string{"-c", "copy"},
				}, nil
			},
		},
		{
			Name:          "extract_frame",
			Kind:          KindVideo,
			Description:   "Grab a single frame as an image. A time of exactly 0 grabs the first frame.",
			Mode:          ModeBuffered,
			DefaultFormat: "jpg",
			Params: []Param{
				{Name: "time", Type: TypeFloat, Required: true, Min: minOf(0), Description: "Timestamp in seconds."},
				{Name: "format", Type: TypeEnum, Enum: ImageFormats, Default: "jpg", Description: "Image format."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				at, _ := args.Float("time")
				return &Graph{
					InputArgs:  [][]string{{"-ss", fmtSeconds(at)}},
					OutputArgs: []string{"-frames:v", "1"},
				}, nil
			},
		},
		{
			Name:        "remove_audio",
			Kind:        KindVideo,
			Description: "Strip all audio tracks, leaving the video untouched.",
			Mode:        ModeStream,
			Build: func(_ Args, _ []InputInfo) (*Graph, error) {
				return &Graph{OutputArgs: []string{"-c:v", "copy", "-an"}}, nil
			},
		},
		{
			Name:        "convert_video",
			Kind:        KindVideo,
			Description: "Convert the video to a different container format.",
			Mode:        ModeStream,
			Params: []Param{
				{Name: "format", Type: TypeEnum, Required: true, Enum: VideoFormats, Description: "Target format."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				format, _ := args.String("format")
				switch format {
				case "gif":
					return &Graph{
						VideoFilter: "fps=12,scale=480:-1:flags=lanczos",
						OutputArgs:  []string{"-an"},
					}, nil
				case "webm":
					return &Graph{OutputArgs: []string{"-c:v", "libvpx-vp9", "-c:a", "libopus"}}, nil
				default:
					return &Graph{OutputArgs: []string{"-c:v", "libx264", "-c:a", "aac"}}, nil
				}
			},
		},
		{
			Name:          "extract_audio",
			Kind:          KindVideo,
			Description:   "Extract the audio track into a standalone audio file.",
			Mode:          ModeStream,
			DefaultFormat: "mp3",
			Params: []Param{
				{Name: "format", Type: TypeEnum, Enum: AudioFormats, Default: "mp3", Description: "Audio format."},
			},
			Build: func(args Args, _ []InputInfo) (*Graph, error) {
				format := args.StringOr("format", "mp3")
				return &Graph{OutputArgs: []string{"-vn", "-c:a", audioCodecFor(format)}}, nil
			},
		},
	}
}
