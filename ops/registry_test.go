package ops

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistryEveryOperationComplete(t *testing.T) {
	r := NewRegistry()

	if r.Len() < 40 {
		t.Fatalf("expected at least 40 registered operations, got %d", r.Len())
	}

	for _, name := range r.Names() {
		op, err := r.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", name, err)
		}
		if op.Build == nil {
			t.Errorf("%s: no builder", name)
		}
		if op.Mode != ModeStream && op.Mode != ModeBuffered {
			t.Errorf("%s: invalid mode %q", name, op.Mode)
		}
		if op.Description == "" {
			t.Errorf("%s: missing description", name)
		}
		if op.DefaultFormat == "" {
			t.Errorf("%s: missing default format", name)
		}
		min, max := op.Inputs()
		if min < 1 || max < min {
			t.Errorf("%s: bad input arity %d..%d", name, min, max)
		}
		if min > 1 && op.Mode != ModeBuffered {
			t.Errorf("%s: multi-input operations must be buffered", name)
		}
	}
}

func TestRegistryUnknownOperation(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("teleport_video")
	if err == nil {
		t.Fatal("expected error for unknown operation")
	}
	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedError, got %T", err)
	}
	if unresolved.Name != "teleport_video" {
		t.Errorf("expected name in error, got %q", unresolved.Name)
	}
}

func TestValidateRequiredAndBounds(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name      string
		op        string
		args      Args
		wantField string // empty means validation should pass
	}{
		{"resize ok", "resize_video", Args{"width": 1280.0, "height": 720.0}, ""},
		{"resize missing height", "resize_video", Args{"width": 1280.0}, "height"},
		{"resize zero width", "resize_video", Args{"width": 0.0, "height": 720.0}, "width"},
		{"resize negative", "resize_video", Args{"width": -1.0, "height": 720.0}, "width"},
		{"rotate negative angle ok", "rotate_video", Args{"angle": -90.0}, ""},
		{"rotate past 360 ok", "rotate_video", Args{"angle": 540.0}, ""},
		{"volume zero ok", "adjust_volume", Args{"volume": 0.0}, ""},
		{"volume negative", "adjust_volume", Args{"volume": -0.5}, "volume"},
		{"fade bad type", "fade_video", Args{"type": "sideways", "duration": 1.0}, "type"},
		{"fade zero duration", "fade_video", Args{"type": "in", "duration": 0.0}, "duration"},
		{"pan in range", "pan_audio", Args{"pan": -1.0}, ""},
		{"pan out of range", "pan_audio", Args{"pan": 1.5}, "pan"},
		{"format unsupported", "convert_video", Args{"format": "rm"}, "format"},
		{"format supported", "convert_video", Args{"format": "webm"}, ""},
		{"text empty", "add_text", Args{"text": "   "}, "text"},
		{"speed must be positive", "speed_video", Args{"speed": 0.0}, "speed"},
		{"trim end before start", "trim_video", Args{"start": 5.0, "end": 3.0}, "end"},
		{"wrong type", "resize_video", Args{"width": "wide", "height": 720.0}, "width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := r.Resolve(tt.op)
			if err != nil {
				t.Fatalf("Resolve(%s): %v", tt.op, err)
			}
			_, err = r.Validate(op, tt.args)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestValidateZeroOffsetsAccepted(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		op   string
		args Args
	}{
		{"trim_video", Args{"start": 0.0, "end": 10.0}},
		{"crop_video", Args{"width": 100.0, "height": 100.0, "x": 0.0, "y": 0.0}},
		{"extract_frame", Args{"time": 0.0}},
	}
	for _, tt := range tests {
		op, err := r.Resolve(tt.op)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tt.op, err)
		}
		if _, err := r.Validate(op, tt.args); err != nil {
			t.Errorf("%s: zero offset rejected: %v", tt.op, err)
		}
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	r := NewRegistry()
	op, _ := r.Resolve("transition")

	args, err := r.Validate(op, Args{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := args.StringOr("transition", ""); got != "crossfade" {
		t.Errorf("expected default transition crossfade, got %q", got)
	}
	if got := args.FloatOr("duration", 0); got != 1.0 {
		t.Errorf("expected default duration 1.0, got %g", got)
	}
}

func TestValidateStripsReservedKeys(t *testing.T) {
	r := NewRegistry()
	op, _ := r.Resolve("add_subtitles")

	args, err := r.Validate(op, Args{ArgSubtitlePath: "/etc/passwd"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, present := args[ArgSubtitlePath]; present {
		t.Error("caller-supplied reserved key survived validation")
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	r := NewRegistry()
	op, _ := r.Resolve("blur_video")

	raw := Args{}
	if _, err := r.Validate(op, raw); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("caller bag was mutated: %v", raw)
	}
}

func TestOutputFormatPrefersArgument(t *testing.T) {
	r := NewRegistry()

	op, _ := r.Resolve("convert_video")
	if got := op.OutputFormat(Args{"format": "webm"}); got != "webm" {
		t.Errorf("expected webm, got %q", got)
	}

	op, _ = r.Resolve("resize_video")
	if got := op.OutputFormat(Args{}); got != "mp4" {
		t.Errorf("expected default mp4, got %q", got)
	}

	op, _ = r.Resolve("adjust_volume")
	if got := op.OutputFormat(Args{}); got != "mp3" {
		t.Errorf("expected default mp3 for audio op, got %q", got)
	}
}

func TestNamesSortedAndStable(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	for i := 1; i < len(names); i++ {
		if strings.Compare(names[i-1], names[i]) >= 0 {
			t.Fatalf("names not sorted at %d: %s >= %s", i, names[i-1], names[i])
		}
	}
}
