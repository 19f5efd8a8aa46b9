package media

import (
	"reflect"
	"strings"
	"testing"

	"clipchat/ops"
)

func TestBuildArgsSimpleGraph(t *testing.T) {
	g := &ops.Graph{VideoFilter: "scale=1280:720", OutputArgs: []string{"-c:a", "copy"}}

	got := BuildArgs([]string{"/work/input_0.mp4"}, g, "/work/output.mp4")
	want := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", "/work/input_0.mp4",
		"-vf", "scale=1280:720",
		"-c:a", "copy",
		"/work/output.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestBuildArgsInputArgsPrecedeInput(t *testing.T) {
	g := &ops.Graph{
		InputArgs:  [][]string{{"-ss", "5.000"}},
		OutputArgs: []string{"-t", "10.000", "-c", "copy"},
	}

	got := strings.Join(BuildArgs([]string{"/work/input_0.mp4"}, g, "/work/output.mp4"), " ")
	if !strings.Contains(got, "-ss 5.000 -i /work/input_0.mp4") {
		t.Errorf("seek not placed before input: %s", got)
	}
	if !strings.HasSuffix(got, "-t 10.000 -c copy /work/output.mp4") {
		t.Errorf("output args not placed before output path: %s", got)
	}
}

func TestBuildArgsComplexGraphMapsLabels(t *testing.T) {
	g := &ops.Graph{
		Complex:      "[0:v][1:v]concat=n=2:v=1:a=0[v]",
		OutputLabels: []string{"[v]"},
		OutputArgs:   []string{"-c:v", "libx264"},
	}

	got := strings.Join(BuildArgs([]string{"/w/a.mp4", "/w/b.mp4"}, g, "/w/out.mp4"), " ")
	if !strings.Contains(got, "-i /w/a.mp4 -i /w/b.mp4") {
		t.Errorf("inputs out of order: %s", got)
	}
	if !strings.Contains(got, "-filter_complex [0:v][1:v]concat=n=2:v=1:a=0[v] -map [v]") {
		t.Errorf("complex graph or map missing: %s", got)
	}
	if strings.Contains(got, "-vf") {
		t.Errorf("complex graph must not also emit -vf: %s", got)
	}
}

func TestBuildArgsMultipleMaps(t *testing.T) {
	g := &ops.Graph{
		Complex:      "[1:a]volume=0.5[na];[0:a][na]amix=inputs=2[a]",
		OutputLabels: []string{"0:v:0", "[a]"},
		OutputArgs:   []string{"-c:v", "copy"},
	}

	got := strings.Join(BuildArgs([]string{"/w/v.mp4", "/w/a.mp3"}, g, "/w/out.mp4"), " ")
	if !strings.Contains(got, "-map 0:v:0 -map [a]") {
		t.Errorf("expected both maps in order: %s", got)
	}
}

func TestStreamKwArgsMuxers(t *testing.T) {
	tests := []struct {
		format string
		muxer  string
	}{
		{"mp4", "mp4"},
		{"mov", "mov"},
		{"mkv", "matroska"},
		{"jpg", "image2"},
		{"aac", "adts"},
		{"mp3", "mp3"},
		{"webm", "webm"},
	}
	for _, tt := range tests {
		kw := streamKwArgs(&ops.Graph{}, tt.format)
		if kw["f"] != tt.muxer {
			t.Errorf("%s: muxer = %v, want %s", tt.format, kw["f"], tt.muxer)
		}
	}
}

func TestStreamKwArgsFragmentedMP4(t *testing.T) {
	kw := streamKwArgs(&ops.Graph{}, "mp4")
	if kw["movflags"] != "frag_keyframe+empty_moov" {
		t.Errorf("piped mp4 must use fragmented muxing, got %v", kw["movflags"])
	}
	if kw := streamKwArgs(&ops.Graph{}, "webm"); kw["movflags"] != nil {
		t.Errorf("webm must not carry movflags, got %v", kw["movflags"])
	}
}

func TestStreamKwArgsFlagsAndPairs(t *testing.T) {
	g := &ops.Graph{
		VideoFilter: "hue=s=0",
		OutputArgs:  []string{"-vn", "-c:a", "libmp3lame"},
	}
	kw := streamKwArgs(g, "mp3")
	if kw["vf"] != "hue=s=0" {
		t.Errorf("vf = %v", kw["vf"])
	}
	if kw["vn"] != "" {
		t.Errorf("bare flag should map to empty value, got %v", kw["vn"])
	}
	if kw["c:a"] != "libmp3lame" {
		t.Errorf("c:a = %v", kw["c:a"])
	}
}

func TestSanitizeStderrStripsWorkspace(t *testing.T) {
	raw := "Error opening /tmp/clipchat-abc/input_0.mp4: invalid data\n/tmp/clipchat-abc: gone"
	got := sanitizeStderr(raw, "/tmp/clipchat-abc")
	if strings.Contains(got, "/tmp/clipchat-abc") {
		t.Errorf("workspace path leaked: %q", got)
	}
	if !strings.Contains(got, "input_0.mp4") {
		t.Errorf("file basename should survive: %q", got)
	}
}

func TestSanitizeStderrKeepsTail(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "line")
	}
	lines = append(lines, "actual cause")
	got := sanitizeStderr(strings.Join(lines, "\n"), "")
	if n := len(strings.Split(got, "\n")); n > maxStderrLines {
		t.Errorf("expected at most %d lines, got %d", maxStderrLines, n)
	}
	if !strings.HasSuffix(got, "actual cause") {
		t.Errorf("tail lost: %q", got)
	}
}
