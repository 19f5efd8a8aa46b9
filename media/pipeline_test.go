package media

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"clipchat/ops"
)

type fakeProber struct {
	result *ProbeResult
	err    error
}

func (f *fakeProber) Probe(_ context.Context, _ string) (*ProbeResult, error) {
	return f.result, f.err
}

type fakeRunner struct {
	runs    [][]string
	streams int
	fail    bool
}

func (f *fakeRunner) Run(_ context.Context, opName, _ string, args []string) error {
	f.runs = append(f.runs, args)
	if f.fail {
		return &JobError{Op: opName, Stderr: "boom", Err: errors.New("exit status 1")}
	}
	return os.WriteFile(args[len(args)-1], []byte("rendered"), 0o600)
}

func (f *fakeRunner) Stream(_ context.Context, _ string, _ *ops.Graph, _ string, in io.Reader, out io.Writer) error {
	f.streams++
	if f.fail {
		return errors.New("stream failed")
	}
	_, err := io.Copy(out, in)
	return err
}

type fakeSink struct {
	events []Event
}

func (f *fakeSink) Publish(_ context.Context, ev Event) { f.events = append(f.events, ev) }

type fakeArchiver struct {
	paths []string
}

func (f *fakeArchiver) Archive(_ context.Context, jobID, path string) (string, error) {
	f.paths = append(f.paths, path)
	return "archive/" + jobID, nil
}

func newTestPipeline(t *testing.T, prober Prober, runner Runner) (*Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	return &Pipeline{
		Registry: ops.NewRegistry(),
		Prober:   prober,
		Exec:     runner,
		TempRoot: root,
	}, root
}

func probed(t *testing.T, raw string) *ProbeResult {
	t.Helper()
	r, err := ParseProbe([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestProcessBufferedJob(t *testing.T) {
	runner := &fakeRunner{}
	p, root := newTestPipeline(t, &fakeProber{}, runner)
	sink := &fakeSink{}
	p.Events = sink

	res, err := p.Process(context.Background(), &Request{
		Op:     "trim_video",
		Args:   ops.Args{"start": 1.0, "end": 3.0},
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "clip.mp4"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Cleanup()

	if res.Format != "mp4" {
		t.Errorf("format = %q", res.Format)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if len(runner.runs) != 1 {
		t.Fatalf("expected 1 engine run, got %d", len(runner.runs))
	}
	joined := strings.Join(runner.runs[0], " ")
	if !strings.Contains(joined, "-ss 1.000") || !strings.Contains(joined, "-t 2.000") {
		t.Errorf("trim args missing: %s", joined)
	}

	if len(sink.events) != 2 || sink.events[0].Status != "started" || sink.events[1].Status != "succeeded" {
		t.Errorf("events = %+v", sink.events)
	}
	if sink.events[0].JobID == "" {
		t.Error("event missing job id")
	}

	res.Cleanup()
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("workspace left behind: %v", entries)
	}
}

func TestProcessCleansUpOnFailure(t *testing.T) {
	p, root := newTestPipeline(t, &fakeProber{}, &fakeRunner{fail: true})

	_, err := p.Process(context.Background(), &Request{
		Op:     "trim_video",
		Args:   ops.Args{"start": 0.0},
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "clip.mp4"}},
	})
	var jerr *JobError
	if !errors.As(err, &jerr) {
		t.Fatalf("expected JobError, got %v", err)
	}

	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("failed job left workspace behind: %v", entries)
	}
}

func TestProcessUnknownOperationLeavesNoTrace(t *testing.T) {
	runner := &fakeRunner{}
	p, root := newTestPipeline(t, &fakeProber{}, runner)

	_, err := p.Process(context.Background(), &Request{
		Op:     "teleport_video",
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "clip.mp4"}},
	})
	var unresolved *ops.UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedError, got %v", err)
	}
	if len(runner.runs) != 0 {
		t.Error("engine ran for unknown operation")
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("workspace created for unknown operation: %v", entries)
	}
}

func TestProcessArityMismatch(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeProber{}, &fakeRunner{})

	_, err := p.Process(context.Background(), &Request{
		Op:     "transition",
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "a.mp4"}},
	})
	var verr *ops.ValidationError
	if !errors.As(err, &verr) || verr.Field != "inputs" {
		t.Fatalf("expected inputs validation error, got %v", err)
	}
}

func TestProcessInfoOperation(t *testing.T) {
	runner := &fakeRunner{}
	prober := &fakeProber{result: probed(t, sampleProbeJSON)}
	p, _ := newTestPipeline(t, prober, runner)

	res, err := p.Process(context.Background(), &Request{
		Op:     "get_video_info",
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "holiday.mp4"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Cleanup()

	if res.Info == nil {
		t.Fatal("no media info returned")
	}
	if res.Info.Filename != "holiday.mp4" {
		t.Errorf("filename = %q", res.Info.Filename)
	}
	if len(runner.runs) != 0 {
		t.Error("introspection must not start an engine run")
	}
}

func TestProcessInfoProbeFailure(t *testing.T) {
	prober := &fakeProber{err: &ProbeError{Input: "input_0.mp4", Err: errors.New("invalid data")}}
	p, root := newTestPipeline(t, prober, &fakeRunner{})

	_, err := p.Process(context.Background(), &Request{
		Op:     "get_video_info",
		Inputs: []Input{{Reader: strings.NewReader("junk"), Filename: "junk.mp4"}},
	})
	var perr *ProbeError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProbeError, got %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("workspace left behind: %v", entries)
	}
}

func TestProcessProbeFailureDegrades(t *testing.T) {
	// speed_video uses the probe only to decide whether to correct audio
	// tempo, so a failed probe falls back to video-only filtering.
	runner := &fakeRunner{}
	prober := &fakeProber{err: &ProbeError{Input: "input_0.mp4", Err: errors.New("unreadable")}}
	p, _ := newTestPipeline(t, prober, runner)

	res, err := p.Process(context.Background(), &Request{
		Op:     "speed_video",
		Args:   ops.Args{"speed": 2.0},
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "clip.mp4"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Cleanup()

	joined := strings.Join(runner.runs[0], " ")
	if !strings.Contains(joined, "setpts=PTS/2") {
		t.Errorf("video filter missing: %s", joined)
	}
	if strings.Contains(joined, "atempo") {
		t.Errorf("audio filter present despite unknown audio: %s", joined)
	}
}

func TestProcessSubtitleInjection(t *testing.T) {
	runner := &fakeRunner{}
	p, _ := newTestPipeline(t, &fakeProber{}, runner)

	res, err := p.Process(context.Background(), &Request{
		Op:       "add_subtitles",
		Args:     ops.Args{"style": "yellow"},
		Inputs:   []Input{{Reader: strings.NewReader("clip"), Filename: "clip.mp4"}},
		Subtitle: &TextTrack{Name: "captions.srt", Content: "1\n00:00:00,000 --> 00:00:01,000\nhi\n"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Cleanup()

	joined := strings.Join(runner.runs[0], " ")
	if !strings.Contains(joined, "subtitles=") {
		t.Errorf("subtitle filter missing: %s", joined)
	}
	if !strings.Contains(joined, "subtitles.srt") {
		t.Errorf("staged track path missing: %s", joined)
	}
}

func TestProcessSubtitlesWithoutTrack(t *testing.T) {
	p, root := newTestPipeline(t, &fakeProber{}, &fakeRunner{})

	_, err := p.Process(context.Background(), &Request{
		Op:     "add_subtitles",
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "clip.mp4"}},
	})
	var berr *ops.BuildError
	if !errors.As(err, &berr) {
		t.Fatalf("expected BuildError, got %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("workspace left behind: %v", entries)
	}
}

func TestProcessArchivesOutput(t *testing.T) {
	archiver := &fakeArchiver{}
	p, _ := newTestPipeline(t, &fakeProber{}, &fakeRunner{})
	p.Archiver = archiver

	res, err := p.Process(context.Background(), &Request{
		Op:     "loop_video",
		Args:   ops.Args{"count": 2.0},
		Inputs: []Input{{Reader: strings.NewReader("clip"), Filename: "clip.mp4"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Cleanup()

	if len(archiver.paths) != 1 || archiver.paths[0] != res.Path {
		t.Errorf("archived paths = %v, want %s", archiver.paths, res.Path)
	}
}

func TestPlanStreamRejectsBufferedOperations(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeProber{}, &fakeRunner{})

	for _, op := range []string{"transition", "trim_video", "reverse_video", "get_video_info"} {
		if _, err := p.PlanStream(op, ops.Args{}); !errors.Is(err, ErrNotStreamable) {
			t.Errorf("%s: expected ErrNotStreamable, got %v", op, err)
		}
	}
}

func TestPlanStreamDecidesFormatUpFront(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeProber{}, &fakeRunner{})

	plan, err := p.PlanStream("resize_video", ops.Args{"width": 640.0, "height": 360.0})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Format != "mp4" {
		t.Errorf("format = %q", plan.Format)
	}
	if plan.Graph.VideoFilter != "scale=640:360" {
		t.Errorf("filter = %q", plan.Graph.VideoFilter)
	}

	plan, err = p.PlanStream("convert_video", ops.Args{"format": "webm"})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Format != "webm" {
		t.Errorf("format = %q", plan.Format)
	}
}

func TestRunStreamPublishesEvents(t *testing.T) {
	runner := &fakeRunner{}
	p, _ := newTestPipeline(t, &fakeProber{}, runner)
	sink := &fakeSink{}
	p.Events = sink

	plan, err := p.PlanStream("grayscale_video", nil)
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := p.RunStream(context.Background(), plan, strings.NewReader("bytes"), &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "bytes" {
		t.Errorf("streamed output = %q", out.String())
	}
	if len(sink.events) != 2 || sink.events[1].Status != "succeeded" {
		t.Errorf("events = %+v", sink.events)
	}
}

func TestInspect(t *testing.T) {
	prober := &fakeProber{result: probed(t, sampleProbeJSON)}
	p, root := newTestPipeline(t, prober, &fakeRunner{})

	info, err := p.Inspect(context.Background(), Input{Reader: strings.NewReader("clip"), Filename: "movie.mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if info.Filename != "movie.mp4" || info.Video == nil {
		t.Errorf("info = %+v", info)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("inspect left workspace behind: %v", entries)
	}
}
