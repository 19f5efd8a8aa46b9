package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"clipchat/ops"
)

// ErrNotStreamable is returned when a streaming request names an operation
// that needs staged inputs.
var ErrNotStreamable = errors.New("operation requires buffered inputs")

// Input is one uploaded media file.
type Input struct {
	Reader   io.Reader
	Filename string
}

// TextTrack is an auxiliary subtitle upload. Name keeps the caller's
// extension so the engine can tell SRT from ASS.
type TextTrack struct {
	Name    string
	Content string
}

// Request is one buffered processing request after transport decoding.
type Request struct {
	Op     string
	Args   ops.Args
	Inputs []Input

	// Subtitle tracks for caption burn-in. Staged into the workspace and
	// exposed to the builder through reserved argument keys.
	Subtitle    *TextTrack
	Translation *TextTrack
}

// Result is a finished buffered job. The output file lives inside the job
// workspace, so the caller must Cleanup after reading it.
type Result struct {
	Path   string
	Format string

	// Info is set instead of Path for introspection operations.
	Info *MediaInfo

	job *Job
}

// Cleanup releases the job workspace, output file included.
func (r *Result) Cleanup() {
	if r.job != nil {
		r.job.Cleanup()
	}
}

// Event records one job lifecycle transition for the event stream.
type Event struct {
	JobID    string        `json:"job_id"`
	Op       string        `json:"operation"`
	Status   string        `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// EventSink receives job lifecycle events. Publishing is best-effort; a sink
// failure never fails the job.
type EventSink interface {
	Publish(ctx context.Context, ev Event)
}

// Archiver stores a finished output somewhere durable and returns its key.
type Archiver interface {
	Archive(ctx context.Context, jobID, path string) (string, error)
}

// Runner executes built graphs. Satisfied by Executor; tests substitute a
// recorder so no engine binary is needed.
type Runner interface {
	Run(ctx context.Context, opName, workDir string, args []string) error
	Stream(ctx context.Context, opName string, g *ops.Graph, format string, in io.Reader, out io.Writer) error
}

// Pipeline drives a request through resolve, validate, stage, probe, build,
// and execute. Events and Archiver are optional.
type Pipeline struct {
	Registry *ops.Registry
	Prober   Prober
	Exec     Runner

	TempRoot string
	// MaxInputBytes caps each staged input. Zero means unlimited.
	MaxInputBytes int64

	Events   EventSink
	Archiver Archiver
}

// StreamPlan holds everything a streaming response needs before the first
// byte: the response Content-Type comes from Format, so planning must finish
// before the engine starts.
type StreamPlan struct {
	Op     *ops.Operation
	Args   ops.Args
	Graph  *ops.Graph
	Format string
}

// PlanStream resolves, validates, and builds a streaming request.
func (p *Pipeline) PlanStream(opName string, raw ops.Args) (*StreamPlan, error) {
	op, err := p.Registry.Resolve(opName)
	if err != nil {
		return nil, err
	}
	if op.Mode != ops.ModeStream {
		return nil, ErrNotStreamable
	}
	args, err := p.Registry.Validate(op, raw)
	if err != nil {
		return nil, err
	}
	graph, err := op.Build(args, nil)
	if err != nil {
		return nil, err
	}
	return &StreamPlan{Op: op, Args: args, Graph: graph, Format: op.OutputFormat(args)}, nil
}

// RunStream executes a planned streaming job against the request and
// response bodies.
func (p *Pipeline) RunStream(ctx context.Context, plan *StreamPlan, in io.Reader, out io.Writer) error {
	started := time.Now()
	p.publish(ctx, Event{Op: plan.Op.Name, Status: "started"})
	err := p.Exec.Stream(ctx, plan.Op.Name, plan.Graph, plan.Format, in, out)
	p.finish(ctx, "", plan.Op.Name, started, err)
	return err
}

// Process runs one buffered request end to end. On success the caller owns
// the Result and must Cleanup it; on error the workspace is already gone.
func (p *Pipeline) Process(ctx context.Context, req *Request) (*Result, error) {
	op, err := p.Registry.Resolve(req.Op)
	if err != nil {
		return nil, err
	}
	args, err := p.Registry.Validate(op, req.Args)
	if err != nil {
		return nil, err
	}
	if err := checkArity(op, len(req.Inputs)); err != nil {
		return nil, err
	}

	job, err := NewJob(p.TempRoot)
	if err != nil {
		return nil, err
	}
	result, err := p.run(ctx, op, args, req, job)
	if err != nil {
		job.Cleanup()
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, op *ops.Operation, args ops.Args, req *Request, job *Job) (*Result, error) {
	for _, in := range req.Inputs {
		ext := strings.TrimPrefix(filepath.Ext(in.Filename), ".")
		if _, err := job.StageInput(in.Reader, ext, p.MaxInputBytes); err != nil {
			return nil, err
		}
	}
	if req.Subtitle != nil {
		path, err := job.StageText(trackName(req.Subtitle.Name, "subtitles.srt"), req.Subtitle.Content)
		if err != nil {
			return nil, err
		}
		args[ops.ArgSubtitlePath] = path
	}
	if req.Translation != nil {
		path, err := job.StageText(trackName(req.Translation.Name, "translation.srt"), req.Translation.Content)
		if err != nil {
			return nil, err
		}
		args[ops.ArgTranslationPath] = path
	}

	var infos []ops.InputInfo
	var firstProbe *ProbeResult
	if op.NeedsProbe {
		for i, path := range job.Inputs() {
			probed, err := p.Prober.Probe(ctx, path)
			if err != nil {
				// Introspection has nothing to answer with; everything else
				// only uses the probe as a hint, so degrade to "no audio,
				// unknown duration" instead of failing the job.
				if op.Kind == ops.KindInfo {
					return nil, err
				}
				log.Printf("job %s: probe input %d failed: %v", job.ID, i, err)
				infos = append(infos, ops.InputInfo{})
				continue
			}
			if firstProbe == nil {
				firstProbe = probed
			}
			infos = append(infos, probed.Info())
		}
	}

	if op.Kind == ops.KindInfo {
		return &Result{Info: firstProbe.Summary(req.Inputs[0].Filename), job: job}, nil
	}

	graph, err := op.Build(args, infos)
	if err != nil {
		return nil, err
	}
	format := op.OutputFormat(args)
	outPath := job.OutputPath(format)

	started := time.Now()
	p.publish(ctx, Event{JobID: job.ID, Op: op.Name, Status: "started"})
	err = p.Exec.Run(ctx, op.Name, job.Dir(), BuildArgs(job.Inputs(), graph, outPath))
	p.finish(ctx, job.ID, op.Name, started, err)
	if err != nil {
		return nil, err
	}

	if p.Archiver != nil {
		if key, err := p.Archiver.Archive(ctx, job.ID, outPath); err != nil {
			log.Printf("job %s: archive failed: %v", job.ID, err)
		} else {
			log.Printf("job %s: archived as %s", job.ID, key)
		}
	}
	return &Result{Path: outPath, Format: format, job: job}, nil
}

// Inspect probes a single upload without running the engine.
func (p *Pipeline) Inspect(ctx context.Context, in Input) (*MediaInfo, error) {
	job, err := NewJob(p.TempRoot)
	if err != nil {
		return nil, err
	}
	defer job.Cleanup()

	ext := strings.TrimPrefix(filepath.Ext(in.Filename), ".")
	path, err := job.StageInput(in.Reader, ext, p.MaxInputBytes)
	if err != nil {
		return nil, err
	}
	probed, err := p.Prober.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return probed.Summary(in.Filename), nil
}

func (p *Pipeline) publish(ctx context.Context, ev Event) {
	if p.Events != nil {
		p.Events.Publish(ctx, ev)
	}
}

func (p *Pipeline) finish(ctx context.Context, jobID, op string, started time.Time, err error) {
	ev := Event{JobID: jobID, Op: op, Status: "succeeded", Duration: time.Since(started)}
	if err != nil {
		ev.Status = "failed"
		ev.Detail = err.Error()
	}
	p.publish(ctx, ev)
}

func checkArity(op *ops.Operation, got int) error {
	min, max := op.Inputs()
	if got < min || got > max {
		constraint := fmt.Sprintf("needs between %d and %d files, got %d", min, max, got)
		if min == max {
			constraint = fmt.Sprintf("needs exactly %d file(s), got %d", min, got)
		}
		return &ops.ValidationError{Field: "inputs", Constraint: constraint}
	}
	return nil
}

// trackName keeps the caller's extension for a staged subtitle track but
// nothing else of its filename.
func trackName(name, fallback string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return fallback
	}
	base := strings.TrimSuffix(fallback, filepath.Ext(fallback))
	return base + "." + sanitizeExt(ext)
}
