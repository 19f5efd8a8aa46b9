package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipchat/ops"
)

// Executor turns filter graphs into engine runs. Buffered runs read and write
// staged files inside a job workspace; streaming runs connect the engine
// directly to the request and response bodies.
type Executor struct {
	// Binary overrides the ffmpeg executable. Empty means "ffmpeg" on PATH.
	Binary string
}

func (e *Executor) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

// BuildArgs assembles the full argument vector for one buffered run:
// per-input arguments before each -i, then the filter expressions and stream
// maps, then the output arguments and path. Pure function, so the exact
// command line is testable without an engine.
func BuildArgs(inputs []string, g *ops.Graph, outPath string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	for i, input := range inputs {
		if i < len(g.InputArgs) {
			args = append(args, g.InputArgs[i]...)
		}
		args = append(args, "-i", input)
	}
	if g.HasComplex() {
		args = append(args, "-filter_complex", g.Complex)
		for _, label := range g.OutputLabels {
			args = append(args, "-map", label)
		}
	} else {
		if g.VideoFilter != "" {
			args = append(args, "-vf", g.VideoFilter)
		}
		if g.AudioFilter != "" {
			args = append(args, "-af", g.AudioFilter)
		}
	}
	args = append(args, g.OutputArgs...)
	return append(args, outPath)
}

// Run executes one buffered job. Cancelling the context kills the engine
// process. Failures come back as a JobError with workspace paths stripped
// from the captured stderr.
func (e *Executor) Run(ctx context.Context, opName, workDir string, args []string) error {
	log.Printf("job %s: %s %s", opName, e.binary(), strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, e.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &JobError{Op: opName, Stderr: sanitizeStderr(stderr.String(), workDir), Err: err}
	}
	return nil
}

// muxers maps output formats whose muxer name differs from the extension, or
// that need extra flags to produce a playable stream on a non-seekable pipe.
var muxers = map[string]struct {
	name  string
	flags ffmpeg.KwArgs
}{
	"mp4": {"mp4", ffmpeg.KwArgs{"movflags": "frag_keyframe+empty_moov"}},
	"mov": {"mov", ffmpeg.KwArgs{"movflags": "frag_keyframe+empty_moov"}},
	"mkv": {"matroska", nil},
	"jpg": {"image2", nil},
	"png": {"image2", nil},
	"aac": {"adts", nil},
}

// streamKwArgs converts a simple graph into the output arguments of a piped
// run: the filter chains, the explicit muxer (a pipe has no filename to infer
// it from), and the graph's output arguments re-keyed for ffmpeg-go.
func streamKwArgs(g *ops.Graph, format string) ffmpeg.KwArgs {
	mux, ok := muxers[format]
	if !ok {
		mux.name = format
	}
	kw := ffmpeg.KwArgs{"f": mux.name}
	for k, v := range mux.flags {
		kw[k] = v
	}
	if g.VideoFilter != "" {
		kw["vf"] = g.VideoFilter
	}
	if g.AudioFilter != "" {
		kw["af"] = g.AudioFilter
	}
	for i := 0; i < len(g.OutputArgs); i++ {
		flag := strings.TrimPrefix(g.OutputArgs[i], "-")
		if i+1 < len(g.OutputArgs) && !strings.HasPrefix(g.OutputArgs[i+1], "-") {
			kw[flag] = g.OutputArgs[i+1]
			i++
		} else {
			// Bare flag like -an or -shortest.
			kw[flag] = ""
		}
	}
	return kw
}

// Stream runs a single-input graph with stdin and stdout piped. The caller
// has already decided the Content-Type from the output format; nothing is
// written to out until the engine produces bytes.
func (e *Executor) Stream(ctx context.Context, opName string, g *ops.Graph, format string, in io.Reader, out io.Writer) error {
	if g.HasComplex() || len(g.InputArgs) > 0 {
		return fmt.Errorf("%s: graph requires staged inputs and cannot stream", opName)
	}
	outKw := streamKwArgs(g, format)

	var stderr bytes.Buffer
	cmd := ffmpeg.Input("pipe:0", ffmpeg.KwArgs{"hide_banner": "", "loglevel": "error"}).
		Output("pipe:1", outKw).
		WithInput(in).
		WithOutput(out).
		WithErrorOutput(&stderr).
		Compile()
	if e.Binary != "" {
		// ffmpeg-go compiles against "ffmpeg" on PATH; honor the override.
		if path, lookErr := exec.LookPath(e.Binary); lookErr == nil {
			cmd.Path = path
			cmd.Err = nil
		}
	}

	log.Printf("job %s: %s", opName, strings.Join(cmd.Args, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return &JobError{Op: opName, Stderr: sanitizeStderr(stderr.String(), ""), Err: err}
		}
	}
	return nil
}
