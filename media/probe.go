package media

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipchat/ops"
)

// Prober introspects a staged media file. The pipeline depends on this
// interface so tests can substitute canned results.
type Prober interface {
	Probe(ctx context.Context, path string) (*ProbeResult, error)
}

// probeStream mirrors one entry of ffprobe's streams array. Numeric fields
// arrive as strings in the JSON output.
type probeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	RFrameRate string `json:"r_frame_rate,omitempty"`
	SampleRate string `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

type probeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// ProbeResult holds the parsed stream and container metadata of one input.
type ProbeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// ParseProbe decodes raw ffprobe JSON. Split from the exec path so the
// parsing can be tested against captured output.
func ParseProbe(raw []byte) (*ProbeResult, error) {
	var r ProbeResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}
	return &r, nil
}

func (r *ProbeResult) stream(codecType string) *probeStream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == codecType {
			return &r.Streams[i]
		}
	}
	return nil
}

// HasAudio reports whether any audio stream is present.
func (r *ProbeResult) HasAudio() bool { return r.stream("audio") != nil }

// Duration returns the container duration in seconds, falling back to the
// first stream that declares one. Zero means unknown.
func (r *ProbeResult) Duration() float64 {
	if d, err := strconv.ParseFloat(r.Format.Duration, 64); err == nil && d > 0 {
		return d
	}
	for _, s := range r.Streams {
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// Info projects the result onto what filter builders need.
func (r *ProbeResult) Info() ops.InputInfo {
	info := ops.InputInfo{
		HasAudio: r.HasAudio(),
		Duration: r.Duration(),
	}
	if v := r.stream("video"); v != nil {
		info.Width = v.Width
		info.Height = v.Height
	}
	return info
}

// MediaInfo is the client-facing introspection report.
type MediaInfo struct {
	Filename string  `json:"filename"`
	Format   string  `json:"format"`
	Duration float64 `json:"duration"`
	Size     int64   `json:"size"`
	BitRate  int64   `json:"bit_rate"`

	Video *VideoStreamInfo `json:"video,omitempty"`
	Audio *AudioStreamInfo `json:"audio,omitempty"`
}

type VideoStreamInfo struct {
	Codec     string  `json:"codec"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
}

type AudioStreamInfo struct {
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Summary builds the introspection report. filename replaces the staged temp
// path so the report shows the name the caller uploaded.
func (r *ProbeResult) Summary(filename string) *MediaInfo {
	if filename == "" {
		filename = filepath.Base(r.Format.Filename)
	}
	size, _ := strconv.ParseInt(r.Format.Size, 10, 64)
	bitRate, _ := strconv.ParseInt(r.Format.BitRate, 10, 64)
	info := &MediaInfo{
		Filename: filename,
		Format:   r.Format.FormatName,
		Duration: r.Duration(),
		Size:     size,
		BitRate:  bitRate,
	}
	if v := r.stream("video"); v != nil {
		info.Video = &VideoStreamInfo{
			Codec:     v.CodecName,
			Width:     v.Width,
			Height:    v.Height,
			FrameRate: parseFrameRate(v.RFrameRate),
		}
	}
	if a := r.stream("audio"); a != nil {
		sampleRate, _ := strconv.Atoi(a.SampleRate)
		info.Audio = &AudioStreamInfo{
			Codec:      a.CodecName,
			SampleRate: sampleRate,
			Channels:   a.Channels,
		}
	}
	return info
}

// parseFrameRate evaluates ffprobe's fractional rate, e.g. "30000/1001".
func parseFrameRate(rate string) float64 {
	num, den, found := strings.Cut(rate, "/")
	if !found {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// FFprobe runs the ffprobe binary through ffmpeg-go.
type FFprobe struct {
	Timeout time.Duration
}

// Probe introspects one staged file.
func (p *FFprobe) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	raw, err := ffmpeg.ProbeWithTimeout(path, timeout, nil)
	if err != nil {
		return nil, &ProbeError{Input: filepath.Base(path), Err: err}
	}
	result, err := ParseProbe([]byte(raw))
	if err != nil {
		return nil, &ProbeError{Input: filepath.Base(path), Err: err}
	}
	return result, nil
}
