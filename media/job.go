package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// workspacePrefix marks job directories so the janitor can tell them apart
// from unrelated temp files.
const workspacePrefix = "clipchat-"

// Job is one request's private temp workspace. Every staged input and the
// output live under a single directory so Cleanup is a single RemoveAll no
// matter how far the job got.
type Job struct {
	ID     string
	dir    string
	inputs []string
}

// NewJob creates the workspace directory under tempRoot. An empty tempRoot
// falls back to the system temp dir.
func NewJob(tempRoot string) (*Job, error) {
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	id := uuid.NewString()
	dir := filepath.Join(tempRoot, workspacePrefix+id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create job workspace: %w", err)
	}
	return &Job{ID: id, dir: dir}, nil
}

// Dir returns the workspace directory.
func (j *Job) Dir() string { return j.dir }

// Inputs returns the staged input paths in staging order.
func (j *Job) Inputs() []string { return j.inputs }

// StageInput copies one input stream into the workspace. ext is the container
// extension without the dot; maxBytes caps the copy when positive, and an
// input exceeding it aborts staging with an error.
func (j *Job) StageInput(r io.Reader, ext string, maxBytes int64) (string, error) {
	if ext == "" {
		ext = "bin"
	}
	path := filepath.Join(j.dir, fmt.Sprintf("input_%d.%s", len(j.inputs), sanitizeExt(ext)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage input: %w", err)
	}
	defer f.Close()

	if maxBytes > 0 {
		n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
		if err != nil {
			return "", fmt.Errorf("stage input: %w", err)
		}
		if n > maxBytes {
			return "", fmt.Errorf("stage input: exceeds %d byte limit", maxBytes)
		}
	} else if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("stage input: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("stage input: %w", err)
	}
	j.inputs = append(j.inputs, path)
	return path, nil
}

// StageText writes an auxiliary text file (subtitle tracks) into the
// workspace. It is not counted as an engine input.
func (j *Job) StageText(name, content string) (string, error) {
	path := filepath.Join(j.dir, filepath.Base(name))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("stage %s: %w", name, err)
	}
	return path, nil
}

// OutputPath names the output file for the decided container format.
func (j *Job) OutputPath(format string) string {
	return filepath.Join(j.dir, "output."+sanitizeExt(format))
}

// Cleanup removes the workspace. Failures are logged, never returned: a
// leftover temp dir must not turn a finished job into an error.
func (j *Job) Cleanup() {
	if err := os.RemoveAll(j.dir); err != nil {
		log.Printf("job %s: cleanup failed: %v", j.ID, err)
	}
}

// sanitizeExt strips anything that could escape the workspace or confuse the
// engine's format detection.
func sanitizeExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bin"
	}
	return b.String()
}
