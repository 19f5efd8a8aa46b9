package media

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJobStagingRoundTrip(t *testing.T) {
	job, err := NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer job.Cleanup()

	payload := []byte("fake mp4 bytes")
	path, err := job.StageInput(bytes.NewReader(payload), "mp4", 0)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "input_0.mp4" {
		t.Errorf("unexpected staged name %s", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("staged bytes differ from upload")
	}

	second, err := job.StageInput(strings.NewReader("wav"), "wav", 0)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(second) != "input_1.wav" {
		t.Errorf("unexpected second staged name %s", second)
	}
	if inputs := job.Inputs(); len(inputs) != 2 || inputs[0] != path || inputs[1] != second {
		t.Errorf("inputs = %v", inputs)
	}
}

func TestJobStageInputEnforcesLimit(t *testing.T) {
	job, err := NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer job.Cleanup()

	if _, err := job.StageInput(strings.NewReader("0123456789"), "mp4", 4); err == nil {
		t.Fatal("oversized input accepted")
	}
	if _, err := job.StageInput(strings.NewReader("0123"), "mp4", 4); err != nil {
		t.Fatalf("input at the limit rejected: %v", err)
	}
}

func TestJobStageText(t *testing.T) {
	job, err := NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer job.Cleanup()

	path, err := job.StageText("subtitles.srt", "1\n00:00:00,000 --> 00:00:02,000\nhello\n")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != job.Dir() {
		t.Errorf("track staged outside workspace: %s", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "hello") {
		t.Error("track content lost")
	}
}

func TestJobCleanupRemovesWorkspace(t *testing.T) {
	root := t.TempDir()
	job, err := NewJob(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := job.StageInput(strings.NewReader("x"), "mp4", 0); err != nil {
		t.Fatal(err)
	}

	job.Cleanup()
	if _, err := os.Stat(job.Dir()); !os.IsNotExist(err) {
		t.Errorf("workspace still present after cleanup: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp root not empty: %v", entries)
	}
}

func TestJobWorkspacesAreDistinct(t *testing.T) {
	root := t.TempDir()
	a, err := NewJob(root)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewJob(root)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Cleanup()
	defer b.Cleanup()

	if a.Dir() == b.Dir() {
		t.Error("two jobs share a workspace")
	}
}

func TestSanitizeExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mp4", "mp4"},
		{".MOV", "mov"},
		{"../../../etc", "etc"},
		{"", "bin"},
		{"??", "bin"},
	}
	for _, tt := range tests {
		if got := sanitizeExt(tt.in); got != tt.want {
			t.Errorf("sanitizeExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
