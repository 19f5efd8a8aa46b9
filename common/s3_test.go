package common

import "testing"

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, jobID, path, want string
	}{
		{"outputs", "abc", "/tmp/clipchat-abc/output.mp4", "outputs/abc/output.mp4"},
		{"", "abc", "/tmp/clipchat-abc/output.gif", "abc/output.gif"},
		{"a/b", "x", "output.mp3", "a/b/x/output.mp3"},
	}
	for _, tt := range tests {
		if got := objectKey(tt.prefix, tt.jobID, tt.path); got != tt.want {
			t.Errorf("objectKey(%q, %q, %q) = %q, want %q", tt.prefix, tt.jobID, tt.path, got, tt.want)
		}
	}
}
