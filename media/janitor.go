package media

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically removes workspaces that outlived their jobs. Normal
// jobs clean up after themselves; the sweep only matters after a crash or
// kill left directories behind.
type Janitor struct {
	TempRoot string
	MaxAge   time.Duration

	cron *cron.Cron
}

// Start schedules the sweep. schedule is a standard cron expression, e.g.
// "*/30 * * * *".
func (j *Janitor) Start(schedule string) error {
	j.cron = cron.New()
	_, err := j.cron.AddFunc(schedule, func() {
		removed, err := j.Sweep()
		if err != nil {
			log.Printf("workspace sweep failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("workspace sweep removed %d stale director(ies)", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule workspace sweep: %w", err)
	}
	j.cron.Start()
	return nil
}

// Stop cancels the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// Sweep removes job workspaces older than MaxAge. Only directories carrying
// the job prefix are touched; everything else under the temp root is left
// alone.
func (j *Janitor) Sweep() (int, error) {
	root := j.TempRoot
	if root == "" {
		root = os.TempDir()
	}
	maxAge := j.MaxAge
	if maxAge == 0 {
		maxAge = time.Hour
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workspacePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("failed to remove stale workspace %s: %v", dir, err)
			continue
		}
		removed++
	}
	return removed, nil
}
