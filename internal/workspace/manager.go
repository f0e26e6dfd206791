// Package workspace hands each job an isolated scratch directory and sweeps
// directories of finished jobs once their retention window expires.
package workspace

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Manager allocates per-job scratch directories under a common root.
// Workspaces outlive their job on purpose: artifacts stay downloadable
// until the retention sweep reclaims them.
type Manager struct {
	root       string
	retention  time.Duration
	sweepEvery time.Duration

	mu   sync.Mutex
	dirs map[string]string
}

func NewManager(root string, retention, sweepEvery time.Duration) *Manager {
	if root == "" {
		root = os.TempDir()
	}
	return &Manager{
		root:       root,
		retention:  retention,
		sweepEvery: sweepEvery,
		dirs:       make(map[string]string),
	}
}

// Allocate creates a fresh scratch directory for the job and returns its
// path.
func (m *Manager) Allocate(jobID string) (string, error) {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return "", fmt.Errorf("create workspace root: %w", err)
	}
	dir, err := os.MkdirTemp(m.root, "videoforge-"+jobID+"-")
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}

	m.mu.Lock()
	m.dirs[jobID] = dir
	m.mu.Unlock()

	return dir, nil
}

// Reclaim removes the job's workspace. Best effort; a failure is logged and
// the entry dropped either way.
func (m *Manager) Reclaim(jobID string) {
	m.mu.Lock()
	dir, ok := m.dirs[jobID]
	delete(m.dirs, jobID)
	m.mu.Unlock()

	if !ok {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Error().Err(err).Str("job", jobID).Str("dir", dir).Msg("failed to cleanup workspace")
	}
}

// Path returns the workspace directory for a job, if one is still tracked.
func (m *Manager) Path(jobID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir, ok := m.dirs[jobID]
	return dir, ok
}

// Sweep reclaims every tracked workspace whose job the predicate marks
// expired. Returns the number of directories removed.
func (m *Manager) Sweep(expired func(jobID string) bool) int {
	m.mu.Lock()
	var victims []string
	for jobID := range m.dirs {
		if expired(jobID) {
			victims = append(victims, jobID)
		}
	}
	m.mu.Unlock()

	for _, jobID := range victims {
		m.Reclaim(jobID)
	}
	if len(victims) > 0 {
		log.Info().Int("workspaces", len(victims)).Msg("retention sweep reclaimed workspaces")
	}
	return len(victims)
}

// Run periodically sweeps until the context is cancelled. The predicate is
// evaluated per tracked job on every tick.
func (m *Manager) Run(ctx context.Context, expired func(jobID string) bool) {
	if m.sweepEvery <= 0 {
		return
	}
	ticker := time.NewTicker(m.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(expired)
		}
	}
}

// Retention reports the configured retention window.
func (m *Manager) Retention() time.Duration {
	return m.retention
}
