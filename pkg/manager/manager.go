package manager

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/saturn/pkg/bridge"
	"mercator-hq/saturn/pkg/engine"
)

// Manager holds the process's active policy and swaps it atomically on
// reload. Evaluate holds the read lock for the whole evaluation, so the
// swap's write lock cannot complete while any evaluation is still inside
// the superseded policy; it is closed only after the swap, when no reader
// can be inside it.
type Manager struct {
	config LoaderConfig
	logger *slog.Logger

	mu            sync.RWMutex
	active        *LoadedPolicy
	lastLoadTime  time.Time
	lastLoadError error
}

// NewManager creates a manager and performs the initial load.
func NewManager(config LoaderConfig, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		config: config,
		logger: logger,
	}
	if err := m.Reload(); err != nil {
		return nil, fmt.Errorf("initial policy load: %w", err)
	}
	return m, nil
}

// Reload loads the policy file again and swaps it in. On failure the active
// policy is left untouched so the process keeps serving decisions from the
// last good load.
func (m *Manager) Reload() error {
	start := time.Now()

	loaded, err := Load(m.config)

	m.mu.Lock()
	m.lastLoadTime = start
	m.lastLoadError = err
	if err != nil {
		m.mu.Unlock()
		m.logger.Error("Policy reload failed, keeping last good policy",
			"path", m.config.Path,
			"error", err,
		)
		return err
	}

	old := m.active
	m.active = loaded
	m.mu.Unlock()

	m.logger.Info("Policy loaded",
		"path", m.config.Path,
		"policies", len(loaded.File.Policies),
		"rules", loaded.Policy.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if old != nil {
		if err := old.Close(); err != nil {
			m.logger.Warn("Failed to close superseded policy", "error", err)
		}
	}
	return nil
}

// Evaluate flattens the legacy request against the active policy and
// evaluates it. The read lock is held until the decision is produced, so a
// concurrent reload can never close the policy out from under the call.
func (m *Manager) Evaluate(req *bridge.EvalRequest) (engine.Decision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == nil {
		return engine.Decision{}, fmt.Errorf("no policy loaded")
	}
	return m.active.Policy.Evaluate(bridge.FlattenRequest(m.active.File, req))
}

// Snapshot returns the currently active loaded policy. Callers must not
// close it, and a reload may close it behind a long-lived reference; use
// Evaluate for anything concurrent with reloads.
func (m *Manager) Snapshot() *LoadedPolicy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Status reports the last load attempt.
func (m *Manager) Status() (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastLoadTime, m.lastLoadError
}

// Close releases the active policy.
func (m *Manager) Close() error {
	m.mu.Lock()
	active := m.active
	m.active = nil
	m.mu.Unlock()
	return active.Close()
}
