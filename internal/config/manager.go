package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce groups the burst of events editors produce for one save
const reloadDebounce = 100 * time.Millisecond

// Manager provides centralized configuration management with validation and watching
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	watchers   []func(*Config)
	logger     *slog.Logger

	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

// NewManager creates a new configuration manager
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{config: DefaultConfig(), logger: logger}
}

// LoadFromFile loads configuration from a file and applies environment overrides
func (m *Manager) LoadFromFile(configPath string) error {
	configPath = ExpandPath(configPath)
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ApplyEnv()

	m.mu.Lock()
	m.config = cfg
	m.configPath = configPath
	m.mu.Unlock()

	m.notifyWatchers(cfg)
	return nil
}

// Path returns the file the configuration was loaded from
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// GetConfig returns a copy of the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := *m.config
	return &c
}

// Get returns the value of one key
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Get(key)
}

// Set updates one key and persists the file
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	next := *m.config
	if err := next.Set(key, value); err != nil {
		m.mu.Unlock()
		return err
	}
	path := m.configPath
	m.config = &next
	m.mu.Unlock()

	if path != "" {
		if err := next.SaveConfig(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}
	m.notifyWatchers(&next)
	return nil
}

// UpdateConfig replaces the configuration and persists it
func (m *Manager) UpdateConfig(cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c := *cfg

	m.mu.Lock()
	m.config = &c
	path := m.configPath
	m.mu.Unlock()

	if path != "" {
		if err := c.SaveConfig(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}
	m.notifyWatchers(&c)
	return nil
}

// AddWatcher adds a configuration change watcher
func (m *Manager) AddWatcher(watcher func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, watcher)
}

// Watch reloads the configuration whenever the file changes, until ctx is done or
// StopWatching is called. The directory is watched so that editors which replace
// the file on save are seen too.
func (m *Manager) Watch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.configPath == "" {
		return errors.New("no config file path set")
	}
	if m.watchCancel != nil {
		return errors.New("already watching configuration file")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(m.configPath)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(m.configPath), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	m.watchCancel = cancel
	m.watchDone = make(chan struct{})
	go m.watchLoop(watchCtx, w, m.configPath, m.watchDone)
	return nil
}

// StopWatching stops the watcher and waits for it to exit
func (m *Manager) StopWatching() {
	m.mu.Lock()
	cancel, done := m.watchCancel, m.watchDone
	m.watchCancel, m.watchDone = nil, nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (m *Manager) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, done chan struct{}) {
	defer close(done)
	defer w.Close()

	name := filepath.Base(path)
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(reloadDebounce)
			}
		case <-pending:
			pending = nil
			if err := m.LoadFromFile(path); err != nil {
				m.logger.Warn("config reload failed, keeping previous values", "error", err)
				continue
			}
			m.logger.Info("config reloaded", "path", path)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.mu.RLock()
	watchers := slices.Clone(m.watchers)
	m.mu.RUnlock()
	for _, watcher := range watchers {
		c := *cfg
		watcher(&c)
	}
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	switch cfg.AIProvider {
	case "", "openai", "ollama", "bedrock":
	default:
		return fmt.Errorf("unknown ai-provider %q", cfg.AIProvider)
	}
	if cfg.AITimeout != "" {
		if _, err := time.ParseDuration(cfg.AITimeout); err != nil {
			return fmt.Errorf("invalid ai-timeout: %w", err)
		}
	}
	return nil
}
