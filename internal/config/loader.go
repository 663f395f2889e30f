package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileName is the config file read from the config directory.
const FileName = "mathforge.yaml"

// envRef matches ${VAR} and ${VAR:default}.
var envRef = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnv substitutes environment references, falling back to the inline
// default (or "") when the variable is unset.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		if v, ok := os.LookupEnv(m[1]); ok {
			return v
		}
		return m[2]
	})
}

// LoadFile decodes the YAML file at path into dest after env expansion.
func LoadFile(path string, dest any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(expandEnv(string(raw))), dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Loader owns the current configuration snapshot and reloads it when files
// under the watched directories change.
type Loader struct {
	configDir string
	mu        sync.RWMutex
	cfg       *Config
	watchers  []func(*Config)
	logger    *slog.Logger
}

func NewLoader(configDir string, logger *slog.Logger) *Loader {
	return &Loader{
		configDir: configDir,
		logger:    logger,
	}
}

// Load reads the config file over the defaults. A missing file leaves the
// defaults in place.
func (l *Loader) Load() error {
	cfg := DefaultConfig()
	path := filepath.Join(l.configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := LoadFile(path, cfg); err != nil {
			return fmt.Errorf("load mathforge config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	} else {
		l.logger.Warn("config file not found, using defaults", "path", path)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()

	l.logger.Info("configuration loaded", "dir", l.configDir)
	return nil
}

func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// OnReload registers a callback that fires after config is reloaded.
func (l *Loader) OnReload(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers = append(l.watchers, fn)
}

func (l *Loader) reload() {
	if err := l.Load(); err != nil {
		l.logger.Error("reload rejected, keeping previous configuration", "error", err)
		return
	}
	l.mu.RLock()
	cfg, watchers := l.cfg, l.watchers
	l.mu.RUnlock()
	for _, fn := range watchers {
		fn(cfg)
	}
}

// Watch starts watching the config directory and any extra directories
// (guard policies) for changes and reloads on modification. The watcher
// stops when done is closed.
func (l *Loader) Watch(done <-chan struct{}, extraDirs ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	for _, dir := range append([]string{l.configDir}, extraDirs...) {
		if dir == "" {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch config dir %s: %w", dir, err)
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
					l.logger.Info("reloading configuration", "trigger", event.Name, "op", event.Op.String())
					l.reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Error("config watcher error", "error", err)
			}
		}
	}()

	return nil
}
