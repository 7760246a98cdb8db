package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ayusman/mudra/internal/monitoring"
)

// Lookup errors.
var (
	ErrPluginNotFound     = errors.New("plugin not found")
	ErrActionNotSupported = errors.New("action not supported by plugin")
)

// Manager discovers plugins in a directory and looks them up by name.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a new plugin Manager with the given plugin directory.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover replaces the known plugins with those found in the plugin
// directory. Each subdirectory holding a plugin.json is a candidate; ones
// with a bad manifest, a missing executable or a name already taken are
// skipped and logged. A missing plugin directory yields no plugins.
func (m *Manager) Discover() error {
	entries, err := os.ReadDir(m.pluginDir)
	if os.IsNotExist(err) {
		m.replace(map[string]*Plugin{})
		return nil
	}
	if err != nil {
		return err
	}

	found := make(map[string]*Plugin)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := loadPlugin(filepath.Join(m.pluginDir, entry.Name()))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			monitoring.Logf("[plugin] skipping %s: %v", entry.Name(), err)
			continue
		}
		if other, dup := found[p.Manifest.Name]; dup {
			monitoring.Logf("[plugin] skipping %s: name %q already used by %s", entry.Name(), p.Manifest.Name, other.Path)
			continue
		}
		found[p.Manifest.Name] = p
	}

	m.replace(found)
	monitoring.Logf("[plugin] discovered %d plugin(s) in %s", len(found), m.pluginDir)
	return nil
}

func (m *Manager) replace(plugins map[string]*Plugin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins = plugins
}

// loadPlugin reads dir/plugin.json. It returns an os.ErrNotExist error
// when dir has no manifest.
func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, "plugin.json"))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return nil, errors.New("manifest needs a name and an executable")
	}

	executable := filepath.Join(dir, manifest.Executable)
	info, err := os.Stat(executable)
	if err != nil {
		return nil, fmt.Errorf("executable: %w", errMissingExecutable(err))
	}
	if info.IsDir() {
		return nil, fmt.Errorf("executable %s is a directory", manifest.Executable)
	}

	return &Plugin{Manifest: manifest, Path: dir, Executable: executable}, nil
}

// errMissingExecutable keeps a missing executable from reading as a
// missing manifest.
func errMissingExecutable(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return errors.New("not found")
	}
	return err
}

// Get returns a plugin by name.
// Returns ErrPluginNotFound if the plugin does not exist.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}

	return plugin, nil
}

// Resolve returns the named plugin after checking that it declares action.
func (m *Manager) Resolve(name, action string) (*Plugin, error) {
	p, err := m.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, name)
	}
	if !p.Manifest.Supports(action) {
		return nil, fmt.Errorf("%w: %s/%s", ErrActionNotSupported, name, action)
	}
	return p, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		plugins = append(plugins, plugin)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})

	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
