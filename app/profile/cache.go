package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache loads client profiles from a directory of YAML files and keeps
// them in memory. Profile names derive from filenames.
type Cache struct {
	profilesDir string
	cache       map[string]*Profile
	mu          sync.RWMutex
}

func NewCache(profilesDir string) *Cache {
	return &Cache{
		profilesDir: profilesDir,
		cache:       make(map[string]*Profile),
	}
}

// Run loads every profile file in the profiles directory. A missing
// directory is not an error; the service still accepts inline
// configuration over the API.
func (c *Cache) Run() error {
	if _, err := os.Stat(c.profilesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.profilesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	yamlFiles, err := filepath.Glob(filepath.Join(c.profilesDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	for _, file := range files {
		fileName := filepath.Base(file)
		name := strings.TrimSuffix(fileName, filepath.Ext(fileName))

		p, err := c.LoadProfile(name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Profile loaded", "profile", name, "client", p.ClientName)
	}

	return nil
}

// LoadProfile reads one profile file from disk, validates it, and
// stores it in the cache.
func (c *Cache) LoadProfile(name string) (*Profile, error) {
	path := c.profileFilePath(name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	p.Name = name

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[name] = &p

	return &p, nil
}

func (c *Cache) GetProfile(name string) (*Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.cache[name]
	if !ok {
		return nil, fmt.Errorf("profile with name '%s' not found", name)
	}

	return p, nil
}

func (c *Cache) GetProfiles() []*Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	profiles := make([]*Profile, 0, len(c.cache))
	for _, p := range c.cache {
		profiles = append(profiles, p)
	}

	return profiles
}

func (c *Cache) GetProfileCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.cache)
}

func (c *Cache) profileFilePath(name string) string {
	if path := filepath.Join(c.profilesDir, name+".yml"); fileExists(path) {
		return path
	}
	return filepath.Join(c.profilesDir, name+".yaml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
