// Package profile manages named catalog profiles stored in ~/.metadown/catalogs.
package profile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a named profile does not exist.
var ErrNotFound = errors.New("catalog profile not found")

// Profile describes one GeoNetwork catalog to harvest.
type Profile struct {
	// Name is the profile identifier (e.g., "noaa-ncei")
	Name string `yaml:"name" json:"name"`

	// BaseURL is the catalog root, e.g. https://data.example.org/geonetwork
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Mode is the enrichment mode; empty means the configured default
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Namer selects file naming ("url" or "uuid"); empty means the configured default
	Namer string `yaml:"namer,omitempty" json:"namer,omitempty"`

	// Output is the directory harvested files are written to
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// Validate checks that the profile can be harvested.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("profile %q: base_url is required", p.Name)
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("profile %q: invalid base_url: %w", p.Name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("profile %q: base_url must be http or https, got %q", p.Name, p.BaseURL)
	}
	return nil
}

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.metadown is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the metadown configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".metadown"), nil
}

// CatalogsDir returns the profiles directory.
func CatalogsDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "catalogs"), nil
}

// Path returns the file a profile is stored in.
func Path(name string) (string, error) {
	dir, err := CatalogsDir()
	if err != nil {
		return "", err
	}
	name = normalize(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	return filepath.Join(dir, name+".yaml"), nil
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// Save writes the profile to disk, replacing any profile of the same name.
func (p *Profile) Save() error {
	if err := p.Validate(); err != nil {
		return err
	}

	path, err := Path(p.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating catalogs directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	return nil
}

// Load reads a profile from disk.
func Load(name string) (*Profile, error) {
	path, err := Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = normalize(name)
	}

	return &p, nil
}

// List returns all profile names, sorted.
func List() ([]string, error) {
	dir, err := CatalogsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catalogs directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			names = append(names, strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml"))
		}
	}
	sort.Strings(names)

	return names, nil
}

// Delete removes a profile.
func Delete(name string) error {
	path, err := Path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("deleting profile: %w", err)
	}

	return nil
}

// Exists checks if a profile exists.
func Exists(name string) bool {
	path, err := Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
