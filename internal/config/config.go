package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultThumbWidth is the thumbnail width used when the config does not
// set one.
const DefaultThumbWidth = 300

// Config represents the main configuration for arthub.
type Config struct {
	User       string          `toml:"user"`
	Machine    string          `toml:"machine"`
	ClientID   string          `toml:"client_id"`
	SharedRoot string          `toml:"shared_root,omitempty"` // empty means solo mode
	BaseDir    string          `toml:"base_dir"`
	LogDir     string          `toml:"log_dir"`
	Index      IndexConfig     `toml:"index"`
	Thumbnails ThumbnailConfig `toml:"thumbnails"`
	Scanner    ScannerConfig   `toml:"scanner"`
}

// IndexConfig represents configuration for the asset index database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type IndexConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ThumbnailConfig holds thumbnail cache settings.
type ThumbnailConfig struct {
	Dir      string `toml:"dir"`
	MaxWidth int    `toml:"max_width"` // pixels; defaults to DefaultThumbWidth
}

// ScannerConfig holds scanner-related settings.
type ScannerConfig struct {
	Ignore []string `toml:"ignore"`
}

// NewConfig creates a new Config with the provided identity and default
// paths under baseDir.
func NewConfig(user, machine, clientID, baseDir string) *Config {
	return &Config{
		User:     user,
		Machine:  machine,
		ClientID: clientID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Index: IndexConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Thumbnails: ThumbnailConfig{
			Dir:      filepath.Join(baseDir, "thumbs"),
			MaxWidth: DefaultThumbWidth,
		},
	}
}

// ThumbWidth returns the configured thumbnail width, falling back to the
// default when unset.
func (c *Config) ThumbWidth() int {
	if c.Thumbnails.MaxWidth <= 0 {
		return DefaultThumbWidth
	}
	return c.Thumbnails.MaxWidth
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Save writes the config back to path, overwriting what is there.
func Save(path string, cfg *Config) error {
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
