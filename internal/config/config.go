package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vcrobe/nojs-elements/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "wc.json"

	// DefaultEntry is the package compiled to WebAssembly.
	DefaultEntry = "./cmd/helloworld"

	// DefaultPort is the default development server port.
	DefaultPort = 8080

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultWasmFile is the name of the compiled module in the output
	// directory.
	DefaultWasmFile = "main.wasm"
)

// Config represents wc.json.
type Config struct {
	// Name is the project name, used as the page title.
	Name string `json:"name,omitempty"`

	// Entry is the main package compiled with GOOS=js GOARCH=wasm.
	Entry string `json:"entry,omitempty"`

	// Build contains build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	configPath string
}

// BuildConfig contains build settings.
type BuildConfig struct {
	// Output is the output directory for main.wasm, wasm_exec.js and
	// index.html.
	Output string `json:"output,omitempty"`

	// Tags are build tags passed to go build, e.g. "dev".
	Tags []string `json:"tags,omitempty"`

	// LDFlags are additional linker flags for go build.
	LDFlags string `json:"ldflags,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Watch lists directories watched for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore lists directory names skipped while watching.
	Ignore []string `json:"ignore,omitempty"`

	// Reload injects the live reload client into index.html.
	Reload *bool `json:"reload,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	reload := true
	return &Config{
		Name:  "nojs-elements",
		Entry: DefaultEntry,
		Build: BuildConfig{
			Output: DefaultOutput,
		},
		Dev: DevConfig{
			Host:   DefaultHost,
			Port:   DefaultPort,
			Watch:  []string{"."},
			Ignore: []string{".git", "node_modules", DefaultOutput},
			Reload: &reload,
		},
	}
}

// Load reads wc.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E010").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("E011").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E011").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E011").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E011").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file, or "" for a
// config that was never loaded or saved.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	defaults := New()

	if c.Name == "" {
		c.Name = filepath.Base(c.Dir())
		if c.Name == "." || c.Name == "" {
			c.Name = defaults.Name
		}
	}
	if c.Entry == "" {
		c.Entry = defaults.Entry
	}
	if c.Build.Output == "" {
		c.Build.Output = defaults.Build.Output
	}
	if c.Dev.Host == "" {
		c.Dev.Host = defaults.Dev.Host
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = defaults.Dev.Port
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = defaults.Dev.Watch
	}
	if c.Dev.Ignore == nil {
		c.Dev.Ignore = defaults.Dev.Ignore
	}
	if c.Dev.Reload == nil {
		c.Dev.Reload = defaults.Dev.Reload
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E011").
			WithDetailf("dev.port must be between 0 and 65535, got %d", c.Dev.Port)
	}
	if strings.TrimSpace(c.Entry) == "" {
		return errors.New("E011").WithDetail("entry must name a main package")
	}
	for _, tag := range c.Build.Tags {
		if tag == "" || strings.ContainsAny(tag, " ,") {
			return errors.New("E011").WithDetailf("invalid build tag %q", tag)
		}
	}
	return nil
}

// ReloadEnabled reports whether the live reload client is injected.
func (c *Config) ReloadEnabled() bool {
	return c.Dev.Reload == nil || *c.Dev.Reload
}

// DevAddress returns the listen address of the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the URL of the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// OutputPath returns the build output directory, resolved against the
// config directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output)
}

// WatchPaths returns the watched directories, resolved against the config
// directory.
func (c *Config) WatchPaths() []string {
	paths := make([]string, len(c.Dev.Watch))
	for i, p := range c.Dev.Watch {
		paths[i] = c.resolve(p)
	}
	return paths
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists reports whether dir contains a config file.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the first directory holding a
// config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E010").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the config of the project containing the
// working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// LoadOrDefault loads the project config when one exists and falls back to
// defaults rooted at the working directory otherwise.
func LoadOrDefault() (*Config, error) {
	cfg, err := LoadFromWorkingDir()
	if err == nil {
		return cfg, nil
	}
	if !errors.HasCode(err, "E010") {
		return nil, err
	}

	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return nil, wdErr
	}
	cfg = New()
	cfg.configPath = filepath.Join(wd, ConfigFileName)
	return cfg, nil
}
