package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Jboschlagos/Emmet-Cloude/internal/errors"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
)

const (
	// ConfigFileName is the name of the default configuration file.
	ConfigFileName = "emmet.json"

	// DefaultPort is the default playground server port.
	DefaultPort = 8080

	// DefaultHost is the default playground server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultShutdownTimeout bounds graceful server shutdown.
	DefaultShutdownTimeout = "10s"

	// DefaultStoreDir is the snippet directory used by the disk backend.
	DefaultStoreDir = ".emmet/snippets"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendS3     = "s3"
)

// fileNames are the configuration files looked up in a directory, in order.
var fileNames = []string{ConfigFileName, "emmet.yaml", "emmet.yml"}

// Config represents the complete emmet configuration file.
type Config struct {
	// Expand contains expansion defaults and limits.
	Expand ExpandConfig `json:"expand" yaml:"expand"`

	// Server contains playground server configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Store contains snippet store configuration.
	Store StoreConfig `json:"store" yaml:"store"`

	// Log contains logger configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ExpandConfig contains expansion settings.
type ExpandConfig struct {
	// Indent is the indent unit per nesting level.
	Indent string `json:"indent,omitempty" yaml:"indent,omitempty"`

	// MaxInputLength is the longest accepted abbreviation in bytes. 0 disables the check.
	MaxInputLength int `json:"maxInputLength" yaml:"maxInputLength"`

	// MaxDepth bounds child and group nesting. 0 disables the check.
	MaxDepth int `json:"maxDepth" yaml:"maxDepth"`

	// MaxMultiplier bounds the copies nested repetitions emit of one node.
	// 0 disables the check.
	MaxMultiplier int `json:"maxMultiplier" yaml:"maxMultiplier"`

	// MaxLoremWords bounds the words one lorem marker may ask for. It also
	// caps the playground's /api/lorem endpoint. 0 disables the check.
	MaxLoremWords int `json:"maxLoremWords" yaml:"maxLoremWords"`
}

// ServerConfig contains playground server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// MetricsPath is the Prometheus endpoint. Empty disables metrics.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`

	// Tracing enables OpenTelemetry spans for requests and expansions.
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// ShutdownTimeout is the graceful shutdown budget (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// AllowedOrigins lists origins accepted on the live channel.
	// Empty allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// StoreConfig contains snippet store settings.
type StoreConfig struct {
	// Backend is one of memory, disk or s3.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Dir is the disk backend directory, relative to the config file.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// S3 configures the s3 backend.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config contains S3 bucket settings.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix          string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region          string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	UsePathStyle    bool   `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`
	AccessKeyID     string `json:"accessKeyID,omitempty" yaml:"accessKeyID,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" yaml:"secretAccessKey,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Expand: ExpandConfig{
			Indent:         emmet.DefaultIndent,
			MaxInputLength: emmet.DefaultMaxInputLength,
			MaxDepth:       emmet.DefaultMaxDepth,
			MaxMultiplier:  emmet.DefaultMaxMultiplier,
			MaxLoremWords:  emmet.DefaultMaxLoremWords,
		},
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			MetricsPath:     DefaultMetricsPath,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Dir:     DefaultStoreDir,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It uses the first of emmet.json, emmet.yaml and emmet.yml found there.
func Load(dir string) (*Config, error) {
	path, ok := find(dir)
	if !ok {
		return nil, errors.New("E121").
			WithDetail("No emmet.json or emmet.yaml found in " + dir).
			WithSuggestion("Run 'emmet init' to create one")
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are decoded as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Run 'emmet init' to create one")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// extension asks for it and as indented JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields. Expansion limits
// are left alone: zero is a valid setting that disables the check.
func (c *Config) applyDefaults() {
	if c.Expand.Indent == "" {
		c.Expand.Indent = emmet.DefaultIndent
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if c.Store.Dir == "" {
		c.Store.Dir = DefaultStoreDir
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("E120").
			WithDetail("server.shutdownTimeout is not a duration: " + c.Server.ShutdownTimeout).
			WithExample(`"shutdownTimeout": "10s"`)
	}

	for name, v := range map[string]int{
		"expand.maxInputLength": c.Expand.MaxInputLength,
		"expand.maxDepth":       c.Expand.MaxDepth,
		"expand.maxMultiplier":  c.Expand.MaxMultiplier,
		"expand.maxLoremWords":  c.Expand.MaxLoremWords,
	} {
		if v < 0 {
			return errors.New("E124").
				WithDetail(name + " must not be negative").
				WithSuggestion("Use 0 to disable the limit")
		}
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendDisk:
		if c.Store.Dir == "" {
			return errors.New("E121").WithDetail("store.dir is required for the disk backend")
		}
	case BackendS3:
		if c.Store.S3.Bucket == "" {
			return errors.New("E121").WithDetail("store.s3.bucket is required for the s3 backend")
		}
	default:
		return errors.New("E123").
			WithDetail("Unknown backend " + strconv.Quote(c.Store.Backend)).
			WithSuggestion("Use memory, disk or s3")
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E125").
			WithDetail("log.level must be debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return errors.New("E125").
			WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	return nil
}

// Addr returns the listen address for the playground server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShutdownDuration returns the graceful shutdown budget, falling back to
// the default when the setting does not parse.
func (c *Config) ShutdownDuration() time.Duration {
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err == nil {
		return d
	}
	d, _ := time.ParseDuration(DefaultShutdownTimeout)
	return d
}

// ExpanderOptions returns the expander options described by the config.
func (c *Config) ExpanderOptions() []emmet.Option {
	return []emmet.Option{
		emmet.WithIndent(c.Expand.Indent),
		emmet.WithMaxInputLength(c.Expand.MaxInputLength),
		emmet.WithMaxDepth(c.Expand.MaxDepth),
		emmet.WithMaxMultiplier(c.Expand.MaxMultiplier),
		emmet.WithMaxLoremWords(c.Expand.MaxLoremWords),
	}
}

// StorePath returns the absolute path to the snippet directory.
func (c *Config) StorePath() string {
	path := c.Store.Dir
	if path == "" {
		path = DefaultStoreDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Logger builds a logger writing to w with the configured level and format.
// Unknown levels fall back to info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, ok := parseLevel(c.Log.Level)
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// find returns the first configuration file present in dir.
func find(dir string) (string, bool) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, ok := find(dir)
	return ok
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a configuration file, or an error if not found.
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
			return "", errors.New("E121").
				WithDetail("No emmet.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'emmet init' to create one")
		}
		dir = parent
	}
}

// LoadFrom loads the nearest configuration at or above startDir. A tree
// without any configuration file yields the defaults.
func LoadFrom(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		if errors.HasCode(err, "E121") {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFrom(wd)
}
