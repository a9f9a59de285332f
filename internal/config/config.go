package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/vtree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vtree.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 7070

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultRoot is the default root component.
	DefaultRoot = "App"

	// DefaultSnapshotDir is the default directory for snapshots.
	DefaultSnapshotDir = "snapshots"
)

// Snapshot store kinds.
const (
	StoreDir = "dir"
	StoreS3  = "s3"
)

// Config represents the complete vtree.json configuration.
type Config struct {
	// Name is the project name. It prefixes snapshot keys.
	Name string `json:"name,omitempty"`

	// Root names the component mounted by render, serve and publish.
	Root string `json:"root,omitempty"`

	// Render contains HTML output configuration.
	Render RenderConfig `json:"render,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Preview contains preview server configuration.
	Preview PreviewConfig `json:"preview,omitempty"`

	// Snapshot contains snapshot publishing configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig controls the document and page output.
type RenderConfig struct {
	// RootTag is the tag of the document root (default: "body").
	RootTag string `json:"rootTag,omitempty"`

	// Pretty indents the output.
	Pretty bool `json:"pretty,omitempty"`

	// Indent is the indentation unit when Pretty is set.
	Indent string `json:"indent,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Lang is the html lang attribute.
	Lang string `json:"lang,omitempty"`

	// StyleSheets are linked in the page head.
	StyleSheets []string `json:"styleSheets,omitempty"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string `json:"level,omitempty"`

	// Format is text or json (default: text).
	Format string `json:"format,omitempty"`
}

// MetricsConfig controls the Prometheus recorder.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`

	// Path is where the preview server exposes metrics (default: "/metrics").
	Path string `json:"path,omitempty"`
}

// TracingConfig controls update spans.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty"`

	// TracerName is the instrumentation name (default: "vtree").
	TracerName string `json:"tracerName,omitempty"`
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Port is the port to run the preview server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// AllowedOrigins are accepted for websocket upgrades. Empty allows
	// same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// SnapshotConfig contains snapshot store settings.
type SnapshotConfig struct {
	// Store is "dir" or "s3".
	Store string `json:"store,omitempty"`

	// Dir is the output directory for the dir store.
	Dir string `json:"dir,omitempty"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the S3 region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the vtree.json in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'vtree init' to write a default " + ConfigFileName)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error())
		var syn *json.SyntaxError
		if stderrors.As(err, &syn) {
			line, col := position(data, syn.Offset)
			e.WithLocation(path, line, col)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads the vtree.json found in dir or any parent. When none
// exists the defaults are returned.
func LoadOrDefault(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}

// Save writes the configuration back to its source file.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the configuration was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the configuration file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}

	if c.Render.RootTag == "" {
		c.Render.RootTag = "body"
	}
	if c.Render.Indent == "" {
		c.Render.Indent = "  "
	}
	if c.Render.Lang == "" {
		c.Render.Lang = "en"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "vtree"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "vtree"
	}

	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.ShutdownTimeout == "" {
		c.Preview.ShutdownTimeout = "10s"
	}

	if c.Snapshot.Store == "" {
		c.Snapshot.Store = StoreDir
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Preview.Port < 1 || c.Preview.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(c.Preview.Port))
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		return errors.New("E123").WithDetail("Unknown log format " + strconv.Quote(f))
	}
	if _, err := time.ParseDuration(c.Preview.ShutdownTimeout); err != nil {
		return errors.New("E121").
			WithDetail("preview.shutdownTimeout is not a duration").
			Wrap(err)
	}
	switch c.Snapshot.Store {
	case StoreDir:
	case StoreS3:
		if c.Snapshot.Bucket == "" {
			return errors.New("E124").WithDetail("snapshot.store is s3 but snapshot.bucket is empty")
		}
	default:
		return errors.New("E124").WithDetail("Unknown snapshot store " + strconv.Quote(c.Snapshot.Store))
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E123").
			WithDetail("Unknown log level " + strconv.Quote(c.Log.Level)).
			Wrap(err)
	}
	return level, nil
}

// NewLogger builds a slog.Logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// PreviewAddress returns the host:port address for the preview server.
func (c *Config) PreviewAddress() string {
	return c.Preview.Host + ":" + strconv.Itoa(c.Preview.Port)
}

// PreviewURL returns the full URL for the preview server.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// ShutdownTimeout returns the parsed preview shutdown timeout, falling back
// to ten seconds.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Preview.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// SnapshotPath returns the absolute path of the dir snapshot store.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vtree.json, or an error if not found.
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
				WithDetail(fmt.Sprintf("No %s found in %s or any parent directory", ConfigFileName, startDir))
		}
		dir = parent
	}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
