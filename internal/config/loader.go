package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one salvo: the bullet to fire and how to fire it.
//
// Example YAML:
//
//	url: "https://api.example.com/login"
//	method: POST
//	guns: 10
//	repeat: 100
//	delay: 50ms
//	bullet:
//	  header: 'X-Client:salvo "X-Trace":"load test"'
//	  form: 'user:alice pass:secret'
type Config struct {
	// URL is the target of every shot
	URL string `json:"url" yaml:"url"`

	// Method is the HTTP method (default GET)
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Repeat is how many shots each gun fires (default 1)
	Repeat int `json:"repeat,omitempty" yaml:"repeat,omitempty"`

	// Guns is the number of concurrent firing loops (default 1)
	Guns int `json:"guns,omitempty" yaml:"guns,omitempty"`

	// Delay is the pause after each shot of a gun
	Delay Duration `json:"delay,omitempty" yaml:"delay,omitempty"`

	// Timeout bounds each request (default 30s)
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Rate caps shots per second across all guns; 0 means unlimited
	Rate float64 `json:"rate,omitempty" yaml:"rate,omitempty"`

	// Verbose prints every shot as it lands
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`

	// Bullet is the request payload
	Bullet BulletConfig `json:"bullet,omitempty" yaml:"bullet,omitempty"`

	// Extract is a gjson path read from each response body
	Extract string `json:"extract,omitempty" yaml:"extract,omitempty"`

	// Schema is a JSON schema file every response body must satisfy
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Output is the report format: text, json or yaml (default text)
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Store is a SQLite database file that keeps every run
	Store string `json:"store,omitempty" yaml:"store,omitempty"`
}

// BulletConfig holds the request payload. Header and Form are written in
// form syntax, e.g. `key1:pbdr "key2":"LDVR 2.0"`.
type BulletConfig struct {
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
	Form   string `json:"form,omitempty" yaml:"form,omitempty"`
	Body   string `json:"body,omitempty" yaml:"body,omitempty"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultMethod  = "GET"
	DefaultTimeout = 30 * time.Second
	DefaultOutput  = "text"
)

// LoadConfig loads a configuration file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data, choosing the format from the
// extension of path and falling back to YAML.
func ParseConfig(data []byte, path string) (*Config, error) {
	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return &config, nil
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(config *Config) {
	if config.Method == "" {
		config.Method = DefaultMethod
	}
	config.Method = strings.ToUpper(config.Method)
	if config.Repeat == 0 {
		config.Repeat = 1
	}
	if config.Guns == 0 {
		config.Guns = 1
	}
	if config.Timeout == 0 {
		config.Timeout = Duration(DefaultTimeout)
	}
	if config.Output == "" {
		config.Output = DefaultOutput
	}
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
// Bare integers are read as seconds.
type Duration time.Duration

// ParseDurationString parses "500ms", "2m" or a plain number of seconds.
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	if seconds, err := strconv.Atoi(s); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var seconds int64
		if err := json.Unmarshal(b, &seconds); err != nil {
			return fmt.Errorf("invalid duration: %s", b)
		}
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	dur, err := ParseDurationString(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
