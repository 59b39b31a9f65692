package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/casefile/internal/source"
)

// Backend defaults.
const (
	BackendCSV   = "csv"
	BackendMongo = "mongo"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Data    DataConfig        `yaml:"data"`
	Mongo   MongoConfig       `yaml:"mongo"`
	Backend BackendConfig     `yaml:"backend"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	if c.Backend.Default == BackendMongo && c.Mongo.URI == "" {
		return fmt.Errorf("backend: default is %q but mongo.uri is empty", BackendMongo)
	}
	return c.Mongo.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig holds the CSV data directory layout and watch behavior.
type DataConfig struct {
	Dir        string `yaml:"dir"`
	Clients    string `yaml:"clients_file"`
	Intakes    string `yaml:"intakes_file"`
	Counselors string `yaml:"counselors_file"`
	Sessions   string `yaml:"sessions_file"`
	Watch      bool   `yaml:"watch"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Clients, validation.Required),
		validation.Field(&c.Intakes, validation.Required),
		validation.Field(&c.Counselors, validation.Required),
		validation.Field(&c.Sessions, validation.Required),
	)
}

// Files maps the configuration onto the CSV source's file layout.
func (c *DataConfig) Files() source.CSVFiles {
	return source.CSVFiles{
		Clients:    c.Clients,
		Intakes:    c.Intakes,
		Counselors: c.Counselors,
		Sessions:   c.Sessions,
	}
}

// MongoConfig holds document-store configuration. URI may be empty when
// the document store is not in use; requests selecting it then fail at
// the API layer rather than at startup.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Validate validates the document-store configuration.
func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Database, validation.Required),
	)
}

// Enabled reports whether a document store is configured.
func (c *MongoConfig) Enabled() bool {
	return c.URI != ""
}

// BackendConfig selects the backend used when a request carries no
// preference of its own, and holds lookup settings shared by both
// backends.
type BackendConfig struct {
	Default string `yaml:"default"`
	// SessionLimit caps sessions per aggregate in search responses.
	// 0 disables the cap.
	SessionLimit int `yaml:"session_limit"`
}

// Validate validates the backend configuration.
func (c *BackendConfig) Validate() error {
	// Normalise empty default to CSV for backward compatibility.
	if c.Default == "" {
		c.Default = BackendCSV
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Default, validation.Required, validation.In(BackendCSV, BackendMongo)),
		validation.Field(&c.SessionLimit, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	files := source.DefaultCSVFiles()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Data: DataConfig{
			Dir:        "./data",
			Clients:    files.Clients,
			Intakes:    files.Intakes,
			Counselors: files.Counselors,
			Sessions:   files.Sessions,
			Watch:      true,
		},
		Mongo: MongoConfig{
			Database: "filemaker",
		},
		Backend: BackendConfig{
			Default:      BackendCSV,
			SessionLimit: 10,
		},
	}
}
