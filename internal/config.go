package internal

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Notion  NotionConfig      `yaml:"notion"`
	Output  OutputConfig      `yaml:"output"`
	Journal JournalConfig     `yaml:"journal"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notion.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
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

// HTTPConfig holds the preview server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the preview server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatabaseIDs holds the source database id per collection.
type DatabaseIDs struct {
	Organizations string `yaml:"organizations"`
	Involvements  string `yaml:"involvements"`
	Projects      string `yaml:"projects"`
	Skills        string `yaml:"skills"`
}

// NotionConfig holds source API credentials and tuning.
//
// Token and database ids are deliberately not required: an unconfigured
// source puts the sync into placeholder mode instead of failing, so
// downstream builds keep working without credentials.
type NotionConfig struct {
	Token       string      `yaml:"token"`
	BaseURL     string      `yaml:"base_url"`
	Databases   DatabaseIDs `yaml:"databases"`
	Concurrency int64       `yaml:"concurrency"`
}

// Validate validates the source configuration.
func (c *NotionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Required, validation.Min(int64(1)), validation.Max(int64(10))),
	)
}

// Configured reports whether enough credentials are present for a real sync.
func (c *NotionConfig) Configured() bool {
	return c.Token != "" && c.Databases.Organizations != ""
}

// OutputConfig holds the output contract locations.
type OutputConfig struct {
	CacheDir      string `yaml:"cache_dir"`
	AssetsDir     string `yaml:"assets_dir"`
	PublicPrefix  string `yaml:"public_prefix"`
	SchemaVersion string `yaml:"schema_version"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CacheDir, validation.Required),
		validation.Field(&c.AssetsDir, validation.Required),
		validation.Field(&c.PublicPrefix, validation.Required),
		validation.Field(&c.SchemaVersion, validation.Required),
	)
}

// JournalConfig holds the sync journal database path. An empty path disables
// the journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// NewDefaultConfig returns a new Config with sensible default values.
// Credentials default from the environment, matching the conventional
// NOTION_* variable names.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Notion: NotionConfig{
			Token:   os.Getenv("NOTION_TOKEN"),
			BaseURL: notion.DefaultBaseURL,
			Databases: DatabaseIDs{
				Organizations: os.Getenv("NOTION_DB_ORGANIZATIONS_ID"),
				Involvements:  os.Getenv("NOTION_DB_INVOLVEMENTS_ID"),
				Projects:      os.Getenv("NOTION_DB_PROJECTS_ID"),
				Skills:        os.Getenv("NOTION_DB_SKILLS_ID"),
			},
			Concurrency: 3,
		},
		Output: OutputConfig{
			CacheDir:      "src/content/cache",
			AssetsDir:     "public/notion-assets",
			PublicPrefix:  "/notion-assets",
			SchemaVersion: "1.0.0",
		},
		Journal: JournalConfig{
			Path: "./sync-journal.db",
		},
	}
}
