package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/noteservice"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Events     EventsConfig      `yaml:"events"`
	Categories CategoriesConfig  `yaml:"categories"`
	Seed       SeedConfig        `yaml:"seed"`
	Reload     ReloadConfig      `yaml:"reload"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return c.Categories.Validate()
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

// EventsConfig holds SSE broker configuration.
type EventsConfig struct {
	// Throttle is the minimum interval between notes.changed events.
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Required, validation.Min(time.Millisecond)),
	)
}

// CategoriesConfig is the fixed category set notes can be tagged with.
type CategoriesConfig struct {
	Default string            `yaml:"default"`
	Items   []models.Category `yaml:"items"`
}

// Validate validates the category configuration.
func (c *CategoriesConfig) Validate() error {
	names := make([]any, 0, len(c.Items))
	for _, it := range c.Items {
		names = append(names, it.Name)
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Items, validation.Required, validation.Each(validation.By(validCategory))),
		validation.Field(&c.Default, validation.Required, validation.In(names...).Error("must be one of the configured categories")),
	); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Items))
	for _, it := range c.Items {
		if _, dup := seen[it.Name]; dup {
			return fmt.Errorf("categories: duplicate name %q", it.Name)
		}
		seen[it.Name] = struct{}{}
	}
	return nil
}

// Catalog builds the runtime category catalog.
func (c *CategoriesConfig) Catalog() *models.Catalog {
	return models.NewCatalog(c.Items, c.Default)
}

func validCategory(v any) error {
	cat, ok := v.(models.Category)
	if !ok {
		return errors.New("invalid category")
	}
	if cat.Name == "" {
		return errors.New("name is required")
	}
	if cat.Name == models.CategoryAll {
		return fmt.Errorf("name %q is reserved", models.CategoryAll)
	}
	return nil
}

// SeedConfig controls the sample notes loaded at startup.
type SeedConfig struct {
	Enabled bool                   `yaml:"enabled"`
	Notes   []noteservice.SeedNote `yaml:"notes"`
}

// ReloadConfig controls config file hot reload.
type ReloadConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Events: EventsConfig{
			Throttle: time.Second,
		},
		Categories: CategoriesConfig{
			Default: "Personal",
			Items:   models.DefaultCategories(),
		},
		Seed: SeedConfig{
			Enabled: true,
			Notes:   noteservice.DefaultSeed(),
		},
	}
}
