package site

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Branch is one physical store the frontend can route inquiries to
type Branch struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Phone string `yaml:"phone" json:"phone"` // international format without the plus sign
}

// Config holds the site-level settings that are content, not deployment:
// the store branches and the WhatsApp inquiry greeting
type Config struct {
	Branches []Branch `yaml:"branches"`
	Greeting string   `yaml:"greeting,omitempty"`
}

const defaultGreeting = "Hola, deseo más info de esta torta:"

func defaultConfig() Config {
	return Config{
		Branches: []Branch{
			{ID: "sede-miranda", Name: "Sede Miranda", Phone: "573155287225"},
			{ID: "sede-florida", Name: "Sede Florida", Phone: "573150815246"},
		},
		Greeting: defaultGreeting,
	}
}

// LoadConfig reads the site config from path. A missing file falls back to
// the built-in defaults; a malformed one is an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// leave a starter file next to the expected path so the
			// operator has something to edit
			_ = WriteExampleConfig(path + ".example")
			return defaultConfig(), nil
		}
		return Config{}, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Greeting == "" {
		cfg.Greeting = defaultGreeting
	}
	return cfg, nil
}

// WriteExampleConfig writes a starter config file for a new deployment
func WriteExampleConfig(path string) error {
	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return err
	}
	header := "# Site configuration: store branches and the WhatsApp inquiry greeting\n\n"
	return os.WriteFile(path, []byte(header+string(data)), 0644)
}
