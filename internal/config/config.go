package config

import (
	"os"
	"time"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Credentials represents one username and password pair used to log in
// to discovered devices
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Crawl represents the tunables for a single discovery run
type Crawl struct {
	Seed        string        `yaml:"seed"`
	MaxDevices  int           `yaml:"max_devices"`
	Workers     int           `yaml:"workers"`
	Timeout     time.Duration `yaml:"timeout"`
	Exclusions  []string      `yaml:"exclusions"`
	Credentials Credentials   `yaml:"credentials"`
	Alternate   *Credentials  `yaml:"alternate,omitempty"`
}

// Output represents where run artifacts land
type Output struct {
	Directory string `yaml:"directory"`
	MapName   string `yaml:"map_name"`
}

// Config represents the data structure of our user provided yaml
// configuration
type Config struct {
	Crawl       Crawl  `yaml:"crawl"`
	Output      Output `yaml:"output"`
	TemplateDB  string `yaml:"template_db"`
	InventoryDB string `yaml:"inventory_db"`
}

// Default returns the baseline configuration merged under any user
// provided values
func Default() *Config {
	return &Config{
		Crawl: Crawl{
			MaxDevices: 100,
			Workers:    8,
			Timeout:    30 * time.Second,
			Exclusions: []string{},
		},
		Output: Output{
			Directory: "maps",
			MapName:   "topology",
		},
		TemplateDB:  "templates.db",
		InventoryDB: "inventory.db",
	}
}

// New returns the unmarshaled user config layered over defaults, with
// credential environment variables taking final precedence
func New(confPath string) (*Config, error) {
	config := &Config{}

	raw, err := os.ReadFile(confPath)

	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := mergo.Merge(config, Default()); err != nil {
		return nil, errors.Wrap(err, "failed to merge default config")
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides lets credentials come from the environment so they
// never have to live in the yaml file
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SC_USERNAME"); v != "" {
		config.Crawl.Credentials.Username = v
	}

	if v := os.Getenv("SC_PASSWORD"); v != "" {
		config.Crawl.Credentials.Password = v
	}

	altUser := os.Getenv("SC_ALT_USERNAME")
	altPass := os.Getenv("SC_ALT_PASSWORD")

	if altUser != "" || altPass != "" {
		if config.Crawl.Alternate == nil {
			config.Crawl.Alternate = &Credentials{}
		}

		if altUser != "" {
			config.Crawl.Alternate.Username = altUser
		}

		if altPass != "" {
			config.Crawl.Alternate.Password = altPass
		}
	}
}
