package config

import "time"

// RemoteDriver selects the remote document store backing the projects
// collection.
type RemoteDriver string

const (
	// RemoteNone disables the remote store; everything lives in the local
	// fallback store.
	RemoteNone      RemoteDriver = ""
	RemoteMemory    RemoteDriver = "memory"
	RemoteFirestore RemoteDriver = "firestore"
)

// Config is the top-level iepsite configuration, corresponding to .iepsite.yml.
type Config struct {
	DataDir string       `yaml:"data_dir" koanf:"data_dir"`
	Server  ServerConfig `yaml:"server" koanf:"server"`
	Site    SiteConfig   `yaml:"site" koanf:"site"`
	Remote  RemoteConfig `yaml:"remote" koanf:"remote"`
	Log     LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeout  time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

// SiteConfig holds presentation settings.
type SiteConfig struct {
	Title          string   `yaml:"title" koanf:"title"`
	TagSuggestions []string `yaml:"tag_suggestions" koanf:"tag_suggestions"`
}

// RemoteConfig describes the remote document store.
type RemoteConfig struct {
	Driver          RemoteDriver  `yaml:"driver" koanf:"driver"`
	ProjectID       string        `yaml:"project_id" koanf:"project_id"`
	Collection      string        `yaml:"collection" koanf:"collection"`
	CredentialsFile string        `yaml:"credentials_file" koanf:"credentials_file"`
	Timeout         time.Duration `yaml:"timeout" koanf:"timeout"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level       string `yaml:"level" koanf:"level"`
	Development bool   `yaml:"development" koanf:"development"`
}

// DefaultTagSuggestions are offered as one-click tags in the admin panel.
var DefaultTagSuggestions = []string{
	"sustainability",
	"education",
	"community",
	"technology",
	"environment",
	"innovation",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "data",
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: 60 * time.Second,
		},
		Site: SiteConfig{
			Title:          "Innovation Earth Projects",
			TagSuggestions: DefaultTagSuggestions,
		},
		Remote: RemoteConfig{
			Driver:     RemoteNone,
			Collection: "projects",
			Timeout:    10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
