// Package config builds the single configuration struct every other
// component receives by reference. Values come from, in increasing
// precedence: built-in defaults, an optional glrev.toml, a local .env
// file, and process environment variables. Nothing outside this package
// reads the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names. These match the original deployment of
// the tool, so an existing MCP client configuration keeps working.
const (
	EnvRepoPath = "GIT_REPO_PATH"
	EnvURL      = "GITLAB_URL"
	EnvProject  = "GITLAB_PROJECT_NAME"
	EnvToken    = "GITLAB_API_KEY"
)

// Config is the process-wide configuration.
type Config struct {
	// RepoPath is the local git working copy to inspect.
	RepoPath string `koanf:"repo_path"`
	// URL is the GitLab base URL; a comma-separated list is treated as
	// an ordered set of candidate endpoints tried until one connects.
	URL string `koanf:"url"`
	// Project is the GitLab project ID or name. Optional: when empty it
	// is derived from the repository's origin remote.
	Project string `koanf:"project"`
	// Token is the GitLab personal access token.
	Token string `koanf:"token"`
	// TimeoutSeconds bounds every tool invocation end to end.
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

// Timeout returns the per-invocation deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// URLs returns the ordered candidate endpoint list.
func (c *Config) URLs() []string {
	var urls []string
	for _, u := range strings.Split(c.URL, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// envKey maps the recognised environment variables onto config keys.
// Every other variable is ignored (koanf drops empty keys).
func envKey(s string) string {
	switch s {
	case EnvRepoPath:
		return "repo_path"
	case EnvURL:
		return "url"
	case EnvProject:
		return "project"
	case EnvToken:
		return "token"
	}
	return ""
}

// configFiles returns candidate TOML locations, most local first.
func configFiles() []string {
	paths := []string{"glrev.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".glrev", "glrev.toml"))
	}
	return paths
}

// Load assembles the configuration. It never fails on absent sources;
// only a present-but-malformed TOML file is an error. Call Validate
// before using the result.
func Load() (*Config, error) {
	// Opportunistic .env support for local development.
	_ = godotenv.Load()

	k := koanf.New(".")

	_ = k.Load(confmap.Provider(map[string]interface{}{
		"timeout_seconds": 30,
	}, "."), nil)

	for _, p := range configFiles() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
		break
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every required setting is present and the repo
// path exists. Each failure names the setting so the user knows exactly
// what to fix. Project is not required here: it can be derived from the
// origin remote once the repository is opened.
func (c *Config) Validate() error {
	if c.RepoPath == "" {
		return fmt.Errorf("%s is not set (path to the local git repository)", EnvRepoPath)
	}
	if _, err := os.Stat(c.RepoPath); err != nil {
		return fmt.Errorf("%s %s does not exist: %w", EnvRepoPath, c.RepoPath, err)
	}
	if c.URL == "" {
		return fmt.Errorf("%s is not set (GitLab base URL)", EnvURL)
	}
	if c.Token == "" {
		return fmt.Errorf("%s is not set (GitLab personal access token)", EnvToken)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}
