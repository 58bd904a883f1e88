package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from files and environment variables.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "igit"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "IGIT"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return expandEnvVars(cfg), nil
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration strings, so
// tokens can live in the environment while the config file stays shareable.
func expandEnvVars(cfg Config) Config {
	cfg.GitHub.Token = expandEnvString(cfg.GitHub.Token)
	cfg.GitHub.BaseURL = expandEnvString(cfg.GitHub.BaseURL)
	cfg.GitLab.Token = expandEnvString(cfg.GitLab.Token)
	cfg.GitLab.BaseURL = expandEnvString(cfg.GitLab.BaseURL)

	cfg.Git.RepositoryDir = expandEnvString(cfg.Git.RepositoryDir)

	cfg.HTTP.Timeout = expandEnvString(cfg.HTTP.Timeout)
	cfg.HTTP.InitialBackoff = expandEnvString(cfg.HTTP.InitialBackoff)
	cfg.HTTP.MaxBackoff = expandEnvString(cfg.HTTP.MaxBackoff)

	cfg.Logging.Level = expandEnvString(cfg.Logging.Level)
	cfg.Logging.Format = expandEnvString(cfg.Logging.Format)

	return cfg
}

var (
	bracedVarPattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	bareVarPattern   = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
)

// expandEnvString replaces ${VAR} or $VAR with environment variable values.
// Unset variables keep the literal text.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	s = bracedVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	// HTTP defaults
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.maxRetries", 3)
	v.SetDefault("http.initialBackoff", "2s")
	v.SetDefault("http.maxBackoff", "32s")
	v.SetDefault("http.backoffMultiplier", 2.0)

	// Logging defaults
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "human")

	v.SetDefault("git.repositoryDir", ".")
}
