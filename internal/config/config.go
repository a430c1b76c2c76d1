// Package config reads git-linelog settings from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/jensroland/git-linelog/internal/linelog"
	"github.com/jensroland/git-linelog/internal/project"
)

type Config struct {
	// Root overrides git repository discovery.
	Root string
	// DB overrides the database location.
	DB string
	// LogDir overrides where operation logs are written.
	LogDir    string
	CacheSize int
}

func Load() Config {
	return Config{
		Root:      getenv("LINELOG_ROOT", ""),
		DB:        getenv("LINELOG_DB", ""),
		LogDir:    getenv("LINELOG_LOG_DIR", ""),
		CacheSize: getenvInt("LINELOG_CACHE_SIZE", linelog.DefaultCacheSize),
	}
}

// Paths applies the overrides to the default paths for root.
func (c Config) Paths(root string) project.Paths {
	p := project.NewPaths(root)
	if c.DB != "" {
		p.DB = c.DB
	}
	if c.LogDir != "" {
		p.DataDir = c.LogDir
	}
	return p
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
