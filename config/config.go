// Package config loads process configuration from the environment, with an
// optional .env file. The core never computes project layout on its own:
// the project root and the source/skip directory lists come from here.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultSourceDirs are the directories searched during project-wide
// resolution, in order.
var DefaultSourceDirs = []string{
	"src", "app", "pages", "components", "lib", "ui",
	"views", "features", "modules", "layouts", "widgets",
}

// DefaultSkipDirs are never descended into: VCS, dependencies, and build
// output.
var DefaultSkipDirs = []string{
	"node_modules", ".git", ".next", ".nuxt", "dist", "build",
	"out", "coverage", "vendor", ".turbo", ".cache",
}

// Config holds everything the editor needs to run.
type Config struct {
	ProjectRoot string
	SourceDirs  []string
	SkipDirs    []string

	HistoryFile  string
	DatabasePath string

	// AllowDataDeletion permits the deletion fallback that prunes entries
	// from data-array literals.
	AllowDataDeletion bool
	AutoFormat        bool
	UseFsync          bool
	Debug             bool
}

// Default returns the configuration used when the environment sets nothing.
func Default() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Config{
		ProjectRoot:       cwd,
		SourceDirs:        DefaultSourceDirs,
		SkipDirs:          DefaultSkipDirs,
		HistoryFile:       ".pinpoint-history.json",
		DatabasePath:      filepath.Join(cwd, ".pinpoint", "audit.db"),
		AllowDataDeletion: true,
		AutoFormat:        true,
	}
}

// Load reads configuration from the environment, loading a .env file first
// when one exists. Missing keys keep their defaults.
func Load() Config {
	_ = godotenv.Load() // best-effort; absence of .env is not an error

	cfg := Default()
	if v := os.Getenv("PINPOINT_ROOT"); v != "" {
		cfg.ProjectRoot = v
		cfg.DatabasePath = filepath.Join(v, ".pinpoint", "audit.db")
	}
	if v := os.Getenv("PINPOINT_SOURCE_DIRS"); v != "" {
		cfg.SourceDirs = splitList(v)
	}
	if v := os.Getenv("PINPOINT_SKIP_DIRS"); v != "" {
		cfg.SkipDirs = splitList(v)
	}
	if v := os.Getenv("PINPOINT_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv("PINPOINT_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("PINPOINT_ALLOW_DATA_DELETE"); v != "" {
		cfg.AllowDataDeletion = parseBool(v, cfg.AllowDataDeletion)
	}
	if v := os.Getenv("PINPOINT_AUTO_FORMAT"); v != "" {
		cfg.AutoFormat = parseBool(v, cfg.AutoFormat)
	}
	if v := os.Getenv("PINPOINT_FSYNC"); v != "" {
		cfg.UseFsync = parseBool(v, cfg.UseFsync)
	}
	if v := os.Getenv("PINPOINT_DEBUG"); v != "" {
		cfg.Debug = parseBool(v, cfg.Debug)
	}
	return cfg
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
