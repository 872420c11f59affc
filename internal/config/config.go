package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName        = "primelooter"
	ConfigFileName = "config.json"
)

// Wildcard is the publishers.txt sentinel that matches every publisher.
const Wildcard = "all"

// Config contains default run settings. Flags override everything here.
type Config struct {
	PublishersPath      string `json:"publishers_path"`
	CookiesPath         string `json:"cookies_path"`
	CodesPath           string `json:"codes_path"`
	DumpDir             string `json:"dump_dir"`
	ClaimTimeoutSeconds int    `json:"claim_timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		PublishersPath:      envString("PRIMELOOTER_PUBLISHERS", "publishers.txt"),
		CookiesPath:         envString("PRIMELOOTER_COOKIES", "cookies.txt"),
		CodesPath:           envString("PRIMELOOTER_CODES", "game_codes.txt"),
		DumpDir:             envString("PRIMELOOTER_DUMP_DIR", "dumps"),
		ClaimTimeoutSeconds: envInt("PRIMELOOTER_CLAIM_TIMEOUT", 30),
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Init writes a default config.json if it doesn't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
		if err != nil {
			return created, err
		}
		if err := os.WriteFile(configPath, append(data, '\n'), 0o644); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	return created, nil
}

// AllowList is the case-insensitive publisher filter loaded from
// publishers.txt. The "all" sentinel matches every publisher.
type AllowList struct {
	entries map[string]struct{}
	all     bool
}

// Matches reports whether offers from publisher are eligible for claiming.
func (a AllowList) Matches(publisher string) bool {
	if a.all {
		return true
	}
	_, ok := a.entries[normalizePublisher(publisher)]
	return ok
}

// MatchAll reports whether the list contains the wildcard sentinel.
func (a AllowList) MatchAll() bool { return a.all }

// Len returns the number of named entries.
func (a AllowList) Len() int { return len(a.entries) }

// NewAllowList builds an AllowList from raw publisher names.
func NewAllowList(names []string) AllowList {
	list := AllowList{entries: map[string]struct{}{}}
	for _, name := range names {
		name = normalizePublisher(name)
		if name == "" {
			continue
		}
		if name == Wildcard {
			list.all = true
			continue
		}
		list.entries[name] = struct{}{}
	}
	return list
}

// LoadPublishers reads the newline-separated allow-list. Blank lines and
// #-comments are ignored.
func LoadPublishers(path string) (AllowList, error) {
	f, err := os.Open(path)
	if err != nil {
		return AllowList{}, fmt.Errorf("open publishers file %q: %w", path, err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return AllowList{}, fmt.Errorf("read publishers file %q: %w", path, err)
	}

	// An empty list is valid config: nothing matches, nothing is claimed.
	return NewAllowList(names), nil
}

func normalizePublisher(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
