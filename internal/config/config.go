package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataDir        = "data"
	DefaultDBName         = "calboard.db"
	DefaultLogFile        = "calboard.log"
	DefaultBackend        = "diskv"
	DefaultSlotKey        = "tasks"

	EnvConfigPath = "CALBOARD_CONFIG"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Left         string `toml:"left"`
	Right        string `toml:"right"`
	Select       string `toml:"select"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
	Edit         string `toml:"edit"`
	Delete       string `toml:"delete"`
	NextTask     string `toml:"next_task"`
	Move         string `toml:"move"`
	AllToggle    string `toml:"all_categories"`
	Weeks        string `toml:"weeks"`
	Search       string `toml:"search"`
	PrevMonth    string `toml:"prev_month"`
	NextMonth    string `toml:"next_month"`
	Today        string `toml:"today"`
	NextCategory string `toml:"next_category"`
}

type Config struct {
	DataDir      string `toml:"data_dir"`
	Backend      string `toml:"backend"`
	DBPath       string `toml:"db_path"`
	SlotKey      string `toml:"slot_key"`
	DefaultWeeks int    `toml:"default_weeks"`
	LogFile      string `toml:"log_file"`
	Keys         Keymap `toml:"keys"`
}

// ResolveConfigPath returns $CALBOARD_CONFIG when set, else
// ~/.config/calboard/config.toml.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		if expanded, err := homedir.Expand(p); err == nil {
			return expanded
		}
		return p
	}
	home, err := homedir.Dir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", "calboard", DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first when it does not
// exist. Paths in the result are absolute.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg.resolve(filepath.Dir(path))
}

// StoragePath is the location the configured backend opens.
func (c Config) StoragePath() string {
	if c.Backend == "sqlite" {
		return c.DBPath
	}
	return c.DataDir
}

func (c *Config) fillDefaults() {
	def := defaultConfig()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.SlotKey == "" {
		c.SlotKey = def.SlotKey
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	c.Keys = c.Keys.withDefaults(def.Keys)
}

func (c Config) validate() error {
	switch c.Backend {
	case "diskv", "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.DefaultWeeks < 0 {
		return fmt.Errorf("config: default_weeks must not be negative, got %d", c.DefaultWeeks)
	}
	return nil
}

// resolve expands ~ and anchors relative paths at dir.
func (c Config) resolve(dir string) (Config, error) {
	var err error
	if c.DataDir, err = resolvePath(dir, c.DataDir); err != nil {
		return c, err
	}
	// db_path and log_file default to living next to the data.
	if c.DBPath, err = resolvePath(c.DataDir, c.DBPath); err != nil {
		return c, err
	}
	if c.LogFile, err = resolvePath(c.DataDir, c.LogFile); err != nil {
		return c, err
	}
	return c, nil
}

func resolvePath(dir, p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("config: expand %q: %w", p, err)
	}
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Join(dir, expanded), nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (k Keymap) withDefaults(def Keymap) Keymap {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Keymap{
		Quit:         pick(k.Quit, def.Quit),
		Up:           pick(k.Up, def.Up),
		Down:         pick(k.Down, def.Down),
		Left:         pick(k.Left, def.Left),
		Right:        pick(k.Right, def.Right),
		Select:       pick(k.Select, def.Select),
		Confirm:      pick(k.Confirm, def.Confirm),
		Cancel:       pick(k.Cancel, def.Cancel),
		Edit:         pick(k.Edit, def.Edit),
		Delete:       pick(k.Delete, def.Delete),
		NextTask:     pick(k.NextTask, def.NextTask),
		Move:         pick(k.Move, def.Move),
		AllToggle:    pick(k.AllToggle, def.AllToggle),
		Weeks:        pick(k.Weeks, def.Weeks),
		Search:       pick(k.Search, def.Search),
		PrevMonth:    pick(k.PrevMonth, def.PrevMonth),
		NextMonth:    pick(k.NextMonth, def.NextMonth),
		Today:        pick(k.Today, def.Today),
		NextCategory: pick(k.NextCategory, def.NextCategory),
	}
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DataDir:      DefaultDataDir,
		Backend:      DefaultBackend,
		DBPath:       DefaultDBName,
		SlotKey:      DefaultSlotKey,
		DefaultWeeks: 0,
		LogFile:      DefaultLogFile,
		Keys: Keymap{
			Quit:         "q",
			Up:           "k",
			Down:         "j",
			Left:         "h",
			Right:        "l",
			Select:       "v",
			Confirm:      "enter",
			Cancel:       "esc",
			Edit:         "e",
			Delete:       "d",
			NextTask:     "n",
			Move:         "m",
			AllToggle:    "0",
			Weeks:        "w",
			Search:       "/",
			PrevMonth:    "[",
			NextMonth:    "]",
			Today:        "t",
			NextCategory: "tab",
		},
	}
}
