// Package config loads settings from config.toml and VALENTINE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"valentine/internal/autoselect"
	"valentine/internal/dropdown"
	"valentine/internal/model"
	"valentine/internal/store"

	"github.com/spf13/viper"
)

const fileName = "config.toml"

type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Log        LogConfig        `mapstructure:"log"`
	Dropdown   DropdownConfig   `mapstructure:"dropdown"`
	AutoSelect AutoSelectConfig `mapstructure:"autoselect"`
	Board      BoardConfig      `mapstructure:"board"`
	Fields     []Field          `mapstructure:"fields"`
}

type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

type DropdownConfig struct {
	MinChars int            `mapstructure:"min_chars"`
	ListRows int            `mapstructure:"list_rows"`
	Portaled bool           `mapstructure:"portaled"`
	Geometry GeometryConfig `mapstructure:"geometry"`
}

type GeometryConfig struct {
	MaxHeight int `mapstructure:"max_height"`
	FlipBelow int `mapstructure:"flip_below"`
	Margin    int `mapstructure:"margin"`
	Gap       int `mapstructure:"gap"`
}

type AutoSelectConfig struct {
	Once          bool `mapstructure:"once"`
	DoubleClickMS int  `mapstructure:"double_click_ms"`
}

type BoardConfig struct {
	DefaultColumns []model.Column `mapstructure:"default_columns"`
}

// Field is one dropdown on the form screen. A zero MinChars falls back to
// dropdown.min_chars.
type Field struct {
	ID       string            `mapstructure:"id"`
	Label    string            `mapstructure:"label"`
	MinChars int               `mapstructure:"min_chars"`
	Options  []dropdown.Option `mapstructure:"options"`
}

// Dir is the config directory: $VALENTINE_CONFIG_DIR or ~/.valentine.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("VALENTINE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".valentine"), nil
}

// Path is the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func setDefaults(v *viper.Viper, cfgDir string) {
	dataDir, err := store.DefaultDir()
	if err != nil {
		dataDir = filepath.Join(cfgDir, "data")
	}
	v.SetDefault("data.dir", dataDir)
	v.SetDefault("log.path", filepath.Join(cfgDir, "valentine.log"))
	v.SetDefault("log.verbose", false)

	g := dropdown.CellGeometry
	v.SetDefault("dropdown.min_chars", 0)
	v.SetDefault("dropdown.list_rows", dropdown.DefaultListRows)
	v.SetDefault("dropdown.portaled", true)
	v.SetDefault("dropdown.geometry.max_height", g.MaxHeight)
	v.SetDefault("dropdown.geometry.flip_below", g.FlipBelow)
	v.SetDefault("dropdown.geometry.margin", g.Margin)
	v.SetDefault("dropdown.geometry.gap", g.Gap)

	v.SetDefault("autoselect.once", true)
	v.SetDefault("autoselect.double_click_ms", int(autoselect.DefaultDoubleClick/time.Millisecond))

	v.SetDefault("board.default_columns", columnsToMaps(store.DefaultColumns))
	v.SetDefault("fields", fieldsToMaps(DefaultFields))
}

// DefaultFields populate the form when no fields are configured.
var DefaultFields = []Field{
	{
		ID:    "country",
		Label: "Country",
		Options: []dropdown.Option{
			{Value: "de", Label: "Germany"},
			{Value: "fr", Label: "France"},
			{Value: "nl", Label: "Netherlands"},
			{Value: "uk", Label: "United Kingdom"},
			{Value: "us", Label: "United States"},
		},
	},
	{
		ID:       "language",
		Label:    "Language",
		MinChars: 2,
		Options: []dropdown.Option{
			{Value: "go", Label: "Go"},
			{Value: "rust", Label: "Rust"},
			{Value: "python", Label: "Python"},
			{Value: "typescript", Label: "TypeScript"},
			{Value: "elixir", Label: "Elixir"},
		},
	},
}

// Load reads the config file (configFile, or config.toml in Dir when empty)
// and environment overrides with prefix VALENTINE_. A missing default file
// is not an error.
func Load(configFile string) (Config, error) {
	cfgDir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v, cfgDir)
	v.SetConfigType("toml")
	if configFile = strings.TrimSpace(configFile); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(cfgDir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VALENTINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges and that field ids are unique.
func (c Config) Validate() error {
	if c.Dropdown.MinChars < 0 {
		return fmt.Errorf("dropdown.min_chars must be >= 0, got %d", c.Dropdown.MinChars)
	}
	if c.Dropdown.ListRows < 1 {
		return fmt.Errorf("dropdown.list_rows must be >= 1, got %d", c.Dropdown.ListRows)
	}
	if c.AutoSelect.DoubleClickMS < 0 {
		return fmt.Errorf("autoselect.double_click_ms must be >= 0, got %d", c.AutoSelect.DoubleClickMS)
	}
	seen := map[string]bool{}
	for i, f := range c.Fields {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			return fmt.Errorf("fields[%d]: missing id", i)
		}
		if seen[id] {
			return fmt.Errorf("fields[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
		for j, o := range f.Options {
			if strings.TrimSpace(o.Value) == "" {
				return fmt.Errorf("fields[%d].options[%d]: missing value", i, j)
			}
		}
	}
	return nil
}

func (c Config) Geometry() dropdown.Geometry {
	g := c.Dropdown.Geometry
	return dropdown.Geometry{MaxHeight: g.MaxHeight, FlipBelow: g.FlipBelow, Margin: g.Margin, Gap: g.Gap}
}

// DropdownConfig is the widget configuration for field f.
func (c Config) DropdownConfig(f Field) dropdown.Config {
	minChars := f.MinChars
	if minChars == 0 {
		minChars = c.Dropdown.MinChars
	}
	return dropdown.Config{
		ID:          f.ID,
		MinChars:    minChars,
		Portaled:    c.Dropdown.Portaled,
		Geometry:    c.Geometry(),
		ListRows:    c.Dropdown.ListRows,
		Placeholder: f.Label,
	}
}

func (c Config) AutoSelectConfig() autoselect.Config {
	return autoselect.Config{
		Once:        c.AutoSelect.Once,
		DoubleClick: time.Duration(c.AutoSelect.DoubleClickMS) * time.Millisecond,
	}
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("data.dir", cfg.Data.Dir)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.verbose", cfg.Log.Verbose)
	v.Set("dropdown.min_chars", cfg.Dropdown.MinChars)
	v.Set("dropdown.list_rows", cfg.Dropdown.ListRows)
	v.Set("dropdown.portaled", cfg.Dropdown.Portaled)
	v.Set("dropdown.geometry.max_height", cfg.Dropdown.Geometry.MaxHeight)
	v.Set("dropdown.geometry.flip_below", cfg.Dropdown.Geometry.FlipBelow)
	v.Set("dropdown.geometry.margin", cfg.Dropdown.Geometry.Margin)
	v.Set("dropdown.geometry.gap", cfg.Dropdown.Geometry.Gap)
	v.Set("autoselect.once", cfg.AutoSelect.Once)
	v.Set("autoselect.double_click_ms", cfg.AutoSelect.DoubleClickMS)
	v.Set("board.default_columns", columnsToMaps(cfg.Board.DefaultColumns))
	v.Set("fields", fieldsToMaps(cfg.Fields))

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func columnsToMaps(cols []model.Column) []map[string]any {
	out := make([]map[string]any, 0, len(cols))
	for _, c := range cols {
		out = append(out, map[string]any{"type": c.Type, "label": c.Label})
	}
	return out
}

func fieldsToMaps(fields []Field) []map[string]any {
	out := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		opts := make([]map[string]any, 0, len(f.Options))
		for _, o := range f.Options {
			opts = append(opts, map[string]any{"value": o.Value, "label": o.Label})
		}
		out = append(out, map[string]any{
			"id":        f.ID,
			"label":     f.Label,
			"min_chars": f.MinChars,
			"options":   opts,
		})
	}
	return out
}
