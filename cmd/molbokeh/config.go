package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh"
)

// Config holds CLI defaults. Priority: flags > environment > config file > defaults.
type Config struct {
	LogLevel string       `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic"`
	Plot     PlotConfig   `toml:"plot"`
	Render   RenderConfig `toml:"render"`
}

// PlotConfig configures the plot command.
type PlotConfig struct {
	SmilesColumn string        `toml:"smiles_column"`
	Hover        []string      `toml:"hover"`
	MolSize      molbokeh.Size `toml:"mol_size"`
	Width        int           `toml:"width" validate:"gt=0"`
	Height       int           `toml:"height" validate:"gt=0"`
	Format       string        `toml:"format" validate:"oneof=html json"`
	Sheet        string        `toml:"sheet"`
}

// RenderConfig configures the render command.
type RenderConfig struct {
	MolSize  molbokeh.Size `toml:"mol_size"`
	Kekulize *bool         `toml:"kekulize"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Plot: PlotConfig{
			SmilesColumn: "SMILES",
			MolSize:      molbokeh.DefaultMolSize,
			Width:        600,
			Height:       600,
			Format:       "html",
		},
		Render: RenderConfig{
			MolSize: molbokeh.DefaultRenderSize,
		},
	}
}

// LoadConfig reads path over the defaults, then applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	config := NewDefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if level := os.Getenv("MOLBOKEH_LOG_LEVEL"); level != "" {
		config.LogLevel = strings.ToLower(level)
	}
	if col := os.Getenv("MOLBOKEH_SMILES_COLUMN"); col != "" {
		config.Plot.SmilesColumn = col
	}
	if size := os.Getenv("MOLBOKEH_MOL_SIZE"); size != "" {
		if s, err := parseSize(size); err == nil {
			config.Plot.MolSize = s
		}
	}
}

// parseSize parses "WxH" (or a single number for a square) into a Size.
func parseSize(s string) (molbokeh.Size, error) {
	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		h = w
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return molbokeh.Size{}, fmt.Errorf("invalid size %q: expected WxH", s)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return molbokeh.Size{}, fmt.Errorf("invalid size %q: expected WxH", s)
	}
	if width <= 0 || height <= 0 {
		return molbokeh.Size{}, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return molbokeh.Size{Width: width, Height: height}, nil
}
