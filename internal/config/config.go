package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Viewers struct {
	MaxFPS int `yaml:"max_fps"` // PNG frames per second to /frames; 0 = every tick
}

// Limits bound control socket input.
type Limits struct {
	MaxSide         int   `yaml:"max_side"`          // canvas and frame display dimensions
	MaxMessageBytes int64 `yaml:"max_message_bytes"` // one websocket message
}

type Matrix struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Serpentine bool `yaml:"serpentine"`
}

type PowerCfg struct {
	Brightness float64 `yaml:"brightness"`
	WhiteCap   float64 `yaml:"white_cap"`
	ChanMA     float64 `yaml:"chan_ma"`
	BudgetMA   float64 `yaml:"budget_ma"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, "" = first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Config struct {
	Addr      string `yaml:"addr"`
	RefreshHz int    `yaml:"refresh_hz"`

	Text        string  `yaml:"text"`
	FontPath    string  `yaml:"font_path,omitempty"`
	FontSize    float64 `yaml:"font_size"`
	Baseline    float64 `yaml:"baseline,omitempty"`
	Color       string  `yaml:"color"`
	FrameSource string  `yaml:"frame_source"`

	Viewers Viewers `yaml:"viewers"`
	Limits  Limits  `yaml:"limits"`

	Driver string   `yaml:"driver"` // "sim" | "spi" | "console" | "none"
	Matrix Matrix   `yaml:"matrix"`
	Power  PowerCfg `yaml:"power"`
	SPI    SPI      `yaml:"spi,omitempty"`
}

func Default() *Config {
	return &Config{
		Addr:        ":8080",
		RefreshHz:   60,
		Text:        "Hello, World!",
		FontSize:    48,
		Color:       "#000000",
		FrameSource: "camera",
		Viewers:     Viewers{MaxFPS: 15},
		Limits:      Limits{MaxSide: 4096, MaxMessageBytes: 16 << 20},
		Driver:      "none",
		Matrix:      Matrix{Width: 32, Height: 8, Serpentine: true},
		Power:       PowerCfg{Brightness: 0.5, WhiteCap: 0.85, ChanMA: 20},
		SPI:         SPI{SpeedHz: 2500000},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

// Merge returns base with every field that is set in over copied on top.
func Merge(base, over *Config) *Config {
	out := *base
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	num := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	integer := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}

	str(&out.Addr, over.Addr)
	integer(&out.RefreshHz, over.RefreshHz)
	str(&out.Text, over.Text)
	str(&out.FontPath, over.FontPath)
	num(&out.FontSize, over.FontSize)
	num(&out.Baseline, over.Baseline)
	str(&out.Color, over.Color)
	str(&out.FrameSource, over.FrameSource)
	integer(&out.Viewers.MaxFPS, over.Viewers.MaxFPS)
	integer(&out.Limits.MaxSide, over.Limits.MaxSide)
	if over.Limits.MaxMessageBytes != 0 {
		out.Limits.MaxMessageBytes = over.Limits.MaxMessageBytes
	}
	str(&out.Driver, over.Driver)
	if over.Matrix.Width > 0 && over.Matrix.Height > 0 {
		out.Matrix = over.Matrix
	}
	num(&out.Power.Brightness, over.Power.Brightness)
	num(&out.Power.WhiteCap, over.Power.WhiteCap)
	num(&out.Power.ChanMA, over.Power.ChanMA)
	num(&out.Power.BudgetMA, over.Power.BudgetMA)
	str(&out.SPI.Dev, over.SPI.Dev)
	integer(&out.SPI.SpeedHz, over.SPI.SpeedHz)
	return &out
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
