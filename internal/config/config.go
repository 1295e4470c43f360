package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/geoslides/internal/viewport"
)

type Config struct {
	InputPath       string  `yaml:"input"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	CenterX         float64 `yaml:"center_x"`
	CenterY         float64 `yaml:"center_y"`
	ScaleX          float64 `yaml:"scale_x"`
	ScaleY          float64 `yaml:"scale_y"`
	ZoomSensitivity float64 `yaml:"zoom_sensitivity"`
	LineWidth       float64 `yaml:"line_width"`
	PointRadius     float64 `yaml:"point_radius"`
	Slides          string  `yaml:"slides"`
	Workers         int     `yaml:"workers"`
	OutputVideo     string  `yaml:"video"`
	SlideDuration   float64 `yaml:"slide_duration"`
	FPS             int     `yaml:"fps"`
	ShowStats       bool    `yaml:"show_stats"`
	BuildVersion    string  `yaml:"-"`
}

// VideoParams описывает сборку слайдов в видео.
type VideoParams struct {
	Width, Height int
	FPS           int
	SlideDuration float64
	Encoder       string
	Quality       int
}

func Default() *Config {
	return &Config{
		Width:           800,
		Height:          800,
		ScaleX:          viewport.DefaultScale,
		ScaleY:          viewport.DefaultScale,
		ZoomSensitivity: viewport.DefaultSensitivity,
		LineWidth:       1.5,
		PointRadius:     3,
		Workers:         4,
		SlideDuration:   2,
		FPS:             30,
	}
}

// Load читает YAML поверх значений по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Write сохраняет конфигурацию, например как шаблон для -config.
func Write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("размер %dx%d должен быть положительным", c.Width, c.Height))
	}
	if c.ScaleX <= 0 || c.ScaleY <= 0 {
		errs = append(errs, fmt.Errorf("масштаб (%g, %g) должен быть положительным", c.ScaleX, c.ScaleY))
	}
	if c.ZoomSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("zoom_sensitivity %g должен быть положительным", c.ZoomSensitivity))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers %d должен быть положительным", c.Workers))
	}
	if c.OutputVideo != "" {
		if c.Slides == "" {
			errs = append(errs, errors.New("для видео нужен шаблон слайдов (slides)"))
		}
		if c.FPS <= 0 || c.SlideDuration <= 0 {
			errs = append(errs, fmt.Errorf("fps %d и slide_duration %g должны быть положительными", c.FPS, c.SlideDuration))
		}
	}
	return errors.Join(errs...)
}

// Viewport строит начальный вид из конфигурации.
func (c *Config) Viewport() *viewport.Viewport {
	vp := viewport.New(float64(c.Width), float64(c.Height))
	vp.SetCenter(c.CenterX, c.CenterY)
	vp.ScaleX, vp.ScaleY = c.ScaleX, c.ScaleY
	vp.Sensitivity = c.ZoomSensitivity
	return vp
}
