// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/websurface/engine"
	"github.com/gogpu/websurface/state"
)

// DefaultURL is the document shown when no surface is configured.
const DefaultURL = "https://servo.org"

var (
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("config: invalid")
)

// File is the top-level configuration.
type File struct {
	// Engine is a registered engine name. Empty selects engine.Default.
	Engine   string    `toml:"engine" yaml:"engine"`
	Options  Options   `toml:"options" yaml:"options"`
	Window   Window    `toml:"window" yaml:"window"`
	Surfaces []Surface `toml:"surfaces" yaml:"surfaces"`
}

// Options mirrors engine.Options with string durations.
type Options struct {
	ResourcesPath string            `toml:"resources_path" yaml:"resources_path"`
	ExecPath      string            `toml:"exec_path" yaml:"exec_path"`
	UserAgent     string            `toml:"user_agent" yaml:"user_agent"`
	Headful       bool              `toml:"headful" yaml:"headful"`
	Flags         map[string]string `toml:"flags" yaml:"flags"`
	StartTimeout  string            `toml:"start_timeout" yaml:"start_timeout"`
	FrameInterval string            `toml:"frame_interval" yaml:"frame_interval"`
}

// Window is the host window.
type Window struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
}

// Surface is one browser surface.
type Surface struct {
	Name        string `toml:"name" yaml:"name"`
	URL         string `toml:"url" yaml:"url"`
	Width       uint32 `toml:"width" yaml:"width"`
	Height      uint32 `toml:"height" yaml:"height"`
	TrackWindow bool   `toml:"track_window" yaml:"track_window"`
}

// Defaults returns a configuration with one window-sized surface showing
// DefaultURL.
func Defaults() File {
	return File{
		Window: Window{Width: state.DefaultWidth, Height: state.DefaultHeight, Title: "websurface"},
		Surfaces: []Surface{{
			Name:        "main",
			URL:         DefaultURL,
			Width:       state.DefaultWidth,
			Height:      state.DefaultHeight,
			TrackWindow: true,
		}},
	}
}

// Load reads and validates the file at path, choosing the decoder by
// extension. Missing sizes are filled from Defaults.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return File{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the format named by ext (".toml", ".yaml" or
// ".yml"), applies defaults and validates the result.
func Parse(data []byte, ext string) (File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, fmt.Errorf("decode toml: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func (f *File) applyDefaults() {
	def := Defaults()
	if f.Window.Width == 0 {
		f.Window.Width = def.Window.Width
	}
	if f.Window.Height == 0 {
		f.Window.Height = def.Window.Height
	}
	if f.Window.Title == "" {
		f.Window.Title = def.Window.Title
	}
	if len(f.Surfaces) == 0 {
		f.Surfaces = def.Surfaces
	}
	for i := range f.Surfaces {
		s := &f.Surfaces[i]
		if s.Width == 0 && s.Height == 0 {
			s.Width, s.Height = state.DefaultWidth, state.DefaultHeight
		}
	}
}

// Validate checks sizes, URLs, durations and surface name uniqueness.
// Every problem is reported.
func (f File) Validate() error {
	var errs []error
	if f.Window.Width <= 0 || f.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", f.Window.Width, f.Window.Height))
	}
	if _, err := f.EngineOptions(); err != nil {
		errs = append(errs, err)
	}

	names := make(map[string]bool, len(f.Surfaces))
	for i, s := range f.Surfaces {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		} else if names[s.Name] {
			errs = append(errs, fmt.Errorf("surface %s: duplicate name", label))
		}
		names[s.Name] = true

		if s.Width == 0 || s.Height == 0 {
			errs = append(errs, fmt.Errorf("surface %s: size %dx%d", label, s.Width, s.Height))
		}
		if s.URL != "" {
			if _, err := engine.ParseURL(s.URL); err != nil {
				errs = append(errs, fmt.Errorf("surface %s: %w", label, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// EngineOptions converts Options to engine.Options.
func (f File) EngineOptions() (engine.Options, error) {
	start, err := parseDuration("start_timeout", f.Options.StartTimeout)
	if err != nil {
		return engine.Options{}, err
	}
	frame, err := parseDuration("frame_interval", f.Options.FrameInterval)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		ResourcesPath: f.Options.ResourcesPath,
		ExecPath:      f.Options.ExecPath,
		UserAgent:     f.Options.UserAgent,
		Headful:       f.Options.Headful,
		Flags:         f.Options.Flags,
		StartTimeout:  start,
		FrameInterval: frame,
	}.WithDefaults(), nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", field, s)
	}
	return d, nil
}

// Surface returns the surface named name.
func (f File) Surface(name string) (Surface, bool) {
	for _, s := range f.Surfaces {
		if s.Name == name {
			return s, true
		}
	}
	return Surface{}, false
}
