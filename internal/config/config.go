// Package config reads pagemap option files. A file looks like
//
//	viewport: "#content"
//	styles:
//	  "header,footer": rgba(0, 0, 0, 0.08)
//	  h1: default
//	  a: none
//	back: rgba(0, 0, 0, 0.02)
//	outline: black
//	outline_width: 5 # 0 drops the outline
//	interval: 500ms
//	log:
//	  level: debug
//
// Style rules keep the order they are written in.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pagemap/internal/logging"
	"pagemap/pkg/page"
	"pagemap/pkg/pagemap"
)

// Config is the decoded file. Paints are kept as text until Options
// resolves them against a document.
type Config struct {
	Viewport     string         `yaml:"viewport,omitempty"`
	Styles       *StyleList     `yaml:"styles,omitempty"`
	Back         *string        `yaml:"back,omitempty"`
	View         *string        `yaml:"view,omitempty"`
	Drag         *string        `yaml:"drag,omitempty"`
	Outline      *string        `yaml:"outline,omitempty"`
	OutlineWidth *float64       `yaml:"outline_width,omitempty"`
	Interval     time.Duration  `yaml:"interval,omitempty"`
	Log          logging.Config `yaml:"log,omitempty"`
}

// StyleEntry is one selector and the paint written for it.
type StyleEntry struct {
	Selector string
	Paint    string
}

// StyleList is the styles mapping in file order.
type StyleList []StyleEntry

// UnmarshalYAML walks the mapping node pair by pair so the order of the
// file survives. A null value is kept as "none".
func (l *StyleList) UnmarshalYAML(node *yaml.Node) error {
	out := StyleList{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*l = out
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: styles must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: style for %q must be a scalar", val.Line, key.Value)
		}
		paint := val.Value
		if val.Tag == "!!null" {
			paint = "none"
		}
		out = append(out, StyleEntry{Selector: key.Value, Paint: paint})
	}
	*l = out
	return nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document. Unknown keys are errors and an empty
// document is the zero Config.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Options turns the config into map options for doc. The viewport
// selector must match an element.
func (c Config) Options(doc *page.Document) (pagemap.Options, error) {
	var opts pagemap.Options
	if c.Viewport != "" {
		el := doc.QuerySelector(c.Viewport)
		if el == nil {
			return opts, fmt.Errorf("viewport %q matches no element", c.Viewport)
		}
		opts.Viewport = el
	}

	if c.Styles != nil {
		opts.Styles = make([]pagemap.StyleRule, 0, len(*c.Styles))
		for _, s := range *c.Styles {
			p, err := pagemap.ParsePaint(s.Paint)
			if err != nil {
				return opts, fmt.Errorf("styles[%q]: %w", s.Selector, err)
			}
			opts.Styles = append(opts.Styles, pagemap.StyleRule{Selector: s.Selector, Paint: p})
		}
	}

	for _, f := range []struct {
		name string
		src  *string
		dst  *pagemap.Paint
	}{
		{"back", c.Back, &opts.Back},
		{"view", c.View, &opts.View},
		{"drag", c.Drag, &opts.Drag},
		{"outline", c.Outline, &opts.Outline},
	} {
		if f.src == nil {
			continue
		}
		p, err := pagemap.ParsePaint(*f.src)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = p
	}

	if c.OutlineWidth != nil {
		opts.SetOutlineWidth(*c.OutlineWidth)
	}
	opts.Interval = c.Interval
	return opts, nil
}
