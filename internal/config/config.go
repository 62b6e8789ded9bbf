// Package config reads the formtab configuration file.
//
// A configuration file is HCL (or its JSON form):
//
//	schema      = "forms/good_eats.json"
//	data        = "https://example.org/api/v1/data/good_eats"
//	selector    = "$.results[*]"
//	language    = "English"
//	show_labels = true
//
//	http {
//	  timeout = "10s"
//	  limit   = 500
//	}
package config

import (
	"fmt"
	"time"

	"github.com/agentic-research/formtab/internal/label"
	"github.com/agentic-research/formtab/internal/loader"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// DefaultTimeout is the HTTP timeout when none is configured.
const DefaultTimeout = "30s"

// Config locates a schema and its data and says how to present them.
type Config struct {
	Schema     string `hcl:"schema,optional"`
	Data       string `hcl:"data,optional"`
	Selector   string `hcl:"selector,optional"`
	Table      string `hcl:"table,optional"`
	Language   string `hcl:"language,optional"`
	ShowLabels bool   `hcl:"show_labels,optional"`
	HTTP       *HTTP  `hcl:"http,block"`
}

// HTTP tunes remote data fetches.
type HTTP struct {
	Timeout string   `hcl:"timeout,optional"`
	Start   int      `hcl:"start,optional"`
	Limit   int      `hcl:"limit,optional"`
	Fields  []string `hcl:"fields,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Table:      loader.DefaultTable,
		ShowLabels: true,
		HTTP:       &HTTP{Timeout: DefaultTimeout},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads src over the defaults. filename picks the syntax by its
// extension, .hcl or .json.
func Parse(filename string, src []byte) (*Config, error) {
	cfg := Default()
	if err := hclsimple.Decode(filename, src, nil, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if c.HTTP == nil {
		c.HTTP = &HTTP{}
	}
	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.Table == "" {
		c.Table = loader.DefaultTable
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the parsed HTTP timeout.
func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil {
		return 0, fmt.Errorf("http timeout %q: %w", c.HTTP.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("http timeout %q: must be positive", c.HTTP.Timeout)
	}
	return d, nil
}

// LoaderOptions converts c into options for the loader package.
func (c *Config) LoaderOptions() loader.Options {
	d, err := c.Timeout()
	if err != nil {
		d = loader.DefaultTimeout
	}
	return loader.Options{
		Selector: c.Selector,
		Table:    c.Table,
		Timeout:  d,
		Query: loader.Query{
			Fields: c.HTTP.Fields,
			Start:  c.HTTP.Start,
			Limit:  c.HTTP.Limit,
		},
	}
}

// Resolver returns the label resolver c describes.
func (c *Config) Resolver() label.Resolver {
	return label.Resolver{ShowLabels: c.ShowLabels, Language: c.Language}
}
