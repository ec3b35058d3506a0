package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/panel"
	"github.com/rustyeddy/quant/returns"
)

// Config describes one panel job: where history comes from, what to ask
// for, how to build the panel and where to write the result.
type Config struct {
	Source      SourceConfig      `json:"source" yaml:"source"`
	Request     RequestConfig     `json:"request" yaml:"request"`
	TickerNames map[string]string `json:"ticker_names,omitempty" yaml:"ticker_names,omitempty"`
	FieldNames  map[string]string `json:"field_names,omitempty" yaml:"field_names,omitempty"`
	Panel       PanelConfig       `json:"panel" yaml:"panel"`
	Returns     ReturnsConfig     `json:"returns" yaml:"returns"`
	Output      OutputConfig      `json:"output" yaml:"output"`
}

// SourceConfig selects the history source.
type SourceConfig struct {
	Type    string `json:"type" yaml:"type" default:"csv" validate:"oneof=csv sqlite http"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty" default:"30s"` // e.g. "30s", "2m"
}

// ParseTimeout converts the timeout string to a time.Duration.
func (s SourceConfig) ParseTimeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Timeout)
}

type RequestConfig struct {
	Tickers []string `json:"tickers,omitempty" yaml:"tickers,omitempty" validate:"dive,required"`
	Fields  []string `json:"fields" yaml:"fields" validate:"required,min=1,dive,required"`
	Start   string   `json:"start,omitempty" yaml:"start,omitempty"`
	End     string   `json:"end,omitempty" yaml:"end,omitempty"`
}

// PanelConfig selects the field to build from and the panel options.
// Field is matched after FieldNames renaming.
type PanelConfig struct {
	Field     string   `json:"field" yaml:"field" validate:"required"`
	Frequency string   `json:"frequency" yaml:"frequency" default:"monthly"`
	Align     string   `json:"align" yaml:"align" default:"inner"`
	Fill      string   `json:"fill" yaml:"fill" default:"forward"`
	Start     string   `json:"start,omitempty" yaml:"start,omitempty"`
	End       string   `json:"end,omitempty" yaml:"end,omitempty"`
	Columns   []string `json:"columns,omitempty" yaml:"columns,omitempty" validate:"dive,required"`
}

type ReturnsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Method  string `json:"method" yaml:"method" default:"log"`
	KeepNA  bool   `json:"keep_na" yaml:"keep_na"`
}

// OutputConfig says where results go. An empty path means stdout and is
// only allowed for csv.
type OutputConfig struct {
	Format string `json:"format" yaml:"format" default:"csv" validate:"oneof=csv xlsx"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// report yaml keys rather than Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// LoadFromFile loads a job file. YAML is tried first, then JSON. Defaults
// are applied before validation.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = &Config{}
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %v: %w", jerr, panel.ErrParse)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the config as YAML for .yaml/.yml paths and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate runs the tag rules and then the checks that need the panel
// and returns parsers. Every failure wraps panel.ErrConfig or
// panel.ErrParse.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("%w: %s", panel.ErrConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", panel.ErrConfig, err)
	}

	switch c.Source.Type {
	case "csv", "sqlite":
		if c.Source.Path == "" {
			return fmt.Errorf("%w: source.path required for %s source", panel.ErrConfig, c.Source.Type)
		}
	case "http":
		if c.Source.URL == "" {
			return fmt.Errorf("%w: source.url required for http source", panel.ErrConfig)
		}
	}
	if _, err := c.Source.ParseTimeout(); err != nil {
		return fmt.Errorf("%w: source.timeout: %v", panel.ErrConfig, err)
	}

	if err := c.HistoryRequest().Validate(); err != nil {
		return fmt.Errorf("request: %w", err)
	}

	if _, err := panel.ParseFrequency(c.Panel.Frequency); err != nil {
		return fmt.Errorf("panel.frequency: %w", err)
	}
	align, err := panel.ParseAlignMode(c.Panel.Align)
	if err != nil {
		return fmt.Errorf("panel.align: %w", err)
	}
	if align == panel.Outer {
		if _, err := panel.ParseFillMethod(c.Panel.Fill); err != nil {
			return fmt.Errorf("panel.fill: %w", err)
		}
	}
	for _, b := range []string{c.Panel.Start, c.Panel.End} {
		if _, err := panel.ParseBound(b); err != nil {
			return fmt.Errorf("panel: %w", err)
		}
	}

	if c.Returns.Enabled {
		if _, err := returns.ParseMethod(c.Returns.Method); err != nil {
			return fmt.Errorf("returns.method: %w", err)
		}
	}

	if c.Output.Format == "xlsx" && c.Output.Path == "" {
		return fmt.Errorf("%w: output.path required for xlsx", panel.ErrConfig)
	}
	return nil
}

// HistoryRequest converts the request section.
func (c *Config) HistoryRequest() history.Request {
	return history.Request{
		Tickers: c.Request.Tickers,
		Fields:  c.Request.Fields,
		Start:   c.Request.Start,
		End:     c.Request.End,
	}
}

// PanelOptions converts the panel section.
func (c *Config) PanelOptions() panel.Options {
	return panel.Options{
		Frequency: panel.Frequency(c.Panel.Frequency),
		Align:     panel.AlignMode(c.Panel.Align),
		Fill:      panel.FillMethod(c.Panel.Fill),
		Start:     c.Panel.Start,
		End:       c.Panel.End,
		Columns:   c.Panel.Columns,
	}
}

// ReturnsOptions converts the returns section.
func (c *Config) ReturnsOptions() returns.Options {
	return returns.Options{
		Method: returns.Method(c.Returns.Method),
		KeepNA: c.Returns.KeepNA,
	}
}

// Default returns a job that reads PX_LAST from history.csv and writes a
// monthly inner-aligned panel to stdout.
func Default() *Config {
	cfg := &Config{
		Source: SourceConfig{Path: "history.csv"},
		Request: RequestConfig{
			Fields: []string{"PX_LAST"},
		},
		Panel: PanelConfig{Field: "PX_LAST"},
	}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid url", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
