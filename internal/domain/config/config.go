package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domainerr "folio/internal/domain/errors"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Build   BuildConfig   `yaml:"build"`
	Catalog CatalogConfig `yaml:"catalog"`
	Serve   ServeConfig   `yaml:"serve"`
	Log     LogConfig     `yaml:"log"`
}

type SiteConfig struct {
	Title       string `yaml:"title" validate:"required"`
	Author      string `yaml:"author"`
	SiteURL     string `yaml:"site_url"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type BuildConfig struct {
	SourceDir      string `yaml:"source_dir" validate:"required"`
	DataFile       string `yaml:"data_file" validate:"required"`
	PublicDir      string `yaml:"public_dir" validate:"required"`
	IndexPath      string `yaml:"index_path" validate:"required"`
	Workers        int    `yaml:"workers" validate:"gte=0,lte=256"`
	HighlightStyle string `yaml:"highlight_style"`
	GitDates       bool   `yaml:"git_dates"`
}

type CatalogConfig struct {
	RelatedLimit   int `yaml:"related_limit" validate:"gte=1,lte=50"`
	WordsPerMinute int `yaml:"words_per_minute" validate:"gte=1"`
}

type ServeConfig struct {
	Addr        string        `yaml:"addr" validate:"required"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Watch       bool          `yaml:"watch"`
	Debounce    time.Duration `yaml:"debounce" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Folio",
			Language: "en",
		},
		Build: BuildConfig{
			SourceDir: "src/content/articles",
			DataFile:  "src/content/articles-data.json",
			PublicDir: "public",
			IndexPath: ".folio/export.db",
		},
		Catalog: CatalogConfig{
			RelatedLimit:   3,
			WordsPerMinute: 200,
		},
		Serve: ServeConfig{
			Addr:        ":8080",
			MetricsAddr: ":9090",
			Watch:       true,
			Debounce:    200 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			ve.Add(fieldPath(fe.Namespace()), ruleMessage(fe))
		}
	}

	if u := strings.TrimSpace(c.Site.SiteURL); u != "" && !isValidAbsURL(u) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// fieldPath drops the root struct name: "Config.site.title" -> "site.title".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// fields present in the file override the defaults, the rest stay
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	cfg = Default()
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotenv reads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotenv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
