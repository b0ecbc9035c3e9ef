package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LangRU = "ru"
	LangUZ = "uz"

	envPrefix   = "PORTAL_"
	envFileName = ".env"

	defaultListen          = ":8080"
	defaultURL             = "http://localhost:8080"
	defaultVideosDir       = "public/videos"
	defaultPresentationDir = "public/presentations"
	defaultPracticeDir     = "public/practice"
	defaultPracticePattern = "practice_%d.pdf"
	defaultSyllabusFile    = "public/syllabus.pdf"
	defaultLecturesDir     = "content/lectures"
	defaultStaticPrefix    = "/static"
	defaultMetricsPath     = "/metrics"
)

type ContentConfig struct {
	VideosDir        string `yaml:"videos_dir"`
	PresentationsDir string `yaml:"presentations_dir"`
	PracticeDir      string `yaml:"practice_dir"`
	PracticePattern  string `yaml:"practice_pattern"` // fmt pattern, %d is the practice number
	SyllabusFile     string `yaml:"syllabus_file"`
	LecturesDir      string `yaml:"lectures_dir"` // <lectures_dir>/<lang>/<n>.md
	StaticPrefix     string `yaml:"static_prefix"`
}

type HTTPConfig struct {
	Compress        bool `yaml:"compress"`          // brotli for JSON and HTML responses
	StreamRateLimit int  `yaml:"stream_rate_limit"` // bytes per second per stream, 0 is unlimited
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Config struct {
	URL         string        `yaml:"url"`
	Listen      string        `yaml:"listen"`
	LogLevel    string        `yaml:"log_level"`
	DefaultLang string        `yaml:"default_lang"`
	Languages   []string      `yaml:"languages"`
	Content     ContentConfig `yaml:"content"`
	HTTP        HTTPConfig    `yaml:"http"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

func (c *Config) SetDefaults() {
	c.Listen = defaultListen
	c.URL = defaultURL
	c.LogLevel = LogLevelInfo
	c.DefaultLang = LangRU
	c.Languages = []string{LangRU, LangUZ}

	c.Content = ContentConfig{
		VideosDir:        defaultVideosDir,
		PresentationsDir: defaultPresentationDir,
		PracticeDir:      defaultPracticeDir,
		PracticePattern:  defaultPracticePattern,
		SyllabusFile:     defaultSyllabusFile,
		LecturesDir:      defaultLecturesDir,
		StaticPrefix:     defaultStaticPrefix,
	}

	c.HTTP = HTTPConfig{
		Compress: true,
	}

	c.Metrics = MetricsConfig{
		Enabled: true,
		Path:    defaultMetricsPath,
	}
}

// Lang returns lang when it is supported, the default language otherwise.
func (c *Config) Lang(lang string) string {
	if slices.Contains(c.Languages, lang) {
		return lang
	}

	return c.DefaultLang
}

func (c *Config) Validate() error {
	var errs []error

	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, fmt.Errorf("unknown log level: %q", c.LogLevel))
	}

	if c.Listen == "" {
		errs = append(errs, fmt.Errorf("listen address is empty"))
	}

	if len(c.Languages) == 0 {
		errs = append(errs, fmt.Errorf("no languages configured"))
	} else if !slices.Contains(c.Languages, c.DefaultLang) {
		errs = append(errs, fmt.Errorf("default language %q is not in languages", c.DefaultLang))
	}

	if !strings.Contains(c.Content.PracticePattern, "%d") {
		errs = append(errs, fmt.Errorf("practice pattern must contain %%d: %q", c.Content.PracticePattern))
	}

	if !strings.HasPrefix(c.Content.StaticPrefix, "/") {
		errs = append(errs, fmt.Errorf("static prefix must start with /: %q", c.Content.StaticPrefix))
	}

	if c.HTTP.StreamRateLimit < 0 {
		errs = append(errs, fmt.Errorf("stream rate limit must not be negative: %d", c.HTTP.StreamRateLimit))
	}

	return errors.Join(errs...)
}

// Load reads the config file (optional) and applies PORTAL_* environment overrides.
// Variables from .env in the working directory are loaded first and never
// override the real environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(envFileName); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot load %s: %w", envFileName, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"LISTEN":            &c.Listen,
		"URL":               &c.URL,
		"LOG_LEVEL":         &c.LogLevel,
		"DEFAULT_LANG":      &c.DefaultLang,
		"VIDEOS_DIR":        &c.Content.VideosDir,
		"PRESENTATIONS_DIR": &c.Content.PresentationsDir,
		"PRACTICE_DIR":      &c.Content.PracticeDir,
		"PRACTICE_PATTERN":  &c.Content.PracticePattern,
		"SYLLABUS_FILE":     &c.Content.SyllabusFile,
		"LECTURES_DIR":      &c.Content.LecturesDir,
		"STATIC_PREFIX":     &c.Content.StaticPrefix,
		"METRICS_PATH":      &c.Metrics.Path,
	}

	for name, dst := range str {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "LANGUAGES"); ok {
		c.Languages = strings.Split(v, ",")
		for i := range c.Languages {
			c.Languages[i] = strings.TrimSpace(c.Languages[i])
		}
	}

	for name, dst := range map[string]*bool{
		"METRICS_ENABLED": &c.Metrics.Enabled,
		"HTTP_COMPRESS":   &c.HTTP.Compress,
	} {
		if v, ok := lookup(envPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("cannot parse %s%s: %w", envPrefix, name, err)
			}

			*dst = b
		}
	}

	if v, ok := lookup(envPrefix + "STREAM_RATE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("cannot parse %sSTREAM_RATE_LIMIT: %w", envPrefix, err)
		}

		c.HTTP.StreamRateLimit = n
	}

	return nil
}
