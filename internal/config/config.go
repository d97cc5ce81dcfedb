package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	appName             = "logview"
)

// ErrUsage is returned when the command line is missing the log file or has
// extra positional arguments.
var ErrUsage = errors.New("usage: logview [flags] <logfile> [--tail]")

type Config struct {
	FilePath        string
	TailOnly        bool
	ConfigPath      string
	PollInterval    time.Duration
	RefreshInterval time.Duration
	Notify          bool
	MaxRecords      int
	Theme           Theme
	ShowVersion     bool
}

func defaults() *Config {
	return &Config{
		PollInterval: defaultPollInterval,
		Theme:        ThemeDark,
	}
}

type flagValues struct {
	tail       bool
	configPath string
	poll       time.Duration
	refresh    time.Duration
	notify     bool
	maxRecords int
	theme      string
	version    bool
}

// Load builds the configuration from defaults, the TOML config file, the
// environment and finally args (without the program name), in increasing
// order of precedence. Flags may appear before or after the log file.
func Load(args []string) (*Config, error) {
	var fv flagValues
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), ErrUsage.Error())
		fs.PrintDefaults()
	}
	fs.BoolVar(&fv.tail, "tail", false, "skip existing content and only show records appended after launch")
	fs.StringVar(&fv.configPath, "config", "", "path to TOML config file (default $XDG_CONFIG_HOME/logview/config.toml)")
	fs.DurationVar(&fv.poll, "poll", defaultPollInterval, "interval between checks for new lines")
	fs.DurationVar(&fv.refresh, "refresh", 0, "redraw interval so tailed records appear without a key press (0=only on key press)")
	fs.BoolVar(&fv.notify, "notify", false, "use filesystem notifications instead of polling")
	fs.IntVar(&fv.maxRecords, "max-records", 0, "keep at most N records, evicting the oldest (0=unbounded)")
	fs.StringVar(&fv.theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.BoolVar(&fv.version, "version", false, "print version and exit")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := defaults()
	if fv.version {
		cfg.ShowVersion = true
		return cfg, nil
	}

	cfg.ConfigPath, err = resolveConfigPath(fv.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyFile(cfg.ConfigPath, set["config"] || os.Getenv("LOGVIEW_CONFIG") != ""); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if set["tail"] {
		cfg.TailOnly = fv.tail
	}
	if set["poll"] {
		cfg.PollInterval = fv.poll
	}
	if set["refresh"] {
		cfg.RefreshInterval = fv.refresh
	}
	if set["notify"] {
		cfg.Notify = fv.notify
	}
	if set["max-records"] {
		cfg.MaxRecords = fv.maxRecords
	}
	if set["theme"] {
		cfg.Theme = Theme(fv.theme)
	}

	switch len(positional) {
	case 0:
		return nil, ErrUsage
	case 1:
		cfg.FilePath = positional[0]
	default:
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrUsage, positional[1:])
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseInterspersed lets flags follow positional arguments, which the flag
// package alone stops at.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}
}

func resolveConfigPath(p string) (string, error) {
	if p == "" {
		p = os.Getenv("LOGVIEW_CONFIG")
	}
	if p != "" {
		return expandHome(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		// no home or XDG dir: run without a config file
		return "", nil
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

type fileConfig struct {
	PollInterval    string `toml:"poll_interval"`
	RefreshInterval string `toml:"refresh_interval"`
	Notify          *bool  `toml:"notify"`
	MaxRecords      *int   `toml:"max_records"`
	Theme           string `toml:"theme"`
}

// applyFile merges the TOML file at path. A missing file is only an error
// when it was asked for explicitly.
func (c *Config) applyFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		if c.PollInterval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("config poll_interval: %w", err)
		}
	}
	if v := strings.TrimSpace(raw.RefreshInterval); v != "" {
		if c.RefreshInterval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("config refresh_interval: %w", err)
		}
	}
	if raw.Notify != nil {
		c.Notify = *raw.Notify
	}
	if raw.MaxRecords != nil {
		c.MaxRecords = *raw.MaxRecords
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		c.Theme = Theme(v)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if v := getenvDefault("LOGVIEW_POLL", ""); v != "" {
		if c.PollInterval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("LOGVIEW_POLL: %w", err)
		}
	}
	if v := getenvDefault("LOGVIEW_REFRESH", ""); v != "" {
		if c.RefreshInterval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("LOGVIEW_REFRESH: %w", err)
		}
	}
	c.Theme = Theme(getenvDefault("LOGVIEW_THEME", string(c.Theme)))
	return nil
}

func (c *Config) validate() error {
	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unknown theme %q (want dark or light)", c.Theme)
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must not be negative: %s", c.RefreshInterval)
	}
	if c.MaxRecords < 0 {
		return fmt.Errorf("max records must not be negative: %d", c.MaxRecords)
	}
	return nil
}

func getenvDefault(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("file=%s tail=%v poll=%s notify=%v refresh=%s max=%d theme=%s",
		c.FilePath, c.TailOnly, c.PollInterval, c.Notify, c.RefreshInterval, c.MaxRecords, c.Theme)
}
