package conf

// App-specific configuration structs & data.
// Must live in a package of its own so other packages within the app can depend on it without
// causing a circular dependency.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
	"r3d.dev/frontend/core"
	"r3d.dev/frontend/i18n"
)

var AppName = "幻立红白"

var AppShortName = "R3D"

var BuildTimestamp string

var Config AppConfig

// ErrConfigNotFound is returned (along with a usable default config) when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

type AppConfig struct {
	DataDir string // The directory containing `r3d.yml` is where all data will be stored.
	Web     struct {
		Host string `yaml:"host"` // Interface to listen on; empty means all interfaces.
		Port int    `yaml:"port"`
	} `yaml:"web"`
	I18n struct {
		DefaultLocale i18n.Locale `yaml:"default-locale"`
	} `yaml:"i18n"`
	QrCode struct {
		Cache struct {
			Enabled      *bool         `yaml:"enabled"`
			TTL          time.Duration `yaml:"ttl"`
			MaxSizeBytes int64         `yaml:"max-size-bytes"`
		} `yaml:"cache"`
	} `yaml:"qr-code"`
	ProjectPages struct {
		Frontend  string `yaml:"frontend"`
		Backend   string `yaml:"backend"`
		BugReport string `yaml:"bug-report"`
	} `yaml:"project-pages"`
	Debug bool `yaml:"debug"`
}

// ProjectLink is a footer link; LabelKey is an i18n message key.
type ProjectLink struct {
	URL      string
	LabelKey string
}

// ProjectLinks returns the configured project pages, in display order, skipping unset ones.
func (c *AppConfig) ProjectLinks() []ProjectLink {
	var links []ProjectLink
	for _, l := range []ProjectLink{
		{c.ProjectPages.Frontend, "main.footer.project_pages.frontend_repo"},
		{c.ProjectPages.Backend, "main.footer.project_pages.backend_repo"},
		{c.ProjectPages.BugReport, "main.footer.project_pages.bug_report_repo"},
	} {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return links
}

// ListenAddr is the address the web server binds to.
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.Web.Host, strconv.Itoa(c.Web.Port))
}

var configYmlPath string

// ReadConfig parses the YAML file at configYmlFile. Defaults are always applied, so the returned
// config is usable even when an error is returned; callers decide which errors are fatal.
func ReadConfig(configYmlFile string) (AppConfig, error) {
	if BuildTimestamp == "" {
		BuildTimestamp = time.Now().Local().Format("2006-01-02 15:04:05")
	}

	c := &AppConfig{}
	var err error
	configYmlPath, err = filepath.Abs(configYmlFile)
	if err != nil {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("Failed to get path to config file: %w", err)
	}

	exists, err := core.FileExists(configYmlPath)
	if err != nil {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("Failed to stat config file: %w", err)
	}
	if !exists {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("%s: %w", configYmlPath, ErrConfigNotFound)
	}

	buf, err := os.ReadFile(configYmlPath)
	if err != nil {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("Failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		setDefaultsAndPrint(c)
		return *c, fmt.Errorf("Failed to parse config: %w", err)
	}

	setDefaultsAndPrint(c)
	if _, ok := i18n.ParseLocale(string(c.I18n.DefaultLocale)); !ok {
		return *c, fmt.Errorf("Unsupported i18n.default-locale %q", c.I18n.DefaultLocale)
	}
	return *c, nil
}

func setDefaultsAndPrint(c *AppConfig) {
	c.DataDir = filepath.Dir(configYmlPath)
	if c.Web.Port == 0 {
		c.Web.Port = 9999
	}

	if c.I18n.DefaultLocale == "" {
		c.I18n.DefaultLocale = i18n.BaseLocale
	} else if l, ok := i18n.ParseLocale(string(c.I18n.DefaultLocale)); ok {
		c.I18n.DefaultLocale = l // Normalize case, e.g. “zh-cn” --> “zh-CN”.
	}

	// Cache for QR Codes is enabled by default; only disable it when testing or debugging.
	if c.QrCode.Cache.Enabled == nil {
		enabled := true
		c.QrCode.Cache.Enabled = &enabled
	}
	if c.QrCode.Cache.TTL == 0 {
		c.QrCode.Cache.TTL = 30 * 24 * time.Hour
	}
	if c.QrCode.Cache.MaxSizeBytes == 0 {
		c.QrCode.Cache.MaxSizeBytes = 64 * 1024 * 1024
	}

	json, _ := json.MarshalIndent(*c, "", "\t")
	fmt.Println(string(json))

	// Print warnings for unsafe settings, just as FYI.
	if c.Debug {
		slog.Warn("Debug mode is enabled")
	}
	if !*c.QrCode.Cache.Enabled {
		slog.Warn("Cache disabled for QR Codes; performance will be affected")
	} else {
		slog.Info("QR Code cache",
			"ttl", c.QrCode.Cache.TTL,
			"max-size", humanize.IBytes(uint64(max(c.QrCode.Cache.MaxSizeBytes, 0))))
	}
}
