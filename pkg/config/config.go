package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for licomply
type Config struct {
	Target  string        `mapstructure:"target"`
	Allow   []string      `mapstructure:"allow"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Report  ReportConfig  `mapstructure:"report"`
	Policy  string        `mapstructure:"policy"`
}

// CatalogConfig holds SPDX taxonomy source options
type CatalogConfig struct {
	URL       string `mapstructure:"url"`
	CachePath string `mapstructure:"cache_path"`
}

// LookupConfig holds license-lookup provider options
type LookupConfig struct {
	Provider     string        `mapstructure:"provider"`      // "pypi" or "static"
	LicensesFile string        `mapstructure:"licenses_file"` // name → license map for the static provider
	TTL          time.Duration `mapstructure:"ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ReportConfig holds report output options
type ReportConfig struct {
	Format string `mapstructure:"format"` // json, markdown, junit, concise
	Output string `mapstructure:"output"` // empty means stdout
}

var defaultConfig = Config{
	Target: ".",
	Allow:  []string{"MIT", "Apache-2.0", "BSD-3-Clause"},
	Catalog: CatalogConfig{
		URL:       "https://raw.githubusercontent.com/spdx/license-list-data/master/json/licenses.json",
		CachePath: ".licomply/spdx_licenses.json",
	},
	Lookup: LookupConfig{
		Provider: "pypi",
		TTL:      24 * time.Hour,
		Timeout:  30 * time.Second,
	},
	Report: ReportConfig{
		Format: "concise",
	},
	Policy: ".licomply/policy.yaml",
}

// DefaultAllowList returns the allow-list used when neither the CLI argument
// nor a policy file provides one.
func DefaultAllowList() []string {
	out := make([]string, len(defaultConfig.Allow))
	copy(out, defaultConfig.Allow)
	return out
}

// Load loads configuration from defaults, .licomply.yaml, and LICOMPLY_* env vars
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("target", defaultConfig.Target)
	v.SetDefault("allow", defaultConfig.Allow)
	v.SetDefault("catalog.url", defaultConfig.Catalog.URL)
	v.SetDefault("catalog.cache_path", defaultConfig.Catalog.CachePath)
	v.SetDefault("lookup.provider", defaultConfig.Lookup.Provider)
	v.SetDefault("lookup.licenses_file", defaultConfig.Lookup.LicensesFile)
	v.SetDefault("lookup.ttl", defaultConfig.Lookup.TTL)
	v.SetDefault("lookup.timeout", defaultConfig.Lookup.Timeout)
	v.SetDefault("report.format", defaultConfig.Report.Format)
	v.SetDefault("report.output", defaultConfig.Report.Output)
	v.SetDefault("policy", defaultConfig.Policy)

	v.SetConfigName(".licomply")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LICOMPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; anything else is a real problem
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// ParseAllowList splits a comma-separated allow-list argument into trimmed,
// non-empty entries. An empty argument yields the default allow-list.
func ParseAllowList(arg string) []string {
	if strings.TrimSpace(arg) == "" {
		return DefaultAllowList()
	}
	var out []string
	for _, part := range strings.Split(arg, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return DefaultAllowList()
	}
	return out
}
