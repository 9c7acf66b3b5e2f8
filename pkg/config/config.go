package config

import (
	"fmt"
	"os"

	"github.com/funlang/gfc/pkg/cli"
)

type Feature int

const (
	FeatCComments Feature = iota
	FeatBlockComments
	FeatCount
)

type Warning int

const (
	WarnUnusedLocal Warning = iota
	WarnNoReturn
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features   map[Feature]Info
	Warnings   map[Warning]Info
	FeatureMap map[string]Feature
	WarningMap map[string]Warning
	TargetArch string
	WordSize   int
	// StackAlignment is both the frame rounding unit and the size of a
	// scratch spill slot.
	StackAlignment int
	LinkerArgs     []string
}

func NewConfig() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		Warnings:   make(map[Warning]Info),
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),
	}

	features := map[Feature]Info{
		FeatCComments:     {"c-comments", true, "Recognize C-style '//' line comments."},
		FeatBlockComments: {"block-comments", true, "Recognize '/* */' block comments."},
	}

	warnings := map[Warning]Info{
		WarnUnusedLocal: {"unused-local", true, "Warn when a local variable is assigned but never referenced."},
		WarnNoReturn:    {"no-return", true, "Warn when a function body has no 'return' statement."},
	}

	cfg.Features, cfg.Warnings = features, warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}

	// Sensible defaults when the caller never picks a target.
	cfg.TargetArch, cfg.WordSize, cfg.StackAlignment = "amd64", 8, 16

	return cfg
}

// SetTarget configures the compiler for a specific architecture. Only amd64
// is supported; anything else keeps 64-bit properties and warns.
func (c *Config) SetTarget(goarch string) {
	c.TargetArch = goarch
	switch goarch {
	case "amd64":
		c.WordSize, c.StackAlignment = 8, 16
	default:
		fmt.Fprintf(os.Stderr, "gfc: warning: unsupported target '%s', defaulting to amd64 properties\n", goarch)
		c.WordSize, c.StackAlignment = 8, 16
	}
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

// SetupFlagGroups registers -W<warning> / -F<feature> flag groups on the
// given flag set and returns the entries so the caller can apply them after
// parsing.
func (c *Config) SetupFlagGroups(fs *cli.FlagSet) (warnings, features []cli.FlagGroupEntry) {
	warnings = make([]cli.FlagGroupEntry, WarnCount)
	for i := Warning(0); i < WarnCount; i++ {
		info := c.Warnings[i]
		warnings[i] = cli.FlagGroupEntry{
			Name: info.Name, Prefix: "W", Usage: info.Description,
			Enabled: new(bool), Disabled: new(bool),
		}
	}
	fs.AddFlagGroup("Warnings", "Toggle diagnostic warnings.", "warning", "Available warnings", warnings)

	features = make([]cli.FlagGroupEntry, FeatCount)
	for i := Feature(0); i < FeatCount; i++ {
		info := c.Features[i]
		features[i] = cli.FlagGroupEntry{
			Name: info.Name, Prefix: "F", Usage: info.Description,
			Enabled: new(bool), Disabled: new(bool),
		}
	}
	fs.AddFlagGroup("Features", "Toggle language features.", "feature", "Available features", features)
	return warnings, features
}
