package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargometa/pkg/cargo"
	"github.com/matzehuels/cargometa/pkg/errors"
)

// configFileName is looked up in the working directory before the user
// config dir.
const configFileName = appName + ".toml"

// Config holds defaults for the cargo invocation. Values set on the command
// line take precedence. Relative paths are resolved against the directory of
// the config file.
//
//	cargo = "/opt/rust/bin/cargo"
//	manifest_path = "crates/core/Cargo.toml"
//	features = ["serde"]
//	cargo_args = ["--offline"]
//
//	[graph]
//	format = "svg"
//	highlight = true
type Config struct {
	Cargo             string   `toml:"cargo"`
	ManifestPath      string   `toml:"manifest_path"`
	Dir               string   `toml:"dir"`
	Features          []string `toml:"features"`
	AllFeatures       bool     `toml:"all_features"`
	NoDefaultFeatures bool     `toml:"no_default_features"`
	// CargoArgs are appended to every cargo invocation.
	CargoArgs []string `toml:"cargo_args"`

	Graph GraphConfig `toml:"graph"`
}

// GraphConfig holds defaults for the graph command.
type GraphConfig struct {
	Format    string `toml:"format"`
	Detailed  bool   `toml:"detailed"`
	Highlight *bool  `toml:"highlight"`
}

// readConfig decodes a TOML config file. Keys the file sets that Config does
// not know are returned so the caller can warn about them.
func readConfig(path string) (*Config, []string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return &cfg, unknown, nil
}

// findConfig returns the config file to use, or "" when none exists.
// An explicit path must exist.
func findConfig(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", explicit)
		}
		return explicit, nil
	}

	candidates := []string{filepath.Join(dir, configFileName)}
	if base, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(base, appName, "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

// resolvePaths makes relative paths in the file relative to base, the
// directory holding the config file. A cargo value without a separator is
// an executable name and is left for PATH lookup.
func (cfg *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	cfg.ManifestPath = abs(cfg.ManifestPath)
	cfg.Dir = abs(cfg.Dir)
	if strings.ContainsRune(cfg.Cargo, filepath.Separator) {
		cfg.Cargo = abs(cfg.Cargo)
	}
}

// loadConfig reads the config file, if any, and applies flags set on the
// command line over it.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	logger := loggerFromContext(cmd.Context())

	path, err := findConfig(c.flags.configPath, c.flags.dir)
	if err != nil {
		return err
	}

	cfg := &Config{}
	if path != "" {
		var unknown []string
		cfg, unknown, err = readConfig(path)
		if err != nil {
			return err
		}
		cfg.resolvePaths(filepath.Dir(path))
		logger.Debug("loaded config", "path", path)
		for _, key := range unknown {
			logger.Warn("unknown config key", "key", key, "path", path)
		}
	}

	c.config = applyFlags(cfg, c.flags, cmd.Flags().Changed)
	return nil
}

// applyFlags overrides cfg with every flag for which changed reports true.
func applyFlags(cfg *Config, f globalFlags, changed func(string) bool) *Config {
	out := *cfg
	if changed("cargo") {
		out.Cargo = f.cargo
	}
	if changed("manifest-path") {
		out.ManifestPath = f.manifestPath
	}
	if changed("dir") {
		out.Dir = f.dir
	}
	if changed("features") {
		out.Features = f.features
		out.AllFeatures = false
		out.NoDefaultFeatures = false
	}
	if changed("all-features") {
		out.AllFeatures = f.allFeatures
		if f.allFeatures {
			out.NoDefaultFeatures = false
			out.Features = nil
		}
	}
	if changed("no-default-features") {
		out.NoDefaultFeatures = f.noDefaultFeatures
		if f.noDefaultFeatures {
			out.AllFeatures = false
		}
	}
	return &out
}

// featureSelection maps the feature settings onto a cargo feature selection.
func (cfg *Config) featureSelection() (cargo.FeatureSelection, error) {
	switch {
	case cfg.AllFeatures && cfg.NoDefaultFeatures:
		return cargo.DefaultFeatures(), errors.New(errors.ErrCodeInvalidInput, "all_features and no_default_features cannot both be set")
	case cfg.AllFeatures:
		return cargo.AllFeatures(), nil
	case cfg.NoDefaultFeatures && len(cfg.Features) > 0:
		return cargo.DefaultFeatures(), errors.New(errors.ErrCodeUnsupported, "no-default-features cannot be combined with a feature list")
	case cfg.NoDefaultFeatures:
		return cargo.NoDefaultFeatures(), nil
	}
	for _, name := range cfg.Features {
		if err := errors.ValidateFeatureName(name); err != nil {
			return cargo.DefaultFeatures(), err
		}
	}
	return cargo.SomeFeatures(cfg.Features...), nil
}
