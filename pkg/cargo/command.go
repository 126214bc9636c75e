package cargo

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// CargoEnv names the environment variable that overrides the cargo
	// executable. Cargo sets it for the subcommands and build scripts it runs.
	CargoEnv = "CARGO"

	// DefaultCargo is the executable looked up on PATH when nothing overrides it.
	DefaultCargo = "cargo"
)

// featureMode selects how features are passed to cargo.
type featureMode int

const (
	featuresDefault featureMode = iota
	featuresAll
	featuresNoDefault
	featuresSome
)

// FeatureSelection is the set of features cargo should activate.
// Build one with [DefaultFeatures], [AllFeatures], [NoDefaultFeatures] or
// [SomeFeatures].
type FeatureSelection struct {
	mode  featureMode
	names []string
}

// DefaultFeatures activates the package's default features. It adds no flag.
func DefaultFeatures() FeatureSelection { return FeatureSelection{} }

// AllFeatures activates every feature of the selected packages.
func AllFeatures() FeatureSelection { return FeatureSelection{mode: featuresAll} }

// NoDefaultFeatures disables the default feature.
func NoDefaultFeatures() FeatureSelection { return FeatureSelection{mode: featuresNoDefault} }

// SomeFeatures activates the named features on top of the defaults.
// With no names it behaves like DefaultFeatures.
func SomeFeatures(names ...string) FeatureSelection {
	if len(names) == 0 {
		return DefaultFeatures()
	}
	return FeatureSelection{mode: featuresSome, names: append([]string(nil), names...)}
}

// Names returns the explicitly requested features, if any.
func (f FeatureSelection) Names() []string { return append([]string(nil), f.names...) }

// String describes the selection for logs.
func (f FeatureSelection) String() string {
	switch f.mode {
	case featuresAll:
		return "all"
	case featuresNoDefault:
		return "no-default"
	case featuresSome:
		return strings.Join(f.names, ",")
	default:
		return "default"
	}
}

func (f FeatureSelection) args() []string {
	switch f.mode {
	case featuresAll:
		return []string{"--all-features"}
	case featuresNoDefault:
		return []string{"--no-default-features"}
	case featuresSome:
		return []string{"--features", strings.Join(f.names, ",")}
	default:
		return nil
	}
}

// Command configures a `cargo metadata` invocation.
//
// Command is an immutable value: every setter returns an updated copy and
// leaves the receiver untouched, so a Command can be shared between
// goroutines and used as a template.
//
//	md, err := cargo.New().
//	    ManifestPath("crates/core/Cargo.toml").
//	    IncludeDeps(true).
//	    Features(cargo.AllFeatures()).
//	    Exec(ctx)
type Command struct {
	cargo        string
	manifestPath string
	deps         bool
	dir          string
	features     FeatureSelection
	other        []string
	getenv       func(string) string
	logger       *log.Logger
}

// New returns a Command that reports metadata for the package in the current
// directory without resolving dependencies.
func New() Command {
	return Command{}
}

// Cargo sets an explicit cargo executable, taking precedence over the CARGO
// environment variable.
func (c Command) Cargo(path string) Command {
	c.cargo = path
	return c
}

// ManifestPath sets the Cargo.toml to inspect. An empty path lets cargo
// discover the manifest from the working directory.
func (c Command) ManifestPath(path string) Command {
	c.manifestPath = path
	return c
}

// IncludeDeps controls dependency resolution. When false (the default)
// cargo is run with --no-deps and the result carries no resolve graph.
func (c Command) IncludeDeps(deps bool) Command {
	c.deps = deps
	return c
}

// NoDeps is shorthand for IncludeDeps(false).
func (c Command) NoDeps() Command { return c.IncludeDeps(false) }

// CurrentDir sets the working directory of the cargo process.
func (c Command) CurrentDir(dir string) Command {
	c.dir = dir
	return c
}

// Features sets the feature selection.
func (c Command) Features(f FeatureSelection) Command {
	c.features = f
	return c
}

// OtherOptions appends arguments passed verbatim after every other flag,
// e.g. "--offline" or "--locked".
func (c Command) OtherOptions(args ...string) Command {
	c.other = append(append([]string(nil), c.other...), args...)
	return c
}

// Env sets the lookup used to read CARGO. It defaults to os.Getenv.
func (c Command) Env(getenv func(string) string) Command {
	c.getenv = getenv
	return c
}

// Logger sets a logger for debug output about the invocation. Nothing is
// logged without one.
func (c Command) Logger(l *log.Logger) Command {
	c.logger = l
	return c
}

// Dir returns the configured working directory, empty for the caller's.
func (c Command) Dir() string { return c.dir }

// Executable resolves the cargo executable: the explicit override, then the
// CARGO environment variable, then DefaultCargo.
func (c Command) Executable() string {
	if c.cargo != "" {
		return c.cargo
	}
	getenv := c.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(CargoEnv); v != "" {
		return v
	}
	return DefaultCargo
}

// Args renders the argument vector passed to the executable.
func (c Command) Args() []string {
	args := []string{"metadata"}
	if !c.deps {
		args = append(args, "--no-deps")
	}
	args = append(args, "--format-version", strconv.Itoa(FormatVersion))
	if c.manifestPath != "" {
		args = append(args, "--manifest-path", c.manifestPath)
	}
	args = append(args, c.features.args()...)
	args = append(args, c.other...)
	return args
}
