package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargometa/pkg/buildinfo"
	"github.com/matzehuels/cargometa/pkg/cargo"
	"github.com/matzehuels/cargometa/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cargometa"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// status receives the spinner shown while cargo runs.
	status io.Writer
	flags  globalFlags
	config *Config
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	manifestPath      string
	dir               string
	cargo             string
	features          []string
	allFeatures       bool
	noDefaultFeatures bool
	configPath        string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cargometa inspects Rust workspaces through cargo metadata",
		Long:         `cargometa runs "cargo metadata", validates its output and presents packages, targets, dependencies and the resolved dependency graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.manifestPath, "manifest-path", "", "path to Cargo.toml")
	pf.StringVarP(&c.flags.dir, "dir", "C", "", "directory to run cargo in")
	pf.StringVar(&c.flags.cargo, "cargo", "", "cargo executable (default: $CARGO, then cargo on PATH)")
	pf.StringSliceVarP(&c.flags.features, "features", "F", nil, "features to activate (comma separated)")
	pf.BoolVar(&c.flags.allFeatures, "all-features", false, "activate all available features")
	pf.BoolVar(&c.flags.noDefaultFeatures, "no-default-features", false, "do not activate the default feature")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default: ./"+configFileName+" or the user config dir)")
	root.MarkFlagsMutuallyExclusive("all-features", "no-default-features")
	root.MarkFlagsMutuallyExclusive("all-features", "features")

	// Register all subcommands
	root.AddCommand(c.metadataCommand())
	root.AddCommand(c.targetsCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Metadata Loading
// =============================================================================

// command builds the cargo invocation from the merged config and flags.
func (c *CLI) command() (cargo.Command, error) {
	cfg := c.config
	if cfg == nil {
		cfg = &Config{}
	}

	cmd := cargo.New().Logger(c.Logger)

	if cfg.Cargo != "" {
		if err := errors.ValidatePath(cfg.Cargo); err != nil {
			return cmd, err
		}
		cmd = cmd.Cargo(cfg.Cargo)
	}
	if cfg.ManifestPath != "" {
		if err := errors.ValidatePath(cfg.ManifestPath); err != nil {
			return cmd, err
		}
		cmd = cmd.ManifestPath(cfg.ManifestPath)
	}
	if cfg.Dir != "" {
		if err := errors.ValidatePath(cfg.Dir); err != nil {
			return cmd, err
		}
		cmd = cmd.CurrentDir(cfg.Dir)
	}

	sel, err := cfg.featureSelection()
	if err != nil {
		return cmd, err
	}
	cmd = cmd.Features(sel)

	if len(cfg.CargoArgs) > 0 {
		cmd = cmd.OtherOptions(cfg.CargoArgs...)
	}
	return cmd, nil
}

// loadMetadata runs cargo metadata, showing the invocation in a spinner while
// it runs.
func (c *CLI) loadMetadata(ctx context.Context, deps bool) (*cargo.Metadata, error) {
	cmd, err := c.command()
	if err != nil {
		return nil, err
	}
	cmd = cmd.IncludeDeps(deps)

	prog := newProgress(loggerFromContext(ctx))
	s := newSpinner(ctx, c.status, invocationMessage(cmd))
	s.Start()
	md, err := cmd.Exec(ctx)
	s.Stop()
	if err != nil {
		return nil, err
	}
	prog.done("loaded metadata", "packages", len(md.Packages), "members", len(md.WorkspaceMembers))
	return md, nil
}
