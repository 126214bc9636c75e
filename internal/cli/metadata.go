package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargometa/pkg/errors"
)

// metadataCommand creates the metadata command, which prints the decoded
// report as JSON.
func (c *CLI) metadataCommand() *cobra.Command {
	var (
		deps   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Print the decoded cargo metadata as JSON",
		Long: `Print the decoded cargo metadata as JSON.

The report is validated and re-encoded, so the output only holds the fields
cargometa understands. Without --deps cargo is run with --no-deps and the
"resolve" field is null.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMetadata(cmd.Context(), cmd.OutOrStdout(), deps, output)
		},
	}

	cmd.Flags().BoolVar(&deps, "deps", false, "resolve dependencies")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runMetadata(ctx context.Context, stdout io.Writer, deps bool, output string) error {
	md, err := c.loadMetadata(ctx, deps)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode metadata")
	}
	data = append(data, '\n')

	if err := writeOutput(output, stdout, data); err != nil {
		return err
	}
	if toFile(output) {
		loggerFromContext(ctx).Infof("Generated %s", output)
	}
	return nil
}
