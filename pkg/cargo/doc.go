// Package cargo provides structured access to the output of `cargo metadata`.
//
// # Overview
//
// The package runs `cargo metadata --format-version 1`, buffers its output and
// decodes it into a [Metadata] value: the workspace's packages, their targets
// and declared dependencies, and optionally the resolved dependency graph.
//
// # Running cargo
//
// Use the plain entry points for the common cases:
//
//	md, _ := cargo.Load(ctx, "Cargo.toml")           // --no-deps
//	md, _ := cargo.LoadDeps(ctx, "Cargo.toml", true) // with resolve graph
//
// or configure a [Command] for the rest:
//
//	md, err := cargo.New().
//	    CurrentDir("/src/project").
//	    IncludeDeps(true).
//	    Features(cargo.SomeFeatures("serde", "tokio")).
//	    Exec(ctx)
//
// The executable is the one set with [Command.Cargo], else $CARGO, else
// "cargo" from PATH.
//
// # Errors
//
// Exec returns errors from [github.com/matzehuels/cargometa/pkg/errors]. When
// cargo itself fails, the error has code TOOL_REPORTED and its message is
// cargo's stderr, trimmed:
//
//	if errors.Is(err, errors.ErrCodeToolReported) {
//	    fmt.Println(errors.UserMessage(err))
//	    // error: manifest path `foo/Cargo.toml` does not exist
//	}
//
// # Decoding
//
// [Parse] can be used on saved output. Unknown fields are ignored, so reports
// from newer cargo releases decode as long as the declared fields are intact.
package cargo
