package cli

import (
	"io"
	"os"
)

// nopCloser wraps a writer that must not be closed, such as stdout.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or returns stdout when path is empty or "-".
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

// writeOutput writes data to path as openOutput resolves it.
func writeOutput(path string, stdout io.Writer, data []byte) error {
	out, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// toFile reports whether path names a file rather than stdout.
func toFile(path string) bool {
	return path != "" && path != "-"
}
