// Package logging builds the process logger.
//
// Output is JSON when the destination is not a terminal and key=value text
// otherwise. Verbosity comes from VMPROVISION_VERBOSITY.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"
)

// EnvVerbosity sets the logr verbosity threshold.
const EnvVerbosity = "VMPROVISION_VERBOSITY"

// Format selects the log line encoding.
type Format int

// Log formats.
const (
	FormatAuto Format = iota
	FormatText
	FormatJSON
)

// Options configures New.
type Options struct {
	Format    Format
	Verbosity int
	Name      string
}

// New returns a logger writing one line per entry to w.
func New(w io.Writer, opts Options) logr.Logger {
	funcOpts := funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		Verbosity:       opts.Verbosity,
	}

	var logger logr.Logger
	if resolveFormat(w, opts.Format) == FormatJSON {
		logger = funcr.NewJSON(func(obj string) {
			fmt.Fprintln(w, obj)
		}, funcOpts)
	} else {
		logger = funcr.New(func(prefix, args string) {
			if prefix != "" {
				fmt.Fprintf(w, "%s: %s\n", prefix, args)
				return
			}
			fmt.Fprintln(w, args)
		}, funcOpts)
	}

	if opts.Name != "" {
		logger = logger.WithName(opts.Name)
	}
	return logger
}

// FromEnv returns the stderr logger configured from the environment.
func FromEnv(name string) logr.Logger {
	return New(os.Stderr, Options{
		Format:    FormatAuto,
		Verbosity: verbosityFromEnv(),
		Name:      name,
	})
}

func resolveFormat(w io.Writer, format Format) Format {
	if format != FormatAuto {
		return format
	}
	if isTerminal(w) {
		return FormatText
	}
	return FormatJSON
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func verbosityFromEnv() int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvVerbosity)))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
