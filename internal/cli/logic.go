package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirinfo/internal/config"
	"github.com/idelchi/dirinfo/internal/dirinfo"
	"github.com/idelchi/dirinfo/internal/prompt"
)

// newLogger returns the stderr logger, at debug level if requested.
func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "dirinfo",
		ReportTimestamp: debug,
	})

	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// resolvePath returns the directory to analyze: the positional argument if
// given, otherwise the first answer to the prompt that names a directory.
// The prompt text is only echoed when the input is interactive.
func resolvePath(in io.Reader, out io.Writer, args []string) (string, error) {
	if len(args) > 0 {
		if !prompt.IsDir(args[0]) {
			return "", fmt.Errorf("path %q: %w", args[0], dirinfo.ErrNotDirectory)
		}

		return args[0], nil
	}

	echo := io.Discard
	if isTerminal(in) {
		echo = out
	}

	path, err := prompt.Until(in, echo, PromptText, prompt.IsDir)
	if err != nil {
		return "", fmt.Errorf("reading directory path: %w", err)
	}

	return path, nil
}

func logic(cmd *cobra.Command, cfg *config.Config, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), cfg.Debug)

	path, err := resolvePath(cmd.InOrStdin(), cmd.OutOrStdout(), args)
	if err != nil {
		return err
	}

	logger.Debug("analyzing", "path", path, "output", cfg.Output)

	res, err := dirinfo.Run(cmd.Context(), dirinfo.Options{Path: path, Logger: logger})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch cfg.Output {
	case "json":
		return PrintJSON(res, out)
	case "table":
		return PrintTable(res, out)
	case "text":
		return PrintText(res, out)
	default:
		return fmt.Errorf("unknown output format: %s", cfg.Output)
	}
}
