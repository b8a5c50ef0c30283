package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"surveybuilder/internal/clipboard"
)

// newClipboard builds the helper used by copy and new. Clipboard failures are
// logged to stderr at warn level and never change the exit code.
var newClipboard = func(stderr io.Writer) *clipboard.Helper {
	return clipboard.NewHelper(stderrLogger(stderr))
}

var stdin io.Reader = os.Stdin

// copyTimeout bounds a system clipboard write before falling back to OSC 52.
const copyTimeout = 5 * time.Second

func stderrLogger(w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.WarnLevel)
	return zap.New(core)
}

// runCopy builds the handler for the copy command.
func runCopy(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		text := strings.Join(flags.Args(), " ")
		if flags.NArg() == 0 {
			data, err := io.ReadAll(stdin)
			if err != nil {
				fmt.Fprintf(stderr, "read stdin: %v\n", err)
				return ExitError
			}
			text = strings.TrimRight(string(data), "\n")
		}
		if text == "" {
			fmt.Fprintln(stderr, "nothing to copy")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		ctx, cancel := context.WithTimeout(context.Background(), copyTimeout)
		defer cancel()
		fmt.Fprintln(stderr, stylize("Copying to clipboard", hintColor))
		newClipboard(stderr).Copy(ctx, text)
		return ExitOK
	}
}
