package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"surveybuilder/internal/editor"
	"surveybuilder/internal/model"
)

// LoadDraft reads a survey draft from a YAML file and replays it into an editor.
func LoadDraft(path string) (*editor.Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s model.Survey
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	e, err := editor.FromSurvey(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// runEncode builds the handler for the encode command.
func runEncode(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		asJSON := flags.Bool("json", false, "Print the submitted survey as JSON")
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() != 1 {
			fmt.Fprintf(stderr, "expected one draft file, got %q\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		e, err := LoadDraft(flags.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "load draft: %v\n", err)
			return ExitError
		}

		if *asJSON {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(editor.Submission(e)); err != nil {
				fmt.Fprintf(stderr, "encode: %v\n", err)
				return ExitError
			}
			return ExitOK
		}
		fmt.Fprintln(stdout, editor.Encode(e).Encode())
		return ExitOK
	}
}

// runRender builds the handler for the render command.
func runRender(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		questionsOnly := flags.Bool("questions-only", false, "Render only the question container")
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() != 1 {
			fmt.Fprintf(stderr, "expected one draft file, got %q\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		e, err := LoadDraft(flags.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "load draft: %v\n", err)
			return ExitError
		}

		view := editor.BuildView(e, "", "")
		if *questionsOnly {
			err = editor.RenderQuestions(stdout, view)
		} else {
			err = editor.Render(stdout, view)
		}
		if err != nil {
			fmt.Fprintf(stderr, "render: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
