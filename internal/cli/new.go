package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"surveybuilder/internal/model"
)

const defaultServer = "http://localhost:8080"

var httpClient = &http.Client{Timeout: 15 * time.Second}

// runNew builds the handler for the new command.
func runNew(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		server := flags.String("server", serverFromEnv(), "Editor server base URL (env SURVEY_SERVER)")
		noCopy := flags.Bool("no-copy", false, "Print the link without copying it")
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		resp, err := createEditor(ctx, *server)
		if err != nil {
			fmt.Fprintf(stderr, "create editor: %v\n", err)
			return ExitError
		}

		fmt.Fprintln(stdout, resp.EditorURL)
		if !*noCopy {
			fmt.Fprintln(stderr, stylize("Copying editor link to clipboard", hintColor))
			newClipboard(stderr).Copy(ctx, resp.EditorURL)
		}
		return ExitOK
	}
}

func serverFromEnv() string {
	if s := os.Getenv("SURVEY_SERVER"); s != "" {
		return s
	}
	return defaultServer
}

func createEditor(ctx context.Context, server string) (*model.CreateEditorResponse, error) {
	url := strings.TrimRight(server, "/") + "/v1/editors"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("server returned %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	var out model.CreateEditorResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
