package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"text/tabwriter"

	"github.com/qadesk/qadesk/internal/model"
	"github.com/qadesk/qadesk/internal/validators"
)

// WebsitesCommand lists the caller's websites, following every page
func WebsitesCommand(env *Env, args []string) error {
	if len(args) > 0 {
		return errors.New("usage: qactl websites")
	}

	client, err := env.client()
	if err != nil {
		return err
	}

	ctx := context.Background()
	var websites []*model.Website
	cursor := ""
	for {
		var page struct {
			Websites []*model.Website `json:"websites"`
			Metadata *struct {
				NextCursor string `json:"next_cursor"`
			} `json:"metadata"`
		}

		path := "/v0/websites?limit=100"
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}
		if err := client.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return fmt.Errorf("failed to list websites: %w", err)
		}

		websites = append(websites, page.Websites...)
		if page.Metadata == nil || page.Metadata.NextCursor == "" {
			break
		}
		cursor = page.Metadata.NextCursor
	}

	if len(websites) == 0 {
		_, _ = fmt.Fprintln(env.Stdout, "No websites yet. Run 'qactl generate <url> <title>' to add one.")
		return nil
	}

	current, _, _ := env.selector().Current("")

	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "\tID\tTITLE\tURL\tTESTS\tBUGS\tCORNER CASES")
	for _, w := range websites {
		marker := ""
		if w.ID == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			marker, w.ID, w.Title, w.URL, len(w.TestCases), len(w.Bugs), len(w.CornerCases))
	}
	return tw.Flush()
}

// GenerateCommand creates a website with generated test data and selects it
func GenerateCommand(env *Env, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: qactl generate <url> <title>")
	}

	// Fail fast on URLs the server would reject
	if res := validators.ValidateAndNormalizeURL(args[0]); !res.IsValid {
		return fmt.Errorf("invalid URL: %s", res.Error)
	}

	client, err := env.client()
	if err != nil {
		return err
	}

	var website model.Website
	input := model.GenerateInput{URL: args[0], Title: args[1]}
	if err := client.do(context.Background(), http.MethodPost, "/v0/websites/generate", input, &website); err != nil {
		return fmt.Errorf("failed to generate test data: %w", err)
	}

	if err := env.selector().Select(website.ID); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.Stdout, "✓ Created website %s (%s)\n", website.ID, website.URL)
	_, _ = fmt.Fprintf(env.Stdout, "  %d test cases, %d bugs, %d corner cases\n",
		len(website.TestCases), len(website.Bugs), len(website.CornerCases))
	_, _ = fmt.Fprintln(env.Stdout, "  Selected as the current website")
	return nil
}

// ShowCommand prints the selected website, or the one named by --website
func ShowCommand(env *Env, args []string) error {
	showFlags := flag.NewFlagSet("show", flag.ContinueOnError)
	showFlags.SetOutput(env.Stderr)
	override := showFlags.String("website", "", "Website ID (defaults to the current selection)")
	if err := showFlags.Parse(args); err != nil {
		return err
	}

	id, ok, err := env.selector().Current(*override)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no website selected. Run 'qactl use <website-id>' or pass --website")
	}

	client, err := env.client()
	if err != nil {
		return err
	}

	var website model.Website
	if err := client.do(context.Background(), http.MethodGet, "/v0/websites/"+url.PathEscape(id), nil, &website); err != nil {
		return fmt.Errorf("failed to get website: %w", err)
	}

	printWebsite(env, &website)
	return nil
}

func printWebsite(env *Env, w *model.Website) {
	out := env.Stdout
	_, _ = fmt.Fprintf(out, "%s\n%s\n", w.Title, w.URL)
	_, _ = fmt.Fprintf(out, "ID: %s\n", w.ID)

	_, _ = fmt.Fprintf(out, "\nTest cases (%d)\n", len(w.TestCases))
	for _, tc := range w.TestCases {
		_, _ = fmt.Fprintf(out, "  - %s\n", tc.Description)
		if tc.Steps != "" {
			_, _ = fmt.Fprintf(out, "    Steps: %s\n", tc.Steps)
		}
	}

	_, _ = fmt.Fprintf(out, "\nBugs (%d)\n", len(w.Bugs))
	for _, b := range w.Bugs {
		_, _ = fmt.Fprintf(out, "  - [%s] %s\n", b.Severity, b.Description)
	}

	_, _ = fmt.Fprintf(out, "\nCorner cases (%d)\n", len(w.CornerCases))
	for _, cc := range w.CornerCases {
		_, _ = fmt.Fprintf(out, "  - %s\n", cc.Description)
		if cc.Scenario != "" {
			_, _ = fmt.Fprintf(out, "    Scenario: %s\n", cc.Scenario)
		}
	}
}
