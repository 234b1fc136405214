// Package generator derives starter test cases, potential bugs and corner
// cases for a website from its URL and, optionally, from the page itself.
package generator

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/qadesk/qadesk/internal/model"
)

const (
	defaultFetchTimeout = 5 * time.Second
	defaultMaxBodyBytes = 1 << 20
)

// Seed is the generated starting data for a website
type Seed struct {
	TestCases   []model.TestCase
	Bugs        []model.Bug
	CornerCases []model.CornerCase
}

// Options configures a Generator. Zero values pick sensible defaults.
type Options struct {
	// FetchPages enables downloading the page and inspecting its HTML
	FetchPages   bool
	FetchTimeout time.Duration
	MaxBodyBytes int64
	// AllowPrivateHosts lets page analysis reach loopback, private and
	// link-local addresses. Ignored when Client is set.
	AllowPrivateHosts bool
	Client            *http.Client
}

// Generator builds Seeds
type Generator struct {
	fetch        bool
	timeout      time.Duration
	maxBodyBytes int64
	client       *http.Client
}

// New creates a generator
func New(opts Options) *Generator {
	g := &Generator{
		fetch:        opts.FetchPages,
		timeout:      opts.FetchTimeout,
		maxBodyBytes: opts.MaxBodyBytes,
		client:       opts.Client,
	}
	if g.timeout <= 0 {
		g.timeout = defaultFetchTimeout
	}
	if g.maxBodyBytes <= 0 {
		g.maxBodyBytes = defaultMaxBodyBytes
	}
	if g.client == nil {
		g.client = newFetchClient(opts.AllowPrivateHosts)
	}
	return g
}

// Generate returns seed data for normalizedURL, which must already have
// passed URL validation. It never fails: when the page cannot be fetched the
// URL-derived templates are returned alone.
func (g *Generator) Generate(ctx context.Context, normalizedURL, title string) Seed {
	u, err := url.Parse(normalizedURL)
	if err != nil {
		// Unreachable for validated input; fall back to the generic set
		u = &url.URL{Scheme: "https", Host: normalizedURL, Path: "/"}
	}

	b := &builder{}
	var page *pageReport
	if g.fetch {
		page, err = g.analyze(ctx, normalizedURL)
		if err != nil {
			log.Printf("Page analysis of %s failed, using templates only: %v", normalizedURL, err)
			page = nil
		}
	}

	addBaseline(b, normalizedURL, title)
	addURLFindings(b, u, page)
	if page != nil {
		addPageFindings(b, normalizedURL, title, page)
	}

	return b.seed
}

type builder struct {
	seed Seed
}

func (b *builder) testCase(description string, steps ...string) {
	b.seed.TestCases = append(b.seed.TestCases, model.TestCase{
		ID:          model.NewID(),
		Description: description,
		Steps:       numbered(steps),
	})
}

func (b *builder) bug(severity model.Severity, description string) {
	b.seed.Bugs = append(b.seed.Bugs, model.Bug{
		ID:          model.NewID(),
		Description: description,
		Severity:    severity,
	})
}

func (b *builder) cornerCase(description, scenario string) {
	b.seed.CornerCases = append(b.seed.CornerCases, model.CornerCase{
		ID:          model.NewID(),
		Description: description,
		Scenario:    scenario,
	})
}

func numbered(steps []string) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

func addBaseline(b *builder, pageURL, title string) {
	b.testCase("Page loads successfully",
		"Open "+pageURL,
		"Wait for the page to finish loading",
		"Verify no error page or browser console errors are shown",
	)
	b.testCase(fmt.Sprintf("Page identifies itself as %q", title),
		"Open "+pageURL,
		fmt.Sprintf("Verify the page heading or browser tab refers to %q", title),
	)
	b.testCase("Navigation links lead to working pages",
		"Open "+pageURL,
		"Follow each link in the main navigation",
		"Verify every destination loads without a 404 or 500 error",
	)
	b.testCase("Layout adapts to a mobile viewport",
		"Open "+pageURL+" with a 375px wide viewport",
		"Verify content does not overflow horizontally",
		"Verify menus and buttons remain usable by touch",
	)
	b.testCase("Browser back and forward keep the page state",
		"Open "+pageURL,
		"Navigate to another page and press Back",
		"Press Forward and verify both pages render correctly",
	)

	b.bug(model.SeverityLow, "Browser console may report errors or warnings on page load")
	b.bug(model.SeverityMedium, "Content may overflow or overlap on narrow screens")

	b.cornerCase("Slow network connection",
		"Throttle the connection to a slow 3G profile and verify the page shows loading feedback and remains usable")
	b.cornerCase("JavaScript disabled",
		"Disable JavaScript and verify essential content is still reachable or a clear notice is shown")
	b.cornerCase("Very long user input",
		"Enter several thousand characters into any text field and verify the page neither breaks nor truncates silently")
	b.cornerCase("Session expires mid-flow",
		"Leave the page idle until any session expires, then continue the interaction and verify the user is guided to recover")
}

func addURLFindings(b *builder, u *url.URL, page *pageReport) {
	host := u.Hostname()
	isLocal := host == "localhost"

	switch {
	case isLocal:
		b.cornerCase("Local server is not running",
			fmt.Sprintf("Stop the server behind %s and verify the failure is obvious rather than a blank page", u.Host))
	case u.Scheme == "http":
		if page != nil && page.finalScheme == "https" {
			b.testCase("Plain HTTP requests are redirected to HTTPS",
				"Open "+u.String(),
				"Verify the browser ends up on the https:// address",
			)
		} else {
			b.bug(model.SeverityHigh, "Site is served over plain HTTP without TLS")
		}
	default:
		b.testCase("TLS certificate is valid",
			"Open "+u.String(),
			"Verify the browser shows no certificate warning",
			"Verify the certificate covers "+host,
		)
	}

	if u.Port() != "" && !isLocal {
		b.cornerCase("Non-standard port",
			fmt.Sprintf("Open the site through a network that blocks port %s and verify users get a clear error", u.Port()))
	}

	if u.Path != "" && u.Path != "/" {
		b.testCase("Deep link loads directly",
			"Open a fresh browser session",
			"Navigate straight to "+u.String(),
			"Verify the page renders without first visiting the home page",
		)
		alt := u.Path + "/"
		if strings.HasSuffix(u.Path, "/") {
			alt = strings.TrimSuffix(u.Path, "/")
		}
		b.cornerCase("Trailing slash variant",
			fmt.Sprintf("Open %s instead of %s and verify both resolve to the same content", alt, u.Path))
	}

	if params := u.Query(); len(params) > 0 {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
		b.cornerCase("Missing or malformed query parameters",
			fmt.Sprintf("Remove, empty or corrupt the parameters %s one at a time and verify the page handles each case", strings.Join(names, ", ")))
	}
}

func addPageFindings(b *builder, pageURL, title string, page *pageReport) {
	if page.status >= http.StatusBadRequest {
		b.bug(model.SeverityCritical, fmt.Sprintf("Page responded with HTTP status %d", page.status))
	}

	if strings.TrimSpace(page.title) == "" {
		b.bug(model.SeverityMedium, "Page has no <title>, so tabs and bookmarks show the bare URL")
	} else if !strings.EqualFold(strings.TrimSpace(page.title), strings.TrimSpace(title)) {
		b.cornerCase("Document title differs from the site name",
			fmt.Sprintf("The page title is %q; verify search results and bookmarks still identify %q", page.title, title))
	}

	if page.imagesMissingAlt > 0 {
		b.bug(model.SeverityLow, fmt.Sprintf("%d image(s) have no alt text for screen readers", page.imagesMissingAlt))
	}

	for i, form := range page.forms {
		name := fmt.Sprintf("Form %d", i+1)
		if form.action != "" {
			name = fmt.Sprintf("Form %d (%s)", i+1, form.action)
		}
		b.testCase(name+" submits valid data",
			"Open "+pageURL,
			"Fill every field of "+strings.ToLower(name[:1])+name[1:]+" with valid values",
			"Submit and verify a success message or the expected next page",
		)
		b.cornerCase(name+" submitted empty",
			"Submit the form without filling any field and verify each required field reports an error")
	}

	if page.passwordInputs > 0 {
		b.testCase("Login with valid credentials",
			"Open "+pageURL,
			"Enter a known username and password",
			"Submit and verify the user is signed in",
		)
		b.testCase("Login with a wrong password is rejected",
			"Open "+pageURL,
			"Enter a known username and an incorrect password",
			"Verify an error is shown and no session is created",
		)
		b.cornerCase("Repeated failed logins",
			"Submit a wrong password ten times in a row and verify the account or client is throttled")
		if page.finalScheme == "http" {
			b.bug(model.SeverityCritical, "Password field is submitted over plain HTTP")
		}
	}
}
