package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// pageReport is what page analysis learned about a fetched page
type pageReport struct {
	status           int
	finalScheme      string
	title            string
	imagesMissingAlt int
	forms            []formInfo
	passwordInputs   int
}

type formInfo struct {
	action string
}

func (g *Generator) analyze(ctx context.Context, pageURL string) (*pageReport, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", "qadesk-generator/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	report := &pageReport{
		status:      resp.StatusCode,
		finalScheme: resp.Request.URL.Scheme,
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return report, nil
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, g.maxBodyBytes), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	inspect(doc, report)
	return report, nil
}

func inspect(n *html.Node, report *pageReport) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Title:
			if report.title == "" {
				report.title = strings.TrimSpace(textContent(n))
			}
		case atom.Img:
			if _, ok := attr(n, "alt"); !ok {
				report.imagesMissingAlt++
			}
		case atom.Form:
			action, _ := attr(n, "action")
			report.forms = append(report.forms, formInfo{action: action})
		case atom.Input:
			if t, _ := attr(n, "type"); strings.EqualFold(t, "password") {
				report.passwordInputs++
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inspect(c, report)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
