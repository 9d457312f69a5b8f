package browser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// mainContentSelectors is the prioritized list of content-container
// selectors tried by the read action before falling back to the body.
var mainContentSelectors = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	"#main",
	".main-content",
	".content",
}

var (
	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
	spaceRunRegex   = regexp.MustCompile(`[ \t]{2,}`)
)

// ExtractMainText returns the visible text of the first matching main
// content region in the document, falling back to the whole body when no
// container selector matches.
func ExtractMainText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Script and style text would otherwise leak into the extraction.
	doc.Find("script, style, noscript").Remove()

	for _, selector := range mainContentSelectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return normalizeText(sel.First().Text()), nil
		}
	}

	return normalizeText(doc.Find("body").Text()), nil
}

// normalizeText collapses runs of spaces and blank lines left behind by
// block-level markup.
func normalizeText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRegex.ReplaceAllString(line, " "))
	}
	joined := strings.Join(lines, "\n")
	joined = blankLinesRegex.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}

// CleanedHTML represents cleaned HTML content with metadata.
type CleanedHTML struct {
	HTML      string
	Title     string
	Truncated bool
}

// skippedElements are removed entirely during cleaning.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"canvas":   true,
	"template": true,
}

// CleanHTML strips scripts, styles, and other noise from raw markup while
// preserving semantic structure, truncating the output at maxLength
// characters. Used by the read tool's html format.
func CleanHTML(rawHTML string, maxLength int) (*CleanedHTML, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &CleanedHTML{Title: findTitle(doc)}

	var builder strings.Builder
	var length int
	result.Truncated = cleanNode(doc, &builder, &length, maxLength)
	result.HTML = strings.TrimSpace(builder.String())
	return result, nil
}

// cleanNode walks the parse tree, emitting kept elements and text. Returns
// true once the length budget is exhausted.
func cleanNode(n *html.Node, builder *strings.Builder, length *int, maxLength int) bool {
	if *length >= maxLength {
		return true
	}

	switch n.Type {
	case html.CommentNode:
		return false

	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return false
		}
		if *length+len(text) > maxLength {
			builder.WriteString(text[:maxLength-*length])
			*length = maxLength
			return true
		}
		builder.WriteString(text)
		builder.WriteString(" ")
		*length += len(text) + 1
		return false

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skippedElements[tag] {
			return false
		}

		builder.WriteString("<" + tag)
		for _, attr := range n.Attr {
			if keptAttribute(attr.Key) {
				fmt.Fprintf(builder, " %s=%q", attr.Key, attr.Val)
			}
		}
		builder.WriteString(">")

		truncated := false
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if cleanNode(child, builder, length, maxLength) {
				truncated = true
				break
			}
		}

		builder.WriteString("</" + tag + ">")
		return truncated
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if cleanNode(child, builder, length, maxLength) {
			return true
		}
	}
	return false
}

// keptAttribute reports whether an attribute survives cleaning.
func keptAttribute(key string) bool {
	switch key {
	case "id", "class", "href", "src", "alt", "title", "name", "type",
		"value", "placeholder", "role", "aria-label":
		return true
	}
	return strings.HasPrefix(key, "data-")
}

// findTitle extracts the document title, if any.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if title := findTitle(child); title != "" {
			return title
		}
	}
	return ""
}
