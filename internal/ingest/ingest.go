// Package ingest reads job postings and CVs from files or stdin, turning
// saved HTML pages into plain text the engine can score.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Stdin is the path that makes ReadText read standard input.
const Stdin = "-"

const noiseSelector = "nav, footer, header, script, style, noscript, form, .cookie-banner, .sidebar"

const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, div, section, article, tr, dt, dd, pre, blockquote"

var htmlMarkers = [][]byte{[]byte("<!doctype html"), []byte("<html"), []byte("<body")}

// ReadText returns the text stored at path. HTML files are detected by
// extension or content and reduced to their visible text.
func ReadText(path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == Stdin {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}

	if isHTML(path, raw) {
		text, err := ExtractHTMLText(bytes.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("extracting text from %q: %w", path, err)
		}
		return text, nil
	}
	return strings.TrimSpace(string(raw)), nil
}

func isHTML(path string, raw []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.ToLower(bytes.TrimSpace(head))
	for _, marker := range htmlMarkers {
		if bytes.Contains(head, marker) {
			return true
		}
	}
	return false
}

// ExtractHTMLText parses an HTML document and returns the body text with
// one line per block element. Line structure matters: the first line of a
// posting carries the role title.
func ExtractHTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).AfterHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return cleanLines(body.Text()), nil
}

// cleanLines collapses whitespace inside each line and drops empty lines.
func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
