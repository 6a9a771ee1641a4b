// Package renderer turns engine results into markdown reports.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Options are common to all reports.
type Options struct {
	// Assets restricts the report to these assets, all if empty.
	Assets []string
}

// md renders GitHub flavored markdown, tables included.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts a markdown report to an HTML fragment.
func HTML(markdown string) (string, error) {
	var b bytes.Buffer
	if err := md.Convert([]byte(markdown), &b); err != nil {
		return "", fmt.Errorf("cannot convert report to html: %w", err)
	}
	return b.String(), nil
}
