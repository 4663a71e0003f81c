// Package translate turns one template file into host-engine macro source.
package translate

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/kilianc/csx/internal/csx/rewrite"
	"github.com/kilianc/csx/internal/csx/scan"
)

// Raw HTML must survive the conversion: component tags are raw HTML to
// goldmark, and the default renderer would replace them with an
// "<!-- raw HTML omitted -->" comment.
var markdown = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))

// File translates src into macro source for a macro named after the file
// stem of path. Markdown sources are converted to HTML first and then
// translated like any other template, so components and directives inside
// them keep working.
func File(path string, src []byte) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".md") {
		var buf bytes.Buffer
		if err := markdown.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		src = buf.Bytes()
	}
	nodes, err := scan.Scan(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []byte(rewrite.File(nodes, rewrite.Stem(path))), nil
}

// FileOrOriginal is the best-effort variant: when src does not scan as
// component syntax it is returned unchanged, so plain host-engine
// templates are never broken by the translator. A genuinely malformed
// component tag therefore fails open; callers that want the error use
// File.
func FileOrOriginal(path string, src []byte) []byte {
	out, err := File(path, src)
	if err != nil {
		return src
	}
	return out
}

// OutName is the file name a translated template is written under. The
// normalized stem plus ".html" is what the generated import lines in
// referencing templates resolve to.
func OutName(path string) string {
	return rewrite.Stem(path) + ".html"
}
