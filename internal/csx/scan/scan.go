// Package scan converts component template source into its node sequence.
//
// A marker starts at "<" followed by an ASCII uppercase letter (open tag),
// "</" followed by an ASCII uppercase letter (close tag), or "{#def"
// (parameter directive). Everything between markers is literal text, so
// lowercase markup, lone "<" and "/>" runs and the host engine's own
// syntax pass through untouched. A marker start that does not complete its
// grammar fails the whole scan; there is no partial output.
package scan

import (
	"fmt"
	"strings"

	"github.com/kilianc/csx/internal/csx/ast"
)

const (
	defOpen  = "{#def"
	defClose = "#}"
)

// Error is a scan failure, carrying the byte offset of the offending
// marker start.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// Scan scans src to the end and returns its nodes in document order.
// Unmatched or mismatched close tags are accepted; the host engine is the
// one that reports unbalanced calls.
func Scan(src string) ([]ast.Node, error) {
	var nodes []ast.Node
	i := 0
	for i < len(src) {
		var (
			n    ast.Node
			next int
			err  error
		)
		switch {
		case strings.HasPrefix(src[i:], defOpen):
			n, next, err = scanDef(src, i)
		case isCloseStart(src, i):
			n, next, err = scanCloseTag(src, i)
		case isOpenStart(src, i):
			n, next, err = scanOpenTag(src, i)
		default:
			n, next = scanText(src, i)
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
		i = next
	}
	return nodes, nil
}

// isMarkerStart reports whether one of the three marker grammars begins
// at offset i.
func isMarkerStart(src string, i int) bool {
	return strings.HasPrefix(src[i:], defOpen) || isOpenStart(src, i) || isCloseStart(src, i)
}

func isOpenStart(src string, i int) bool {
	return i+1 < len(src) && src[i] == '<' && isUpper(src[i+1])
}

func isCloseStart(src string, i int) bool {
	return i+2 < len(src) && src[i] == '<' && src[i+1] == '/' && isUpper(src[i+2])
}

// scanText consumes the longest run of src starting at i that contains no
// marker start. The caller guarantees no marker starts at i, so the run is
// never empty.
func scanText(src string, i int) (ast.Node, int) {
	j := i + 1
	for j < len(src) && !isMarkerStart(src, j) {
		j++
	}
	return ast.Text{Value: src[i:j]}, j
}

// scanOpenTag consumes `<Name ...>` starting at the "<" at offset i. The
// argument run extends to the closing ">"; hitting end of input or another
// marker start first is a failure.
func scanOpenTag(src string, i int) (ast.Node, int, error) {
	name := scanIdent(src, i+1)
	j := i + 1 + len(name)
	for j < len(src) && src[j] != '>' {
		if isMarkerStart(src, j) {
			return nil, 0, &Error{Offset: i, Msg: fmt.Sprintf("unterminated tag <%s", name)}
		}
		j++
	}
	if j >= len(src) {
		return nil, 0, &Error{Offset: i, Msg: fmt.Sprintf("unterminated tag <%s", name)}
	}

	args, selfClosing := splitArgs(src[i+1+len(name) : j])
	return ast.OpenTag{Name: name, Args: args, SelfClosing: selfClosing}, j + 1, nil
}

// scanCloseTag consumes `</Name>` starting at the "<" at offset i. Close
// tags take no arguments: the ">" must follow the name immediately.
func scanCloseTag(src string, i int) (ast.Node, int, error) {
	name := scanIdent(src, i+2)
	j := i + 2 + len(name)
	if j >= len(src) {
		return nil, 0, &Error{Offset: i, Msg: fmt.Sprintf("unterminated close tag </%s", name)}
	}
	if src[j] != '>' {
		return nil, 0, &Error{Offset: i, Msg: fmt.Sprintf("malformed close tag </%s", name)}
	}
	return ast.CloseTag{Name: name}, j + 1, nil
}

// scanDef consumes `{#def arg1 arg2 #}` starting at the "{" at offset i.
// The parameter run is one or more alphabetic identifiers, space-padded on
// both sides.
func scanDef(src string, i int) (ast.Node, int, error) {
	rest := src[i+len(defOpen):]
	end := strings.Index(rest, defClose)
	if end < 0 {
		return nil, 0, &Error{Offset: i, Msg: "unterminated {#def directive"}
	}
	raw := rest[:end]

	if len(raw) == 0 || !isSpace(raw[0]) || !isSpace(raw[len(raw)-1]) {
		return nil, 0, &Error{Offset: i, Msg: "malformed {#def directive"}
	}
	args := strings.Fields(raw)
	if len(args) == 0 {
		return nil, 0, &Error{Offset: i, Msg: "malformed {#def directive"}
	}
	for _, arg := range args {
		if !isAlpha(arg) {
			return nil, 0, &Error{Offset: i, Msg: fmt.Sprintf("malformed {#def parameter %q", arg)}
		}
	}
	return ast.Def{Args: args}, i + len(defOpen) + end + len(defClose), nil
}

// scanIdent returns the ASCII-alphabetic run starting at i.
func scanIdent(src string, i int) string {
	j := i
	for j < len(src) && isLetter(src[j]) {
		j++
	}
	return src[i:j]
}

// splitArgs splits a tag's argument run on whitespace. Any token ending
// in "/" marks the tag self-closing and is dropped, every one of them,
// so stray "/"-suffixed tokens cannot leak into the argument list.
func splitArgs(raw string) (args []string, selfClosing bool) {
	for _, tok := range strings.Fields(raw) {
		if strings.HasSuffix(tok, "/") {
			selfClosing = true
			continue
		}
		args = append(args, tok)
	}
	return args, selfClosing
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}
