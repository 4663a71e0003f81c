// Package rewrite renders a scanned node sequence as host-engine macro
// source: import lines, a macro header, the body, and the macro footer.
package rewrite

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kilianc/csx/internal/csx/ast"
)

// File renders nodes as a macro definition named hostName. It is total: a
// sequence the scanner accepted always renders, and a missing {#def ... #}
// directive simply yields an empty parameter list.
func File(nodes []ast.Node, hostName string) string {
	var b strings.Builder
	writeImports(&b, nodes)
	writeHeader(&b, nodes, hostName)
	writeBody(&b, nodes)
	writeFooter(&b, hostName)
	return b.String()
}

// writeImports emits one import line per distinct referenced component, in
// first-occurrence order. The seen-set plus in-order walk keeps the output
// deterministic; an unordered set here reorders imports between runs.
func writeImports(b *strings.Builder, nodes []ast.Node) {
	seen := map[string]bool{}
	for _, n := range nodes {
		tag, ok := n.(ast.OpenTag)
		if !ok {
			continue
		}
		name := Normalize(tag.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintf(b, "{%%- import %q as %s_scope -%%}\n", name+".html", name)
	}
}

// writeHeader emits the macro opening with the parameter list of the first
// directive, if any. Later directives only get stripped from the body.
func writeHeader(b *strings.Builder, nodes []ast.Node, hostName string) {
	var args []string
	for _, n := range nodes {
		if def, ok := n.(ast.Def); ok {
			args = def.Args
			break
		}
	}
	fmt.Fprintf(b, "{%% macro %s(%s) %%}\n", hostName, strings.Join(args, ", "))
}

func writeBody(b *strings.Builder, nodes []ast.Node) {
	for _, n := range nodes {
		switch t := n.(type) {
		case ast.Text:
			b.WriteString(t.Value)
		case ast.OpenTag:
			name := Normalize(t.Name)
			fmt.Fprintf(b, "{%% call %s_scope::%s(%s) %%}", name, name, strings.Join(t.Args, ", "))
			if t.SelfClosing {
				b.WriteString("{% endcall %}")
			}
		case ast.CloseTag:
			b.WriteString("{% endcall %}")
		case ast.Def:
			// consumed by the header, never echoed
		}
	}
}

func writeFooter(b *strings.Builder, hostName string) {
	fmt.Fprintf(b, "{%% endmacro %s %%}\n", hostName)
}

// PathRef renders the fragment that imports the template at path and
// invokes its macro with no arguments, for pages that are themselves a
// single component reference.
func PathRef(path string) string {
	name := Stem(path)
	return fmt.Sprintf("{%%- import %q as %s_scope -%%}\n{%% call %s_scope::%s() %%}{%% endcall %%}\n",
		path, name, name, name)
}

// Normalize maps a component tag name to its macro identifier.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// Stem maps a file path to a macro identifier: the base name without its
// extension, lowercased, with "-" and "." replaced by "_". Tag names never
// contain those characters, so the replacement only matters for paths.
func Stem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToLower(base))
}
