package scan

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kilianc/csx/internal/csx/ast"
)

var scanTests = []struct {
	src   string
	nodes []ast.Node
}{
	{"", nil},
	{"Test", []ast.Node{ast.Text{Value: "Test"}}},
	{"<Hello />", []ast.Node{ast.OpenTag{Name: "Hello", SelfClosing: true}}},
	{"<Hello/>", []ast.Node{ast.OpenTag{Name: "Hello", SelfClosing: true}}},
	{"<Hello>", []ast.Node{ast.OpenTag{Name: "Hello"}}},
	{
		"<Hello />\nTest",
		[]ast.Node{
			ast.OpenTag{Name: "Hello", SelfClosing: true},
			ast.Text{Value: "\nTest"},
		},
	},
	{
		"Test\n<Hello />",
		[]ast.Node{
			ast.Text{Value: "Test\n"},
			ast.OpenTag{Name: "Hello", SelfClosing: true},
		},
	},
	{
		`<Hello name rest="rest" />`,
		[]ast.Node{
			ast.OpenTag{Name: "Hello", Args: []string{"name", `rest="rest"`}, SelfClosing: true},
		},
	},
	{"</Hello>", []ast.Node{ast.CloseTag{Name: "Hello"}}},
	{
		"</Hello>\nTest",
		[]ast.Node{ast.CloseTag{Name: "Hello"}, ast.Text{Value: "\nTest"}},
	},
	{
		"Test\n</Hello>",
		[]ast.Node{ast.Text{Value: "Test\n"}, ast.CloseTag{Name: "Hello"}},
	},
	{
		"<Greeting><b>hi</b></Greeting>",
		[]ast.Node{
			ast.OpenTag{Name: "Greeting"},
			ast.Text{Value: "<b>hi</b>"},
			ast.CloseTag{Name: "Greeting"},
		},
	},
	// No open/close matching: mismatched close tags are accepted.
	{
		"<A></B>",
		[]ast.Node{ast.OpenTag{Name: "A"}, ast.CloseTag{Name: "B"}},
	},
	{"{#def name #}", []ast.Node{ast.Def{Args: []string{"name"}}}},
	{"{#def name title #}", []ast.Node{ast.Def{Args: []string{"name", "title"}}}},
	{
		"{#def name #}\n<Hello name />\n",
		[]ast.Node{
			ast.Def{Args: []string{"name"}},
			ast.Text{Value: "\n"},
			ast.OpenTag{Name: "Hello", Args: []string{"name"}, SelfClosing: true},
			ast.Text{Value: "\n"},
		},
	},
	// A stray "/"-suffixed token anywhere marks the tag self-closing and
	// never reaches the argument list.
	{
		"<Hello a/ b>",
		[]ast.Node{ast.OpenTag{Name: "Hello", Args: []string{"b"}, SelfClosing: true}},
	},
	// None of these satisfy the uppercase-identifier marker grammar, so
	// they are plain text.
	{"<", []ast.Node{ast.Text{Value: "<"}}},
	{"<i", []ast.Node{ast.Text{Value: "<i"}}},
	{"<i>", []ast.Node{ast.Text{Value: "<i>"}}},
	{"<i />", []ast.Node{ast.Text{Value: "<i />"}}},
	{">", []ast.Node{ast.Text{Value: ">"}}},
	{"/>", []ast.Node{ast.Text{Value: "/>"}}},
	{"</", []ast.Node{ast.Text{Value: "</"}}},
	{"</i", []ast.Node{ast.Text{Value: "</i"}}},
	{"</i>", []ast.Node{ast.Text{Value: "</i>"}}},
	{
		"{% if user %}{{ user.name }}{% endif %}",
		[]ast.Node{ast.Text{Value: "{% if user %}{{ user.name }}{% endif %}"}},
	},
}

func TestScan(t *testing.T) {
	for _, tt := range scanTests {
		nodes, err := Scan(tt.src)
		if err != nil {
			t.Errorf("Scan(%q): unexpected error: %v", tt.src, err)
			continue
		}
		if diff := cmp.Diff(tt.nodes, nodes); diff != "" {
			t.Errorf("Scan(%q) mismatch (-want +got):\n%s", tt.src, diff)
		}
	}
}

var scanFailTests = []struct {
	src    string
	offset int
}{
	{"<Hello", 0},
	{"<Hello name", 0},
	{"x<Hello name", 1},
	{"<Hello <World> />", 0},
	{"<Hello {#def a #}>", 0},
	{"</Hello", 0},
	{"</Hello x>", 0},
	{"{#def name", 0},
	{"{#defx", 0},
	{"{#def #}", 0},
	{"{#def 1 #}", 0},
	{"{#def a-b #}", 0},
	{"{#def name#}", 0},
	{"Test\n{#def name", 5},
}

func TestScanFailures(t *testing.T) {
	for _, tt := range scanFailTests {
		nodes, err := Scan(tt.src)
		if err == nil {
			t.Errorf("Scan(%q): expected error, got %#v", tt.src, nodes)
			continue
		}
		var perr *Error
		if !errors.As(err, &perr) {
			t.Errorf("Scan(%q): error is %T, want *Error", tt.src, err)
			continue
		}
		if perr.Offset != tt.offset {
			t.Errorf("Scan(%q): offset = %d, want %d", tt.src, perr.Offset, tt.offset)
		}
	}
}

func TestScanWholeInputIsSingleTextNode(t *testing.T) {
	const src = "a plain page\nwith <b>markup</b> and {{ values }}\n"
	nodes, err := Scan(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []ast.Node{ast.Text{Value: src}}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
