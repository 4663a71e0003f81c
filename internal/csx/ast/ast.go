package ast

// Node is one lexical unit of a component template, in document order.
// Concatenating the source spans the scanner consumed for each node
// reproduces the input exactly.
type Node interface {
	node()
}

// Text is a maximal run of input containing no marker start. Never empty.
type Text struct {
	Value string
}

func (Text) node() {}

// OpenTag is a component start tag `<Name ...>`. Name always begins with
// an ASCII uppercase letter; lowercase tags are ordinary text.
type OpenTag struct {
	Name        string
	Args        []string
	SelfClosing bool
}

func (OpenTag) node() {}

// CloseTag is a component end tag `</Name>`. The scanner does not check
// that it matches any earlier OpenTag.
type CloseTag struct {
	Name string
}

func (CloseTag) node() {}

// Def is the `{#def arg1 arg2 #}` directive declaring the parameter list
// of the macro the whole file becomes.
type Def struct {
	Args []string
}

func (Def) node() {}
