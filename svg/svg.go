// Package svg holds the SVG side of the map: the element interfaces a host provides,
// the path pool rewritten every frame, and an in-memory document.
package svg

import (
	"strings"
	"sync"
)

// Element is an SVG element whose attributes can be rewritten
type Element interface {
	SetAttribute(name, value string)
}

// Container is the <svg> root: it accepts attributes and creates <path> children
type Container interface {
	Element
	NewPath() Element
}

// PathPool keeps one path element per polygon slot.
// Elements are created once and only their d attribute changes afterwards.
type PathPool struct {
	container Container
	paths     []Element
}

// NewPathPool creates an empty pool appending its paths to container
func NewPathPool(container Container) *PathPool {
	return &PathPool{container: container}
}

// Grow makes sure the pool holds at least n paths
func (p *PathPool) Grow(n int) {
	for len(p.paths) < n {
		p.paths = append(p.paths, p.container.NewPath())
	}
}

// Len returns the number of pooled paths
func (p *PathPool) Len() int {
	return len(p.paths)
}

// Set writes the path data of slot i
func (p *PathPool) Set(i int, d string) {
	p.paths[i].SetAttribute("d", d)
}

// Container returns the element the pool appends paths to
func (p *PathPool) Container() Container {
	return p.container
}

type attribute struct {
	name  string
	value string
}

// node is an element with ordered attributes
type node struct {
	mu         sync.Mutex
	attributes []attribute
}

func (n *node) SetAttribute(name, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := range n.attributes {
		if n.attributes[i].name == name {
			n.attributes[i].value = value
			return
		}
	}
	n.attributes = append(n.attributes, attribute{name: name, value: value})
}

func (n *node) Attribute(name string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, a := range n.attributes {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

func (n *node) writeAttributes(sb *strings.Builder) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, a := range n.attributes {
		sb.WriteByte(' ')
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(escape(a.value))
		sb.WriteByte('"')
	}
}

// Document is an in-memory <svg> element
type Document struct {
	node
	paths []*node
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{}
}

// NewPath appends a <path> child
func (d *Document) NewPath() Element {
	p := &node{}
	d.paths = append(d.paths, p)
	return p
}

// Attribute returns the value of a root attribute
func (d *Document) Attribute(name string) (string, bool) {
	return d.node.Attribute(name)
}

// Paths returns the current d attribute of every path, in creation order
func (d *Document) Paths() []string {
	paths := make([]string, len(d.paths))
	for i, p := range d.paths {
		paths[i], _ = p.Attribute("d")
	}
	return paths
}

// String serializes the document the way a browser prints outerHTML
func (d *Document) String() string {
	var sb strings.Builder
	sb.WriteString("<svg")
	d.node.writeAttributes(&sb)
	sb.WriteByte('>')
	for _, p := range d.paths {
		sb.WriteString("<path")
		p.writeAttributes(&sb)
		sb.WriteString("></path>")
	}
	sb.WriteString("</svg>")

	return sb.String()
}

var attributeEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;")

func escape(s string) string {
	return attributeEscaper.Replace(s)
}
