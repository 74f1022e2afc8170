package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML tree that remembers whether it came from a
// full document or a fragment, so rendering gives back the same shape.
type Document struct {
	Root     *html.Node
	Fragment bool
}

// ParseHTML parses HTML content, handling both full documents and fragments.
func ParseHTML(content string) (*Document, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		root, err := html.Parse(strings.NewReader(content))
		if err != nil {
			return nil, err
		}
		return &Document{Root: root}, nil
	}

	// Fragments parse in a body context to avoid an <html><body> wrapper.
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return &Document{Root: container, Fragment: true}, nil
}

// Render serializes the tree. Fragments render their children only.
func (d *Document) Render() (string, error) {
	var buf strings.Builder

	if d.Fragment {
		for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, d.Root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Elements returns every element with the given atom, in document order.
func (d *Document) Elements(a atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.Root)
	return found
}

// Attr returns the value of attribute key on n and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n, adding it when absent.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
