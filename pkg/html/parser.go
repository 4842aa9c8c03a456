package html

import (
	"fmt"
	"strings"

	nethtml "golang.org/x/net/html"
)

// Parse builds a Document from HTML source. Tree construction (implied
// tbody, misnested cells, foster parenting) follows the HTML5 algorithm of
// golang.org/x/net/html; the result is converted into our simpler node tree.
func Parse(src string) (*Document, error) {
	root, err := nethtml.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	doc := NewDocument()
	doc.Quirks = true
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.DoctypeNode {
			doc.Quirks = isQuirksDoctype(c)
			continue
		}
		convert(doc, doc.Root, c)
	}
	return doc, nil
}

func convert(doc *Document, parent *Node, n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		parent.AppendText(normalizeWhitespace(n.Data))
	case nethtml.ElementNode:
		if n.Data == "script" {
			if n.FirstChild != nil {
				doc.Scripts = append(doc.Scripts, n.FirstChild.Data)
			}
			return
		}
		if n.Data == "style" {
			return
		}
		node := &Node{
			Type:       ElementNode,
			TagName:    n.Data,
			Attributes: make(map[string]string, len(n.Attr)),
			Children:   make([]*Node, 0),
		}
		for _, a := range n.Attr {
			node.Attributes[strings.ToLower(a.Key)] = a.Val
		}
		parent.AddChild(node)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(doc, node, c)
		}
	}
}

// normalizeWhitespace collapses runs of whitespace into a single space.
func normalizeWhitespace(s string) string {
	var sb strings.Builder
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

var quirkyPublicIDs = []string{
	"-//w3o//dtd w3 html strict 3.0//en//",
	"-/w3c/dtd html 4.0 transitional/en",
	"html",
	"+//silmaril//dtd html pro v0r11 19970101//",
	"-//ietf//dtd html",
	"-//w3c//dtd html 3",
	"-//w3c//dtd html 4.0 frameset//",
	"-//w3c//dtd html 4.0 transitional//",
	"-//w3c//dtd w3 html//",
	"-//netscape comm. corp.//dtd html//",
	"-//microsoft//dtd internet explorer",
}

// Transitional and frameset 4.01 doctypes are quirky only without a system id.
var quirkyWithoutSystemID = []string{
	"-//w3c//dtd html 4.01 frameset//",
	"-//w3c//dtd html 4.01 transitional//",
}

func isQuirksDoctype(n *nethtml.Node) bool {
	if !strings.EqualFold(n.Data, "html") {
		return true
	}
	var public, system string
	for _, a := range n.Attr {
		switch a.Key {
		case "public":
			public = strings.ToLower(a.Val)
		case "system":
			system = strings.ToLower(a.Val)
		}
	}
	if system == "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd" {
		return true
	}
	for _, p := range quirkyPublicIDs {
		if public == p || (p != "html" && strings.HasPrefix(public, p)) {
			return true
		}
	}
	if system == "" {
		for _, p := range quirkyWithoutSystemID {
			if strings.HasPrefix(public, p) {
				return true
			}
		}
	}
	return false
}
