package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// lineBreak is the marker heritage.Normalize turns into a newline.
const lineBreak = "<br>"

// sourceSpaceRe matches whitespace in page source, which only separates
// words; line breaks come from markup.
var sourceSpaceRe = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

// innerContent renders the children of every node in sel as a text fragment.
// Text nodes are written as decoded text with whitespace runs collapsed to a
// single space, <br> elements as line-break markers, and other elements are
// unwrapped. Block elements end with a line break so paragraphs stay on
// separate lines; script and style are skipped.
func innerContent(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeContent(&b, c)
		}
	}
	return b.String()
}

func writeContent(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(sourceSpaceRe.ReplaceAllString(n.Data, " "))
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteString(lineBreak)
			return
		case atom.Script, atom.Style:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeContent(b, c)
		}
		if isBlock(n.DataAtom) {
			b.WriteString(lineBreak)
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Tr, atom.Table, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
