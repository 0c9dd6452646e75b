package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Next returns the node following n in document order.
func Next(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// FindText walks the subtree rooted at node in document order and
// returns the first text node accepted by match.
func FindText(node *html.Node, match func(text string) bool) *html.Node {
	if node == nil {
		return nil
	}
	if node.Type == html.TextNode && match(node.Data) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := FindText(child, match); found != nil {
			return found
		}
	}
	return nil
}

// AdjacentText returns the trimmed contents of the node immediately
// following n in document order, or "" when that node is not a text
// node. Mirrors how the portal lays out "Label:" followed by a bare
// text value.
func AdjacentText(n *html.Node) string {
	next := Next(n)
	if next == nil || next.Type != html.TextNode {
		return ""
	}
	return strings.Trim(next.Data, " \t\n\r")
}

// NextElementSibling skips text and comment nodes to find the next
// structural sibling of n, ascending out of n's parent if needed.
func NextElementSibling(n *html.Node) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		for sib := cur.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode {
				return sib
			}
		}
	}
	return nil
}

// StrippedLines collects every non-empty trimmed text node under n,
// preserving document order.
func StrippedLines(n *html.Node) []string {
	var lines []string
	strippedLinesRecursive(n, &lines)
	return lines
}

func strippedLinesRecursive(n *html.Node, lines *[]string) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		if text := strings.Trim(n.Data, " \t\n\r"); text != "" {
			*lines = append(*lines, text)
		}
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		strippedLinesRecursive(child, lines)
	}
}
