package core

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"mxshs/betledger/src/normalize"
)

// textOf joins every text node under n with single spaces.
// Script and style contents are skipped.
func textOf(n *html.Node) string {
	return textExcluding(n, nil)
}

// textExcluding is textOf without the subtrees rooted at excl.
func textExcluding(n *html.Node, excl []*html.Node) string {
	if n == nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for _, e := range excl {
			if c == e {
				return
			}
		}
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			if c.Data == "script" || c.Data == "style" {
				return
			}
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)

	return normalize.Spaces(b.String())
}

// ownText is the text of n's direct text children only.
func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return normalize.Spaces(b.String())
}

func attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func isTag(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// contains reports whether b is a or lies inside a.
func contains(a, b *html.Node) bool {
	for n := b; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

func insideAny(n *html.Node, roots []*html.Node) bool {
	for _, r := range roots {
		if r != nil && contains(r, n) {
			return true
		}
	}
	return false
}

// containsAny reports whether any of nodes lies inside n.
func containsAny(n *html.Node, nodes []*html.Node) bool {
	for _, m := range nodes {
		if m != nil && contains(n, m) {
			return true
		}
	}
	return false
}

// elements lists the element descendants of n in document order.
func elements(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			if k.Type == html.ElementNode {
				out = append(out, k)
				walk(k)
			}
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// docOrder maps scope and every element under it to its document position.
func docOrder(scope *html.Node) map[*html.Node]int {
	pos := map[*html.Node]int{scope: -1}
	for i, e := range elements(scope) {
		pos[e] = i
	}
	return pos
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// selection wraps a node so goquery selectors can run against its subtree.
func selection(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// nodes returns the nodes of s in document order.
func nodes(s *goquery.Selection) []*html.Node {
	out := make([]*html.Node, 0, s.Length())
	s.Each(func(_ int, e *goquery.Selection) {
		out = append(out, e.Get(0))
	})
	return out
}
