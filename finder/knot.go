package finder

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// A knot is one candidate selector fragment for a single node, together
// with the penalty used to rank it against other candidates and the
// ancestor level (0 = the target node itself) it was generated at.
type knot struct {
	name    string
	penalty float64
	level   int
}

// A path is a list of knots starting at the target node and going up the
// html tree, one knot per ancestor level.
type path []knot

// selector renders the path as CSS selector text, built right to left.
// Knots of directly adjacent levels are joined with the child combinator,
// everything else with the descendant combinator. A level gap means no
// candidate was kept for the ancestors in between.
func (p path) selector() string {
	node := p[0]
	query := node.name
	for i := 1; i < len(p); i++ {
		if node.level == p[i].level-1 {
			query = fmt.Sprintf("%s > %s", p[i].name, query)
		} else {
			query = fmt.Sprintf("%s %s", p[i].name, query)
		}
		node = p[i]
	}
	return query
}

// penalty sums the penalties of all knots of the path.
func (p path) penalty() float64 {
	var sum float64
	for _, k := range p {
		sum += k.penalty
	}
	return sum
}

// without returns a copy of the path with the knot at index i removed.
func (p path) without(i int) path {
	shorter := make(path, 0, len(p)-1)
	shorter = append(shorter, p[:i]...)
	return append(shorter, p[i+1:]...)
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (c *config) idKnot(n *html.Node) []knot {
	id := attrValue(n, "id")
	if id != "" && c.idName(id) {
		return []knot{{name: "#" + escape(id), penalty: 0}}
	}
	return nil
}

func (c *config) attrKnots(n *html.Node) []knot {
	var knots []knot
	for _, a := range n.Attr {
		if !c.attr(a.Key, a.Val) {
			continue
		}
		knots = append(knots, knot{
			name:    fmt.Sprintf(`[%s="%s"]`, escape(a.Key), escape(a.Val)),
			penalty: 0.5,
		})
	}
	return knots
}

func (c *config) classKnots(n *html.Node) []knot {
	var knots []knot
	for _, name := range strings.Fields(attrValue(n, "class")) {
		if !c.className(name) {
			continue
		}
		knots = append(knots, knot{name: "." + escape(name), penalty: 1})
	}
	return knots
}

func (c *config) tagKnot(n *html.Node) []knot {
	if c.tagName(n.Data) {
		return []knot{{name: n.Data, penalty: 2}}
	}
	return nil
}

func anyKnot() knot {
	return knot{name: "*", penalty: 3}
}

// levelKnots returns the node's candidates for one search level. In
// exhaustive mode all admissible candidates compete; otherwise the first
// non-empty group in order of ascending penalty wins. The wildcard only
// serves as a fallback when everything else is filtered out.
func (c *config) levelKnots(n *html.Node, exhaustive bool) []knot {
	groups := [][]knot{c.idKnot(n), c.attrKnots(n), c.classKnots(n), c.tagKnot(n)}
	if exhaustive {
		var level []knot
		for _, g := range groups {
			level = append(level, g...)
		}
		if len(level) == 0 {
			level = []knot{anyKnot()}
		}
		return level
	}
	for _, g := range groups {
		if len(g) > 0 {
			return g
		}
	}
	return []knot{anyKnot()}
}

// nodeIndex returns the 1-based position of the node among its element
// siblings, or 0 if it has no parent. Only elements are counted because
// that is what :nth-child selects on.
func nodeIndex(n *html.Node) int {
	if n.Parent == nil || n.Parent.Type == html.DocumentNode {
		return 0
	}
	i := 0
	for sib := n.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		i++
		if sib == n {
			return i
		}
	}
	return 0
}

// nthChild returns a copy of the knot qualified with the given 1-based
// sibling position.
func nthChild(k knot, i int) knot {
	return knot{
		name:    fmt.Sprintf("%s:nth-child(%d)", k.name, i),
		penalty: k.penalty + 1,
		level:   k.level,
	}
}

// dispensableNth reports whether an :nth-child qualifier would add any
// information to the knot. Id selectors are unique on their own and the
// html root element has no competing siblings.
func dispensableNth(k knot) bool {
	return k.name != "html" && !strings.HasPrefix(k.name, "#")
}

// escape makes a string safe for embedding in selector text. Every rune
// outside the printable ASCII range is replaced by a backslash, its code
// point as four uppercase hex digits and a trailing space. Code points
// above 0xFFFF overflow the four digit form; the output is kept as is
// because callers round-trip escaped text against the matching engine.
// CSS-special ASCII punctuation is deliberately left untouched.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(&b, "\\%04X ", r)
		}
	}
	return b.String()
}
