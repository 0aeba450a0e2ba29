package finder

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// query runs the rendered path against the configured root and returns
// all matching nodes. A selector built from a node of the tree must match
// at least that node, so zero matches surface as ErrInconsistentTree.
func (c *config) query(p path) ([]*html.Node, error) {
	css := p.selector()
	sel, err := cascadia.Compile(css)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", css, err)
	}
	matches := sel.MatchAll(c.root)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInconsistentTree, css)
	}
	return matches, nil
}

// unique reports whether the path matches exactly one node.
func (c *config) unique(p path) (bool, error) {
	matches, err := c.query(p)
	if err != nil {
		return false, err
	}
	return len(matches) == 1, nil
}

// matchesTarget reports whether the path matches exactly the target node
// and nothing else. Node identity is pointer identity; cascadia returns
// the nodes of the queried tree itself.
func (c *config) matchesTarget(p path, target *html.Node) (bool, error) {
	matches, err := c.query(p)
	if err != nil {
		return false, err
	}
	return len(matches) == 1 && matches[0] == target, nil
}
