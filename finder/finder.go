// Package finder computes the shortest CSS selector that uniquely
// identifies a node within an html document tree.
//
// The algorithm walks from the target node up towards the root, collecting
// candidate selector fragments per ancestor level, and probes combinations
// of them for uniqueness against the document, cheapest first. Once a
// unique selector is found it is shortened further by removing interior
// segments as long as the result still matches exactly the target node.
package finder

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/net/html"
)

var (
	// ErrNotFound is returned when no search mode yields a unique selector
	// for the target node.
	ErrNotFound = errors.New("selector was not found")

	// ErrInconsistentTree is returned when a generated selector matches no
	// nodes at all. A selector derived from a node in the tree must match
	// at least that node, so this means the document changed between
	// candidate generation and querying.
	ErrInconsistentTree = errors.New("can't select any node with this selector")
)

const (
	defaultSeedMinLength      = 1
	defaultOptimizedMinLength = 2
	defaultThreshold          = 1000
	defaultMaxNumberOfTries   = 10000
)

// config holds the resolved options of a single Find call. It is built
// once per call and never mutated afterwards.
type config struct {
	root               *html.Node
	idName             func(string) bool
	className          func(string) bool
	tagName            func(string) bool
	attr               func(name, value string) bool
	seedMinLength      int
	optimizedMinLength int
	threshold          int
	maxNumberOfTries   int
}

// An Option adjusts the behaviour of Find.
type Option func(*config)

// WithRoot sets the node all uniqueness queries run against. It defaults
// to the topmost ancestor of the target node.
func WithRoot(root *html.Node) Option {
	return func(c *config) { c.root = root }
}

// WithIDFilter restricts which id attribute values may be used in a
// selector. By default every id is allowed.
func WithIDFilter(f func(id string) bool) Option {
	return func(c *config) { c.idName = f }
}

// WithClassFilter restricts which class names may be used in a selector.
// By default every class is allowed.
func WithClassFilter(f func(class string) bool) Option {
	return func(c *config) { c.className = f }
}

// WithTagFilter restricts which tag names may be used in a selector. By
// default every tag is allowed.
func WithTagFilter(f func(tag string) bool) Option {
	return func(c *config) { c.tagName = f }
}

// WithAttrFilter enables attribute selectors for the name/value pairs the
// given function accepts. By default no attribute selectors are generated.
func WithAttrFilter(f func(name, value string) bool) Option {
	return func(c *config) { c.attr = f }
}

// WithSeedMinLength sets the number of ancestor levels to accumulate
// before the first uniqueness probe is attempted.
func WithSeedMinLength(n int) Option {
	return func(c *config) { c.seedMinLength = n }
}

// WithOptimizedMinLength sets the path length below which no optimization
// is attempted.
func WithOptimizedMinLength(n int) Option {
	return func(c *config) { c.optimizedMinLength = n }
}

// WithThreshold caps the number of candidate combinations tested per
// search attempt. Attempts exceeding the cap are abandoned wholesale.
func WithThreshold(n int) Option {
	return func(c *config) { c.threshold = n }
}

// WithMaxNumberOfTries caps the total number of probes spent on shortening
// an already unique selector. Zero disables optimization.
func WithMaxNumberOfTries(n int) Option {
	return func(c *config) { c.maxNumberOfTries = n }
}

func newConfig(target *html.Node, opts []Option) *config {
	c := &config{
		idName:             func(string) bool { return true },
		className:          func(string) bool { return true },
		tagName:            func(string) bool { return true },
		attr:               func(string, string) bool { return false },
		seedMinLength:      defaultSeedMinLength,
		optimizedMinLength: defaultOptimizedMinLength,
		threshold:          defaultThreshold,
		maxNumberOfTries:   defaultMaxNumberOfTries,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.root == nil {
		root := target
		for root.Parent != nil {
			root = root.Parent
		}
		c.root = root
	}
	return c
}

// Find returns the shortest CSS selector it can construct that matches
// exactly the target node within its document. The search modes escalate
// from exhaustive candidate generation to a bare wildcard chain; the first
// mode that yields a unique selector wins. Find fails with ErrNotFound if
// none does.
func Find(target *html.Node, opts ...Option) (string, error) {
	if target.Type != html.ElementNode {
		return "", fmt.Errorf("cannot build a selector for a node of type %d", target.Type)
	}
	if target.Parent == nil || target.Parent.Type == html.DocumentNode {
		// the document root element is trivially unique
		return target.Data, nil
	}

	c := newConfig(target, opts)

	var seed path
	for _, l := range []searchLimit{limitAll, limitTwo, limitOne, limitNone} {
		p, err := c.bottomUpSearch(target, l)
		if err != nil {
			return "", err
		}
		if p != nil {
			seed = p
			break
		}
		slog.Debug("search mode yielded no unique selector", slog.String("mode", l.String()))
	}
	if seed == nil {
		return "", ErrNotFound
	}

	scope := &optimizeScope{visited: map[string]bool{}}
	optimized, err := c.optimize(seed, target, scope)
	if err != nil {
		return "", err
	}
	if len(optimized) > 0 {
		slices.SortStableFunc(optimized, func(a, b path) int {
			return cmp.Compare(a.penalty(), b.penalty())
		})
		slog.Debug("optimized selector",
			slog.String("seed", seed.selector()),
			slog.String("optimized", optimized[0].selector()),
			slog.Int("tries", scope.counter))
		seed = optimized[0]
	}
	return seed.selector(), nil
}
