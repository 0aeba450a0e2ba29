package finder

import (
	"testing"
)

const nestedHTML = `
<div id="a"><section class="s"><p class="x"><span>target</span></p></section></div>
<div id="b"><section class="s"><p class="x"><span>other</span></p></section></div>`

func TestOptimize(t *testing.T) {
	doc := parseDoc(t, nestedHTML)
	target := selectOne(t, doc, "#a span")
	c := newConfig(target, nil)

	seed := path{
		{name: "span", penalty: 2, level: 0},
		{name: ".x", penalty: 1, level: 1},
		{name: ".s", penalty: 1, level: 2},
		{name: "#a", penalty: 0, level: 3},
	}
	if ok, err := c.matchesTarget(seed, target); err != nil || !ok {
		t.Fatalf("seed path is not a valid starting point: ok=%t err=%v", ok, err)
	}

	scope := &optimizeScope{visited: map[string]bool{}}
	results, err := c.optimize(seed, target, scope)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one shortening")
	}
	// every result must still match exactly the target
	best := results[0]
	for _, p := range results {
		ok, err := c.matchesTarget(p, target)
		if err != nil {
			t.Fatalf("matchesTarget(%q): %v", p.selector(), err)
		}
		if !ok {
			t.Errorf("optimized path %q lost the target", p.selector())
		}
		if p.penalty() < best.penalty() {
			best = p
		}
	}
	// both interior knots are removable, the cheapest result keeps only
	// the anchor and the target
	if got := best.selector(); got != "#a span" {
		t.Fatalf("cheapest shortening = %q; want \"#a span\"", got)
	}
}

func TestOptimizeSkipsShortPaths(t *testing.T) {
	doc := parseDoc(t, nestedHTML)
	target := selectOne(t, doc, "#a span")

	tests := []struct {
		name string
		opts []Option
		p    path
	}{
		{
			name: "two knots are never optimized",
			p: path{
				{name: "span", penalty: 2, level: 0},
				{name: "#a", penalty: 0, level: 3},
			},
		},
		{
			name: "paths at the configured minimum are left alone",
			opts: []Option{WithOptimizedMinLength(4)},
			p: path{
				{name: "span", penalty: 2, level: 0},
				{name: ".x", penalty: 1, level: 1},
				{name: ".s", penalty: 1, level: 2},
				{name: "#a", penalty: 0, level: 3},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newConfig(target, tc.opts)
			scope := &optimizeScope{visited: map[string]bool{}}
			results, err := c.optimize(tc.p, target, scope)
			if err != nil {
				t.Fatalf("optimize: %v", err)
			}
			if len(results) != 0 {
				t.Fatalf("expected no shortenings, got %d", len(results))
			}
			if scope.counter != 0 {
				t.Fatalf("expected no probes, got %d", scope.counter)
			}
		})
	}
}

func TestOptimizeBudget(t *testing.T) {
	doc := parseDoc(t, nestedHTML)
	target := selectOne(t, doc, "#a span")

	seed := path{
		{name: "span", penalty: 2, level: 0},
		{name: ".x", penalty: 1, level: 1},
		{name: ".s", penalty: 1, level: 2},
		{name: "#a", penalty: 0, level: 3},
	}

	// zero tries means the budget is exhausted before the first probe
	c := newConfig(target, []Option{WithMaxNumberOfTries(0)})
	scope := &optimizeScope{visited: map[string]bool{}}
	results, err := c.optimize(seed, target, scope)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if len(results) != 0 || scope.counter != 0 {
		t.Fatalf("expected no probes with a zero budget, got %d results after %d probes", len(results), scope.counter)
	}

	// a single try still yields the first shortening but stops there
	c = newConfig(target, []Option{WithMaxNumberOfTries(1)})
	scope = &optimizeScope{visited: map[string]bool{}}
	results, err = c.optimize(seed, target, scope)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if scope.counter != 1 {
		t.Fatalf("expected exactly one probe, got %d", scope.counter)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one shortening, got %d", len(results))
	}
}

func TestOptimizeVisitedMemo(t *testing.T) {
	doc := parseDoc(t, nestedHTML)
	target := selectOne(t, doc, "#a span")
	c := newConfig(target, nil)

	seed := path{
		{name: "span", penalty: 2, level: 0},
		{name: ".x", penalty: 1, level: 1},
		{name: ".s", penalty: 1, level: 2},
		{name: "#a", penalty: 0, level: 3},
	}
	scope := &optimizeScope{visited: map[string]bool{}}
	results, err := c.optimize(seed, target, scope)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	seen := map[string]int{}
	for _, p := range results {
		seen[p.selector()]++
	}
	for selector, count := range seen {
		if count > 1 {
			t.Errorf("selector %q collected %d times", selector, count)
		}
	}
}
