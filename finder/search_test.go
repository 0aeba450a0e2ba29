package finder

import (
	"testing"
)

func TestPathEnumeratorOrder(t *testing.T) {
	stack := [][]knot{
		{{name: "b", penalty: 2}, {name: "a", penalty: 1}},
		{{name: "c", penalty: 0}, {name: "d", penalty: 3}},
	}
	e := newPathEnumerator(stack)

	var got []string
	var penalties []float64
	for p := e.next(); p != nil; p = e.next() {
		got = append(got, p[0].name+p[1].name)
		penalties = append(penalties, p.penalty())
	}

	if len(got) != 4 {
		t.Fatalf("enumerated %d paths; want 4", len(got))
	}
	for i := 1; i < len(penalties); i++ {
		if penalties[i] < penalties[i-1] {
			t.Fatalf("penalties not ascending: %v", penalties)
		}
	}
	// ac=1, bc=2, ad=4, bd=5
	expected := []string{"ac", "bc", "ad", "bd"}
	for i, name := range expected {
		if got[i] != name {
			t.Fatalf("paths out of order: got %v, want %v", got, expected)
		}
	}

	if p := e.next(); p != nil {
		t.Fatalf("expected exhausted enumerator, got %v", p)
	}
}

func TestPathEnumeratorSingleLevel(t *testing.T) {
	stack := [][]knot{
		{{name: "#id", penalty: 0}, {name: ".cls", penalty: 1}, {name: "div", penalty: 2}},
	}
	e := newPathEnumerator(stack)
	expected := []string{"#id", ".cls", "div"}
	for _, name := range expected {
		p := e.next()
		if p == nil || p[0].name != name {
			t.Fatalf("expected %q, got %v", name, p)
		}
	}
	if p := e.next(); p != nil {
		t.Fatalf("expected exhausted enumerator, got %v", p)
	}
}

func TestFindUniquePathThreshold(t *testing.T) {
	doc := parseDoc(t, `<div><p class="x">a</p></div>`)
	target := selectOne(t, doc, "p")

	level := [][]knot{{
		{name: ".x", penalty: 1},
		{name: "p", penalty: 2},
	}}

	c := newConfig(target, []Option{WithThreshold(1)})
	p, err := c.findUniquePath(level)
	if err != nil {
		t.Fatalf("findUniquePath: %v", err)
	}
	if p != nil {
		t.Fatalf("expected aborted attempt, got %v", p)
	}

	c = newConfig(target, []Option{WithThreshold(2)})
	p, err = c.findUniquePath(level)
	if err != nil {
		t.Fatalf("findUniquePath: %v", err)
	}
	if p == nil || p.selector() != ".x" {
		t.Fatalf("expected .x, got %v", p)
	}
}

func TestBottomUpSearchNoneMode(t *testing.T) {
	doc := parseDoc(t, `<ul><li>first</li><li>second</li></ul>`)
	target := selectOne(t, doc, "li:nth-child(2)")
	c := newConfig(target, nil)

	p, err := c.bottomUpSearch(target, limitNone)
	if err != nil {
		t.Fatalf("bottomUpSearch: %v", err)
	}
	if p == nil {
		t.Fatal("expected a path from none mode")
	}
	// li -> ul -> body as pure wildcard/position knots; the body level is
	// needed because "*:nth-child(1) > *:nth-child(2)" also matches body
	expected := "*:nth-child(2) > *:nth-child(1) > *:nth-child(2)"
	if got := p.selector(); got != expected {
		t.Fatalf("unexpected selector\n got: %q\nwant: %q", got, expected)
	}
}

func TestBottomUpSearchSeedMinLength(t *testing.T) {
	doc := parseDoc(t, `<div id="a"><span>x</span></div>`)
	target := selectOne(t, doc, "span")

	// with the default seed length the first probe already succeeds
	c := newConfig(target, nil)
	p, err := c.bottomUpSearch(target, limitAll)
	if err != nil {
		t.Fatalf("bottomUpSearch: %v", err)
	}
	if got := p.selector(); got != "span" {
		t.Fatalf("selector = %q; want \"span\"", got)
	}

	// a larger seed length forces more levels into the first probe
	c = newConfig(target, []Option{WithSeedMinLength(2)})
	p, err = c.bottomUpSearch(target, limitAll)
	if err != nil {
		t.Fatalf("bottomUpSearch: %v", err)
	}
	if len(p) != 2 {
		t.Fatalf("expected a two level path, got %q", p.selector())
	}
	if got := p.selector(); got != "#a > span" {
		t.Fatalf("selector = %q; want \"#a > span\"", got)
	}
}
