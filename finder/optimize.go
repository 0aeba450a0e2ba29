package finder

import (
	"golang.org/x/net/html"
)

// optimizeScope carries the probe budget and the set of selector texts
// already tried across one full recursive optimization run. It is owned
// by the top-level optimize call and passed down explicitly.
type optimizeScope struct {
	counter int
	visited map[string]bool
}

// optimize tries to shorten an already unique path by removing interior
// knots one at a time, recursing on every shortened path that still
// matches exactly the target node. It returns every successful shortening
// it came across; the caller picks the cheapest. The first knot (the
// target itself) and the last one (the outermost anchor) are never
// removed. Paths of two knots or fewer, or at most optimizedMinLength
// knots, are left alone.
func (c *config) optimize(p path, target *html.Node, scope *optimizeScope) ([]path, error) {
	if len(p) <= 2 || len(p) <= c.optimizedMinLength {
		return nil, nil
	}
	var results []path
	for i := 1; i < len(p)-1; i++ {
		if scope.counter >= c.maxNumberOfTries {
			return results, nil
		}
		scope.counter++

		shorter := p.without(i)
		key := shorter.selector()
		if scope.visited[key] {
			continue
		}
		ok, err := c.matchesTarget(shorter, target)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		results = append(results, shorter)
		scope.visited[key] = true
		deeper, err := c.optimize(shorter, target, scope)
		if err != nil {
			return nil, err
		}
		results = append(results, deeper...)
	}
	return results, nil
}
