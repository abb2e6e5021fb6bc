package metadata

import (
	"context"
	"sync"
)

// enrichWorkers bounds the number of concurrent descriptor lookups.
const enrichWorkers = 4

// Enrichment holds descriptor lookups for a set of parameter paths,
// addressable by the original (un-normalized) path.
type Enrichment struct {
	paths  []string
	byPath map[string]*Descriptor
	found  map[string]bool
}

// Paths returns the looked-up paths in input order.
func (e *Enrichment) Paths() []string { return e.paths }

// For returns the descriptor for a path. Paths that were not part of the
// enrichment get a stub, so callers never see nil.
func (e *Enrichment) For(path string) *Descriptor {
	if desc, ok := e.byPath[path]; ok {
		return desc
	}
	return Stub(path)
}

// Found reports whether a real descriptor record (not a stub) was located
// for the path.
func (e *Enrichment) Found(path string) bool { return e.found[path] }

// Enrich looks up descriptors for every path, with bounded concurrency.
// The lookups are independent and side-effect-free; results are exposed in
// input order regardless of completion order. A cancelled context stops
// issuing new lookups and fills the remainder with stubs.
func (s *Store) Enrich(ctx context.Context, paths []string) *Enrichment {
	e := &Enrichment{
		paths:  paths,
		byPath: make(map[string]*Descriptor, len(paths)),
		found:  make(map[string]bool, len(paths)),
	}

	type result struct {
		path  string
		desc  *Descriptor
		found bool
	}
	results := make([]result, len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, enrichWorkers)
	for i, path := range paths {
		select {
		case <-ctx.Done():
			results[i] = result{path: path, desc: Stub(path)}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			desc, found := s.lookup(path)
			results[i] = result{path: path, desc: desc, found: found}
		}(i, path)
	}
	wg.Wait()

	for _, res := range results {
		e.byPath[res.path] = res.desc
		e.found[res.path] = res.found
	}
	return e
}
