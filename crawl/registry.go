package crawl

import "github.com/fwojciec/podmirror"

// Registry accumulates the documents visited while crawling one server.
// It doubles as the cycle gate: a URL is registered at most once per run,
// and the gate is checked before any re-entrant expansion, so cyclic index
// graphs terminate. Rebuilt for every run; the durable mirror lives in the
// DocumentStore.
//
// A Registry is confined to a single walker goroutine and needs no locking.
type Registry struct {
	docs  map[string]*podmirror.Document
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]*podmirror.Document)}
}

// Has reports whether the URL has already been registered this run.
func (r *Registry) Has(url string) bool {
	_, ok := r.docs[url]
	return ok
}

// Add registers the document fetched for url.
// Returns false if the URL was already registered; revisits are no-ops.
func (r *Registry) Add(url string, doc *podmirror.Document) bool {
	if _, ok := r.docs[url]; ok {
		return false
	}
	r.docs[url] = doc
	r.order = append(r.order, url)
	return true
}

// Get returns the registered document for url.
func (r *Registry) Get(url string) (*podmirror.Document, bool) {
	doc, ok := r.docs[url]
	return doc, ok
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	return len(r.docs)
}

// URLs returns the registered URLs in insertion order.
func (r *Registry) URLs() []string {
	return append([]string(nil), r.order...)
}

// Each calls fn for every registered document in insertion order.
func (r *Registry) Each(fn func(url string, doc *podmirror.Document)) {
	for _, u := range r.order {
		fn(u, r.docs[u])
	}
}
