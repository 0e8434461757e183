package podmirror

import "sort"

// Reconcile combines a previously stored document with a freshly fetched
// version of the same resource. It is only defined for documents sharing a
// cache key; callers must not pass documents describing different resources.
//
// When both documents carry instance references, the result takes the fresh
// document's top-level shape with the reference set replaced by the union of
// old and new values. A reference once observed is never dropped, even if
// the server stops listing it: the local mirror is an append-only ledger of
// everything ever seen for the resource. When either side lacks the
// reference field the fresh document wins unchanged; there is no partial
// merge across heterogeneous shapes.
//
// Reconcile is pure: neither input is mutated, and persisting the result is
// the caller's responsibility.
func Reconcile(old, fresh *Document) *Document {
	if old == nil {
		return fresh
	}
	if old.Instances == nil || fresh.Instances == nil {
		return fresh
	}

	seen := make(map[string]struct{}, len(old.Instances)+len(fresh.Instances))
	union := make([]string, 0, len(old.Instances)+len(fresh.Instances))
	for _, ref := range old.Instances {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		union = append(union, ref)
	}
	for _, ref := range fresh.Instances {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		union = append(union, ref)
	}
	// Sorted so that repeated crawls persist identical bytes.
	sort.Strings(union)

	return &Document{
		Context:   fresh.Context,
		ID:        fresh.ID,
		Type:      fresh.Type,
		Graph:     fresh.Graph,
		Instances: union,
	}
}

// NewReferences returns the references present in fresh but absent from the
// stored document, in fresh's order. With no stored document every fresh
// reference is new.
func NewReferences(old, fresh *Document) []string {
	if fresh == nil {
		return nil
	}
	if old == nil {
		return append([]string(nil), fresh.Instances...)
	}

	known := make(map[string]struct{}, len(old.Instances))
	for _, ref := range old.Instances {
		known[ref] = struct{}{}
	}

	var added []string
	for _, ref := range fresh.Instances {
		if _, ok := known[ref]; !ok {
			added = append(added, ref)
		}
	}
	return added
}
