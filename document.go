package podmirror

import "encoding/json"

// Type discriminators understood by the crawler. The protocol is open-ended:
// documents and nodes may carry any discriminator, and anything outside this
// set is ignored rather than rejected.
const (
	TypeIndex                     = "ex:Index"
	TypePropertyIndex             = "ex:PropertyIndex"
	TypePropertyIndexRegistration = "ex:PropertyIndexRegistration"
	TypeTypeIndexRegistration     = "solid:TypeIndexRegistration"
)

// Kind classifies a type discriminator into the closed set the crawler
// dispatches on.
type Kind int

// Kind values, one per known discriminator plus the catch-all.
const (
	KindUnknown Kind = iota
	KindIndex
	KindPropertyIndex
	KindPropertyIndexRegistration
	KindTypeIndexRegistration
)

// KindOf maps a raw discriminator string to its Kind.
// Unrecognized discriminators (including the empty string) map to KindUnknown.
func KindOf(typ string) Kind {
	switch typ {
	case TypeIndex:
		return KindIndex
	case TypePropertyIndex:
		return KindPropertyIndex
	case TypePropertyIndexRegistration:
		return KindPropertyIndexRegistration
	case TypeTypeIndexRegistration:
		return KindTypeIndexRegistration
	default:
		return KindUnknown
	}
}

// Document is the subset of a JSON-LD resource the crawler interprets.
// Containers carry their entries in Graph; leaf property indexes carry their
// observed resource references in Instances. The context is opaque to the
// crawler and carried through unchanged.
type Document struct {
	Context   json.RawMessage `json:"@context,omitempty"`
	ID        string          `json:"@id,omitempty"`
	Type      string          `json:"@type,omitempty"`
	Graph     []*Node         `json:"@graph,omitempty"`
	Instances []string        `json:"ex:instances,omitempty"`
}

// Kind returns the classification of the document's own type discriminator.
func (d *Document) Kind() Kind {
	return KindOf(d.Type)
}

// IsContainer reports whether the document carries a graph body.
func (d *Document) IsContainer() bool {
	return len(d.Graph) > 0
}

// Node is a single entry in a Document's graph body. Only the attributes
// used by the discovery protocol are modeled; everything else is dropped on
// decode.
type Node struct {
	ID                string `json:"@id,omitempty"`
	Type              string `json:"@type,omitempty"`
	PublicTypeIndex   string `json:"solid:publicTypeIndex,omitempty"`
	ForClass          string `json:"solid:forClass,omitempty"`
	InstanceContainer string `json:"solid:instanceContainer,omitempty"`
	InstancesIn       string `json:"ex:instancesIn,omitempty"`
	SeeAlso           string `json:"rdfs:seeAlso,omitempty"`
}

// Kind returns the classification of the node's type discriminator.
func (n *Node) Kind() Kind {
	return KindOf(n.Type)
}

// IndexTarget returns the URL a property index registration points at:
// the instances-in field, falling back to see-also when absent.
// Returns an empty string if the node carries neither.
func (n *Node) IndexTarget() string {
	if n.InstancesIn != "" {
		return n.InstancesIn
	}
	return n.SeeAlso
}

// SaveMode selects how a fetched document is persisted relative to any
// previously stored version of the same resource.
type SaveMode int

const (
	// Overwrite replaces the stored copy with the fetched document.
	// Used for containers, whose children are re-derived fresh each run.
	Overwrite SaveMode = iota

	// ReconcileUnion merges the fetched document's instance references with
	// the stored copy's before persisting. Used for leaf property indexes.
	ReconcileUnion
)

// String returns the mode's name for logging.
func (m SaveMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case ReconcileUnion:
		return "reconcile-union"
	default:
		return "unknown"
	}
}
