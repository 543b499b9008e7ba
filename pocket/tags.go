package pocket

import "strings"

// Protocol tokens understood by the retrieve endpoint's tag filter.
const (
	untaggedToken = "_untagged_"
	allTagsToken  = "_all_"
)

// Tags is an ordered collection of tag names. The zero value means "no tags
// supplied". Names are passed to the API verbatim: no deduplication, no
// trimming, no case folding.
type Tags []string

// Sentinel tag selectors for retrieval filtering. They are ordinary Tags
// values so they travel through the same normalization as user tags.
var (
	// Untagged matches only items that carry no tags at all.
	Untagged = Tags{untaggedToken}
	// AllTags matches items regardless of their tags.
	AllTags = Tags{allTagsToken}
)

// String returns the wire form of the collection: the names joined with
// ", " in input order. A single name passes through unchanged.
func (t Tags) String() string {
	return strings.Join(t, ", ")
}

// IsZero reports whether no tags were supplied.
func (t Tags) IsZero() bool {
	return len(t) == 0
}
