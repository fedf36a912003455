package model

// LinkType identifies how a link was discovered on a page.
type LinkType string

// LinkTypeHref is the only link type currently produced: an anchor
// element's href attribute. Kept as a typed constant so that other
// sources (e.g. script or image references) can be added without
// changing the Link shape.
const LinkTypeHref LinkType = "href"

// Link is a directed edge in the crawl graph: the page at Source
// references Destination. Links are stored in sets; two links are the
// same edge exactly when all three fields are equal.
type Link struct {
	// Source is the URL of the page the link was found on.
	Source string `json:"source"`

	// Destination is the absolute, normalized URL the link points to.
	Destination string `json:"destination"`

	// Type records how the link was discovered.
	Type LinkType `json:"type"`
}

// Key returns a string usable as a map key for set semantics.
// The separator cannot occur in a URL, so distinct triples never collide.
func (l Link) Key() string {
	return l.Source + " " + l.Destination + " " + string(l.Type)
}

// String returns a human-readable form of the edge.
func (l Link) String() string {
	return l.Source + " -> " + l.Destination
}
