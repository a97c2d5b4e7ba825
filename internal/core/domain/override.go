package domain

// Override is a manual correction for one source URL.
// Each field is optional; a zero Override changes nothing.
type Override struct {
	// Parts replaces segmentation entirely. It is positional like segmenter
	// output: index 0 is the leading authored text.
	Parts []string

	// Prev replaces the default predecessor lookup: the parent ID for an
	// email, the post number for a forum post.
	Prev *int

	// Type is a manual classification tag applied to every record of the URL.
	Type string
}

// HasParts reports whether the override bypasses segmentation.
func (o Override) HasParts() bool {
	return o.Parts != nil
}

// Overrides is a read-only correction table keyed by source URL.
type Overrides map[string]Override

// Lookup returns the override for a URL. A missing entry is the normal case.
func (o Overrides) Lookup(url string) (Override, bool) {
	if o == nil {
		return Override{}, false
	}
	ov, ok := o[url]
	return ov, ok
}
