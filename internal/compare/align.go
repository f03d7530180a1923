package compare

// Presence says which documents contain a page number.
type Presence string

const (
	PresenceBoth    Presence = "both"
	PresenceOnlyIn1 Presence = "only-in-1"
	PresenceOnlyIn2 Presence = "only-in-2"
)

// PageAlignment pairs a 1-based page number with the documents that contain it.
type PageAlignment struct {
	PageNumber int
	Presence   Presence
}

// AlignPages returns one entry for every page number in 1..max(count1, count2).
// Differing counts are not an error.
func AlignPages(count1, count2 int) []PageAlignment {
	n := max(count1, count2, 0)
	out := make([]PageAlignment, n)
	for i := range out {
		page := i + 1
		p := PresenceBoth
		switch {
		case page > count1:
			p = PresenceOnlyIn2
		case page > count2:
			p = PresenceOnlyIn1
		}
		out[i] = PageAlignment{PageNumber: page, Presence: p}
	}
	return out
}
