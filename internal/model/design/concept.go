package design

// Concept is one generated invitation suggestion shown on the story page.
type Concept struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ImagePrompt      string   `json:"imagePrompt"`
	FormatSuggestion string   `json:"formatSuggestion,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	FormatImageURLs  []string `json:"formatImageUrls,omitempty"`
}

// Selection references the design a customer wants to order.
type Selection struct {
	Name            string   `json:"name"`
	ImageURL        string   `json:"imageUrl"`
	FormatImageURLs []string `json:"formatImageUrls,omitempty"`
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	s.FormatImageURLs = append([]string(nil), s.FormatImageURLs...)
	return s
}

// SelectionFromConcept builds the order reference for a generated concept.
func SelectionFromConcept(c Concept) Selection {
	return Selection{
		Name:            c.Title,
		ImageURL:        c.ImageURL,
		FormatImageURLs: append([]string(nil), c.FormatImageURLs...),
	}
}

// Source identifies where a picked design comes from.
type Source string

const (
	SourceConcept  Source = "concept"
	SourceGallery  Source = "gallery"
	SourceStandard Source = "standard"
)

// Ref points at a pickable design: a concept by index or a catalog item by id.
type Ref struct {
	Source Source `json:"source"`
	Index  int    `json:"index,omitempty"`
	ID     string `json:"id,omitempty"`
}

// Photo is an optional image attached to a story submission.
type Photo struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}
