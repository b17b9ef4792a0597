package tagging

// Tagger extracts tags from one text.
type Tagger interface {
	Tags(text string) []string
}
