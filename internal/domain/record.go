package domain

// ScrapedRecord is what a parse step hands to lead assembly. It is never
// persisted.
type ScrapedRecord struct {
	Name    string
	Website string
	RawText string
	HTML    string
}
