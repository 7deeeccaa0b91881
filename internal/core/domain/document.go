package domain

import (
	"strings"
	"time"
	"unicode"
)

// LegalDocument identifies one legal text served by its own RAG engine.
type LegalDocument struct {
	// ID is a short stable slug (e.g. "constitution").
	ID string

	// Name is the display identity used in prompts and chat replies.
	Name string

	// Collection is the vector collection holding this document's chunks.
	// Distinct documents never share a collection.
	Collection string

	// SourceURL is where the scraper fetches the text from.
	SourceURL string

	// Trigger is the chat trigger (button or command) bound to this document.
	Trigger string

	// Rules are the identity checks applied before indexing.
	Rules ValidationRules
}

// ValidationRules describe what a document's text must and must not contain.
type ValidationRules struct {
	// Forbidden are signature phrases of other documents.
	// Matched case-sensitively.
	Forbidden []string

	// Required are lower-case keywords of which at least one must be present
	// when Strict is set.
	Required []string

	// Strict enables the Required check.
	Strict bool

	// SanityMarkers are lower-case fragments the scraper expects in a good fetch.
	SanityMarkers []string
}

// DocumentText is the raw plain text of a document as cached locally.
type DocumentText struct {
	// DocumentID references LegalDocument.ID.
	DocumentID string

	// Text is the full plain text.
	Text string

	// SourceURL records where Text was fetched from.
	SourceURL string

	// UpdatedAt is when Text was last saved.
	UpdatedAt time.Time
}

// Built-in document ids.
const (
	DocumentConstitution = "constitution"
	DocumentChildRights  = "child_rights"
)

// Catalog returns the documents the bot answers questions about.
func Catalog() []LegalDocument {
	return []LegalDocument{
		{
			ID:         DocumentConstitution,
			Name:       "Конституция Республики Беларусь",
			Collection: "constitution_articles",
			SourceURL:  "https://etalonline.by/document/?regnum=v19402875&q_id=2524604",
			Trigger:    "konstitution_search",
			Rules: ValidationRules{
				Forbidden:     []string{"О правах ребенка"},
				Required:      []string{"конституци", "народ"},
				SanityMarkers: []string{"конституция", "народ"},
			},
		},
		{
			ID:         DocumentChildRights,
			Name:       "Закон О правах ребенка",
			Collection: "child_rights_law",
			SourceURL:  "https://etalonline.by/document/?regnum=v19302570",
			Trigger:    "act_child_rights",
			Rules: ValidationRules{
				Forbidden:     []string{"Конституция", "Республика Беларусь"},
				Required:      []string{"правах ребенка", "ребенок", "несовершеннолетн"},
				Strict:        true,
				SanityMarkers: []string{"ребен"},
			},
		},
	}
}

// LookupDocument finds a catalog document by id or trigger.
func LookupDocument(key string) (LegalDocument, bool) {
	for _, doc := range Catalog() {
		if doc.ID == key || doc.Trigger == key {
			return doc, true
		}
	}
	return LegalDocument{}, false
}

// CollectionName turns a document identity into a collection name:
// lower case, runs of other characters collapsed to a single underscore.
func CollectionName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}
