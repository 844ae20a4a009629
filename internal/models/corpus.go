package models

import "time"

// CorpusDocument is one stored document in the local reference corpus.
// The corpus backend scores these against queries and returns them as
// evidence candidates.
type CorpusDocument struct {
	// ID is the storage key (doc_{uuid}).
	ID string `json:"id"`

	// SourceID names the originating document, typically a filename.
	SourceID string `json:"source_id"`

	// Text is the full document content.
	Text string `json:"text"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
