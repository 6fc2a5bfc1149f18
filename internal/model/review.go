package model

import (
	"encoding/json"
	"time"
)

// ReviewRecord is a single customer review after cleaning. It is produced
// once by the offline preparation step and never mutated afterwards.
type ReviewRecord struct {
	ID               string
	Text             string
	Rating           int
	Date             string // YYYY-MM-DD
	EmbeddingContext string
}

// IndexEntry is the persisted unit of the vector index. The embedding is
// stored as a JSON array of float32 for portability; it must always be the
// embedding-model output for Content, so swapping the embedding model
// requires a full rebuild of the collection.
type IndexEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Collection string    `gorm:"not null;index" json:"collection"`
	ReviewID   string    `gorm:"index" json:"review_id"`
	Rating     int       `json:"rating"`
	Date       string    `json:"date"`
	Source     string    `json:"source"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Embedding  string    `gorm:"type:text" json:"-"` // JSON array of float32
	CreatedAt  time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (e *IndexEntry) EmbeddingVector() []float32 {
	if e.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(e.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (e *IndexEntry) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		e.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	e.Embedding = string(b)
}

// RetrievedReview is one ranked hit from a similarity query. Ephemeral,
// produced per request; no numeric score is surfaced to callers.
type RetrievedReview struct {
	ReviewID string `json:"review_id"`
	Rating   int    `json:"rating"`
	Date     string `json:"date"`
	Content  string `json:"content"`
}
