package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/josevbrito/food-review-agent/internal/model"
)

// Most embedding providers cap batch size; keep ingest batches small.
const embeddingBatchSize = 10

var ErrEmptyQuery = errors.New("query text is empty")

// Embedder turns text into fixed-dimension vectors. The same model must be
// used at ingestion and query time or similarity results are garbage.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingCache is an optional read-through cache for query embeddings.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Set(ctx context.Context, text string, vec []float32) error
}

// Store is a thin adapter over the persisted embedding collection. Writes
// happen only at offline ingestion time; the query path performs no mutation
// and is safe for concurrent use across in-flight requests.
type Store struct {
	db         *gorm.DB
	embedder   Embedder
	cache      EmbeddingCache
	collection string
}

type Option func(*Store)

// WithCache attaches a query-embedding cache.
func WithCache(cache EmbeddingCache) Option {
	return func(s *Store) { s.cache = cache }
}

func New(db *gorm.DB, embedder Embedder, collection string, opts ...Option) (*Store, error) {
	if collection == "" {
		return nil, errors.New("collection name is required")
	}
	if err := db.AutoMigrate(&model.IndexEntry{}); err != nil {
		return nil, fmt.Errorf("migrate index table failed: %w", err)
	}
	s := &Store{db: db, embedder: embedder, collection: collection}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Collection() string {
	return s.collection
}

// Count reports how many entries the collection holds.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.IndexEntry{}).
		Where("collection = ?", s.collection).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count index entries failed: %w", err)
	}
	return n, nil
}

// Rebuild replaces the whole collection with the given records inside one
// transaction, so concurrent readers never observe a half-built index. This
// is the only supported way to change the collection's contents.
func (s *Store) Rebuild(ctx context.Context, records []model.ReviewRecord, source string) (int, error) {
	entries, err := s.buildEntries(ctx, records, source)
	if err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", s.collection).Delete(&model.IndexEntry{}).Error; err != nil {
			return fmt.Errorf("clear collection failed: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(entries, 100).Error; err != nil {
			return fmt.Errorf("insert index entries failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Insert appends records to the collection without clearing it.
func (s *Store) Insert(ctx context.Context, records []model.ReviewRecord, source string) (int, error) {
	entries, err := s.buildEntries(ctx, records, source)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(entries, 100).Error; err != nil {
		return 0, fmt.Errorf("insert index entries failed: %w", err)
	}
	return len(entries), nil
}

// buildEntries embeds each record's embedding context in provider-sized
// batches and pairs the vectors with their metadata.
func (s *Store) buildEntries(ctx context.Context, records []model.ReviewRecord, source string) ([]model.IndexEntry, error) {
	if len(records) == 0 {
		return nil, nil
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.EmbeddingContext
	}

	var vectors [][]float32
	for i := 0; i < len(texts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedder.EmbedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d failed: %w", i/embeddingBatchSize, err)
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(records) {
		return nil, errors.New("embedding count mismatch")
	}

	dimension := len(vectors[0])
	entries := make([]model.IndexEntry, len(records))
	for i, r := range records {
		if len(vectors[i]) != dimension {
			return nil, fmt.Errorf("inconsistent embedding dimension: entry %d has %d, expected %d", i, len(vectors[i]), dimension)
		}
		entries[i] = model.IndexEntry{
			Collection: s.collection,
			ReviewID:   r.ID,
			Rating:     r.Rating,
			Date:       r.Date,
			Source:     source,
			Content:    r.EmbeddingContext,
		}
		entries[i].SetEmbedding(vectors[i])
	}
	return entries, nil
}

// Query embeds the text and returns up to k entries ranked by cosine
// similarity, highest first. Ties rank by insertion order, which keeps
// repeat queries deterministic between index rebuilds.
func (s *Store) Query(ctx context.Context, text string, k int) ([]model.RetrievedReview, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = 5
	}

	queryVec, err := s.embedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	var entries []model.IndexEntry
	err = s.db.WithContext(ctx).
		Where("collection = ?", s.collection).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load index entries failed: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	scores := make([]float64, len(entries))
	order := make([]int, len(entries))
	for i := range entries {
		scores[i] = cosineSimilarity(queryVec, entries[i].EmbeddingVector())
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]model.RetrievedReview, k)
	for i := 0; i < k; i++ {
		e := entries[order[i]]
		results[i] = model.RetrievedReview{
			ReviewID: e.ReviewID,
			Rating:   e.Rating,
			Date:     e.Date,
			Content:  e.Content,
		}
	}
	return results, nil
}

func (s *Store) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.cache != nil {
		vec, ok, err := s.cache.Get(ctx, text)
		if err != nil {
			log.Printf("embedding cache get failed: %v", err)
		} else if ok {
			return vec, nil
		}
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, text, vec); err != nil {
			log.Printf("embedding cache set failed: %v", err)
		}
	}
	return vec, nil
}

// cosineSimilarity returns 0 for mismatched or zero-norm vectors, which
// ranks unreadable entries last instead of failing the query.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
