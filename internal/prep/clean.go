package prep

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/josevbrito/food-review-agent/internal/model"
)

// MinTextLength is the minimum cleaned-text length (in runes) for a review
// to carry usable semantic signal. Shorter records are dropped.
const MinTextLength = 10

var (
	ErrTextTooShort  = errors.New("review text is empty or too short")
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidDate   = errors.New("unrecognized date format")
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*?>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// RawReview is an uncleaned review row as read from the source dataset.
// All fields are raw strings; Prepare validates and normalizes them.
type RawReview struct {
	ID     string
	Text   string
	Rating string
	Date   string
}

// CleanText strips HTML tag spans and collapses consecutive whitespace to a
// single space. Applying it twice yields the same result as once.
func CleanText(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// EmbeddingContext fuses rating and cleaned text into the exact string handed
// to the embedding model. The format must stay stable across re-ingestions:
// changing it invalidates every previously built collection.
func EmbeddingContext(rating int, text string) string {
	return fmt.Sprintf("Rating: %d/5. Review: %s", rating, text)
}

// NormalizeDate converts a raw timestamp into the canonical YYYY-MM-DD form.
// An empty input stays empty.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02",
		"02/01/2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// Prepare turns a raw row into a ReviewRecord or rejects it. Rejected rows
// are input defects (empty text, garbage rating or date) and are meant to be
// dropped by the caller, not treated as fatal.
func Prepare(raw RawReview) (model.ReviewRecord, error) {
	text := CleanText(raw.Text)
	if utf8.RuneCountInString(text) <= MinTextLength {
		return model.ReviewRecord{}, ErrTextTooShort
	}

	rating, err := strconv.Atoi(strings.TrimSpace(raw.Rating))
	if err != nil || rating < 1 || rating > 5 {
		return model.ReviewRecord{}, fmt.Errorf("%w: %q", ErrInvalidRating, raw.Rating)
	}

	date, err := NormalizeDate(raw.Date)
	if err != nil {
		return model.ReviewRecord{}, err
	}

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = uuid.NewString()
	}

	return model.ReviewRecord{
		ID:               id,
		Text:             text,
		Rating:           rating,
		Date:             date,
		EmbeddingContext: EmbeddingContext(rating, text),
	}, nil
}

// PrepareAll cleans every raw row, dropping rejected ones. It returns the
// kept records and the number of dropped rows.
func PrepareAll(raws []RawReview) ([]model.ReviewRecord, int) {
	records := make([]model.ReviewRecord, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		record, err := Prepare(raw)
		if err != nil {
			dropped++
			continue
		}
		records = append(records, record)
	}
	return records, dropped
}
