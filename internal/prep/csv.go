package prep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/josevbrito/food-review-agent/internal/model"
)

// Column aliases accepted in raw datasets. The Olist review export uses the
// long names; the short ones match our own cleaned layout.
var rawColumnAliases = map[string]string{
	"review_id":              "id",
	"id":                     "id",
	"review_comment_message": "text",
	"review_text":            "text",
	"text":                   "text",
	"review_score":           "rating",
	"rating":                 "rating",
	"review_creation_date":   "date",
	"date":                   "date",
}

// ReadRaw loads raw review rows from a CSV file, remapping known column
// aliases. Rows shorter than the header are skipped.
func ReadRaw(path string) ([]RawReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raw csv failed: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read raw csv header failed: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		if canonical, ok := rawColumnAliases[strings.TrimSpace(strings.ToLower(name))]; ok {
			columns[canonical] = i
		}
	}
	if _, ok := columns["text"]; !ok {
		return nil, fmt.Errorf("raw csv has no review text column (header: %v)", header)
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var raws []RawReview
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read raw csv row failed: %w", err)
		}
		raws = append(raws, RawReview{
			ID:     field(row, "id"),
			Text:   field(row, "text"),
			Rating: field(row, "rating"),
			Date:   field(row, "date"),
		})
	}
	return raws, nil
}

// WriteClean persists cleaned records as CSV with the layout
// id,review_text,rating,date,embedding_context.
func WriteClean(path string, records []model.ReviewRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir failed: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create clean csv failed: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"id", "review_text", "rating", "date", "embedding_context"}); err != nil {
		return fmt.Errorf("write clean csv header failed: %w", err)
	}
	for _, r := range records {
		row := []string{r.ID, r.Text, strconv.Itoa(r.Rating), r.Date, r.EmbeddingContext}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write clean csv row failed: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush clean csv failed: %w", err)
	}
	return nil
}

// ReadClean loads previously cleaned records back from CSV.
func ReadClean(path string) ([]model.ReviewRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clean csv failed: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clean csv failed: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("clean csv %s is empty", path)
	}

	var records []model.ReviewRecord
	for _, row := range rows[1:] {
		if len(row) < 5 {
			continue
		}
		rating, err := strconv.Atoi(row[2])
		if err != nil {
			continue
		}
		records = append(records, model.ReviewRecord{
			ID:               row[0],
			Text:             row[1],
			Rating:           rating,
			Date:             row[3],
			EmbeddingContext: row[4],
		})
	}
	return records, nil
}
