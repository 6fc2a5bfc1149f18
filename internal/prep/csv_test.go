package prep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josevbrito/food-review-agent/internal/model"
)

func TestReadRawOlistHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	content := "review_id,review_comment_message,review_score,review_creation_date\n" +
		"r1,\"Comida chegou fria, horrível\",1,2018-03-01 00:00:00\n" +
		"r2,Entrega rápida e comida quente,5,2018-03-02 00:00:00\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	raws, err := ReadRaw(path)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "r1", raws[0].ID)
	assert.Equal(t, "Comida chegou fria, horrível", raws[0].Text)
	assert.Equal(t, "1", raws[0].Rating)
	assert.Equal(t, "2018-03-01 00:00:00", raws[0].Date)
}

func TestReadRawMissingTextColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, os.WriteFile(path, []byte("review_id,review_score\nr1,5\n"), 0o644))

	_, err := ReadRaw(path)
	assert.Error(t, err)
}

func TestCleanCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "reviews_clean.csv")
	records := []model.ReviewRecord{
		{
			ID:               "r1",
			Text:             "Comida chegou fria e atrasada",
			Rating:           1,
			Date:             "2018-03-01",
			EmbeddingContext: "Rating: 1/5. Review: Comida chegou fria e atrasada",
		},
		{
			ID:               "r2",
			Text:             "Entrega rápida, tudo perfeito",
			Rating:           5,
			Date:             "2018-03-02",
			EmbeddingContext: "Rating: 5/5. Review: Entrega rápida, tudo perfeito",
		},
	}

	require.NoError(t, WriteClean(path, records))

	loaded, err := ReadClean(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}
