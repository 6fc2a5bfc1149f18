package synth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josevbrito/food-review-agent/internal/model"
	"github.com/josevbrito/food-review-agent/internal/prep"
)

// Source tags synthetic entries in the index metadata.
const Source = "synthetic"

var categories = []string{
	"Sushi", "Pizza", "Hambúrguer", "Açaí", "Marmita", "Cachorro-quente", "Doce e Bolo", "Salgado",
}

var sentiments = []string{
	"Muito Positivo", "Positivo", "Neutro", "Negativo", "Muito Negativo",
}

// Personas vary the writing style so the synthetic corpus is not uniform.
var personas = []string{
	"Jovem de Internet (use abreviações como 'mt', 'vc', 'pq', 'n', sem pontuação, tudo minúsculo)",
	"Cliente Furioso (USE CAPS LOCK, MUITA EXCLAMAÇÃO!!!, indignado)",
	"Cliente com Pressa (cometa erros de digitação propositais, frases curtas, sem nexo)",
	"Cliente Detalhista (texto mais longo, focado na embalagem e temperatura)",
}

// Completer is the slice of the LLM client the generator needs.
type Completer interface {
	CompleteText(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Generator produces LLM-written PT-BR reviews covering every category and
// sentiment combination.
type Generator struct {
	llm Completer
}

func NewGenerator(llm Completer) *Generator {
	return &Generator{llm: llm}
}

// Generate writes one review per category/sentiment pair. Individual
// generation failures are logged and skipped; only a fully failed run is an
// error.
func (g *Generator) Generate(ctx context.Context) ([]model.ReviewRecord, error) {
	today := time.Now().Format("2006-01-02")
	var records []model.ReviewRecord
	failures := 0

	for _, category := range categories {
		for _, sentiment := range sentiments {
			persona := personas[rand.IntN(len(personas))]

			text, err := g.llm.CompleteText(ctx, reviewPrompt(category, sentiment, persona), 1.0)
			if err != nil {
				log.Printf("generate review (%s/%s) failed: %v", category, sentiment, err)
				failures++
				continue
			}
			text = prep.CleanText(strings.ReplaceAll(text, `"`, ""))
			rating := ratingFor(sentiment)

			record, err := prep.Prepare(prep.RawReview{
				ID:     uuid.NewString(),
				Text:   text,
				Rating: fmt.Sprintf("%d", rating),
				Date:   today,
			})
			if err != nil {
				log.Printf("generated review (%s/%s) rejected: %v", category, sentiment, err)
				failures++
				continue
			}
			records = append(records, record)
		}
	}

	if len(records) == 0 {
		return nil, errors.New("synthetic generation produced no usable reviews")
	}
	if failures > 0 {
		log.Printf("synthetic generation finished with %d failures out of %d prompts",
			failures, len(categories)*len(sentiments))
	}
	return records, nil
}

func reviewPrompt(category, sentiment, persona string) string {
	return fmt.Sprintf(`Atue como um cliente brasileiro real do iFood fazendo uma avaliação.
Produto: %s.
Sentimento: %s.
Persona: %s.

IMPORTANTE:
- Não seja polido. Seja visceral.
- Se for negativo, reclame do motoboy, do atraso ou da comida fria.
- Se for positivo, elogie o sabor ou a entrega rápida.
- Mantenha curto (máximo 2 frases).
- Responda APENAS o texto do review, nada mais.`, category, sentiment, persona)
}

func ratingFor(sentiment string) int {
	switch sentiment {
	case "Muito Positivo":
		return 5
	case "Positivo":
		return 4
	case "Neutro":
		return 3
	case "Negativo":
		return 2
	default:
		return 1
	}
}
