package scoring

import (
	"fmt"
	"math/rand/v2"

	"typescore/internal/catalog"
	"typescore/internal/domain"
)

// Sample elige k preguntas por dicotomia sin reemplazo y devuelve las 4*k
// en un orden de presentacion aleatorio. rng se inyecta para que cada llamada
// tenga su propio generador y los tests puedan fijar la semilla.
func Sample(cat *catalog.Catalog, k int, rng *rand.Rand) ([]domain.Question, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInsufficientQuestions, k)
	}
	for _, d := range domain.Dichotomies {
		if n := cat.Count(d); n < k {
			return nil, fmt.Errorf("%w: dichotomy %s has %d, need %d", ErrInsufficientQuestions, d, n, k)
		}
	}

	selected := make([]domain.Question, 0, len(domain.Dichotomies)*k)
	for _, d := range domain.Dichotomies {
		pool := cat.Pool(d)
		shuffle(pool, rng)
		selected = append(selected, pool[:k]...)
	}
	shuffle(selected, rng)
	return selected, nil
}

// shuffle aplica Fisher-Yates en el lugar.
func shuffle(qs []domain.Question, rng *rand.Rand) {
	for i := len(qs) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}
