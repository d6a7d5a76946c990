package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"typescore/internal/domain"
)

var (
	ErrMalformedWeight   = errors.New("malformed weight")
	ErrInvalidQuestion   = errors.New("invalid question")
	ErrDuplicateQuestion = errors.New("duplicate question id")
)

// Catalog es la tabla inmutable de preguntas agrupadas por dicotomia.
// Se construye una sola vez y se comparte en modo solo lectura.
type Catalog struct {
	byID        map[int]domain.Question
	byDichotomy map[domain.Dichotomy][]domain.Question
	total       int
}

// New valida las preguntas y construye el catalogo. Las preguntas se copian;
// modificar el slice de entrada despues no afecta al catalogo.
func New(questions []domain.Question) (*Catalog, error) {
	c := &Catalog{
		byID:        make(map[int]domain.Question, len(questions)),
		byDichotomy: make(map[domain.Dichotomy][]domain.Question, len(domain.Dichotomies)),
	}
	for _, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
		if _, exists := c.byID[q.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateQuestion, q.ID)
		}
		q = cloneQuestion(q)
		c.byID[q.ID] = q
		c.byDichotomy[q.Dichotomy] = append(c.byDichotomy[q.Dichotomy], q)
	}
	c.total = len(c.byID)
	return c, nil
}

func validateQuestion(q domain.Question) error {
	if q.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidQuestion, q.ID)
	}
	if !q.Dichotomy.Valid() {
		return fmt.Errorf("%w: question %d has unknown dichotomy %q", ErrInvalidQuestion, q.ID, q.Dichotomy)
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question %d has empty prompt", ErrInvalidQuestion, q.ID)
	}
	for letter, w := range q.Weights {
		if !letter.Valid() {
			return fmt.Errorf("%w: question %d has unknown letter %q", ErrMalformedWeight, q.ID, letter)
		}
		// NaN falla ambas comparaciones, por eso se niega el rango valido.
		if !(w >= 0 && w <= 1) {
			return fmt.Errorf("%w: question %d letter %s weight %v outside [0,1]", ErrMalformedWeight, q.ID, letter, w)
		}
	}
	return nil
}

func cloneQuestion(q domain.Question) domain.Question {
	weights := make(map[domain.Letter]float64, len(q.Weights))
	for l, w := range q.Weights {
		weights[l] = w
	}
	q.Weights = weights
	return q
}

// Lookup busca una pregunta por id. Devuelve una copia: modificar sus pesos
// no altera el catalogo.
func (c *Catalog) Lookup(id int) (domain.Question, bool) {
	q, ok := c.byID[id]
	if !ok {
		return domain.Question{}, false
	}
	return cloneQuestion(q), true
}

func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// Weight devuelve el peso de una letra sin copiar la pregunta.
func (c *Catalog) Weight(id int, l domain.Letter) (float64, bool) {
	q, ok := c.byID[id]
	if !ok {
		return 0, false
	}
	return q.Weights[l], true
}

// Pool devuelve copias de las preguntas de una dicotomia, en orden de carga.
func (c *Catalog) Pool(d domain.Dichotomy) []domain.Question {
	src := c.byDichotomy[d]
	out := make([]domain.Question, len(src))
	for i, q := range src {
		out[i] = cloneQuestion(q)
	}
	return out
}

// Count devuelve cuantas preguntas tiene una dicotomia.
func (c *Catalog) Count(d domain.Dichotomy) int {
	return len(c.byDichotomy[d])
}

func (c *Catalog) Len() int {
	return c.total
}

// IDs devuelve todos los ids ordenados.
func (c *Catalog) IDs() []int {
	ids := make([]int, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Loadings suma los pesos de todas las preguntas por letra. Sirve para revisar
// el balance del catalogo al momento de autoria.
func (c *Catalog) Loadings() map[domain.Letter]float64 {
	out := make(map[domain.Letter]float64, len(domain.Letters))
	for _, l := range domain.Letters {
		out[l] = 0
	}
	for _, id := range c.IDs() {
		q := c.byID[id]
		for _, l := range domain.Letters {
			out[l] += q.Weights[l]
		}
	}
	return out
}
