package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"typescore/internal/catalog"
	"typescore/internal/domain"
)

// QuestionRepository lee el catalogo de preguntas desde una fuente externa.
type QuestionRepository interface {
	ListAll(ctx context.Context) ([]domain.Question, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgQuestionRepository struct {
	pool querier
}

func NewPgQuestionRepository(pool querier) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

// ListAll devuelve todas las preguntas ordenadas por dicotomia e id.
// La validacion de pesos la hace catalog.New.
func (r *PgQuestionRepository) ListAll(ctx context.Context) ([]domain.Question, error) {
	const query = `
		SELECT id, dichotomy, prompt, left_label, right_label, weights
		FROM questions
		ORDER BY dichotomy, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			row        questionRow
			rawWeights []byte
		)
		if err := rows.Scan(
			&row.ID,
			&row.Dichotomy,
			&row.Prompt,
			&row.LeftLabel,
			&row.RightLabel,
			&rawWeights,
		); err != nil {
			return nil, err
		}
		if len(rawWeights) > 0 {
			if err := json.Unmarshal(rawWeights, &row.Weights); err != nil {
				return nil, fmt.Errorf("question %d weights: %w", row.ID, err)
			}
		}
		q, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}

// Upsert inserta o reemplaza una pregunta. Lo usa la herramienta de importacion de catalogos.
func (r *PgQuestionRepository) Upsert(ctx context.Context, q domain.Question) error {
	const query = `
		INSERT INTO questions (id, dichotomy, prompt, left_label, right_label, weights)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			dichotomy = EXCLUDED.dichotomy,
			prompt = EXCLUDED.prompt,
			left_label = EXCLUDED.left_label,
			right_label = EXCLUDED.right_label,
			weights = EXCLUDED.weights
	`

	weights := make(map[string]float64, len(q.Weights))
	for l, w := range q.Weights {
		weights[string(l)] = w
	}
	rawWeights, err := json.Marshal(weights)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		q.ID,
		string(q.Dichotomy),
		q.Prompt,
		q.LeftLabel,
		q.RightLabel,
		rawWeights,
	)
	return err
}

type questionRow struct {
	ID         int
	Dichotomy  string
	Prompt     string
	LeftLabel  string
	RightLabel string
	Weights    map[string]float64
}

func (r questionRow) toDomain() (domain.Question, error) {
	d, err := domain.ParseDichotomy(r.Dichotomy)
	if err != nil {
		return domain.Question{}, fmt.Errorf("question %d: %w", r.ID, err)
	}
	weights := make(map[domain.Letter]float64, len(r.Weights))
	for raw, w := range r.Weights {
		l, err := domain.ParseLetter(raw)
		if err != nil {
			return domain.Question{}, fmt.Errorf("question %d: %w", r.ID, err)
		}
		if _, dup := weights[l]; dup {
			return domain.Question{}, fmt.Errorf("%w: question %d repeats letter %s", catalog.ErrMalformedWeight, r.ID, l)
		}
		weights[l] = w
	}
	return domain.Question{
		ID:         r.ID,
		Dichotomy:  d,
		Prompt:     r.Prompt,
		LeftLabel:  r.LeftLabel,
		RightLabel: r.RightLabel,
		Weights:    weights,
	}, nil
}
