package domain

// Question es una pregunta del catalogo con su vector de pesos.
// Los pesos son datos de autoria: el motor nunca los modifica.
type Question struct {
	ID         int                `json:"id"`
	Dichotomy  Dichotomy          `json:"dichotomy"`
	Prompt     string             `json:"prompt"`
	LeftLabel  string             `json:"left_label"`
	RightLabel string             `json:"right_label"`
	Weights    map[Letter]float64 `json:"-"`
}

// PublicQuestion es la forma expuesta al cliente; no incluye pesos.
type PublicQuestion struct {
	ID         int       `json:"id"`
	Prompt     string    `json:"prompt"`
	LeftLabel  string    `json:"left_label"`
	RightLabel string    `json:"right_label"`
	Dichotomy  Dichotomy `json:"dichotomy"`
	Letters    [2]Letter `json:"letters"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Prompt:     q.Prompt,
		LeftLabel:  q.LeftLabel,
		RightLabel: q.RightLabel,
		Dichotomy:  q.Dichotomy,
		Letters:    q.Dichotomy.Pair(),
	}
}

// Answer es una respuesta Likert de 5 puntos (-2..2).
type Answer struct {
	QuestionID int `json:"question_id"`
	Value      int `json:"value"`
}

const (
	MinAnswerValue = -2
	MaxAnswerValue = 2
)
