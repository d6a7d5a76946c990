package domain

// Scores acumula el puntaje crudo por letra durante una sola evaluacion.
type Scores map[Letter]float64

// NewScores inicializa las ocho letras en cero.
func NewScores() Scores {
	s := make(Scores, len(Letters))
	for _, l := range Letters {
		s[l] = 0
	}
	return s
}

// DichotomyResult resume un par: porcentajes complementarios y letra ganadora.
type DichotomyResult struct {
	Dichotomy    Dichotomy `json:"dichotomy"`
	Left         Letter    `json:"left"`
	Right        Letter    `json:"right"`
	LeftPercent  int       `json:"left_percent"`
	RightPercent int       `json:"right_percent"`
	Winner       Letter    `json:"winner"`
}

// Result es la salida completa de una evaluacion. Los puntajes crudos no se
// serializan: con respuestas parciales revelarian el vector de pesos.
type Result struct {
	Type        string            `json:"type"`
	Dichotomies []DichotomyResult `json:"dichotomies"`
	Scores      Scores            `json:"-"`
}
