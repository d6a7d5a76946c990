package scoring

import (
	"fmt"

	"typescore/internal/catalog"
	"typescore/internal/domain"
)

// Score acumula las respuestas sobre las ocho letras.
//
// Cada letra con peso no nulo recibe value*weight y su complemento pierde lo
// mismo, aunque la letra no pertenezca a la dicotomia primaria de la pregunta.
// Las respuestas se recorren en orden de entrada y los pesos en orden canonico
// de letras para que el resultado en punto flotante sea reproducible.
//
// Un id desconocido o un valor fuera de [-2,2] invalida toda la evaluacion.
func Score(cat *catalog.Catalog, answers []domain.Answer) (domain.Scores, error) {
	scores := domain.NewScores()
	for _, a := range answers {
		if a.Value < domain.MinAnswerValue || a.Value > domain.MaxAnswerValue {
			return nil, fmt.Errorf("%w: question %d value %d", ErrInvalidAnswerValue, a.QuestionID, a.Value)
		}
		if !cat.Has(a.QuestionID) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, a.QuestionID)
		}
		for _, letter := range domain.Letters {
			w, _ := cat.Weight(a.QuestionID, letter)
			if w == 0 {
				continue
			}
			contribution := float64(a.Value) * w
			scores[letter] += contribution
			scores[letter.Complement()] -= contribution
		}
	}
	return scores, nil
}

// Evaluate corre el pipeline completo: acumulacion, normalizacion y resolucion.
// No hay resultados parciales: o se resuelven las cuatro dicotomias o falla.
func Evaluate(cat *catalog.Catalog, answers []domain.Answer) (domain.Result, error) {
	scores, err := Score(cat, answers)
	if err != nil {
		return domain.Result{}, err
	}

	code, winners := Resolve(scores)
	result := domain.Result{
		Type:        code,
		Dichotomies: make([]domain.DichotomyResult, 0, len(domain.Dichotomies)),
		Scores:      scores,
	}
	for i, d := range domain.Dichotomies {
		left, right := d.Left(), d.Right()
		pctLeft, pctRight := Normalize(scores[left], scores[right])
		result.Dichotomies = append(result.Dichotomies, domain.DichotomyResult{
			Dichotomy:    d,
			Left:         left,
			Right:        right,
			LeftPercent:  pctLeft,
			RightPercent: pctRight,
			Winner:       winners[i],
		})
	}
	return result, nil
}
