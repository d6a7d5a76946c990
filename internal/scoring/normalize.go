package scoring

import "math"

// Normalize convierte un par de puntajes crudos en porcentajes que suman 100.
// Ambos se desplazan por el minimo para que el menor quede en cero; si no queda
// diferencia el resultado es 50/50. El lado derecho siempre se deriva por resta.
func Normalize(a, b float64) (int, int) {
	m := math.Min(a, b)
	shiftedA := a - m
	total := shiftedA + (b - m)
	if total == 0 {
		return 50, 50
	}
	pctA := int(math.Round(shiftedA / total * 100))
	return pctA, 100 - pctA
}
