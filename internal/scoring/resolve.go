package scoring

import (
	"fmt"
	"math"
	"strings"

	"typescore/internal/domain"
)

// Resolve elige la letra ganadora de cada dicotomia y arma el codigo en orden
// EI, SN, TF, JP. En empate gana la letra izquierda (E, S, T, J).
// Un puntaje NaN es un error de programacion y provoca panic.
func Resolve(scores domain.Scores) (string, [4]domain.Letter) {
	var (
		code    strings.Builder
		winners [4]domain.Letter
	)
	for i, d := range domain.Dichotomies {
		left, right := d.Left(), d.Right()
		a, b := scores[left], scores[right]
		if math.IsNaN(a) || math.IsNaN(b) {
			panic(fmt.Sprintf("scoring: NaN score in dichotomy %s", d))
		}
		winner := right
		if a >= b {
			winner = left
		}
		winners[i] = winner
		code.WriteString(string(winner))
	}
	return code.String(), winners
}
