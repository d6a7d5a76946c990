package domain

import "fmt"

// Letter es una de las ocho letras de rasgo.
type Letter string

const (
	LetterE Letter = "E"
	LetterI Letter = "I"
	LetterS Letter = "S"
	LetterN Letter = "N"
	LetterT Letter = "T"
	LetterF Letter = "F"
	LetterJ Letter = "J"
	LetterP Letter = "P"
)

// Letters lista las letras en orden canonico. Se usa para iterar pesos de forma reproducible.
var Letters = [8]Letter{LetterE, LetterI, LetterS, LetterN, LetterT, LetterF, LetterJ, LetterP}

// Dichotomy identifica un par de letras opuestas.
type Dichotomy string

const (
	DichotomyEI Dichotomy = "EI"
	DichotomySN Dichotomy = "SN"
	DichotomyTF Dichotomy = "TF"
	DichotomyJP Dichotomy = "JP"
)

// Dichotomies en el orden en que se arma el codigo de tipo.
var Dichotomies = [4]Dichotomy{DichotomyEI, DichotomySN, DichotomyTF, DichotomyJP}

var letterDichotomy = map[Letter]Dichotomy{
	LetterE: DichotomyEI, LetterI: DichotomyEI,
	LetterS: DichotomySN, LetterN: DichotomySN,
	LetterT: DichotomyTF, LetterF: DichotomyTF,
	LetterJ: DichotomyJP, LetterP: DichotomyJP,
}

// ParseDichotomy acepta "EI", "ei" o "E/I".
func ParseDichotomy(raw string) (Dichotomy, error) {
	normalized := make([]byte, 0, 2)
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch == '/' || ch == ' ' {
			continue
		}
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		normalized = append(normalized, ch)
	}
	d := Dichotomy(normalized)
	if !d.Valid() {
		return "", fmt.Errorf("unknown dichotomy %q", raw)
	}
	return d, nil
}

func (d Dichotomy) Valid() bool {
	switch d {
	case DichotomyEI, DichotomySN, DichotomyTF, DichotomyJP:
		return true
	}
	return false
}

// Left devuelve la primera letra del par (gana los empates).
func (d Dichotomy) Left() Letter {
	return Letter(d[:1])
}

func (d Dichotomy) Right() Letter {
	return Letter(d[1:])
}

// Pair devuelve ambas letras del par, izquierda primero.
func (d Dichotomy) Pair() [2]Letter {
	return [2]Letter{d.Left(), d.Right()}
}

// ParseLetter normaliza una letra de rasgo.
func ParseLetter(raw string) (Letter, error) {
	if len(raw) == 1 {
		ch := raw[0]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		l := Letter(string(ch))
		if l.Valid() {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown letter %q", raw)
}

func (l Letter) Valid() bool {
	_, ok := letterDichotomy[l]
	return ok
}

// Dichotomy devuelve el par al que pertenece la letra.
func (l Letter) Dichotomy() Dichotomy {
	return letterDichotomy[l]
}

// Complement devuelve la letra opuesta dentro del mismo par.
func (l Letter) Complement() Letter {
	d := l.Dichotomy()
	if d.Left() == l {
		return d.Right()
	}
	return d.Left()
}
