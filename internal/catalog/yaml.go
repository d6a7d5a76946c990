package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"typescore/internal/domain"
)

// fileFormat es el formato en disco: preguntas agrupadas por dicotomia primaria.
//
//	dichotomies:
//	  EI:
//	    - id: 11
//	      prompt: "..."
//	      left: "..."
//	      right: "..."
//	      weights: {E: 0.72, P: 0.65}
type fileFormat struct {
	Dichotomies map[string][]fileQuestion `yaml:"dichotomies"`
}

type fileQuestion struct {
	ID      int                `yaml:"id"`
	Prompt  string             `yaml:"prompt"`
	Left    string             `yaml:"left"`
	Right   string             `yaml:"right"`
	Weights map[string]float64 `yaml:"weights"`
}

// LoadFile lee y valida un catalogo YAML.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parsea un catalogo YAML desde r.
func Decode(r io.Reader) (*Catalog, error) {
	var raw fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	keys := make([]string, 0, len(raw.Dichotomies))
	for k := range raw.Dichotomies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var questions []domain.Question
	for _, key := range keys {
		d, err := domain.ParseDichotomy(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
		}
		for _, fq := range raw.Dichotomies[key] {
			weights := make(map[domain.Letter]float64, len(fq.Weights))
			for rawLetter, w := range fq.Weights {
				letter, err := domain.ParseLetter(rawLetter)
				if err != nil {
					return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedWeight, fq.ID, err)
				}
				// "e" y "E" normalizan a la misma letra; el orden del mapa es aleatorio.
				if _, dup := weights[letter]; dup {
					return nil, fmt.Errorf("%w: question %d repeats letter %s", ErrMalformedWeight, fq.ID, letter)
				}
				weights[letter] = w
			}
			questions = append(questions, domain.Question{
				ID:         fq.ID,
				Dichotomy:  d,
				Prompt:     fq.Prompt,
				LeftLabel:  fq.Left,
				RightLabel: fq.Right,
				Weights:    weights,
			})
		}
	}
	return New(questions)
}
