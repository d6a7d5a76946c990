package scoring

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typescore/internal/catalog"
	"typescore/internal/domain"
)

// buildCatalog arma las preguntas pedidas por dicotomia con ids 100.., 200.., etc.
func buildCatalog(t *testing.T, perDichotomy map[domain.Dichotomy]int) *catalog.Catalog {
	t.Helper()
	var qs []domain.Question
	for i, d := range domain.Dichotomies {
		for n := 0; n < perDichotomy[d]; n++ {
			qs = append(qs, domain.Question{
				ID:        (i+1)*100 + n,
				Dichotomy: d,
				Prompt:    fmt.Sprintf("%s question %d", d, n),
				Weights: map[domain.Letter]float64{
					d.Left():       0.8,
					domain.LetterP: 0.1,
				},
			})
		}
	}
	cat, err := catalog.New(qs)
	require.NoError(t, err)
	return cat
}

func uniform(n int) map[domain.Dichotomy]int {
	return map[domain.Dichotomy]int{
		domain.DichotomyEI: n,
		domain.DichotomySN: n,
		domain.DichotomyTF: n,
		domain.DichotomyJP: n,
	}
}

func TestSampleReturnsKPerDichotomyWithoutDuplicates(t *testing.T) {
	cat := buildCatalog(t, uniform(15))
	rng := rand.New(rand.NewPCG(1, 2))

	qs, err := Sample(cat, 11, rng)
	require.NoError(t, err)
	require.Len(t, qs, 44)

	seen := make(map[int]bool, len(qs))
	counts := make(map[domain.Dichotomy]int)
	for _, q := range qs {
		assert.False(t, seen[q.ID], "duplicate id %d", q.ID)
		seen[q.ID] = true
		counts[q.Dichotomy]++
	}
	for _, d := range domain.Dichotomies {
		assert.Equal(t, 11, counts[d], "dichotomy %s", d)
	}
}

func TestSampleIsReproducibleWithSameSeed(t *testing.T) {
	cat := buildCatalog(t, uniform(15))

	first, err := Sample(cat, 11, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)
	second, err := Sample(cat, 11, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)

	require.Equal(t, ids(first), ids(second))
}

func TestSampleInterleavesDichotomies(t *testing.T) {
	cat := buildCatalog(t, uniform(11))
	qs, err := Sample(cat, 11, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)

	// Con 44 elementos barajados, que los primeros 11 sean todos de la misma
	// dicotomia es practicamente imposible para una semilla fija.
	first := qs[0].Dichotomy
	mixed := false
	for _, q := range qs[:11] {
		if q.Dichotomy != first {
			mixed = true
			break
		}
	}
	assert.True(t, mixed, "expected presentation order to mix dichotomies")
}

func TestSampleSelectionAndOrderAreUniform(t *testing.T) {
	cat := buildCatalog(t, uniform(2))
	rng := rand.New(rand.NewPCG(2024, 5))
	const trials = 20000

	picks := make(map[int]int)
	positions := make(map[domain.Dichotomy][4]int)
	for i := 0; i < trials; i++ {
		qs, err := Sample(cat, 1, rng)
		require.NoError(t, err)
		require.Len(t, qs, 4)
		for pos, q := range qs {
			picks[q.ID]++
			counts := positions[q.Dichotomy]
			counts[pos]++
			positions[q.Dichotomy] = counts
		}
	}

	// Cada pregunta de un pool de 2 deberia salir la mitad de las veces.
	for _, id := range cat.IDs() {
		rate := float64(picks[id]) / trials
		assert.InDelta(t, 0.5, rate, 0.03, "question %d pick rate", id)
	}
	// Cada dicotomia deberia ocupar cada una de las 4 posiciones ~1/4 de las veces.
	for _, d := range domain.Dichotomies {
		for pos, n := range positions[d] {
			rate := float64(n) / trials
			assert.InDelta(t, 0.25, rate, 0.03, "dichotomy %s at position %d", d, pos)
		}
	}
}

func TestSampleDoesNotMutateCatalog(t *testing.T) {
	cat := buildCatalog(t, uniform(12))
	before := ids(cat.Pool(domain.DichotomyEI))

	_, err := Sample(cat, 11, rand.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)

	assert.Equal(t, before, ids(cat.Pool(domain.DichotomyEI)))
}

func TestSampleInsufficientQuestions(t *testing.T) {
	counts := uniform(11)
	counts[domain.DichotomyJP] = 10
	cat := buildCatalog(t, counts)

	_, err := Sample(cat, 11, rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, ErrInsufficientQuestions)

	_, err = Sample(cat, 0, rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, ErrInsufficientQuestions)
}

func singleQuestionCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]domain.Question{{
		ID:        11,
		Dichotomy: domain.DichotomyEI,
		Prompt:    "parties recharge me",
		Weights:   map[domain.Letter]float64{domain.LetterE: 0.72, domain.LetterP: 0.65},
	}})
	require.NoError(t, err)
	return cat
}

func TestScoreAppliesEveryWeight(t *testing.T) {
	cat := singleQuestionCatalog(t)

	scores, err := Score(cat, []domain.Answer{{QuestionID: 11, Value: 2}})
	require.NoError(t, err)

	assert.InDelta(t, 1.44, scores[domain.LetterE], 1e-12)
	assert.InDelta(t, -1.44, scores[domain.LetterI], 1e-12)
	assert.InDelta(t, 1.30, scores[domain.LetterP], 1e-12)
	assert.InDelta(t, -1.30, scores[domain.LetterJ], 1e-12)
	for _, l := range []domain.Letter{domain.LetterS, domain.LetterN, domain.LetterT, domain.LetterF} {
		assert.Zero(t, scores[l], "letter %s", l)
	}
}

func TestScoreMovesForeignDichotomy(t *testing.T) {
	cat, err := catalog.New([]domain.Question{{
		ID:        5,
		Dichotomy: domain.DichotomyEI,
		Prompt:    "foreign only",
		Weights:   map[domain.Letter]float64{domain.LetterN: 0.5},
	}})
	require.NoError(t, err)

	scores, err := Score(cat, []domain.Answer{{QuestionID: 5, Value: -2}})
	require.NoError(t, err)

	assert.InDelta(t, -1.0, scores[domain.LetterN], 1e-12)
	assert.InDelta(t, 1.0, scores[domain.LetterS], 1e-12)
	assert.Zero(t, scores[domain.LetterE])
	assert.Zero(t, scores[domain.LetterI])
}

func TestScoreIsDeterministic(t *testing.T) {
	cat := buildCatalog(t, uniform(15))
	var answers []domain.Answer
	for i, id := range cat.IDs() {
		answers = append(answers, domain.Answer{QuestionID: id, Value: i%5 - 2})
	}

	first, err := Score(cat, answers)
	require.NoError(t, err)
	second, err := Score(cat, answers)
	require.NoError(t, err)

	for _, l := range domain.Letters {
		assert.Equal(t, math.Float64bits(first[l]), math.Float64bits(second[l]), "letter %s", l)
	}
}

func TestScoreRejectsUnknownQuestion(t *testing.T) {
	cat := singleQuestionCatalog(t)
	_, err := Score(cat, []domain.Answer{{QuestionID: 11, Value: 1}, {QuestionID: 999, Value: 1}})
	require.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestScoreRejectsOutOfRangeValue(t *testing.T) {
	cat := singleQuestionCatalog(t)
	for _, v := range []int{-3, 3, 100} {
		_, err := Score(cat, []domain.Answer{{QuestionID: 11, Value: v}})
		require.ErrorIs(t, err, ErrInvalidAnswerValue, "value %d", v)
	}
}

func TestNormalizeExamples(t *testing.T) {
	tests := []struct {
		name      string
		a, b      float64
		wantLeft  int
		wantRight int
	}{
		{"all to left", 2.88, -2.88, 100, 0},
		{"zero total", 0, 0, 50, 50},
		{"equal non zero", 10, 10, 50, 50},
		{"all to right", -1, 3, 0, 100},
		{"both positive", 1, 2, 0, 100},
		{"both negative", -0.5, -4, 100, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			left, right := Normalize(tc.a, tc.b)
			assert.Equal(t, tc.wantLeft, left)
			assert.Equal(t, tc.wantRight, right)
		})
	}
}

func TestNormalizeAlwaysSumsToHundred(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	for i := 0; i < 10000; i++ {
		a := (rng.Float64() - 0.5) * 50
		b := (rng.Float64() - 0.5) * 50
		left, right := Normalize(a, b)
		require.Equal(t, 100, left+right, "a=%v b=%v", a, b)
		require.GreaterOrEqual(t, left, 0)
		require.GreaterOrEqual(t, right, 0)
	}
}

func TestResolveTieBreaksToLeftLetter(t *testing.T) {
	scores := domain.NewScores()
	for _, l := range domain.Letters {
		scores[l] = 10
	}
	code, winners := Resolve(scores)
	assert.Equal(t, "ESTJ", code)
	assert.Equal(t, domain.LetterE, winners[0])
}

func TestResolvePicksHigherScore(t *testing.T) {
	scores := domain.Scores{
		domain.LetterE: -1, domain.LetterI: 1,
		domain.LetterS: 0.1, domain.LetterN: 0,
		domain.LetterT: -3, domain.LetterF: 3,
		domain.LetterJ: 0, domain.LetterP: 0.01,
	}
	code, _ := Resolve(scores)
	assert.Equal(t, "ISFP", code)
}

func TestResolvePanicsOnNaN(t *testing.T) {
	scores := domain.NewScores()
	scores[domain.LetterT] = math.NaN()
	assert.Panics(t, func() { Resolve(scores) })
}

func TestEvaluateTwoAnswersAllTowardE(t *testing.T) {
	cat, err := catalog.New([]domain.Question{
		{ID: 1, Dichotomy: domain.DichotomyEI, Prompt: "a", Weights: map[domain.Letter]float64{domain.LetterE: 0.72}},
		{ID: 2, Dichotomy: domain.DichotomyEI, Prompt: "b", Weights: map[domain.Letter]float64{domain.LetterE: 0.72}},
	})
	require.NoError(t, err)

	result, err := Evaluate(cat, []domain.Answer{{QuestionID: 1, Value: 2}, {QuestionID: 2, Value: 2}})
	require.NoError(t, err)

	assert.Equal(t, "ESTJ", result.Type)
	require.Len(t, result.Dichotomies, 4)
	ei := result.Dichotomies[0]
	assert.Equal(t, domain.DichotomyEI, ei.Dichotomy)
	assert.Equal(t, 100, ei.LeftPercent)
	assert.Equal(t, 0, ei.RightPercent)
	assert.Equal(t, domain.LetterE, ei.Winner)
	for _, dr := range result.Dichotomies[1:] {
		assert.Equal(t, 50, dr.LeftPercent, "dichotomy %s", dr.Dichotomy)
		assert.Equal(t, 50, dr.RightPercent, "dichotomy %s", dr.Dichotomy)
		assert.Equal(t, dr.Left, dr.Winner)
	}
}

func TestEvaluateNoPartialResult(t *testing.T) {
	cat := singleQuestionCatalog(t)
	result, err := Evaluate(cat, []domain.Answer{{QuestionID: 11, Value: 2}, {QuestionID: 12, Value: 1}})
	require.ErrorIs(t, err, ErrUnknownQuestion)
	assert.Empty(t, result.Type)
	assert.Nil(t, result.Dichotomies)
}

func ids(qs []domain.Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
