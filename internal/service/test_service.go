package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"typescore/internal/catalog"
	"typescore/internal/domain"
	"typescore/internal/metrics"
	"typescore/internal/scoring"
)

// TestService emite sets de preguntas y evalua las respuestas del test de tipo.
type TestService struct {
	catalog      *catalog.Catalog
	samples      SampleStore
	metrics      *metrics.Recorder
	logger       *zap.Logger
	perDichotomy int
	sampleTTL    time.Duration
	newRand      func() *rand.Rand
	newToken     func() string
	now          func() time.Time
}

// TestOptions ajusta el muestreo. Seed 0 usa una semilla aleatoria por test.
type TestOptions struct {
	QuestionsPerDichotomy int
	SampleTTL             time.Duration
	Seed                  uint64
}

var (
	ErrTestServiceNotConfigured = errors.New("test service not configured")
	ErrNoAnswers                = errors.New("no answers submitted")
	ErrDuplicateAnswer          = errors.New("duplicate answer")
	ErrSampleNotFound           = errors.New("sample not found or expired")
	ErrQuestionNotIssued        = errors.New("question not part of sample")
)

func NewTestService(cat *catalog.Catalog, samples SampleStore, rec *metrics.Recorder, logger *zap.Logger, opts TestOptions) *TestService {
	if samples == nil {
		samples = NewMemorySampleStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.QuestionsPerDichotomy <= 0 {
		opts.QuestionsPerDichotomy = 11
	}
	if opts.SampleTTL <= 0 {
		opts.SampleTTL = time.Hour
	}
	return &TestService{
		catalog:      cat,
		samples:      samples,
		metrics:      rec,
		logger:       logger,
		perDichotomy: opts.QuestionsPerDichotomy,
		sampleTTL:    opts.SampleTTL,
		newRand:      randFactory(opts.Seed),
		newToken:     uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// randFactory devuelve un generador nuevo por llamada. Con semilla fija la
// secuencia de tests es reproducible; sin semilla cada test usa una aleatoria.
func randFactory(seed uint64) func() *rand.Rand {
	if seed == 0 {
		return func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	var stream atomic.Uint64
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, stream.Add(1)))
	}
}

// TestSheet es lo que recibe el cliente para responder.
type TestSheet struct {
	Token     string                  `json:"token"`
	Questions []domain.PublicQuestion `json:"questions"`
	ExpiresAt time.Time               `json:"expires_at"`
}

// StartTest muestrea las preguntas y registra el set emitido bajo un token nuevo.
func (s *TestService) StartTest(ctx context.Context) (TestSheet, error) {
	if s == nil || s.catalog == nil {
		return TestSheet{}, ErrTestServiceNotConfigured
	}

	questions, err := scoring.Sample(s.catalog, s.perDichotomy, s.newRand())
	if err != nil {
		s.logger.Error("sample questions failed", zap.Error(err))
		return TestSheet{}, err
	}

	sheet := TestSheet{
		Token:     s.newToken(),
		Questions: make([]domain.PublicQuestion, len(questions)),
		ExpiresAt: s.now().Add(s.sampleTTL),
	}
	ids := make([]int, len(questions))
	for i, q := range questions {
		sheet.Questions[i] = q.Public()
		ids[i] = q.ID
	}

	if err := s.samples.Save(ctx, sheet.Token, ids, s.sampleTTL); err != nil {
		return TestSheet{}, fmt.Errorf("save sample: %w", err)
	}

	s.metrics.TestStarted()
	s.logger.Info("test started", zap.String("token", sheet.Token), zap.Int("questions", len(ids)))
	return sheet, nil
}

// SubmitTest evalua las respuestas. Si se envia token, cada respuesta debe
// pertenecer al set emitido y el token se consume al evaluar con exito.
func (s *TestService) SubmitTest(ctx context.Context, token string, answers []domain.Answer) (domain.Result, error) {
	if s == nil || s.catalog == nil {
		return domain.Result{}, ErrTestServiceNotConfigured
	}
	if len(answers) == 0 {
		s.metrics.ScoringError("no_answers")
		return domain.Result{}, ErrNoAnswers
	}
	if err := checkDuplicates(answers); err != nil {
		s.metrics.ScoringError("duplicate_answer")
		return domain.Result{}, err
	}

	token = strings.TrimSpace(token)
	if token != "" {
		if err := s.checkIssued(ctx, token, answers); err != nil {
			return domain.Result{}, err
		}
	}

	result, err := scoring.Evaluate(s.catalog, answers)
	if err != nil {
		s.metrics.ScoringError(errorReason(err))
		s.logger.Warn("scoring rejected", zap.String("token", token), zap.Error(err))
		return domain.Result{}, fmt.Errorf("evaluate answers: %w", err)
	}

	// Solo el envio que consume el sample obtiene el resultado; un segundo
	// envio concurrente con el mismo token ve ErrSampleNotFound.
	if token != "" {
		_, ok, err := s.samples.Take(ctx, token)
		if err != nil {
			return domain.Result{}, fmt.Errorf("take sample: %w", err)
		}
		if !ok {
			s.metrics.ScoringError("sample_not_found")
			return domain.Result{}, ErrSampleNotFound
		}
	}

	s.metrics.TestScored(result.Type, len(answers))
	s.logger.Info("test scored",
		zap.String("token", token),
		zap.String("type", result.Type),
		zap.Int("answers", len(answers)),
	)
	return result, nil
}

// Catalog expone el catalogo cargado (solo lectura).
func (s *TestService) Catalog() *catalog.Catalog {
	if s == nil {
		return nil
	}
	return s.catalog
}

func (s *TestService) checkIssued(ctx context.Context, token string, answers []domain.Answer) error {
	ids, ok, err := s.samples.Load(ctx, token)
	if err != nil {
		return fmt.Errorf("load sample: %w", err)
	}
	if !ok {
		s.metrics.ScoringError("sample_not_found")
		return ErrSampleNotFound
	}
	issued := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		issued[id] = struct{}{}
	}
	for _, a := range answers {
		if _, ok := issued[a.QuestionID]; !ok {
			s.metrics.ScoringError("not_issued")
			return fmt.Errorf("%w: %d", ErrQuestionNotIssued, a.QuestionID)
		}
	}
	return nil
}

func checkDuplicates(answers []domain.Answer) error {
	seen := make(map[int]struct{}, len(answers))
	for _, a := range answers {
		if _, ok := seen[a.QuestionID]; ok {
			return fmt.Errorf("%w: question %d", ErrDuplicateAnswer, a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}
	}
	return nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, scoring.ErrUnknownQuestion):
		return "unknown_question"
	case errors.Is(err, scoring.ErrInvalidAnswerValue):
		return "invalid_value"
	default:
		return "other"
	}
}
