package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"typescore/internal/domain"
	"typescore/internal/scoring"
	"typescore/internal/service"
)

// TestHandler mantiene dependencias para los endpoints del test de tipo.
type TestHandler struct {
	logger  *zap.Logger
	testSvc *service.TestService
}

// NewTestHandler crea una instancia de TestHandler.
func NewTestHandler(logger *zap.Logger, testSvc *service.TestService) *TestHandler {
	return &TestHandler{
		logger:  logger,
		testSvc: testSvc,
	}
}

// Health maneja GET /healthz.
func (h *TestHandler) Health(c *gin.Context) {
	cat := h.testSvc.Catalog()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "catalog not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "questions": cat.Len()})
}

// StartTest maneja GET /test/questions.
func (h *TestHandler) StartTest(c *gin.Context) {
	sheet, err := h.testSvc.StartTest(c.Request.Context())
	if err != nil {
		if errors.Is(err, scoring.ErrInsufficientQuestions) || errors.Is(err, service.ErrTestServiceNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question catalog unavailable"})
			return
		}
		h.logger.Error("start test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start test"})
		return
	}

	c.JSON(http.StatusOK, sheet)
}

type answerRequest struct {
	QuestionID int  `json:"question_id" binding:"required"`
	Value      *int `json:"value" binding:"required,min=-2,max=2"`
}

// SubmitTest maneja POST /test/submit.
func (h *TestHandler) SubmitTest(c *gin.Context) {
	var req struct {
		Token   string          `json:"token"`
		Answers []answerRequest `json:"answers" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answers := make([]domain.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = domain.Answer{QuestionID: a.QuestionID, Value: *a.Value}
	}

	result, err := h.testSvc.SubmitTest(c.Request.Context(), req.Token, answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSampleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		case errors.Is(err, service.ErrNoAnswers),
			errors.Is(err, service.ErrDuplicateAnswer),
			errors.Is(err, service.ErrQuestionNotIssued),
			errors.Is(err, scoring.ErrUnknownQuestion),
			errors.Is(err, scoring.ErrInvalidAnswerValue):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, service.ErrTestServiceNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question catalog unavailable"})
			return
		default:
			h.logger.Error("submit test failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not score test"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
