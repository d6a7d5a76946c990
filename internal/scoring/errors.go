package scoring

import "errors"

var (
	ErrInsufficientQuestions = errors.New("insufficient questions")
	ErrUnknownQuestion       = errors.New("unknown question")
	ErrInvalidAnswerValue    = errors.New("invalid answer value")
)
