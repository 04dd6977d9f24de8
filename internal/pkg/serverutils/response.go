package serverutils

import (
	"errors"

	"ai-docqa-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{Code: code, Message: message}
}

// StatusForError maps pipeline error kinds to HTTP statuses. Upstream
// service failures are 502s: the request was fine, a collaborator was not.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrEmbedding),
		errors.Is(err, apperror.ErrGeneration),
		errors.Is(err, apperror.ErrIndex):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FailureBody is the user-facing shape of a failed query. The message is
// explicitly labeled a failure so a broken pipeline is never mistaken for
// a grounded answer.
func FailureBody(err error) ErrorBody {
	body := ErrorBody{
		Code:    StatusForError(err),
		Message: "failed to answer the question: " + userMessage(err),
		Stage:   string(apperror.KindOf(err)),
	}
	return body
}

func userMessage(err error) string {
	switch apperror.KindOf(err) {
	case apperror.KindEmbedding:
		return "the embedding service is unavailable"
	case apperror.KindGeneration:
		return "the language model is unavailable"
	case apperror.KindIndex, apperror.KindIndexConfig:
		return "the document index is unavailable"
	case apperror.KindValidation:
		return err.Error()
	default:
		return "internal error"
	}
}
