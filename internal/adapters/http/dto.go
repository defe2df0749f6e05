package http

import (
	"time"

	"github.com/randomtoy/oracle-go/internal/domain"
)

// AskRequest is the body of POST /api/ask. Question is a pointer so a
// missing field can be told apart from an empty one.
type AskRequest struct {
	Question *string `json:"question"`
}

// AskResponse is returned by POST /api/ask.
type AskResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnswerResponse is one stored record, as returned by the answers endpoints.
type AnswerResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    *string   `json:"userId"`
}

type FortuneResponse struct {
	Fortune string `json:"fortune"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func toAskResponse(a domain.Answer) AskResponse {
	return AskResponse{
		ID:        a.ID,
		Question:  a.Question,
		Answer:    a.Answer,
		CreatedAt: a.CreatedAt,
	}
}

func toAnswerResponse(a domain.Answer) AnswerResponse {
	return AnswerResponse{
		ID:        a.ID,
		Question:  a.Question,
		Answer:    a.Answer,
		CreatedAt: a.CreatedAt,
		UserID:    a.UserID,
	}
}
