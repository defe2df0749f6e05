package ports

import (
	"context"

	"github.com/randomtoy/oracle-go/internal/domain"
)

// AnswerStore keeps the history of answered questions.
//
// Listing methods return answers ordered by CreatedAt descending.
type AnswerStore interface {
	CreateAnswer(ctx context.Context, in domain.NewAnswer) (domain.Answer, error)
	GetAnswerByID(ctx context.Context, id string) (domain.Answer, error)
	GetAllAnswers(ctx context.Context) ([]domain.Answer, error)
	GetAnswersByUserID(ctx context.Context, userID string) ([]domain.Answer, error)
}

// UserStore keeps user accounts.
type UserStore interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, in domain.NewUser) (domain.User, error)
}

// PhraseSource provides the phrasebook used for instant fortunes.
type PhraseSource interface {
	Phrasebook(ctx context.Context) (domain.Phrasebook, error)
}
