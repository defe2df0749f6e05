package ports

import "context"

// Generator produces mystical text via an external text-generation provider.
type Generator interface {
	// Ask returns a short answer to question.
	Ask(ctx context.Context, question string) (string, error)
	// DailyFortune returns a question-independent message for today.
	DailyFortune(ctx context.Context) (string, error)
}
