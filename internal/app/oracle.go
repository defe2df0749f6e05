package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// GeneratorPolicy bounds calls to the external generator.
type GeneratorPolicy struct {
	// Timeout applies to each attempt. Zero means no timeout.
	Timeout time.Duration
	// Retries is the number of extra attempts after a failure.
	Retries int
}

// OracleService composes validation, answer generation and the answer store.
type OracleService struct {
	store     ports.AnswerStore
	generator ports.Generator
	policy    GeneratorPolicy
	logger    *slog.Logger
}

func NewOracleService(store ports.AnswerStore, gen ports.Generator, policy GeneratorPolicy, logger *slog.Logger) *OracleService {
	return &OracleService{
		store:     store,
		generator: gen,
		policy:    policy,
		logger:    logger,
	}
}

// Ask validates question, generates an answer and stores the pair.
func (s *OracleService) Ask(ctx context.Context, question string) (domain.Answer, error) {
	q, err := domain.ValidateQuestion(question)
	if err != nil {
		return domain.Answer{}, err
	}

	text, err := s.callGenerator(ctx, "ask", func(ctx context.Context) (string, error) {
		return s.generator.Ask(ctx, q)
	})
	if err != nil {
		return domain.Answer{}, err
	}

	saved, err := s.store.CreateAnswer(ctx, domain.NewAnswer{Question: q, Answer: text})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("store answer: %w", err)
	}
	return saved, nil
}

// DailyFortune returns a fresh fortune. Nothing is stored.
func (s *OracleService) DailyFortune(ctx context.Context) (string, error) {
	return s.callGenerator(ctx, "daily_fortune", s.generator.DailyFortune)
}

// ListAnswers returns stored answers, newest first. An empty userID lists all.
func (s *OracleService) ListAnswers(ctx context.Context, userID string) ([]domain.Answer, error) {
	var (
		answers []domain.Answer
		err     error
	)
	if userID == "" {
		answers, err = s.store.GetAllAnswers(ctx)
	} else {
		answers, err = s.store.GetAnswersByUserID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

func (s *OracleService) GetAnswer(ctx context.Context, id string) (domain.Answer, error) {
	a, err := s.store.GetAnswerByID(ctx, id)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("get answer %s: %w", id, err)
	}
	return a, nil
}

func (s *OracleService) callGenerator(ctx context.Context, op string, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.policy.Retries; attempt++ {
		text, err := s.attempt(ctx, call)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < s.policy.Retries {
			s.logger.WarnContext(ctx, "generator failed, retrying", "op", op, "attempt", attempt+1, "error", err)
		}
	}
	return "", fmt.Errorf("%w: %s: %w", domain.ErrGenerator, op, lastErr)
}

func (s *OracleService) attempt(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	if s.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		defer cancel()
	}
	text, err := call(ctx)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("generator returned empty text")
	}
	return text, nil
}
