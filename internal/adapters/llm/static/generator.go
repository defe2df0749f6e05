// Package static is an offline generator backed by the phrasebook. It needs no
// API key and is handy for local development.
package static

import (
	"context"
	"fmt"
	"sync"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// Generator picks canned answers and composes fortunes from a phrasebook.
type Generator struct {
	phrases ports.PhraseSource

	mu  sync.Mutex
	rng domain.RNG
}

func NewGenerator(phrases ports.PhraseSource, rng domain.RNG) *Generator {
	return &Generator{phrases: phrases, rng: rng}
}

func (g *Generator) Ask(ctx context.Context, _ string) (string, error) {
	pb, err := g.phrases.Phrasebook(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return domain.PickAnswer(pb, g.rng), nil
}

func (g *Generator) DailyFortune(ctx context.Context) (string, error) {
	pb, err := g.phrases.Phrasebook(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return domain.ComposeFortune(pb, g.rng), nil
}
