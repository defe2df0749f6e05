package domain

import (
	"errors"
	"fmt"
)

var ErrEmptyPhrasebook = errors.New("phrasebook has an empty list")

// Phrasebook holds the word lists used for instant fortunes and offline answers.
type Phrasebook struct {
	FortuneTypes []string `json:"fortune_types"`
	Subjects     []string `json:"subjects"`
	Predictions  []string `json:"predictions"`
	Answers      []string `json:"answers"`
}

// Validate checks that every list has at least one entry.
func (p Phrasebook) Validate() error {
	lists := map[string][]string{
		"fortune_types": p.FortuneTypes,
		"subjects":      p.Subjects,
		"predictions":   p.Predictions,
		"answers":       p.Answers,
	}
	for name, l := range lists {
		if len(l) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyPhrasebook, name)
		}
	}
	return nil
}

// ComposeFortune builds "<type>의 <subject>에 <prediction>" from one random
// entry of each list.
func ComposeFortune(p Phrasebook, rng RNG) string {
	return fmt.Sprintf("%s의 %s에 %s",
		pick(p.FortuneTypes, rng),
		pick(p.Subjects, rng),
		pick(p.Predictions, rng),
	)
}

// PickAnswer returns one of the phrasebook's canned mystical answers.
func PickAnswer(p Phrasebook, rng RNG) string {
	return pick(p.Answers, rng)
}

func pick(l []string, rng RNG) string {
	if len(l) == 0 {
		return ""
	}
	return l[rng.Intn(len(l))]
}
