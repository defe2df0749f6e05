package domain_test

import (
	"errors"
	"testing"

	"github.com/randomtoy/oracle-go/internal/domain"
)

// sequenceRNG returns values from a pre-set sequence.
type sequenceRNG struct {
	values []int
	idx    int
}

func (r *sequenceRNG) Intn(n int) int {
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

func testPhrasebook() domain.Phrasebook {
	return domain.Phrasebook{
		FortuneTypes: []string{"오늘", "이번 주"},
		Subjects:     []string{"사랑", "일", "건강"},
		Predictions:  []string{"밝은 에너지가 감싸고 있어요", "직감을 믿고 나아가세요"},
		Answers:      []string{"그렇다", "아니다"},
	}
}

func TestComposeFortune(t *testing.T) {
	rng := &sequenceRNG{values: []int{1, 2, 0}}

	got := domain.ComposeFortune(testPhrasebook(), rng)

	want := "이번 주의 건강에 밝은 에너지가 감싸고 있어요"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPickAnswer(t *testing.T) {
	rng := &sequenceRNG{values: []int{1}}
	if got := domain.PickAnswer(testPhrasebook(), rng); got != "아니다" {
		t.Errorf("unexpected answer %q", got)
	}
}

func TestPhrasebook_Validate(t *testing.T) {
	if err := testPhrasebook().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pb := testPhrasebook()
	pb.Subjects = nil
	if err := pb.Validate(); !errors.Is(err, domain.ErrEmptyPhrasebook) {
		t.Errorf("expected ErrEmptyPhrasebook, got %v", err)
	}
}
