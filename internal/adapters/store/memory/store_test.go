package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/randomtoy/oracle-go/internal/adapters/store/memory"
	"github.com/randomtoy/oracle-go/internal/domain"
)

// stepClock advances by step on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newClock(step time.Duration) *stepClock {
	return &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func strPtr(s string) *string { return &s }

func TestCreateAnswer_AssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	clock := newClock(time.Second)
	s := memory.New(memory.WithClock(clock.Now))

	a, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: "q", Answer: "a"})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "q", a.Question)
	assert.Equal(t, "a", a.Answer)
	assert.Equal(t, clock.t, a.CreatedAt)
	assert.Nil(t, a.UserID)
}

func TestCreateAnswer_EmptyUserIDIsNull(t *testing.T) {
	s := memory.New()
	a, err := s.CreateAnswer(context.Background(), domain.NewAnswer{Question: "q", Answer: "a", UserID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, a.UserID)
}

func TestCreateAnswer_DuplicatesAllowed(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	a, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: "same", Answer: "same"})
	require.NoError(t, err)
	b, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: "same", Answer: "same"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	all, err := s.GetAllAnswers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateAnswer_ClockGoingBackwards(t *testing.T) {
	ctx := context.Background()
	clock := newClock(-time.Second)
	s := memory.New(memory.WithClock(clock.Now))

	first, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: "1", Answer: "a"})
	require.NoError(t, err)
	second, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: "2", Answer: "b"})
	require.NoError(t, err)

	assert.False(t, second.CreatedAt.Before(first.CreatedAt))
}

func TestGetAnswerByID(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	created, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: "q", Answer: "a", UserID: strPtr("u1")})
	require.NoError(t, err)

	got, err := s.GetAnswerByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(created, got))

	_, err = s.GetAnswerByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrAnswerNotFound)
}

func TestGetAnswerByID_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	created, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: "q", Answer: "a", UserID: strPtr("u1")})
	require.NoError(t, err)
	*created.UserID = "mutated"

	got, err := s.GetAnswerByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", *got.UserID)
}

func TestGetAllAnswers_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.New(memory.WithClock(newClock(time.Millisecond).Now))

	var ids []string
	for i := range 5 {
		a, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: fmt.Sprint(i), Answer: "a"})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	all, err := s.GetAllAnswers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, a := range all {
		assert.Equal(t, ids[len(ids)-1-i], a.ID)
	}
}

func TestGetAllAnswers_SameTimestampKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := memory.New(memory.WithClock(newClock(0).Now))

	a, _ := s.CreateAnswer(ctx, domain.NewAnswer{Question: "a", Answer: "a"})
	b, _ := s.CreateAnswer(ctx, domain.NewAnswer{Question: "b", Answer: "b"})

	all, err := s.GetAllAnswers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)
}

func TestGetAnswersByUserID(t *testing.T) {
	ctx := context.Background()
	s := memory.New(memory.WithClock(newClock(time.Second).Now))

	_, _ = s.CreateAnswer(ctx, domain.NewAnswer{Question: "1", Answer: "a", UserID: strPtr("alice")})
	_, _ = s.CreateAnswer(ctx, domain.NewAnswer{Question: "2", Answer: "a"})
	_, _ = s.CreateAnswer(ctx, domain.NewAnswer{Question: "3", Answer: "a", UserID: strPtr("alice")})
	_, _ = s.CreateAnswer(ctx, domain.NewAnswer{Question: "4", Answer: "a", UserID: strPtr("bob")})

	got, err := s.GetAnswersByUserID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].Question)
	assert.Equal(t, "1", got[1].Question)

	none, err := s.GetAnswersByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	u, err := s.CreateUser(ctx, domain.NewUser{Username: "alice", Password: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	byID, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u, byName)

	_, err = s.CreateUser(ctx, domain.NewUser{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProperty_OrderingAndLookup(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		step := time.Duration(rapid.IntRange(0, 3).Draw(rt, "stepMs")) * time.Millisecond
		s := memory.New(memory.WithClock(newClock(step).Now))

		n := rapid.IntRange(0, 30).Draw(rt, "n")
		created := make(map[string]domain.Answer, n)
		var lastID string
		for i := range n {
			q := rapid.StringMatching(`[a-z가-힣 ]{1,20}`).Draw(rt, fmt.Sprintf("q%d", i))
			a, err := s.CreateAnswer(ctx, domain.NewAnswer{Question: q, Answer: "answer"})
			if err != nil {
				rt.Fatal(err)
			}
			if _, dup := created[a.ID]; dup {
				rt.Fatalf("duplicate id %s", a.ID)
			}
			created[a.ID] = a
			lastID = a.ID
		}

		all, err := s.GetAllAnswers(ctx)
		if err != nil {
			rt.Fatal(err)
		}
		if len(all) != n {
			rt.Fatalf("expected %d answers, got %d", n, len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i].CreatedAt.After(all[i-1].CreatedAt) {
				rt.Fatalf("answers not sorted at %d", i)
			}
		}
		if n > 0 && all[0].ID != lastID {
			rt.Fatalf("newest answer %s not first", lastID)
		}

		again, _ := s.GetAllAnswers(ctx)
		if diff := cmp.Diff(all, again); diff != "" {
			rt.Fatalf("listing not idempotent: %s", diff)
		}

		for id, want := range created {
			got, err := s.GetAnswerByID(ctx, id)
			if err != nil {
				rt.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				rt.Fatalf("record mismatch: %s", diff)
			}
		}
	})
}
