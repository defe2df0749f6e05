// Package memory is a process-local answer and user store. Data is lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/oracle-go/internal/domain"
)

type answerRecord struct {
	answer domain.Answer
	seq    uint64
}

// Store keeps answers and users in maps guarded by a mutex.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	seq     uint64
	last    time.Time
	answers map[string]answerRecord
	users   map[string]domain.User
	byName  map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:     time.Now,
		answers: make(map[string]answerRecord),
		users:   make(map[string]domain.User),
		byName:  make(map[string]string),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) CreateAnswer(_ context.Context, in domain.NewAnswer) (domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// createdAt never goes backwards, even if the wall clock does.
	created := s.now().UTC()
	if created.Before(s.last) {
		created = s.last
	}
	s.last = created
	s.seq++

	a := domain.Answer{
		ID:        uuid.NewString(),
		Question:  in.Question,
		Answer:    in.Answer,
		CreatedAt: created,
		UserID:    copyID(in.UserID),
	}
	s.answers[a.ID] = answerRecord{answer: a, seq: s.seq}
	return cloneAnswer(a), nil
}

func (s *Store) GetAnswerByID(_ context.Context, id string) (domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.answers[id]
	if !ok {
		return domain.Answer{}, domain.ErrAnswerNotFound
	}
	return cloneAnswer(rec.answer), nil
}

func (s *Store) GetAllAnswers(_ context.Context) ([]domain.Answer, error) {
	return s.list(func(domain.Answer) bool { return true }), nil
}

func (s *Store) GetAnswersByUserID(_ context.Context, userID string) ([]domain.Answer, error) {
	return s.list(func(a domain.Answer) bool {
		return a.UserID != nil && *a.UserID == userID
	}), nil
}

func (s *Store) list(keep func(domain.Answer) bool) []domain.Answer {
	s.mu.RLock()
	recs := make([]answerRecord, 0, len(s.answers))
	for _, r := range s.answers {
		if keep(r.answer) {
			recs = append(recs, r)
		}
	}
	s.mu.RUnlock()

	// Newest first; equal timestamps fall back to insertion order.
	slices.SortFunc(recs, func(a, b answerRecord) int {
		if c := b.answer.CreatedAt.Compare(a.answer.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})

	out := make([]domain.Answer, len(recs))
	for i, r := range recs {
		out[i] = cloneAnswer(r.answer)
	}
	return out
}

func (s *Store) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) CreateUser(_ context.Context, in domain.NewUser) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[in.Username]; taken {
		return domain.User{}, domain.ErrUsernameTaken
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Password: in.Password,
	}
	s.users[u.ID] = u
	s.byName[u.Username] = u.ID
	return u, nil
}

func copyID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}

func cloneAnswer(a domain.Answer) domain.Answer {
	a.UserID = copyID(a.UserID)
	return a
}
