package phrasebook

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/randomtoy/oracle-go/internal/domain"
)

//go:embed data/*.json
var phraseFS embed.FS

const defaultFile = "data/ko.json"

// EmbeddedStore loads the phrasebook from an embedded JSON file.
type EmbeddedStore struct {
	once sync.Once
	file string
	pb   domain.Phrasebook
	err  error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{file: defaultFile}
}

func (s *EmbeddedStore) init() {
	raw, err := phraseFS.ReadFile(s.file)
	if err != nil {
		s.err = fmt.Errorf("read embedded phrasebook %s: %w", s.file, err)
		return
	}
	var pb domain.Phrasebook
	if err := json.Unmarshal(raw, &pb); err != nil {
		s.err = fmt.Errorf("parse embedded phrasebook %s: %w", s.file, err)
		return
	}
	if err := pb.Validate(); err != nil {
		s.err = fmt.Errorf("embedded phrasebook %s: %w", s.file, err)
		return
	}
	s.pb = pb
}

func (s *EmbeddedStore) Phrasebook(_ context.Context) (domain.Phrasebook, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Phrasebook{}, s.err
	}
	return s.pb, nil
}
