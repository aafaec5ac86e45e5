package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/districhem/backoffice/internal/adapters/githubstore"
)

// fakeStore is an in-memory RemoteStore tracking call counts so tests
// can assert which path a repository took.
type fakeStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	shas     map[string]string
	writeSeq int

	fetchPublicCalls   int
	fetchForWriteCalls int
	writeCalls         int

	failWrite error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		files: map[string][]byte{},
		shas:  map[string]string{},
	}
}

func (s *fakeStore) seed(filename string, doc interface{}) string {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeSeq++
	sha := fmt.Sprintf("sha-%d", s.writeSeq)
	s.files[filename] = raw
	s.shas[filename] = sha
	return sha
}

func (s *fakeStore) FetchPublic(ctx context.Context, filename string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchPublicCalls++

	raw, ok := s.files[filename]
	if !ok {
		return nil, githubstore.ErrNotFound
	}
	return raw, nil
}

func (s *fakeStore) FetchForWrite(ctx context.Context, filename string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchForWriteCalls++

	raw, ok := s.files[filename]
	if !ok {
		return nil, "", githubstore.ErrNotFound
	}
	return raw, s.shas[filename], nil
}

func (s *fakeStore) Write(ctx context.Context, filename string, content interface{}, revision, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeCalls++

	if s.failWrite != nil {
		return "", s.failWrite
	}
	if revision != s.shas[filename] {
		return "", githubstore.ErrConflict
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	s.writeSeq++
	sha := fmt.Sprintf("sha-%d", s.writeSeq)
	s.files[filename] = raw
	s.shas[filename] = sha
	return sha, nil
}

func (s *fakeStore) decode(filename string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Unmarshal(s.files[filename], out)
}
