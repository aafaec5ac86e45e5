package githubstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// tokenDocument is the shape of the credential file in the content
// repository.
type tokenDocument struct {
	Token string `json:"tokengit"`
}

// TokenProvider resolves the write credential. Implementations must be
// safe for concurrent use.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// StaticTokenProvider returns a fixed token. Used by tests and by
// deployments that inject the credential through configuration.
type StaticTokenProvider struct {
	Value string
}

func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if p.Value == "" {
		return "", newStoreError(ErrAuth, "token", FileTokenDocument, 0, "no token configured")
	}
	return p.Value, nil
}

func (p *StaticTokenProvider) Invalidate() {}

// FileTokenDocument is the well-known path of the credential document.
const FileTokenDocument = "token.json"

// fetcher is the read-path dependency of the remote token provider.
type fetcher interface {
	FetchPublic(ctx context.Context, filename string) ([]byte, error)
}

// RemoteTokenProvider fetches the credential document through the public
// read path and caches it in memory. Concurrent callers that miss the
// cache share a single in-flight fetch.
type RemoteTokenProvider struct {
	store fetcher

	mu     sync.RWMutex
	cached string

	group singleflight.Group
}

// NewRemoteTokenProvider creates a token provider backed by the given
// read path.
func NewRemoteTokenProvider(store fetcher) *RemoteTokenProvider {
	return &RemoteTokenProvider{store: store}
}

// Token returns the cached credential, fetching it if absent.
func (p *RemoteTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.RLock()
	cached := p.cached
	p.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	v, err, _ := p.group.Do("token", func() (interface{}, error) {
		raw, err := p.store.FetchPublic(ctx, FileTokenDocument)
		if err != nil {
			return "", fmt.Errorf("fetch token document: %w", err)
		}

		var doc tokenDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return "", newStoreError(ErrAuth, "token", FileTokenDocument, 0, "malformed token document")
		}
		if doc.Token == "" {
			return "", newStoreError(ErrAuth, "token", FileTokenDocument, 0, "empty token document")
		}

		p.mu.Lock()
		p.cached = doc.Token
		p.mu.Unlock()

		return doc.Token, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Invalidate clears the cached credential so the next call re-acquires
// it. Safe to call from any goroutine.
func (p *RemoteTokenProvider) Invalidate() {
	p.mu.Lock()
	p.cached = ""
	p.mu.Unlock()
}
