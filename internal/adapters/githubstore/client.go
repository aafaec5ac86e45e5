package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/districhem/backoffice/internal/infrastructure/config"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
)

// Client is the single point of contact with the content repository. The
// read path goes through the raw-content CDN with a per-call cache
// buster; the write path goes through the Contents API guarded by the
// revision SHA of the file being replaced.
type Client struct {
	cfg     config.StoreConfig
	http    *http.Client
	tokens  TokenProvider
	logger  *logger.Logger
	metrics *prometheus.CounterVec
}

// contentsResponse is the Contents API GET/PUT response envelope.
type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

type apiError struct {
	Message string `json:"message"`
}

// New creates a store client. If no token is configured the credential is
// resolved from the token document through the client's own read path.
func New(cfg config.StoreConfig, appLogger *logger.Logger) *Client {
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: appLogger.WithComponent("githubstore"),
		metrics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_requests_total",
				Help: "Total number of content repository requests",
			},
			[]string{"op", "outcome"},
		),
	}

	if cfg.Token != "" {
		c.tokens = &StaticTokenProvider{Value: cfg.Token}
	} else {
		c.tokens = NewRemoteTokenProvider(c)
	}

	return c
}

// UseTokens replaces the credential provider. Used by tests.
func (c *Client) UseTokens(p TokenProvider) {
	c.tokens = p
}

// Collectors returns the client's Prometheus collectors for registration.
func (c *Client) Collectors() []prometheus.Collector {
	return []prometheus.Collector{c.metrics}
}

// FetchPublic performs an unauthenticated GET against the raw-content
// mirror. Each call carries a fresh cache buster so admins always see the
// latest committed state.
func (c *Client) FetchPublic(ctx context.Context, filename string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s?t=%d",
		strings.TrimRight(c.cfg.RawBase, "/"),
		c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, filename,
		time.Now().UnixNano(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.count("fetch", "error")
		return nil, newStoreError(ErrNetwork, "fetch", filename, 0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.count("fetch", "not_found")
		return nil, newStoreError(ErrNotFound, "fetch", filename, resp.StatusCode, "")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count("fetch", "error")
		return nil, newStoreError(ErrNetwork, "fetch", filename, resp.StatusCode, "")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.count("fetch", "error")
		return nil, newStoreError(ErrNetwork, "fetch", filename, resp.StatusCode, err.Error())
	}

	c.count("fetch", "ok")
	return body, nil
}

// FetchForWrite performs an authenticated GET against the Contents API
// and returns the decoded file content plus the revision SHA required to
// authorize the next write.
//
// The payload is base64 of UTF-8 JSON. Decoding goes base64 -> raw bytes;
// the bytes are the UTF-8 text. Decoding through a byte-per-character
// charset would corrupt multi-byte sequences.
func (c *Client) FetchForWrite(ctx context.Context, filename string) ([]byte, string, error) {
	var out contentsResponse
	err := c.authorized(ctx, "fetch_for_write", filename, func(token string) (int, string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(filename), nil)
		if err != nil {
			return 0, "", err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/vnd.github+json")

		resp, err := c.http.Do(req)
		if err != nil {
			return 0, "", err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, "", err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, remoteMessage(body), nil
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return resp.StatusCode, "", fmt.Errorf("decode response: %w", err)
		}
		return resp.StatusCode, "", nil
	})
	if err != nil {
		return nil, "", err
	}

	decoded, err := decodeContent(out.Content)
	if err != nil {
		return nil, "", newStoreError(ErrNetwork, "fetch_for_write", filename, 0, err.Error())
	}

	return decoded, out.SHA, nil
}

// Write serializes content to pretty-printed UTF-8 JSON, base64-encodes
// it and PUTs it with the given revision SHA and commit message. Returns
// the new revision SHA, which must replace the one used here before any
// further write to the same file.
func (c *Client) Write(ctx context.Context, filename string, content interface{}, sha, message string) (string, error) {
	serialized, err := encodeContent(content)
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", filename, err)
	}

	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: serialized,
		SHA:     sha,
		Branch:  c.cfg.Branch,
	})
	if err != nil {
		return "", fmt.Errorf("build write payload: %w", err)
	}

	var out putResponse
	err = c.authorized(ctx, "write", filename, func(token string) (int, string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(filename), bytes.NewReader(payload))
		if err != nil {
			return 0, "", err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return 0, "", err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, "", err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, remoteMessage(body), nil
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return resp.StatusCode, "", fmt.Errorf("decode response: %w", err)
		}
		return resp.StatusCode, "", nil
	})
	if err != nil {
		return "", err
	}

	c.logger.Infow("File written", "filename", filename, "new_sha", out.Content.SHA)
	return out.Content.SHA, nil
}

// authorized runs one Contents API call with the current credential. A
// rejected credential invalidates the cache and the call is retried with
// a freshly acquired token exactly once.
func (c *Client) authorized(ctx context.Context, op, filename string, do func(token string) (int, string, error)) error {
	retried := false
	for {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.count(op, "auth_error")
			return err
		}

		status, remoteMsg, err := do(token)
		if err != nil {
			c.count(op, "error")
			return newStoreError(ErrNetwork, op, filename, status, err.Error())
		}
		if status >= 200 && status <= 299 {
			c.count(op, "ok")
			return nil
		}

		kind := classifyStatus(status)
		if kind == ErrAuth {
			c.tokens.Invalidate()
			if !retried {
				retried = true
				c.logger.Warnw("Credential rejected, re-acquiring", "op", op, "filename", filename)
				continue
			}
		}

		c.count(op, outcomeLabel(kind))
		return newStoreError(kind, op, filename, status, remoteMsg)
	}
}

func (c *Client) contentsURL(filename string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		strings.TrimRight(c.cfg.APIBase, "/"), c.cfg.Owner, c.cfg.Repo, filename)
}

func (c *Client) count(op, outcome string) {
	c.metrics.WithLabelValues(op, outcome).Inc()
}

func outcomeLabel(kind error) string {
	switch kind {
	case ErrNotFound:
		return "not_found"
	case ErrConflict:
		return "conflict"
	case ErrAuth:
		return "auth_error"
	default:
		return "error"
	}
}

// decodeContent decodes the Contents API base64 payload into UTF-8 text.
// The API wraps the base64 body with newlines.
func decodeContent(encoded string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, encoded)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decode base64 content: %w", err)
	}
	return raw, nil
}

// encodeContent serializes a document to pretty-printed JSON and encodes
// it as base64.
func encodeContent(content interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(content); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func remoteMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Message
}
