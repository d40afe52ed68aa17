package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kulint/kulint/internal/model"
	"github.com/kulint/kulint/internal/util"
)

// ChromaStore reads chunk metadata from a Chroma vector store over its
// HTTP API. The client never writes: the store is populated by an
// out-of-scope ingestion pipeline.
type ChromaStore struct {
	baseURL    string
	collection string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu           sync.Mutex
	collectionID string
}

// Chroma API structures
type chromaCollection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type chromaGetRequest struct {
	IDs     []string `json:"ids"`
	Include []string `json:"include"`
}

type chromaGetResponse struct {
	IDs       []string                 `json:"ids"`
	Metadatas []map[string]interface{} `json:"metadatas"`
}

type chromaError struct {
	Error string `json:"error"`
}

// NewChromaStore creates a read-only client for the given store configuration
func NewChromaStore(cfg model.StoreConfig) (*ChromaStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("vector store URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("vector store collection is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 5)
	}

	return &ChromaStore{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		collection: cfg.Collection,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		limiter: limiter,
	}, nil
}

// IsAvailable checks whether the store answers its heartbeat endpoint
func (s *ChromaStore) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v1/heartbeat", nil)
	if err != nil {
		return false
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// GetChunkMetadata looks up a single chunk by id. A missing chunk returns
// (nil, nil); only store-level failures return an error.
func (s *ChromaStore) GetChunkMetadata(ctx context.Context, chunkID string) (*model.ChunkMetadata, error) {
	collectionID, err := s.resolveCollection(ctx)
	if err != nil {
		return nil, err
	}

	apiReq := chromaGetRequest{
		IDs:     []string{chunkID},
		Include: []string{"metadatas"},
	}
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s/get", s.baseURL, collectionID)
	respBody, err := s.post(ctx, url, body)
	if err != nil {
		return nil, err
	}

	var resp chromaGetResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	var raw map[string]interface{}
	if len(resp.Metadatas) > 0 {
		raw = resp.Metadatas[0]
	}

	return decodeChunkMetadata(resp.IDs[0], raw), nil
}

// resolveCollection maps the configured collection name to its id once per
// client and caches the result.
func (s *ChromaStore) resolveCollection(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collectionID != "" {
		return s.collectionID, nil
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s", s.baseURL, s.collection)
	respBody, err := s.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("resolve collection %q: %w", s.collection, err)
	}

	var coll chromaCollection
	if err := json.Unmarshal(respBody, &coll); err != nil {
		return "", fmt.Errorf("resolve collection %q: unmarshal: %w", s.collection, err)
	}
	if coll.ID == "" {
		return "", fmt.Errorf("resolve collection %q: empty collection id in response", s.collection)
	}

	s.collectionID = coll.ID
	return s.collectionID, nil
}

func (s *ChromaStore) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return s.do(ctx, req)
}

func (s *ChromaStore) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(ctx, req)
}

func (s *ChromaStore) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chromaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// decodeChunkMetadata converts the duck-typed metadata map the store returns
// into a typed record. Validation happens once here, at the read boundary,
// so check code never re-interprets raw maps.
func decodeChunkMetadata(chunkID string, raw map[string]interface{}) *model.ChunkMetadata {
	meta := &model.ChunkMetadata{ChunkID: chunkID}
	if raw == nil {
		return meta
	}

	meta.PageStart = intField(raw, "page_start")
	meta.PageEnd = intField(raw, "page_end")
	meta.Path = stringField(raw, "path")
	meta.Title = stringField(raw, "title")
	meta.Author = stringField(raw, "author")

	return meta
}

// intField extracts an integer metadata value. Chroma serializes numbers as
// JSON floats, so both forms are accepted.
func intField(raw map[string]interface{}, key string) *int {
	val, ok := raw[key]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	default:
		return nil
	}
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
