package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	indexPath   = "/"
	sleepPath   = "/sleep"
	historyPath = "/history"
	metricsPath = "/metrics"
)

// Response is a fully read reply from the workpool server.
type Response struct {
	Status    int
	Header    http.Header
	Body      string
	RequestID string
}

// HistoryEntry mirrors one element of GET /history.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	DurationMs float64   `json:"durationMs"`
	ServedAt   time.Time `json:"servedAt"`
}

// WorkpoolSvc is an HTTP client for a running workpool server. The server
// answers one request per connection, so keep-alives are disabled.
type WorkpoolSvc struct {
	baseURL string
	client  *http.Client
}

// NewWorkpoolService returns a client for the server listening on address.
func NewWorkpoolService(address string) *WorkpoolSvc {
	zap.S().Infow("initializing workpool service client", "address", address)
	return &WorkpoolSvc{
		baseURL: "http://" + address,
		client: &http.Client{
			Timeout:   time.Minute,
			Transport: &http.Transport{DisableKeepAlives: true},
		},
	}
}

func (s *WorkpoolSvc) Index() (*Response, error) {
	return s.Get(indexPath)
}

func (s *WorkpoolSvc) Sleep() (*Response, error) {
	return s.Get(sleepPath)
}

func (s *WorkpoolSvc) Metrics() (*Response, error) {
	return s.Get(metricsPath)
}

// History returns the most recent requests, newest first.
func (s *WorkpoolSvc) History(limit int) ([]HistoryEntry, error) {
	resp, err := s.Get(fmt.Sprintf("%s?limit=%d", historyPath, limit))
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("history returned %d: %s", resp.Status, resp.Body)
	}

	var body struct {
		Requests []HistoryEntry `json:"requests"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return body.Requests, nil
}

// Get issues a GET for path and reads the whole response.
func (s *WorkpoolSvc) Get(path string) (*Response, error) {
	return s.Do(http.MethodGet, path)
}

func (s *WorkpoolSvc) Do(method, path string) (*Response, error) {
	req, err := http.NewRequest(method, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	zap.S().Debugw("response received", "method", method, "path", path, "status", resp.StatusCode)
	return &Response{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      string(body),
		RequestID: resp.Header.Get("X-Request-Id"),
	}, nil
}
