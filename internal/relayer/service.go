package relayer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"stellar-gasless-go/internal/models"

	"golang.org/x/net/http2"
)

// ErrClaimBuild is returned when the relayer cannot pre-build a claim
// transaction for a pending balance.
var ErrClaimBuild = errors.New("relayer could not build claim transaction")

// Service is the HTTP gateway to the fee-sponsoring relayer. Calls go
// either straight to the relayer or through the authenticated proxy; the
// choice is made once from configuration and is invisible to callers.
type Service struct {
	baseURL     string
	headers     map[string]string
	explorerURL string
	httpClient  *http.Client
}

func NewService(cfg models.RelayerConfig, explorerURL string) (*Service, error) {
	httpClient, err := createCustomHTTPClient(cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	baseURL := cfg.BaseURL
	headers := map[string]string{"Content-Type": "application/json"}
	if cfg.APIKey != "" {
		baseURL = cfg.ProxyURL
		headers["Authorization"] = "Bearer " + cfg.APIKey
		headers["X-Chain"] = "stellar"
	}

	return &Service{
		baseURL:     baseURL,
		headers:     headers,
		explorerURL: explorerURL,
		httpClient:  httpClient,
	}, nil
}

func createCustomHTTPClient(timeout time.Duration) (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// postJSON posts a JSON body and decodes the JSON response into out.
// A non-2xx status is a transport/auth failure by the relayer contract;
// business failures arrive as 200 with a success flag, which the caller
// inspects on the decoded value.
func (s *Service) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	return s.do(req, out)
}

func (s *Service) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	return s.do(req, out)
}

func (s *Service) do(req *http.Request, out interface{}) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("relayer returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("relayer returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *Service) setHeaders(req *http.Request) {
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
}
