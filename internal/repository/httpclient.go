package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// statusError представляет финальный (неповторяемый) HTTP-статус
// внешней системы.
type statusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// apiClient представляет общую основу HTTP-клиентов внешних систем:
// таймаут на запрос, basic auth и ограниченные повторы с
// экспоненциальной паузой.
type apiClient struct {
	httpClient *http.Client
	baseURL    string
	username   string
	token      string
	maxRetries uint64
	retryBase  time.Duration
}

func newAPIClient(baseURL, username, token string, timeout time.Duration, maxRetries int, retryBase time.Duration) *apiClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if retryBase <= 0 {
		retryBase = 200 * time.Millisecond
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &apiClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		token:      token,
		maxRetries: uint64(maxRetries),
		retryBase:  retryBase,
	}
}

func (c *apiClient) url(path string, query url.Values) string {
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

// doJSON выполняет запрос и разбирает JSON-ответ в out (если out не nil).
// Сетевые сбои, 429 и 5xx повторяются с экспоненциальной паузой;
// остальные статусы финальны и возвращаются как statusError.
func (c *apiClient) doJSON(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = encoded
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.username != "" {
			req.SetBasicAuth(c.username, c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return retry.RetryableError(&statusError{
				Method: method,
				Path:   path,
				Code:   resp.StatusCode,
				Body:   readShortBody(resp.Body),
			})
		}
		if resp.StatusCode >= 300 {
			return &statusError{
				Method: method,
				Path:   path,
				Code:   resp.StatusCode,
				Body:   readShortBody(resp.Body),
			}
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}

func readShortBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 2048))
	return strings.TrimSpace(string(data))
}

// isStatus проверяет, что ошибка является финальным HTTP-статусом code.
func isStatus(err error, code int) bool {
	var statusErr *statusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}

// queryValues собирает параметры запроса из пар ключ-значение,
// пропуская пустые значения.
func queryValues(pairs ...string) url.Values {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			values.Set(pairs[i], pairs[i+1])
		}
	}
	return values
}
