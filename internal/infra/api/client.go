package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// HTTPステータス由来の失敗。通信断と区別したいhandlerのために残す。
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// コマースAPIのHTTPクライアント。gatewayの各interfaceをまとめて実装する。
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// DI
// タイムアウトはHTTPクライアント側に寄せる（エンジンは独自に持たない）。
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// テスト用に*http.Clientを差し替える。
func NewClientWithHTTP(baseURL string, hc *http.Client, logger zerolog.Logger) *Client {
	c := NewClient(baseURL, logger)
	if hc != nil {
		c.http = hc
	}
	return c
}

// JSONリクエストを投げてbodyを返す。2xx以外は *StatusError。
func (c *Client) doJSON(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return data, nil
}

// bodyを任意の形で受けてmapに落とす。サーバーの形の揺れはnormalize側で吸収する。
func decodeObject(data []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return m, nil
}
