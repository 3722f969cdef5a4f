package cli

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

	"github.com/gorilla/websocket"

	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/server"
)

// Client is an HTTP client for the sysbar API.
type Client struct {
	baseURL  string
	client   *http.Client
	user     string
	password string
}

// NewClient creates a client from the global flags.
func NewClient() *Client {
	return newClient(GetServerURL(), user, password)
}

func newClient(baseURL, user, password string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
		user:     user,
		password: password,
	}
}

// Get performs a GET request
func (c *Client) Get(path string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	return c.do(req)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(path string, body any) ([]byte, int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequest(http.MethodPut, c.baseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	if c.user != "" && c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return data, resp.StatusCode, nil
}

// getJSON fetches path and decodes a 200 response into out. Other
// statuses become errors carrying the server's message.
func (c *Client) getJSON(path string, out any) ([]byte, error) {
	data, status, err := c.Get(path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError(status, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", path, err)
	}
	return data, nil
}

func statusError(status int, body []byte) error {
	var e server.ErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("server returned status %d: %s", status, e.Error)
	}
	return fmt.Errorf("server returned status %d: %s", status, bytes.TrimSpace(body))
}

// Health checks if server is running
func (c *Client) Health() error {
	_, status, err := c.Get("/health")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d", status)
	}
	return nil
}

// Status returns the latest snapshot and its raw JSON.
func (c *Client) Status() (*monitor.SystemSnapshot, []byte, error) {
	var snap monitor.SystemSnapshot
	data, err := c.getJSON("/status", &snap)
	if err != nil {
		return nil, nil, err
	}
	return &snap, data, nil
}

// History returns one metric's retained values.
func (c *Client) History(metric string) (*server.HistoryResponse, []byte, error) {
	var hist server.HistoryResponse
	data, err := c.getJSON("/history/"+metric, &hist)
	if err != nil {
		return nil, nil, err
	}
	return &hist, data, nil
}

// SetInterval changes the server's polling interval.
func (c *Client) SetInterval(d time.Duration) (time.Duration, error) {
	data, status, err := c.Put("/interval", server.IntervalRequest{IntervalMS: d.Milliseconds()})
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, statusError(status, data)
	}
	var resp server.IntervalResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, err
	}
	return time.Duration(resp.IntervalMS) * time.Millisecond, nil
}

// Interval returns the server's polling interval.
func (c *Client) Interval() (time.Duration, error) {
	var resp server.IntervalResponse
	if _, err := c.getJSON("/interval", &resp); err != nil {
		return 0, err
	}
	return time.Duration(resp.IntervalMS) * time.Millisecond, nil
}

// Stream follows /stream and calls fn for every snapshot until ctx is
// done, the server closes the connection or fn returns an error.
func (c *Client) Stream(ctx context.Context, fn func(*monitor.SystemSnapshot) error) error {
	header := http.Header{}
	if c.user != "" && c.password != "" {
		token := base64.StdEncoding.EncodeToString([]byte(c.user + ":" + c.password))
		header.Set("Authorization", "Basic "+token)
	}

	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/stream"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("stream rejected with status %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		var snap monitor.SystemSnapshot
		if err := conn.ReadJSON(&snap); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("stream read failed: %w", err)
		}
		if err := fn(&snap); err != nil {
			return err
		}
	}
}
