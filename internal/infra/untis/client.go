package untis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"timetable_collector/internal/domain/provider"
)

// ErrAuth marks a rejected login. Login is the only call that can produce
// it; everything after a successful login fails with plain fetch errors.
var ErrAuth = errors.New("authentication rejected")

const (
	requestTimeout = 30 * time.Second
	dateLayout     = "20060102"
	elementClass   = 1 // WebUntis element type for a school class
)

// Client talks to a WebUntis school server over its JSON-RPC 2.0 endpoint.
// It implements provider.Client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	session    string
}

type rpcRequest struct {
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	JSONRPC string `json:"jsonrpc"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Login authenticates against the school's endpoint and returns a
// session-bound client. The server may be given as a bare host
// ("hektor.webuntis.com") or with an explicit scheme.
func Login(ctx context.Context, server, school, user, password string) (*Client, error) {
	base := server
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	c := &Client{
		endpoint:   base + "/WebUntis/jsonrpc.do?school=" + url.QueryEscape(school),
		httpClient: &http.Client{Timeout: requestTimeout},
	}

	var result struct {
		SessionID string `json:"sessionId"`
	}
	params := map[string]string{
		"user":     user,
		"password": password,
		"client":   "timetable-collector",
	}
	if err := c.call(ctx, "authenticate", params, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if result.SessionID == "" {
		return nil, fmt.Errorf("%w: no session granted", ErrAuth)
	}
	c.session = result.SessionID
	return c, nil
}

type classEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Classes lists every class of the school the client is logged in to.
func (c *Client) Classes(ctx context.Context) ([]provider.Class, error) {
	var entries []classEntry
	if err := c.call(ctx, "getKlassen", []any{}, &entries); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	classes := make([]provider.Class, len(entries))
	for i, e := range entries {
		classes[i] = provider.Class{ID: e.ID, Name: e.Name}
	}
	return classes, nil
}

type elementRef struct {
	Name string `json:"name"`
}

type lessonEntry struct {
	Classes   []elementRef `json:"kl"`
	Teachers  []elementRef `json:"te"`
	Rooms     []elementRef `json:"ro"`
	Subjects  []elementRef `json:"su"`
	Code      string       `json:"code"`
	Text      string       `json:"lstext"`
	SubstText *string      `json:"substText"`
}

// Timetable returns the lessons of one class for a single day.
func (c *Client) Timetable(ctx context.Context, classID int, day time.Time) ([]provider.RawLesson, error) {
	date, err := strconv.Atoi(day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("timetable for class %d: %w", classID, err)
	}
	params := map[string]any{
		"id":        classID,
		"type":      elementClass,
		"startDate": date,
		"endDate":   date,
	}

	var entries []lessonEntry
	if err := c.call(ctx, "getTimetable", params, &entries); err != nil {
		return nil, fmt.Errorf("timetable for class %d: %w", classID, err)
	}

	lessons := make([]provider.RawLesson, len(entries))
	for i, e := range entries {
		lessons[i] = provider.RawLesson{
			Classes:   names(e.Classes),
			Teachers:  names(e.Teachers),
			Rooms:     names(e.Rooms),
			Subjects:  names(e.Subjects),
			Code:      e.Code,
			Text:      e.Text,
			SubstText: e.SubstText,
		}
	}
	return lessons, nil
}

// Logout ends the server session. Best effort; the session also expires on
// its own server-side.
func (c *Client) Logout(ctx context.Context) {
	_ = c.call(ctx, "logout", []any{}, nil)
}

func names(refs []elementRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(rpcRequest{
		ID:      method,
		Method:  method,
		Params:  params,
		JSONRPC: "2.0",
	})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set("Cookie", "JSESSIONID="+c.session)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}
