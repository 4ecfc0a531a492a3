// Package api is the HTTP client for the tasks/tags backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/tagboard/internal/models"
)

// ErrNotFound is matched by StatusError values carrying a 404.
var ErrNotFound = errors.New("api: not found")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the backend over JSON.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a client for baseURL. A nil logger uses slog.Default().
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the backend address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TaskRecord is a task as the backend stores it, tags still encoded.
type TaskRecord struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	AdditionalData string    `json:"additional_data"`
	Tags           RawTagIDs `json:"tags"`
}

// RawTagIDs is the backend's comma-joined tag id field. Decoding accepts a
// string, null, a number or an array of ids and keeps the comma form.
type RawTagIDs string

func (r *RawTagIDs) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*r = ""
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = RawTagIDs(s)
		return nil
	case trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			var one RawTagIDs
			if err := one.UnmarshalJSON(item); err != nil {
				return err
			}
			if one != "" {
				parts = append(parts, string(one))
			}
		}
		*r = RawTagIDs(strings.Join(parts, ","))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("tags: unsupported value %s", trimmed)
		}
		*r = RawTagIDs(n.String())
		return nil
	}
}

// NewTask is the POST /tasks body. Tags is always sent as an empty list.
type NewTask struct {
	Name           string  `json:"name"`
	AdditionalData string  `json:"additional_data"`
	Tags           []int64 `json:"tags"`
}

// NewTag is the POST /tags body.
type NewTag struct {
	Name string `json:"name"`
}

// TagsUpdate is the PUT /tasks/{id} body.
type TagsUpdate struct {
	Tags string `json:"tags"`
}

// ListTags fetches the tag catalog.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag by name.
func (c *Client) CreateTag(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/tags", NewTag{Name: name}, nil)
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/tags/"+strconv.FormatInt(id, 10), nil, nil)
}

// ListTasks fetches all tasks with their raw tag id strings.
func (c *Client) ListTasks(ctx context.Context) ([]TaskRecord, error) {
	var tasks []TaskRecord
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task with no tags.
func (c *Client) CreateTask(ctx context.Context, name, additionalData string) error {
	body := NewTask{Name: name, AdditionalData: additionalData, Tags: []int64{}}
	return c.do(ctx, http.MethodPost, "/tasks", body, nil)
}

// UpdateTaskTags replaces a task's tag assignment with tagIDs ("1,2").
func (c *Client) UpdateTaskTags(ctx context.Context, id int64, tagIDs string) error {
	return c.do(ctx, http.MethodPut, "/tasks/"+strconv.FormatInt(id, 10), TagsUpdate{Tags: tagIDs}, nil)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
		slog.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
