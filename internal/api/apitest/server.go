// Package apitest provides an in-memory tasks/tags backend for tests. It
// speaks the same JSON as the real service and records every request so
// tests can assert on what the client sent.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

// Tag is a stored tag.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Task is a stored task. Tags holds the comma-joined id string.
type Task struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	AdditionalData string `json:"additional_data"`
	Tags           string `json:"tags"`
}

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Body   string
}

// Server is the fake backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	tags     map[int64]Tag
	tasks    map[int64]Task
	nextID   int64
	requests []Request
	fail     map[string]int // "METHOD /path" -> status to answer with
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		tags:   make(map[int64]Tag),
		tasks:  make(map[int64]Task),
		nextID: 100,
		fail:   make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(s.record)

	e.GET("/tags", s.listTags)
	e.POST("/tags", s.createTag)
	e.DELETE("/tags/:id", s.deleteTag)
	e.GET("/tasks", s.listTasks)
	e.POST("/tasks", s.createTask)
	e.PUT("/tasks/:id", s.updateTask)
	e.DELETE("/tasks/:id", s.deleteTask)
	return e
}

// record keeps the request and answers with an injected failure if one is set.
func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: req.Method, Path: req.URL.Path, Body: strings.TrimSpace(string(body))})
		status, failing := s.fail[req.Method+" "+req.URL.Path]
		s.mu.Unlock()

		if failing {
			return c.String(status, http.StatusText(status))
		}
		return next(c)
	}
}

// AddTag stores a tag with a fixed id.
func (s *Server) AddTag(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[id] = Tag{ID: id, Name: name}
}

// AddTask stores a task with a fixed id and raw tag string.
func (s *Server) AddTask(id int64, name, additionalData, tags string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = Task{ID: id, Name: name, AdditionalData: additionalData, Tags: tags}
}

// Task returns the stored task.
func (s *Server) Task(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Tags returns the stored tags ordered by id.
func (s *Server) Tags() []Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedTags()
}

// Fail makes every request matching method and path answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method+" "+path] = status
}

// Requests returns the recorded calls in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsMatching returns recorded calls with the given method.
func (s *Server) RequestsMatching(method string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) sortedTags() []Tag {
	tags := make([]Tag, 0, len(s.tags))
	for _, t := range s.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags
}

func (s *Server) listTags(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.sortedTags())
}

func (s *Server) createTag(c echo.Context) error {
	var in struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&in); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	tag := Tag{ID: s.nextID, Name: in.Name}
	s.tags[tag.ID] = tag
	return c.JSON(http.StatusCreated, tag)
}

func (s *Server) deleteTag(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.String(http.StatusBadRequest, "bad id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return c.String(http.StatusNotFound, "tag not found")
	}
	delete(s.tags, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listTasks(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c echo.Context) error {
	var in struct {
		Name           string          `json:"name"`
		AdditionalData string          `json:"additional_data"`
		Tags           json.RawMessage `json:"tags"`
	}
	if err := c.Bind(&in); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task := Task{ID: s.nextID, Name: in.Name, AdditionalData: in.AdditionalData}
	s.tasks[task.ID] = task
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.String(http.StatusBadRequest, "bad id")
	}
	var in struct {
		Tags string `json:"tags"`
	}
	if err := c.Bind(&in); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return c.String(http.StatusNotFound, "task not found")
	}
	task.Tags = in.Tags
	s.tasks[id] = task
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.String(http.StatusBadRequest, "bad id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return c.String(http.StatusNotFound, "task not found")
	}
	delete(s.tasks, id)
	return c.NoContent(http.StatusNoContent)
}
