package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tgienger/tagboard/internal/api"
	"github.com/tgienger/tagboard/internal/api/apitest"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	return api.NewClient(srv.URL+"/", 5*time.Second, nil), srv
}

func TestListTagsAndTasks(t *testing.T) {
	client, srv := newClient(t)
	srv.AddTag(2, "home")
	srv.AddTag(1, "urgent")
	srv.AddTask(5, "Buy milk", "2L", "1")

	tags, err := client.ListTags(t.Context())
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 2 || tags[0].ID != 1 || tags[0].Name != "urgent" {
		t.Fatalf("unexpected tags: %+v", tags)
	}

	tasks, err := client.ListTasks(t.Context())
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != 5 || got.Name != "Buy milk" || got.AdditionalData != "2L" || got.Tags != "1" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestCreateTaskSendsEmptyTagList(t *testing.T) {
	client, srv := newClient(t)
	if err := client.CreateTask(t.Context(), "Clean", ""); err != nil {
		t.Fatalf("create task: %v", err)
	}

	posts := srv.RequestsMatching(http.MethodPost)
	if len(posts) != 1 || posts[0].Path != "/tasks" {
		t.Fatalf("unexpected requests: %+v", posts)
	}
	if posts[0].Body != `{"name":"Clean","additional_data":"","tags":[]}` {
		t.Fatalf("unexpected body: %s", posts[0].Body)
	}
}

func TestUpdateTaskTagsBody(t *testing.T) {
	client, srv := newClient(t)
	srv.AddTask(5, "Buy milk", "", "1")

	if err := client.UpdateTaskTags(t.Context(), 5, "1,2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	puts := srv.RequestsMatching(http.MethodPut)
	if len(puts) != 1 || puts[0].Path != "/tasks/5" || puts[0].Body != `{"tags":"1,2"}` {
		t.Fatalf("unexpected put: %+v", puts)
	}
	task, _ := srv.Task(5)
	if task.Tags != "1,2" {
		t.Fatalf("backend not updated: %+v", task)
	}
}

func TestCreateAndDeleteTag(t *testing.T) {
	client, srv := newClient(t)
	if err := client.CreateTag(t.Context(), "work"); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	tags := srv.Tags()
	if len(tags) != 1 || tags[0].Name != "work" {
		t.Fatalf("unexpected tags: %+v", tags)
	}
	if err := client.DeleteTag(t.Context(), tags[0].ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}
	if len(srv.Tags()) != 0 {
		t.Fatal("expected tag removed")
	}
}

func TestDeleteMissingTaskIsNotFound(t *testing.T) {
	client, _ := newClient(t)
	err := client.DeleteTask(t.Context(), 42)
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) || statusErr.Method != http.MethodDelete || statusErr.Path != "/tasks/42" {
		t.Fatalf("unexpected error: %#v", err)
	}
}

func TestServerErrorIsStatusError(t *testing.T) {
	client, srv := newClient(t)
	srv.Fail(http.MethodGet, "/tags", http.StatusInternalServerError)

	_, err := client.ListTags(t.Context())
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 status error, got %v", err)
	}
	if errors.Is(err, api.ErrNotFound) {
		t.Fatal("500 must not match ErrNotFound")
	}
}

func TestUnreachableBackend(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", time.Second, nil)
	if _, err := client.ListTasks(t.Context()); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRawTagIDsDecoding(t *testing.T) {
	cases := map[string]api.RawTagIDs{
		`{"tags":"1,2"}`:      "1,2",
		`{"tags":null}`:       "",
		`{}`:                  "",
		`{"tags":""}`:         "",
		`{"tags":7}`:          "7",
		`{"tags":[1,"2",3]}`:  "1,2,3",
		`{"tags":[]}`:         "",
		`{"tags":[null, 4]}`:  "4",
	}
	for in, want := range cases {
		var rec api.TaskRecord
		if err := json.Unmarshal([]byte(in), &rec); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if rec.Tags != want {
			t.Fatalf("%s: got %q, want %q", in, rec.Tags, want)
		}
	}

	var rec api.TaskRecord
	if err := json.Unmarshal([]byte(`{"tags":{"a":1}}`), &rec); err == nil {
		t.Fatal("expected error for object tags")
	}
}
