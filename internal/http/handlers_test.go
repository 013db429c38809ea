package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/sun1tar/tasklist-service/internal/logger"
	"github.com/sun1tar/tasklist-service/internal/repository"
	"github.com/sun1tar/tasklist-service/internal/service"
)

// newSingleTenantRouter собирает роутер в однопользовательском режиме
// поверх файлового хранилища
func newSingleTenantRouter(t *testing.T) *mux.Router {
	t.Helper()
	dir := t.TempDir()
	repo := repository.NewFileTaskRepository(
		filepath.Join(dir, "tasks.txt"),
		filepath.Join(dir, "tasks_backup.txt"),
	)
	taskHandler := NewTaskHandler(service.NewTaskService(repo), logger.Init("test"))
	return NewRouter(taskHandler, nil, nil, dir)
}

func doJSON(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func TestRootAndHealth(t *testing.T) {
	router := newSingleTenantRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: expected 200, got %d", rec.Code)
	}
	var root map[string]string
	decodeBody(t, rec, &root)
	if root["message"] != "API is running" {
		t.Fatalf("unexpected root payload: %v", root)
	}

	rec = doJSON(t, router, http.MethodGet, "/health", "")
	var health map[string]string
	decodeBody(t, rec, &health)
	if rec.Code != http.StatusOK || health["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", rec.Code, health)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	router := newSingleTenantRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title":`},
		{"empty title", `{"title":""}`},
		{"missing title", `{"description":"x"}`},
		{"overlong title", fmt.Sprintf(`{"title":%q}`, strings.Repeat("a", 101))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/tasks", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateUpdateFetchFlow(t *testing.T) {
	router := newSingleTenantRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/tasks", `{"title":"buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created taskResponse
	decodeBody(t, rec, &created)
	if created.ID != 1 || created.Title != "buy milk" || created.Description != nil || created.Completed {
		t.Fatalf("unexpected created task: %+v", created)
	}

	rec = doJSON(t, router, http.MethodPut, "/tasks/1", `{"title":"buy milk","completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	var fetched taskResponse
	decodeBody(t, rec, &fetched)
	if !fetched.Completed {
		t.Fatalf("expected completed=true after update: %+v", fetched)
	}
}

func TestTaskNotFoundMessage(t *testing.T) {
	router := newSingleTenantRouter(t)

	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, "/tasks/42", ""},
		{http.MethodPut, "/tasks/42", `{"title":"x"}`},
		{http.MethodDelete, "/tasks/42", ""},
	} {
		rec := doJSON(t, router, req.method, req.path, req.body)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", req.method, req.path, rec.Code)
		}
		var errBody map[string]string
		decodeBody(t, rec, &errBody)
		if errBody["detail"] != "Task not found" {
			t.Fatalf("%s %s: unexpected detail %q", req.method, req.path, errBody["detail"])
		}
	}
}

func TestDeleteIdempotence(t *testing.T) {
	router := newSingleTenantRouter(t)

	doJSON(t, router, http.MethodPost, "/tasks", `{"title":"doomed"}`)

	rec := doJSON(t, router, http.MethodDelete, "/tasks/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("first delete: expected 200, got %d", rec.Code)
	}
	var msg map[string]string
	decodeBody(t, rec, &msg)
	if msg["message"] != "Task deleted" {
		t.Fatalf("unexpected delete confirmation: %v", msg)
	}

	rec = doJSON(t, router, http.MethodDelete, "/tasks/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestListFilterAndPagination(t *testing.T) {
	router := newSingleTenantRouter(t)

	for i := 0; i < 7; i++ {
		body := fmt.Sprintf(`{"title":"task %d","completed":%t}`, i, i%2 == 0)
		if rec := doJSON(t, router, http.MethodPost, "/tasks", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed create: %d", rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/tasks?completed=true", "")
	var tasks []taskResponse
	decodeBody(t, rec, &tasks)
	if len(tasks) != 4 {
		t.Fatalf("expected 4 completed tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if !task.Completed {
			t.Fatalf("filter returned a pending task: %+v", task)
		}
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks?limit=2&offset=1", "")
	decodeBody(t, rec, &tasks)
	if len(tasks) != 2 || tasks[0].ID != 2 || tasks[1].ID != 3 {
		t.Fatalf("unexpected page: %+v", tasks)
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks?completed=banana", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid completed value: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks?limit=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit: expected 400, got %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newSingleTenantRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/tasks/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats on empty store: expected 200, got %d", rec.Code)
	}
	var empty service.Stats
	decodeBody(t, rec, &empty)
	if empty.Total != 0 || empty.CompletionPercentage != 0 {
		t.Fatalf("unexpected empty stats: %+v", empty)
	}

	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"title":"task","completed":%t}`, i < 2)
		doJSON(t, router, http.MethodPost, "/tasks", body)
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks/stats", "")
	var stats service.Stats
	decodeBody(t, rec, &stats)
	if stats.Total != 5 || stats.Completed != 2 || stats.Pending != 3 || stats.CompletionPercentage != 40.0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
