package jobs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/pkg/pagination"
	"github.com/JaimeStill/job-broker/pkg/routes"
)

type fakeSystem struct {
	jobs map[int64]*jobs.Job
	logs map[int64][]byte
	next int64
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{jobs: map[int64]*jobs.Job{}, logs: map[int64][]byte{}}
}

func (f *fakeSystem) List(_ context.Context, page pagination.PageRequest, _ jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
	var data []jobs.Job
	for _, j := range f.jobs {
		data = append(data, *j)
	}
	result := pagination.NewPageResult(data, len(data), page.Page, page.PageSize)
	return &result, nil
}

func (f *fakeSystem) Find(_ context.Context, id int64) (*jobs.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, jobs.ErrNotFound
	}
	return j, nil
}

func (f *fakeSystem) Create(_ context.Context, cmd jobs.CreateCommand) (*jobs.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	f.next++
	now := jobs.Timestamp(time.Unix(1700000000, 0))
	j := &jobs.Job{
		ID:          f.next,
		User:        cmd.User,
		Description: cmd.Description,
		Command:     cmd.Command,
		Status:      jobs.StatusWaiting,
		Events:      []jobs.Event{{ID: f.next, Status: jobs.StatusWaiting, Timestamp: now}},
		ReceivedAt:  now,
	}
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeSystem) Delete(_ context.Context, id int64) error {
	if _, ok := f.jobs[id]; !ok {
		return jobs.ErrNotFound
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeSystem) Next(context.Context, string) (*jobs.Job, error) {
	return nil, jobs.ErrQueueEmpty
}

func (f *fakeSystem) UpdateStatus(_ context.Context, id int64, status jobs.Status) error {
	j, ok := f.jobs[id]
	if !ok {
		return jobs.ErrNotFound
	}
	j.Status = status
	return nil
}

func (f *fakeSystem) AttachLog(_ context.Context, id int64, data []byte) (*jobs.LogFile, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, jobs.ErrNotFound
	}
	f.logs[id] = data
	j.LogFile = &jobs.LogFile{Filename: "0123456789abcdef0123456789abcdef", SizeBytes: int64(len(data))}
	return j.LogFile, nil
}

func (f *fakeSystem) Log(_ context.Context, id int64) ([]byte, *jobs.LogFile, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil, jobs.ErrNotFound
	}
	data, ok := f.logs[id]
	if !ok {
		return nil, nil, jobs.ErrLogNotFound
	}
	return data, j.LogFile, nil
}

func newTestMux(sys jobs.System, maxUpload int64) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := jobs.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, maxUpload)
	mux := http.NewServeMux()
	routes.Register(mux, "", nil, h.Routes())
	return mux
}

func serve(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "output.log")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"user":"alice","description":"list","command":"ls -la"}`, http.StatusCreated},
		{"missing command", `{"user":"alice"}`, http.StatusBadRequest},
		{"missing user", `{"command":"ls"}`, http.StatusBadRequest},
		{"malformed", `{"user":`, http.StatusBadRequest},
		{"unknown field", `{"user":"alice","command":"ls","priority":1}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(newFakeSystem(), 1024)
			w := serve(mux, httptest.NewRequest("POST", "/jobs", strings.NewReader(tt.body)))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
			if tt.want != http.StatusCreated {
				return
			}

			var job jobs.Job
			if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if job.Status != jobs.StatusWaiting {
				t.Errorf("Status = %v, want WAITING", job.Status)
			}
			if len(job.Events) != 1 || job.Events[0].Status != jobs.StatusWaiting {
				t.Errorf("Events = %+v, want one WAITING event", job.Events)
			}
		})
	}
}

func TestHandler_Find(t *testing.T) {
	sys := newFakeSystem()
	sys.Create(context.Background(), jobs.CreateCommand{User: "alice", Command: "ls"})
	mux := newTestMux(sys, 1024)

	tests := []struct {
		path string
		want int
	}{
		{"/jobs/1", http.StatusOK},
		{"/jobs/2", http.StatusNotFound},
		{"/jobs/abc", http.StatusBadRequest},
		{"/jobs/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(mux, httptest.NewRequest("GET", tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandler_List(t *testing.T) {
	sys := newFakeSystem()
	sys.Create(context.Background(), jobs.CreateCommand{User: "alice", Command: "ls"})
	mux := newTestMux(sys, 1024)

	w := serve(mux, httptest.NewRequest("GET", "/jobs?status=WAITING", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var result pagination.PageResult[jobs.Job]
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Total = %d, want 1", result.Total)
	}

	w = serve(mux, httptest.NewRequest("GET", "/jobs?status=LOST", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status filter: status = %d, want 400", w.Code)
	}
}

func TestHandler_Delete(t *testing.T) {
	sys := newFakeSystem()
	sys.Create(context.Background(), jobs.CreateCommand{User: "alice", Command: "ls"})
	mux := newTestMux(sys, 1024)

	if w := serve(mux, httptest.NewRequest("DELETE", "/jobs/1", nil)); w.Code != http.StatusNoContent {
		t.Errorf("first delete: status = %d, want 204", w.Code)
	}
	if w := serve(mux, httptest.NewRequest("DELETE", "/jobs/1", nil)); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestHandler_Logs(t *testing.T) {
	sys := newFakeSystem()
	sys.Create(context.Background(), jobs.CreateCommand{User: "alice", Command: "ls"})
	mux := newTestMux(sys, 64)

	if w := serve(mux, httptest.NewRequest("GET", "/jobs/1/logs", nil)); w.Code != http.StatusNotFound {
		t.Errorf("download before upload: status = %d, want 404", w.Code)
	}

	body, ct := multipartBody(t, "attachment", []byte("hello"))
	req := httptest.NewRequest("POST", "/jobs/1/logs", body)
	req.Header.Set("Content-Type", ct)
	if w := serve(mux, req); w.Code != http.StatusBadRequest {
		t.Errorf("upload without logfile: status = %d, want 400", w.Code)
	}

	body, ct = multipartBody(t, jobs.LogField, bytes.Repeat([]byte("x"), 128))
	req = httptest.NewRequest("POST", "/jobs/1/logs", body)
	req.Header.Set("Content-Type", ct)
	if w := serve(mux, req); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized upload: status = %d, want 413", w.Code)
	}

	body, ct = multipartBody(t, jobs.LogField, []byte("total 0\n"))
	req = httptest.NewRequest("POST", "/jobs/9/logs", body)
	req.Header.Set("Content-Type", ct)
	if w := serve(mux, req); w.Code != http.StatusNotFound {
		t.Errorf("upload for unknown job: status = %d, want 404", w.Code)
	}

	body, ct = multipartBody(t, jobs.LogField, []byte("total 0\n"))
	req = httptest.NewRequest("POST", "/jobs/1/logs", body)
	req.Header.Set("Content-Type", ct)
	if w := serve(mux, req); w.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d, want 201: %s", w.Code, w.Body)
	}

	w := serve(mux, httptest.NewRequest("GET", "/jobs/1/logs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("download: status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if w.Body.String() != "total 0\n" {
		t.Errorf("body = %q, want %q", w.Body.String(), "total 0\n")
	}
}
