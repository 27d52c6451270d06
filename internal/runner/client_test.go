package runner_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/internal/runner"
	"github.com/JaimeStill/job-broker/internal/runners"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_NextJob(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantJob bool
		wantErr bool
	}{
		{"job", http.StatusOK, `{"identifier":4,"command":"ls","status":"RUNNING","events":[]}`, true, false},
		{"empty queue", http.StatusNoContent, "", false, false},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, false, true},
		{"bad body", http.StatusOK, `{`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/api/runners/available-job" {
					t.Errorf("request = %s %s", r.Method, r.URL.Path)
				}
				gotID = r.Header.Get(runners.Header)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := runner.NewClient(srv.URL+"/api", "worker-1", srv.Client(), discardLogger())
			job, err := c.NextJob(context.Background())

			if (err != nil) != tt.wantErr {
				t.Fatalf("NextJob() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (job != nil) != tt.wantJob {
				t.Errorf("NextJob() job = %v, wantJob %v", job, tt.wantJob)
			}
			if job != nil && job.ID != 4 {
				t.Errorf("job.ID = %d, want 4", job.ID)
			}
			if gotID != "worker-1" {
				t.Errorf("%s = %q, want worker-1", runners.Header, gotID)
			}
		})
	}
}

func TestClient_UpdateStatus(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/runners/update-job" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		if got["identifier"] == float64(404) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := runner.NewClient(srv.URL, "worker-1", srv.Client(), discardLogger())

	if err := c.UpdateStatus(context.Background(), 7, jobs.StatusDone); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got["identifier"] != float64(7) || got["status"] != "DONE" {
		t.Errorf("body = %v, want identifier 7 status DONE", got)
	}

	if err := c.UpdateStatus(context.Background(), 404, jobs.StatusDone); err == nil {
		t.Error("UpdateStatus() should fail on 404")
	}
}

func TestClient_UploadLog(t *testing.T) {
	var gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/9/logs" {
			t.Errorf("path = %s, want /jobs/9/logs", r.URL.Path)
		}
		file, _, err := r.FormFile(jobs.LogField)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		gotContent = string(data)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "job.log")
	if err := os.WriteFile(path, []byte("line 1\nline 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := runner.NewClient(srv.URL, "worker-1", srv.Client(), discardLogger())
	if err := c.UploadLog(context.Background(), 9, path); err != nil {
		t.Fatalf("UploadLog() error = %v", err)
	}
	if gotContent != "line 1\nline 2\n" {
		t.Errorf("uploaded = %q", gotContent)
	}

	if err := c.UploadLog(context.Background(), 9, filepath.Join(t.TempDir(), "missing.log")); err == nil {
		t.Error("UploadLog() should fail for a missing file")
	}
}
