package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/internal/runners"
)

// Client talks to the broker's runner and job endpoints.
type Client struct {
	baseURL string
	id      string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, id string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		id:      id,
		http:    httpClient,
		logger:  logger.With("system", "client"),
	}
}

// NextJob claims the next waiting job. It returns nil without error when the
// queue is empty.
func (c *Client) NextJob(ctx context.Context) (*jobs.Job, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/runners/available-job", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request job: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var job jobs.Job
		if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		return &job, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, responseError("request job", resp)
	}
}

// UpdateStatus reports a job's status.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status jobs.Status) error {
	body, err := json.Marshal(jobs.StatusUpdate{ID: id, Status: status})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/runners/update-job", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update job %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return responseError(fmt.Sprintf("update job %d", id), resp)
	}
	return nil
}

// UploadLog streams the file at path as the job's log.
func (c *Client) UploadLog(ctx context.Context, id int64, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(jobs.LogField, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/logs", id), pr)
	if err != nil {
		pr.Close()
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload log for job %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return responseError(fmt.Sprintf("upload log for job %d", id), resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(runners.Header, c.id)
	return req, nil
}

func responseError(op string, resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	if body.Error != "" {
		return fmt.Errorf("%s: %s: %s", op, resp.Status, body.Error)
	}
	return fmt.Errorf("%s: %s", op, resp.Status)
}
