package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/job-broker/internal/jobs"
)

func TestJobSeeder_EmbeddedData(t *testing.T) {
	data, err := (&JobSeeder{}).loadSeedData()
	if err != nil {
		t.Fatalf("loadSeedData() error = %v", err)
	}
	if len(data.Jobs) == 0 {
		t.Fatal("embedded seed file has no jobs")
	}
	for _, j := range data.Jobs {
		cmd := j.CreateCommand
		if err := cmd.Validate(); err != nil {
			t.Errorf("seed %+v: Validate() error = %v", j, err)
		}
	}
}

func TestJobSeeder_ExternalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	content := `{"jobs":[{"user":"dave","command":"date","status":3}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := &JobSeeder{}
	s.SetFile(path)
	data, err := s.loadSeedData()
	if err != nil {
		t.Fatalf("loadSeedData() error = %v", err)
	}
	if len(data.Jobs) != 1 || data.Jobs[0].User != "dave" || data.Jobs[0].Status != jobs.StatusRunning {
		t.Errorf("data = %+v, want one RUNNING job for dave", data.Jobs)
	}
}

func TestHistory(t *testing.T) {
	tests := []struct {
		final jobs.Status
		want  []jobs.Status
	}{
		{jobs.StatusWaiting, []jobs.Status{jobs.StatusWaiting}},
		{jobs.StatusRunning, []jobs.Status{jobs.StatusWaiting, jobs.StatusRunning}},
		{jobs.StatusDone, []jobs.Status{jobs.StatusWaiting, jobs.StatusRunning, jobs.StatusDone}},
		{jobs.StatusTerminated, []jobs.Status{jobs.StatusWaiting, jobs.StatusRunning, jobs.StatusTerminated}},
	}

	for _, tt := range tests {
		t.Run(tt.final.String(), func(t *testing.T) {
			if got := history(tt.final); !slices.Equal(got, tt.want) {
				t.Errorf("history(%v) = %v, want %v", tt.final, got, tt.want)
			}
		})
	}
}

func TestListSeeders(t *testing.T) {
	list := listSeeders()
	if len(list) != 1 || list[0].Name() != "jobs" {
		t.Errorf("listSeeders() = %v, want [jobs]", list)
	}
}
