package storage_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/job-broker/pkg/lifecycle"
	"github.com/JaimeStill/job-broker/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newStarted(t *testing.T) (storage.System, string) {
	t.Helper()
	dir := t.TempDir()

	sys, err := storage.New(&storage.Config{BasePath: dir}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()

	return sys, dir
}

func TestNew_EmptyBasePath(t *testing.T) {
	if _, err := storage.New(&storage.Config{}, testLogger()); err == nil {
		t.Fatal("New() succeeded with empty BasePath, want error")
	}
}

func TestStart_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "logs")

	sys, err := storage.New(&storage.Config{BasePath: target}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	sys.Start(lc)
	lc.WaitForStartup()

	if _, err := os.Stat(target); os.IsNotExist(err) {
		t.Error("Start() did not create storage directory")
	}
}

func TestStoreRetrieve(t *testing.T) {
	sys, dir := newStarted(t)
	ctx := context.Background()
	key := "logs/7/5f0c.log"

	if err := sys.Store(ctx, key, []byte("hello runner")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := sys.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if string(got) != "hello runner" {
		t.Errorf("Retrieve() = %q, want %q", got, "hello runner")
	}

	if _, err := os.Stat(filepath.Join(dir, "logs", "7", "5f0c.log")); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestStore_Overwrites(t *testing.T) {
	sys, _ := newStarted(t)
	ctx := context.Background()

	sys.Store(ctx, "a.log", []byte("first"))
	sys.Store(ctx, "a.log", []byte("second"))

	got, _ := sys.Retrieve(ctx, "a.log")
	if string(got) != "second" {
		t.Errorf("Retrieve() = %q, want %q", got, "second")
	}
}

func TestRetrieve_NotFound(t *testing.T) {
	sys, _ := newStarted(t)

	_, err := sys.Retrieve(context.Background(), "missing.log")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Retrieve() error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	sys, dir := newStarted(t)
	ctx := context.Background()

	sys.Store(ctx, "logs/3/a.log", []byte("a"))
	sys.Store(ctx, "logs/4/b.log", []byte("b"))

	if err := sys.Delete(ctx, "logs/3/a.log"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "logs", "3")); !os.IsNotExist(err) {
		t.Error("empty parent directory should be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "logs")); err != nil {
		t.Error("non-empty ancestor directory should be kept")
	}

	if err := sys.Delete(ctx, "logs/3/a.log"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	sys, _ := newStarted(t)
	ctx := context.Background()

	sys.Store(ctx, "present.log", []byte("x"))

	tests := []struct {
		key  string
		want bool
	}{
		{"present.log", true},
		{"absent.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := sys.Validate(ctx, tt.key)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	sys, dir := newStarted(t)
	ctx := context.Background()

	sys.Store(ctx, "logs/1/out.log", []byte("x"))

	got, err := sys.Path(ctx, "logs/1/out.log")
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if want := filepath.Join(dir, "logs", "1", "out.log"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	if _, err := sys.Path(ctx, "logs/2/out.log"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Path() error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestInvalidKeys(t *testing.T) {
	sys, _ := newStarted(t)
	ctx := context.Background()

	keys := []string{"", "../escape", "/etc/passwd", "."}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			if err := sys.Store(ctx, key, []byte("x")); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Store(%q) error = %v, want %v", key, err, storage.ErrInvalidKey)
			}
			if _, err := sys.Retrieve(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Retrieve(%q) error = %v, want %v", key, err, storage.ErrInvalidKey)
			}
			if err := sys.Delete(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Delete(%q) error = %v, want %v", key, err, storage.ErrInvalidKey)
			}
		})
	}
}
