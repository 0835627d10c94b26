package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// failingHandle wraps a real handle and fails on the chosen step.
type failingHandle struct {
	Handle
	failWrite  bool
	failCommit bool
}

func (f *failingHandle) Write(p []byte) (n int, err error) {
	if f.failWrite {
		err = errors.New("induced write failure")
		return n, err
	}
	n, err = f.Handle.Write(p)
	return n, err
}

func (f *failingHandle) Commit() (err error) {
	if f.failCommit {
		err = errors.New("induced commit failure")
		return err
	}
	err = f.Handle.Commit()
	return err
}

type failingAcquirer struct {
	failWrite  bool
	failCommit bool
}

func (a failingAcquirer) Acquire(dir, name string) (handle Handle, err error) {
	handle, err = FileAcquirer{}.Acquire(dir, name)
	if err != nil {
		return handle, err
	}
	handle = &failingHandle{Handle: handle, failWrite: a.failWrite, failCommit: a.failCommit}
	return handle, err
}

func TestFileSinkDeliver(t *testing.T) {
	tmpDir := t.TempDir()
	counter := &Counting{}
	sink := &FileSink{Dir: tmpDir, Acquirer: counter}

	path, err := sink.Deliver(context.Background(), "Jane_Doe_Resume.txt", "JANE DOE\nEngineer")
	if err != nil {
		t.Fatalf("Failed to deliver: %v", err)
	}

	if path != filepath.Join(tmpDir, "Jane_Doe_Resume.txt") {
		t.Errorf("Unexpected path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read delivered file: %v", err)
	}

	if string(data) != "JANE DOE\nEngineer" {
		t.Errorf("Unexpected content: %q", string(data))
	}

	if counter.Acquired() != 1 {
		t.Errorf("Expected 1 acquisition, got %d", counter.Acquired())
	}

	if counter.Outstanding() != 0 {
		t.Errorf("Expected all handles released, %d outstanding", counter.Outstanding())
	}

	assertNoTempFiles(t, tmpDir)
}

func TestFileSinkDeliverReadableMode(t *testing.T) {
	sink := NewFileSink(t.TempDir())

	path, err := sink.Deliver(context.Background(), "Jane_Doe_Resume.txt", "JANE DOE")
	if err != nil {
		t.Fatalf("Failed to deliver: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat delivered file: %v", err)
	}

	if info.Mode().Perm() != 0644 {
		t.Errorf("Expected mode 0644, got %o", info.Mode().Perm())
	}
}

func TestFileSinkReleasesOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		acquirer failingAcquirer
	}{
		{name: "write failure", acquirer: failingAcquirer{failWrite: true}},
		{name: "commit failure", acquirer: failingAcquirer{failCommit: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			counter := &Counting{Acquirer: tt.acquirer}
			sink := &FileSink{Dir: tmpDir, Acquirer: counter}

			_, err := sink.Deliver(context.Background(), "out.txt", "text")
			if err == nil {
				t.Fatal("Expected induced failure, got nil")
			}

			if counter.Acquired() != 1 {
				t.Errorf("Expected 1 acquisition, got %d", counter.Acquired())
			}

			if counter.Outstanding() != 0 {
				t.Errorf("Expected handle released after failure, %d outstanding", counter.Outstanding())
			}

			_, statErr := os.Stat(filepath.Join(tmpDir, "out.txt"))
			if !os.IsNotExist(statErr) {
				t.Error("Expected no output file after failure")
			}

			assertNoTempFiles(t, tmpDir)
		})
	}
}

func TestFileSinkCancelled(t *testing.T) {
	counter := &Counting{}
	sink := &FileSink{Dir: t.TempDir(), Acquirer: counter}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sink.Deliver(ctx, "out.txt", "text")
	if err == nil {
		t.Error("Expected error for cancelled context, got nil")
	}

	if counter.Acquired() != 0 {
		t.Errorf("Expected no acquisition, got %d", counter.Acquired())
	}
}

func TestFileSinkCreatesDir(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "dir")
	sink := NewFileSink(nested)

	path, err := sink.Deliver(context.Background(), "out.txt", "text")
	if err != nil {
		t.Fatalf("Failed to deliver: %v", err)
	}

	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		t.Error("Output file was not created in nested directory")
	}
}

func TestContentDisposition(t *testing.T) {
	value := ContentDisposition("Jane_Doe_Resume.txt")
	if value != `attachment; filename=Jane_Doe_Resume.txt` {
		t.Errorf("Unexpected header value: %s", value)
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}

	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("Temporary file left behind: %s", e.Name())
		}
	}
}
