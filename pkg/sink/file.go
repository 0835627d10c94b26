package sink

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// outputMode is the permission set on delivered files.
const outputMode os.FileMode = 0644

// Handle is a temporary resource holding sink output until it is committed.
type Handle interface {
	Write(p []byte) (n int, err error)
	// Commit publishes the written content under its final name.
	Commit() (err error)
	// Release frees the resource. It is safe to call after Commit.
	Release() (err error)
}

// Acquirer hands out handles for a named output.
type Acquirer interface {
	Acquire(dir, name string) (handle Handle, err error)
}

// FileAcquirer stages output in a hidden temp file next to its destination.
type FileAcquirer struct{}

// Acquire creates the staging file for dir/name.
func (FileAcquirer) Acquire(dir, name string) (handle Handle, err error) {
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", dir)
		return handle, err
	}

	var f *os.File
	f, err = os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		err = errors.Wrapf(err, "failed to create temporary file for: %s", name)
		return handle, err
	}

	handle = &tempFile{file: f, dest: filepath.Join(dir, name)}
	return handle, err
}

type tempFile struct {
	file      *os.File
	dest      string
	closed    bool
	committed bool
}

func (t *tempFile) Write(p []byte) (n int, err error) {
	n, err = t.file.Write(p)
	if err != nil {
		err = errors.Wrapf(err, "failed to write temporary file: %s", t.file.Name())
		return n, err
	}
	return n, err
}

// Commit widens the staging file's 0600 mode to outputMode and renames it into
// place.
func (t *tempFile) Commit() (err error) {
	err = t.file.Chmod(outputMode)
	if err != nil {
		err = errors.Wrapf(err, "failed to set permissions on: %s", t.file.Name())
		return err
	}

	err = t.close()
	if err != nil {
		return err
	}

	err = os.Rename(t.file.Name(), t.dest)
	if err != nil {
		err = errors.Wrapf(err, "failed to move output into place: %s", t.dest)
		return err
	}

	t.committed = true
	return err
}

func (t *tempFile) Release() (err error) {
	err = t.close()
	if t.committed {
		return err
	}

	removeErr := os.Remove(t.file.Name())
	if removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
		err = errors.Wrapf(removeErr, "failed to remove temporary file: %s", t.file.Name())
	}

	return err
}

func (t *tempFile) close() (err error) {
	if t.closed {
		return err
	}
	t.closed = true

	err = t.file.Close()
	if err != nil {
		err = errors.Wrapf(err, "failed to close temporary file: %s", t.file.Name())
		return err
	}
	return err
}

// FileSink delivers the resume text as a downloadable file.
type FileSink struct {
	Dir      string
	Acquirer Acquirer
}

// NewFileSink creates a file sink writing into dir.
func NewFileSink(dir string) (sink *FileSink) {
	sink = &FileSink{
		Dir:      dir,
		Acquirer: FileAcquirer{},
	}
	return sink
}

// Deliver writes text to Dir/filename. The staging handle is always released
// before Deliver returns, whether or not the write succeeded.
func (s *FileSink) Deliver(ctx context.Context, filename, text string) (path string, err error) {
	err = ctx.Err()
	if err != nil {
		err = errors.Wrap(err, "resume download cancelled")
		return path, err
	}

	path, err = deliver(s.Acquirer, s.Dir, filename, []byte(text))
	return path, err
}

// deliver runs acquire, write, commit, release.
func deliver(acquirer Acquirer, dir, name string, content []byte) (path string, err error) {
	if acquirer == nil {
		acquirer = FileAcquirer{}
	}

	var handle Handle
	handle, err = acquirer.Acquire(dir, name)
	if err != nil {
		return path, err
	}

	defer func() {
		releaseErr := handle.Release()
		if releaseErr != nil {
			if err == nil {
				err = releaseErr
			} else {
				err = errors.Wrapf(err, "also failed to release: %v", releaseErr)
			}
		}
	}()

	_, err = handle.Write(content)
	if err != nil {
		return path, err
	}

	err = handle.Commit()
	if err != nil {
		return path, err
	}

	path = filepath.Join(dir, name)
	return path, err
}

// Counting wraps an Acquirer and counts handles acquired and released.
type Counting struct {
	Acquirer Acquirer

	mu       sync.Mutex
	acquired int
	released int
}

// Acquire acquires from the wrapped acquirer.
func (c *Counting) Acquire(dir, name string) (handle Handle, err error) {
	inner := c.Acquirer
	if inner == nil {
		inner = FileAcquirer{}
	}

	handle, err = inner.Acquire(dir, name)
	if err != nil {
		return handle, err
	}

	c.mu.Lock()
	c.acquired++
	c.mu.Unlock()

	handle = &countedHandle{Handle: handle, owner: c}
	return handle, err
}

// Outstanding returns how many acquired handles have not been released.
func (c *Counting) Outstanding() (n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n = c.acquired - c.released
	return n
}

// Acquired returns the total number of handles acquired.
func (c *Counting) Acquired() (n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n = c.acquired
	return n
}

type countedHandle struct {
	Handle
	owner    *Counting
	released bool
}

func (h *countedHandle) Release() (err error) {
	err = h.Handle.Release()
	if !h.released {
		h.released = true
		h.owner.mu.Lock()
		h.owner.released++
		h.owner.mu.Unlock()
	}
	return err
}

// ContentDisposition returns the header value that makes a browser save the
// response as filename.
func ContentDisposition(filename string) (value string) {
	value = mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	return value
}
