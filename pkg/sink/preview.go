package sink

import (
	"bytes"
	"context"
	"html/template"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// ErrPreviewBlocked is returned when the preview surface could not be opened.
var ErrPreviewBlocked = errors.New("preview window could not be opened")

//nolint:gochecknoglobals // parsed once
var previewTemplate = template.Must(template.New("preview").Parse(`<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
      body {
        font-family: 'Courier New', monospace;
        line-height: 1.6;
        max-width: 800px;
        margin: 0 auto;
        padding: 20px;
        background-color: #f5f5f5;
      }
      h1 { color: #2563eb; border-bottom: 2px solid #2563eb; }
      h2 { color: #7c3aed; margin-top: 30px; }
      pre { white-space: pre-wrap; }
    </style>
  </head>
  <body>
    <pre>{{.Text}}</pre>
  </body>
</html>
`))

// Preview renders the resume text as a minimal HTML page.
func Preview(title, text string) (page []byte, err error) {
	var buf bytes.Buffer
	err = previewTemplate.Execute(&buf, struct {
		Title string
		Text  string
	}{
		Title: title,
		Text:  text,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to render preview page")
		return page, err
	}

	page = buf.Bytes()
	return page, err
}

// Opener shows a file in a new viewing surface.
type Opener interface {
	Open(ctx context.Context, path string) (err error)
}

// BrowserOpener opens files with the platform's default browser.
type BrowserOpener struct{}

// Open launches the platform opener for path.
func (BrowserOpener) Open(ctx context.Context, path string) (err error) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}

	err = cmd.Start()
	if err != nil {
		err = errors.Wrapf(err, "failed to launch %s", cmd.Path)
		return err
	}

	// The opener hands off to the browser and exits; don't leave a zombie.
	go func() {
		_ = cmd.Wait()
	}()

	return err
}

// NopOpener leaves the written page for the caller to open.
type NopOpener struct{}

// Open does nothing.
func (NopOpener) Open(ctx context.Context, path string) (err error) {
	return err
}

// PreviewSink writes the preview page and opens it.
type PreviewSink struct {
	Dir      string
	Opener   Opener
	Acquirer Acquirer
}

// NewPreviewSink creates a preview sink writing into dir.
func NewPreviewSink(dir string, opener Opener) (sink *PreviewSink) {
	if opener == nil {
		opener = NopOpener{}
	}
	sink = &PreviewSink{
		Dir:      dir,
		Opener:   opener,
		Acquirer: FileAcquirer{},
	}
	return sink
}

// Deliver writes the preview page to Dir/filename and opens it. The written
// path is returned even when opening fails, together with ErrPreviewBlocked.
func (s *PreviewSink) Deliver(ctx context.Context, filename, title, text string) (path string, err error) {
	var page []byte
	page, err = Preview(title, text)
	if err != nil {
		return path, err
	}

	path, err = deliver(s.Acquirer, s.Dir, filename, page)
	if err != nil {
		err = errors.Wrap(err, "failed to write preview page")
		return path, err
	}

	opener := s.Opener
	if opener == nil {
		opener = NopOpener{}
	}

	openErr := opener.Open(ctx, path)
	if openErr != nil {
		err = errors.Wrapf(ErrPreviewBlocked, "%v", openErr)
		return path, err
	}

	return path, err
}
