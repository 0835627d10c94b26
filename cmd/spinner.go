package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nikogura/portfolio/pkg/portfolio"
	"github.com/pkg/errors"
)

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for {
			select {
			case <-s.stop:
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// loadDocument starts a loader for source and shows the loading screen until
// it settles. The spinner is skipped when stdout carries the output itself.
func loadDocument(ctx context.Context, source string, minDisplay time.Duration, quiet bool) (doc *portfolio.Document, err error) {
	loader := portfolio.NewLoader(source, portfolio.WithMinDisplay(minDisplay))
	loader.Start(ctx)

	var loadSpinner *spinner
	switch {
	case quiet:
	case getVerbose():
		fmt.Printf("Loading portfolio data from %s...\n", loader.Source())
	default:
		loadSpinner = newSpinner("Loading portfolio data...")
		loadSpinner.start()
	}

	doc, err = loader.Wait(ctx)

	if loadSpinner != nil {
		loadSpinner.stopSpinner()
	}

	if err != nil {
		err = errors.Wrap(err, "failed to load portfolio data")
		return doc, err
	}

	if getVerbose() && !quiet && doc.PersonalInfo != nil {
		fmt.Printf("Loaded portfolio for %s\n", doc.PersonalInfo.Name)
	}

	return doc, err
}
