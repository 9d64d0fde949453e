package tray

import (
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/systray"
)

// startWatcher runs watchClicks for a fresh item and returns the item, the
// click counter, and a channel closed when the watcher exits.
func startWatcher(clicked chan struct{}, done <-chan struct{}) (*atomic.Int32, <-chan struct{}) {
	var clicks atomic.Int32
	e := action("key", "Label", func() { clicks.Add(1) })
	item := &systray.MenuItem{ClickedCh: clicked}
	exited := make(chan struct{})
	go func() {
		watchClicks(item, e, done)
		close(exited)
	}()
	return &clicks, exited
}

func waitExit(t *testing.T, exited <-chan struct{}) {
	t.Helper()
	select {
	case <-exited:
	case <-time.After(waitTimeout):
		t.Fatal("click watcher did not exit")
	}
}

func TestWatchClicksDispatchesClick(t *testing.T) {
	dispatched := make(chan struct{}, 4)
	e := action("key", "Label", func() { dispatched <- struct{}{} })
	clicked := make(chan struct{})
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		watchClicks(&systray.MenuItem{ClickedCh: clicked}, e, done)
		close(exited)
	}()

	for i := 0; i < 2; i++ {
		clicked <- struct{}{}
		select {
		case <-dispatched:
		case <-time.After(waitTimeout):
			t.Fatalf("click %d not dispatched", i+1)
		}
	}
	close(done)
	waitExit(t, exited)

	if got := len(dispatched); got != 0 {
		t.Errorf("extra clicks: got %d, want 0", got)
	}
}

func TestWatchClicksIgnoresDisabledEntry(t *testing.T) {
	var clicks atomic.Int32
	e := action("key", "Label", func() { clicks.Add(1) })
	e.Enabled = false
	clicked := make(chan struct{})
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		watchClicks(&systray.MenuItem{ClickedCh: clicked}, e, done)
		close(exited)
	}()

	clicked <- struct{}{}
	close(done)
	waitExit(t, exited)

	if got := clicks.Load(); got != 0 {
		t.Errorf("clicks: got %d, want 0", got)
	}
}

func TestWatchClicksStopsOnRebuild(t *testing.T) {
	tests := []struct {
		name  string
		close func(clicked, done chan struct{})
	}{
		{
			name: "menu replaced then items removed",
			close: func(clicked, done chan struct{}) {
				close(done)
				close(clicked)
			},
		},
		{
			name: "items removed only",
			close: func(clicked, done chan struct{}) {
				close(clicked)
			},
		},
		{
			name: "menu replaced only",
			close: func(clicked, done chan struct{}) {
				close(done)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				clicked := make(chan struct{})
				done := make(chan struct{})
				clicks, exited := startWatcher(clicked, done)

				tt.close(clicked, done)
				waitExit(t, exited)

				if got := clicks.Load(); got != 0 {
					t.Fatalf("iteration %d: clicks: got %d, want 0", i, got)
				}
			}
		})
	}
}

func TestWatchClicksDropsClickForReplacedMenu(t *testing.T) {
	for i := 0; i < 200; i++ {
		clicked := make(chan struct{}, 1)
		clicked <- struct{}{}
		done := make(chan struct{})
		close(done)

		clicks, exited := startWatcher(clicked, done)
		waitExit(t, exited)

		if got := clicks.Load(); got != 0 {
			t.Fatalf("iteration %d: clicks: got %d, want 0", i, got)
		}
	}
}
