package scraper

import (
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
)

// idleWatcher turns lifecycle events into a single "network idle" signal for
// the current navigation of the main frame. Child frames and earlier loaders
// are ignored.
type idleWatcher struct {
	mu     sync.Mutex
	frame  cdp.FrameID
	loader cdp.LoaderID
	idle   chan struct{}
}

// newIdleWatcher tracks mainFrame. An empty mainFrame is taken from the first
// init event seen.
func newIdleWatcher(mainFrame cdp.FrameID) *idleWatcher {
	return &idleWatcher{
		frame: mainFrame,
		idle:  make(chan struct{}, 1),
	}
}

// reset forgets the current loader and drops a pending signal. Call it before
// starting a navigation.
func (w *idleWatcher) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.loader = ""
	select {
	case <-w.idle:
	default:
	}
}

// done is signalled once the main frame's current loader reaches network idle
func (w *idleWatcher) done() <-chan struct{} {
	return w.idle
}

func (w *idleWatcher) handle(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch e.Name {
	case LifecycleInit:
		if w.frame == "" {
			w.frame = e.FrameID
		}
		if e.FrameID != w.frame {
			return
		}
		w.loader = e.LoaderID
	case LifecycleNetworkIdle:
		if e.FrameID != w.frame || w.loader == "" || e.LoaderID != w.loader {
			return
		}
		select {
		case w.idle <- struct{}{}:
		default:
		}
	}
}
