package watch

import (
	"sync"
	"time"
)

// debounceInterval collapses editor save bursts into one reload.
const debounceInterval = 200 * time.Millisecond

// Debouncer collects changed files and fires its callback once no new
// change has arrived for the configured interval.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
	files    map[string]bool
	callback func([]string)
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]bool),
	}
}

// SetCallback sets the function invoked with the collected files.
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = callback
}

// Add records a changed file and (re)starts the quiet timer.
func (d *Debouncer) Add(file string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.files[file] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]bool)
	callback := d.callback
	d.mu.Unlock()

	if callback != nil && len(files) > 0 {
		callback(files)
	}
}

// Stop cancels any pending flush.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
