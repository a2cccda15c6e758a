package editor

import "sync"

// SaveState is the UI-facing view of the autosave machinery.
type SaveState struct {
	Dirty     bool
	Saving    bool
	LastError error
}

// flags tracks which revision is known persisted and whether a save runs.
type flags struct {
	mu       sync.Mutex
	savedRev uint64
	saving   bool
	lastErr  error
}

func (f *flags) begin() {
	f.mu.Lock()
	f.saving = true
	f.mu.Unlock()
}

func (f *flags) succeed(rev uint64) {
	f.mu.Lock()
	if rev > f.savedRev {
		f.savedRev = rev
	}
	f.saving = false
	f.lastErr = nil
	f.mu.Unlock()
}

func (f *flags) fail(err error) {
	f.mu.Lock()
	f.saving = false
	f.lastErr = err
	f.mu.Unlock()
}

func (f *flags) snapshot() (savedRev uint64, saving bool, lastErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.savedRev, f.saving, f.lastErr
}
