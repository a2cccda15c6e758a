package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"resume-builder/internal/generation"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/subscriptions"
)

const (
	DefaultQuietWindow = time.Second
	DefaultSaveTimeout = 30 * time.Second
)

var (
	// ErrUnsavedChanges is returned by ConfirmExit while edits are not persisted.
	ErrUnsavedChanges = errors.New("you have unsaved changes")
	ErrSessionClosed  = errors.New("editor session closed")
)

// Saver persists a resume and returns the stored form with its identity and version.
type Saver interface {
	Save(ctx context.Context, r resumes.Resume) (resumes.Resume, error)
}

// Generator produces AI content for the document being edited.
type Generator interface {
	GenerateSummary(ctx context.Context, r resumes.Resume) (string, error)
	GenerateWorkExperience(ctx context.Context, description string) (resumes.WorkExperience, error)
}

// Options configure a Session.
type Options struct {
	QuietWindow time.Duration
	SaveTimeout time.Duration
	AfterFunc   AfterFunc
	Level       subscriptions.Level
	Generator   Generator
	OnSaved     func(resumes.Resume)
	OnError     func(error)
}

// Session is one editing session: the document, its autosave machinery and the
// capability checks applied before edits. A Session has a single owner.
type Session struct {
	store    *Store
	debounce *Debouncer
	saves    *Coalescer
	flags    flags
	saver    Saver
	opts     Options

	mu          sync.Mutex
	level       subscriptions.Level
	unsubscribe func()
	closed      bool
}

// NewSession prepares a session over initial. Call Start to enable autosave.
func NewSession(initial resumes.Resume, saver Saver, opts Options) *Session {
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = DefaultQuietWindow
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}
	s := &Session{
		store: NewStore(initial),
		saver: saver,
		opts:  opts,
		level: opts.Level,
	}
	s.saves = NewCoalescer(s.saveOnce)
	s.debounce = NewDebouncer(opts.QuietWindow, opts.AfterFunc, s.saves.RequestSave)
	return s
}

// Start subscribes the autosave trigger to document changes.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil || s.closed {
		return
	}
	s.unsubscribe = s.store.Subscribe(s.onChange)
}

// Close stops autosave. Pending edits are not flushed; call Flush first.
func (s *Session) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.closed = true
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.debounce.Cancel()
}

func (s *Session) onChange(c Change) {
	if isUntouchedDraft(c.Doc) {
		s.debounce.Cancel()
		return
	}
	s.debounce.Touch()
}

// A document with no identity and no content is never persisted. Whitespace
// does not count as content.
func isUntouchedDraft(r resumes.Resume) bool {
	if r.ID != "" {
		return false
	}
	r = r.Clone()
	r.Normalize()
	return r.IsEmpty()
}

// Level returns the tier the session gates against.
func (s *Session) Level() subscriptions.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// SetLevel updates the tier, e.g. after an upgrade mid-session.
func (s *Session) SetLevel(level subscriptions.Level) {
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Document returns a copy of the current document.
func (s *Session) Document() resumes.Resume {
	doc, _ := s.store.Snapshot()
	return doc
}

// Update applies p. Presentation changes are checked against the tier before
// anything is written.
func (s *Session) Update(p Patch) (resumes.Resume, error) {
	if s.isClosed() {
		return resumes.Resume{}, ErrSessionClosed
	}
	if p.Presentation != nil {
		cur, _ := s.store.Snapshot()
		if p.Presentation.ChangedFrom(cur.Presentation) && !subscriptions.CanUseCustomizations(s.Level()) {
			return cur, resumes.ErrCustomizationNotAllowed
		}
	}
	return s.store.Update(p), nil
}

// Submit validates a wizard step and applies it. Invalid steps change nothing.
func (s *Session) Submit(step Step) error {
	if err := step.Validate(); err != nil {
		return err
	}
	_, err := s.Update(step.Patch())
	return err
}

// GenerateSummary asks the generator for a summary and writes it to the document.
func (s *Session) GenerateSummary(ctx context.Context) (string, error) {
	if err := s.checkAI(); err != nil {
		return "", err
	}
	text, err := s.opts.Generator.GenerateSummary(ctx, s.Document())
	if err != nil {
		return "", err
	}
	if _, err := s.Update(Patch{Summary: &text}); err != nil {
		return "", err
	}
	return text, nil
}

// GenerateWorkExperience asks the generator for an entry and appends it.
func (s *Session) GenerateWorkExperience(ctx context.Context, description string) (resumes.WorkExperience, error) {
	if err := s.checkAI(); err != nil {
		return resumes.WorkExperience{}, err
	}
	w, err := s.opts.Generator.GenerateWorkExperience(ctx, description)
	if err != nil {
		return resumes.WorkExperience{}, err
	}
	entries := append(s.Document().WorkExperiences, w)
	if _, err := s.Update(Patch{WorkExperiences: &entries}); err != nil {
		return resumes.WorkExperience{}, err
	}
	return w, nil
}

func (s *Session) checkAI() error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	if !subscriptions.CanUseAITools(s.Level()) {
		return generation.ErrUpgradeRequired
	}
	if s.opts.Generator == nil {
		return generation.ErrServiceUnavailable
	}
	return nil
}

// saveOnce persists the document as it is now. It runs only on the coalescer.
func (s *Session) saveOnce() {
	doc, rev := s.store.Snapshot()
	savedRev, _, _ := s.flags.snapshot()
	if rev <= savedRev || isUntouchedDraft(doc) {
		return
	}

	s.flags.begin()
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
	saved, err := s.saver.Save(ctx, doc)
	cancel()
	if err != nil {
		s.flags.fail(err)
		telemetry.Warn("editor.save_failed", map[string]any{
			"resume_id": doc.ID,
			"revision":  rev,
			"kind":      Classify(err).String(),
			"error":     err.Error(),
		})
		if s.opts.OnError != nil {
			s.opts.OnError(err)
		}
		return
	}

	s.store.adopt(saved)
	s.flags.succeed(rev)
	if s.opts.OnSaved != nil {
		s.opts.OnSaved(saved)
	}
	// Edits made during the save may have found nothing worth scheduling, e.g. a
	// new draft cleared before it had an identity. Now it has one.
	if s.HasUnsavedChanges() && !s.debounce.Pending() && !s.isClosed() {
		s.debounce.Touch()
	}
}

// Flush saves pending edits now and waits for every queued save. It is also the
// explicit retry after a failed save.
func (s *Session) Flush(ctx context.Context) error {
	for {
		if !s.debounce.Flush() && s.HasUnsavedChanges() {
			s.saves.RequestSave()
		}
		if err := s.saves.Wait(ctx); err != nil {
			return err
		}
		// A finished save can schedule one more for edits it could not carry.
		if !s.debounce.Pending() {
			break
		}
	}
	if s.HasUnsavedChanges() {
		if _, _, lastErr := s.flags.snapshot(); lastErr != nil {
			return lastErr
		}
	}
	return nil
}

// HasUnsavedChanges reports whether some edit is not yet known persisted.
func (s *Session) HasUnsavedChanges() bool {
	doc, rev := s.store.Snapshot()
	savedRev, _, _ := s.flags.snapshot()
	return rev > savedRev && !isUntouchedDraft(doc)
}

// IsSaving reports whether a save request is in flight.
func (s *Session) IsSaving() bool {
	_, saving, _ := s.flags.snapshot()
	return saving
}

// State returns the current save indicators.
func (s *Session) State() SaveState {
	_, saving, lastErr := s.flags.snapshot()
	return SaveState{
		Dirty:     s.HasUnsavedChanges(),
		Saving:    saving,
		LastError: lastErr,
	}
}

// ConfirmExit returns ErrUnsavedChanges while the document is dirty.
func (s *Session) ConfirmExit() error {
	if s.HasUnsavedChanges() {
		return ErrUnsavedChanges
	}
	return nil
}
