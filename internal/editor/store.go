package editor

import (
	"sync"

	"resume-builder/internal/resumes"
)

// Patch is a partial update. Nil fields are left untouched; list fields replace
// the stored list wholesale.
type Patch struct {
	Title           *string
	Description     *string
	Personal        *resumes.PersonalInfo
	WorkExperiences *[]resumes.WorkExperience
	Educations      *[]resumes.Education
	Skills          *[]string
	Summary         *string
	Presentation    *resumes.Presentation
}

// IsZero reports whether p changes nothing.
func (p Patch) IsZero() bool {
	return p == Patch{}
}

// Change is delivered to subscribers after every Update.
type Change struct {
	Doc      resumes.Resume
	Revision uint64
}

// Store holds the in-memory document for one editing session.
type Store struct {
	mu     sync.Mutex
	doc    resumes.Resume
	rev    uint64
	nextID int
	subs   map[int]func(Change)
}

// NewStore seeds a store with initial at revision 0.
func NewStore(initial resumes.Resume) *Store {
	return &Store{
		doc:  initial.Clone(),
		subs: make(map[int]func(Change)),
	}
}

// Update merges p into the document and returns the result. It never blocks on I/O.
func (s *Store) Update(p Patch) resumes.Resume {
	s.mu.Lock()
	applyPatch(&s.doc, p)
	s.rev++
	change := Change{Doc: s.doc.Clone(), Revision: s.rev}
	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
	return change.Doc
}

func applyPatch(doc *resumes.Resume, p Patch) {
	if p.Title != nil {
		doc.Title = *p.Title
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	if p.Personal != nil {
		photo := doc.Personal.PhotoKey
		doc.Personal = *p.Personal
		doc.Personal.PhotoKey = photo
	}
	if p.WorkExperiences != nil {
		doc.WorkExperiences = resumes.Resume{WorkExperiences: *p.WorkExperiences}.Clone().WorkExperiences
	}
	if p.Educations != nil {
		doc.Educations = resumes.Resume{Educations: *p.Educations}.Clone().Educations
	}
	if p.Skills != nil {
		doc.Skills = append([]string{}, (*p.Skills)...)
	}
	if p.Summary != nil {
		doc.Summary = *p.Summary
	}
	if p.Presentation != nil {
		doc.Presentation = *p.Presentation
	}
}

// Snapshot returns a deep copy of the document and its revision.
func (s *Store) Snapshot() (resumes.Resume, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), s.rev
}

// Subscribe registers fn for every future change until the returned func is called.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// adopt records the server's view after a save. It is not a user change: the
// revision does not move and subscribers are not notified. Identity is assigned
// only once.
func (s *Store) adopt(saved resumes.Resume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.ID == "" {
		s.doc.ID = saved.ID
	} else if s.doc.ID != saved.ID {
		return
	}
	s.doc.UserID = saved.UserID
	s.doc.Version = saved.Version
	s.doc.CreatedAt = saved.CreatedAt
	s.doc.UpdatedAt = saved.UpdatedAt
	s.doc.Personal.PhotoKey = saved.Personal.PhotoKey
}
