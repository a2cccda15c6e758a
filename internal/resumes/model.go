package resumes

import (
	"strings"
	"time"
)

// Resume is the document edited by the wizard.
type Resume struct {
	ID              string
	UserID          string
	Title           string `validate:"max=200"`
	Description     string `validate:"max=1000"`
	Personal        PersonalInfo
	WorkExperiences []WorkExperience `validate:"max=50,dive"`
	Educations      []Education      `validate:"max=50,dive"`
	Skills          []string         `validate:"max=100,dive,max=100"`
	Summary         string           `validate:"max=5000"`
	Presentation    Presentation
	Version         int `validate:"min=0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PersonalInfo is the contact block. PhotoKey is owned by the photo endpoints.
type PersonalInfo struct {
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
	JobTitle  string `validate:"max=200"`
	City      string `validate:"max=100"`
	Country   string `validate:"max=100"`
	Phone     string `validate:"max=50"`
	Email     string `validate:"omitempty,email,max=254"`
	PhotoKey  string
}

// WorkExperience is one position. A nil EndDate means the position is ongoing.
type WorkExperience struct {
	Position    string `validate:"max=200"`
	Company     string `validate:"max=200"`
	StartDate   *Date
	EndDate     *Date
	Description string `validate:"max=5000"`
}

// Education is one degree.
type Education struct {
	Degree    string `validate:"max=200"`
	School    string `validate:"max=200"`
	StartDate *Date
	EndDate   *Date
}

// Border styles for the photo frame.
const (
	BorderSquircle = "squircle"
	BorderCircle   = "circle"
	BorderSquare   = "square"
)

// Presentation holds styling options. Empty fields mean "not chosen".
type Presentation struct {
	ColorHex    string `validate:"omitempty,hexcolor"`
	BorderStyle string `validate:"omitempty,oneof=squircle circle square"`
}

// ChangedFrom reports whether p sets a value that differs from prev.
func (p Presentation) ChangedFrom(prev Presentation) bool {
	if p.BorderStyle != "" && p.BorderStyle != prev.BorderStyle {
		return true
	}
	if p.ColorHex != "" && !strings.EqualFold(p.ColorHex, prev.ColorHex) {
		return true
	}
	return false
}

// Clone returns a deep copy.
func (r Resume) Clone() Resume {
	out := r
	if r.WorkExperiences != nil {
		out.WorkExperiences = make([]WorkExperience, len(r.WorkExperiences))
		for i, w := range r.WorkExperiences {
			w.StartDate = cloneDate(w.StartDate)
			w.EndDate = cloneDate(w.EndDate)
			out.WorkExperiences[i] = w
		}
	}
	if r.Educations != nil {
		out.Educations = make([]Education, len(r.Educations))
		for i, e := range r.Educations {
			e.StartDate = cloneDate(e.StartDate)
			e.EndDate = cloneDate(e.EndDate)
			out.Educations[i] = e
		}
	}
	if r.Skills != nil {
		out.Skills = append([]string(nil), r.Skills...)
	}
	return out
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// IsEmpty reports whether nothing has been entered into r.
func (r Resume) IsEmpty() bool {
	if r.Title != "" || r.Description != "" || r.Summary != "" {
		return false
	}
	if r.Personal != (PersonalInfo{}) || r.Presentation != (Presentation{}) {
		return false
	}
	return len(r.WorkExperiences) == 0 && len(r.Educations) == 0 && len(r.Skills) == 0
}

// Normalize trims free-text fields and drops blank skills.
func (r *Resume) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Summary = strings.TrimSpace(r.Summary)

	p := &r.Personal
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.JobTitle = strings.TrimSpace(p.JobTitle)
	p.City = strings.TrimSpace(p.City)
	p.Country = strings.TrimSpace(p.Country)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)

	r.Presentation.ColorHex = strings.TrimSpace(r.Presentation.ColorHex)
	r.Presentation.BorderStyle = strings.ToLower(strings.TrimSpace(r.Presentation.BorderStyle))

	for i := range r.WorkExperiences {
		w := &r.WorkExperiences[i]
		w.Position = strings.TrimSpace(w.Position)
		w.Company = strings.TrimSpace(w.Company)
		w.Description = strings.TrimSpace(w.Description)
	}
	for i := range r.Educations {
		e := &r.Educations[i]
		e.Degree = strings.TrimSpace(e.Degree)
		e.School = strings.TrimSpace(e.School)
	}
	if r.Skills != nil {
		skills := r.Skills[:0:0]
		for _, s := range r.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		r.Skills = skills
	}
}
