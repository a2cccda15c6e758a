package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder/internal/resumes"
)

// StepKind names a wizard step.
type StepKind string

const (
	StepGeneralInfo    StepKind = "general-info"
	StepPersonalInfo   StepKind = "personal-info"
	StepWorkExperience StepKind = "work-experience"
	StepEducation      StepKind = "education"
	StepSkills         StepKind = "skills"
	StepSummary        StepKind = "summary"
	StepPresentation   StepKind = "presentation"
)

// DefaultSteps is the wizard order.
var DefaultSteps = []StepKind{
	StepGeneralInfo,
	StepPersonalInfo,
	StepWorkExperience,
	StepEducation,
	StepSkills,
	StepSummary,
}

var ErrUnknownStep = errors.New("unknown step")

// Step is the input of one wizard step.
type Step interface {
	Kind() StepKind
	Validate() error
	Patch() Patch
}

// Steps validate by running the resume rules over a resume holding only their
// own fields, so issue paths match the API.

type GeneralInfoStep struct {
	Title       string
	Description string
}

func (GeneralInfoStep) Kind() StepKind { return StepGeneralInfo }

func (s GeneralInfoStep) Validate() error {
	return resumes.Validate(resumes.Resume{Title: s.Title, Description: s.Description})
}

func (s GeneralInfoStep) Patch() Patch {
	title, desc := strings.TrimSpace(s.Title), strings.TrimSpace(s.Description)
	return Patch{Title: &title, Description: &desc}
}

type PersonalInfoStep struct {
	Info resumes.PersonalInfo
}

func (PersonalInfoStep) Kind() StepKind { return StepPersonalInfo }

func (s PersonalInfoStep) Validate() error {
	return resumes.Validate(resumes.Resume{Personal: s.Info})
}

func (s PersonalInfoStep) Patch() Patch {
	info := s.Info
	info.PhotoKey = ""
	return Patch{Personal: &info}
}

type WorkExperienceStep struct {
	Entries []resumes.WorkExperience
}

func (WorkExperienceStep) Kind() StepKind { return StepWorkExperience }

func (s WorkExperienceStep) Validate() error {
	return resumes.Validate(resumes.Resume{WorkExperiences: s.Entries})
}

func (s WorkExperienceStep) Patch() Patch {
	entries := resumes.Resume{WorkExperiences: s.Entries}.Clone().WorkExperiences
	if entries == nil {
		entries = []resumes.WorkExperience{}
	}
	return Patch{WorkExperiences: &entries}
}

type EducationStep struct {
	Entries []resumes.Education
}

func (EducationStep) Kind() StepKind { return StepEducation }

func (s EducationStep) Validate() error {
	return resumes.Validate(resumes.Resume{Educations: s.Entries})
}

func (s EducationStep) Patch() Patch {
	entries := resumes.Resume{Educations: s.Entries}.Clone().Educations
	if entries == nil {
		entries = []resumes.Education{}
	}
	return Patch{Educations: &entries}
}

type SkillsStep struct {
	Skills []string
}

func (SkillsStep) Kind() StepKind { return StepSkills }

func (s SkillsStep) Validate() error {
	return resumes.Validate(resumes.Resume{Skills: cleanSkills(s.Skills)})
}

func (s SkillsStep) Patch() Patch {
	skills := cleanSkills(s.Skills)
	return Patch{Skills: &skills}
}

// ParseSkills splits a comma separated list, dropping blanks.
func ParseSkills(raw string) []string {
	return cleanSkills(strings.Split(raw, ","))
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type SummaryStep struct {
	Summary string
}

func (SummaryStep) Kind() StepKind { return StepSummary }

func (s SummaryStep) Validate() error {
	return resumes.Validate(resumes.Resume{Summary: s.Summary})
}

func (s SummaryStep) Patch() Patch {
	summary := strings.TrimSpace(s.Summary)
	return Patch{Summary: &summary}
}

type PresentationStep struct {
	Presentation resumes.Presentation
}

func (PresentationStep) Kind() StepKind { return StepPresentation }

func (s PresentationStep) Validate() error {
	return resumes.Validate(resumes.Resume{Presentation: s.Presentation})
}

func (s PresentationStep) Patch() Patch {
	p := s.Presentation
	return Patch{Presentation: &p}
}

// DecodeStep reads a step payload in the resume wire format and keeps only the
// fields that belong to kind.
func DecodeStep(kind StepKind, raw json.RawMessage) (Step, error) {
	var d resumes.ResumeDTO
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s step: %w", kind, err)
		}
	}
	r := d.ToResume()
	switch kind {
	case StepGeneralInfo:
		return GeneralInfoStep{Title: r.Title, Description: r.Description}, nil
	case StepPersonalInfo:
		return PersonalInfoStep{Info: r.Personal}, nil
	case StepWorkExperience:
		return WorkExperienceStep{Entries: r.WorkExperiences}, nil
	case StepEducation:
		return EducationStep{Entries: r.Educations}, nil
	case StepSkills:
		return SkillsStep{Skills: r.Skills}, nil
	case StepSummary:
		return SummaryStep{Summary: r.Summary}, nil
	case StepPresentation:
		return PresentationStep{Presentation: r.Presentation}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, kind)
	}
}

// Sequencer walks an ordered list of steps.
type Sequencer struct {
	kinds []StepKind
	idx   int
}

// NewSequencer builds a Sequencer over kinds, or DefaultSteps when none are given.
func NewSequencer(kinds ...StepKind) *Sequencer {
	if len(kinds) == 0 {
		kinds = DefaultSteps
	}
	return &Sequencer{kinds: append([]StepKind(nil), kinds...)}
}

func (q *Sequencer) Current() StepKind { return q.kinds[q.idx] }
func (q *Sequencer) Index() int        { return q.idx }
func (q *Sequencer) Len() int          { return len(q.kinds) }
func (q *Sequencer) IsFirst() bool     { return q.idx == 0 }
func (q *Sequencer) IsLast() bool      { return q.idx == len(q.kinds)-1 }

// Next advances one step. At the last step it stays put and returns false.
func (q *Sequencer) Next() (StepKind, bool) {
	if q.IsLast() {
		return q.Current(), false
	}
	q.idx++
	return q.Current(), true
}

// Prev goes back one step. At the first step it stays put and returns false.
func (q *Sequencer) Prev() (StepKind, bool) {
	if q.IsFirst() {
		return q.Current(), false
	}
	q.idx--
	return q.Current(), true
}

// Goto jumps to kind.
func (q *Sequencer) Goto(kind StepKind) error {
	for i, k := range q.kinds {
		if k == kind {
			q.idx = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownStep, kind)
}
