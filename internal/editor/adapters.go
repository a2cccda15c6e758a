package editor

import (
	"context"

	"resume-builder/internal/generation"
	"resume-builder/internal/resumes"
)

// ServiceSaver saves through an in-process resumes.Service on behalf of one user.
type ServiceSaver struct {
	Resumes *resumes.Service
	UserID  string
}

func (s ServiceSaver) Save(ctx context.Context, r resumes.Resume) (resumes.Resume, error) {
	return s.Resumes.Save(ctx, s.UserID, r)
}

// ServiceGenerator generates through an in-process generation.Service.
type ServiceGenerator struct {
	Generation *generation.Service
	UserID     string
}

func (g ServiceGenerator) GenerateSummary(ctx context.Context, r resumes.Resume) (string, error) {
	return g.Generation.GenerateSummary(ctx, g.UserID, generation.SummaryInputFrom(r))
}

func (g ServiceGenerator) GenerateWorkExperience(ctx context.Context, description string) (resumes.WorkExperience, error) {
	return g.Generation.GenerateWorkExperience(ctx, g.UserID, description)
}

var (
	_ Saver     = ServiceSaver{}
	_ Generator = ServiceGenerator{}
)
