package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/generation"
	"resume-builder/internal/resumes"
	"resume-builder/internal/subscriptions"
)

func TestRapidChangesProduceOneSaveWithFinalState(t *testing.T) {
	saver := newFakeSaver()
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{Level: subscriptions.LevelPro})

	for i := 0; i < 20; i++ {
		_, err := s.Update(Patch{Title: strPtr(fmt.Sprintf("title %d", i))})
		require.NoError(t, err)
	}
	assert.Empty(t, saver.Calls())
	assert.Equal(t, 1, clock.Live())

	clock.Elapse()
	waitIdle(t, s)

	calls := saver.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "title 19", calls[0].Title)
	assert.False(t, s.HasUnsavedChanges())
}

func TestSavesNeverOverlap(t *testing.T) {
	saver := newFakeSaver()
	saver.gated = true
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	_, err := s.Update(Patch{Title: strPtr("first")})
	require.NoError(t, err)
	clock.Elapse()
	waitStarted(t, saver)

	for i := 0; i < 5; i++ {
		_, err := s.Update(Patch{Summary: strPtr(fmt.Sprintf("s%d", i))})
		require.NoError(t, err)
		clock.Elapse()
	}
	saver.release <- struct{}{}
	waitStarted(t, saver)
	saver.release <- struct{}{}
	waitIdle(t, s)

	assert.Equal(t, 1, saver.MaxInFlight())
	assert.Len(t, saver.Calls(), 2)
}

func TestQueuedSaveCarriesNewestState(t *testing.T) {
	saver := newFakeSaver()
	saver.gated = true
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	_, err := s.Update(Patch{Title: strPtr("a")})
	require.NoError(t, err)
	clock.Elapse()
	waitStarted(t, saver)
	assert.True(t, s.IsSaving())

	_, err = s.Update(Patch{Title: strPtr("b")})
	require.NoError(t, err)
	clock.Elapse()
	_, err = s.Update(Patch{Title: strPtr("c")})
	require.NoError(t, err)
	clock.Elapse()

	saver.release <- struct{}{}
	waitStarted(t, saver)
	saver.release <- struct{}{}
	waitIdle(t, s)

	calls := saver.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "a", calls[0].Title)
	assert.Equal(t, "c", calls[1].Title)
	// The follow-up is an update of the created resume, not a second create.
	assert.Equal(t, "res-1", calls[1].ID)
	assert.Equal(t, 1, calls[1].Version)
	assert.False(t, s.IsSaving())
	assert.False(t, s.HasUnsavedChanges())
}

func TestDirtyUntilExactStateSaved(t *testing.T) {
	saver := newFakeSaver()
	saver.gated = true
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	assert.False(t, s.HasUnsavedChanges())
	_, err := s.Update(Patch{Title: strPtr("a")})
	require.NoError(t, err)
	assert.True(t, s.HasUnsavedChanges())
	assert.ErrorIs(t, s.ConfirmExit(), ErrUnsavedChanges)

	clock.Elapse()
	waitStarted(t, saver)
	assert.True(t, s.State().Saving)
	assert.True(t, s.State().Dirty)

	_, err = s.Update(Patch{Title: strPtr("b")})
	require.NoError(t, err)
	saver.release <- struct{}{}
	waitIdle(t, s)

	// The save that finished carried "a"; "b" is still pending.
	assert.True(t, s.HasUnsavedChanges())
	assert.Equal(t, 1, clock.Live())

	clock.Elapse()
	waitStarted(t, saver)
	saver.release <- struct{}{}
	waitIdle(t, s)
	assert.False(t, s.HasUnsavedChanges())
	assert.NoError(t, s.ConfirmExit())
}

func TestDraftClearedDuringCreateIsSavedAfterward(t *testing.T) {
	saver := newFakeSaver()
	saver.gated = true
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	_, err := s.Update(Patch{Title: strPtr("a")})
	require.NoError(t, err)
	clock.Elapse()
	waitStarted(t, saver)

	// Without an identity the cleared draft schedules nothing.
	_, err = s.Update(Patch{Title: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, 0, clock.Live())

	saver.release <- struct{}{}
	waitIdle(t, s)
	assert.Equal(t, "res-1", s.Document().ID)
	assert.True(t, s.HasUnsavedChanges())
	assert.Equal(t, 1, clock.Live())

	assert.Equal(t, 1, clock.Elapse())
	waitStarted(t, saver)
	saver.release <- struct{}{}
	waitIdle(t, s)

	calls := saver.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "res-1", calls[1].ID)
	assert.Empty(t, calls[1].Title)
	assert.False(t, s.HasUnsavedChanges())
	assert.NoError(t, s.ConfirmExit())
	assert.Equal(t, 0, clock.Live())
}

func TestFlushDuringCreateSavesClearedDraft(t *testing.T) {
	saver := newFakeSaver()
	saver.gated = true
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	_, err := s.Update(Patch{Title: strPtr("a")})
	require.NoError(t, err)
	clock.Elapse()
	waitStarted(t, saver)
	_, err = s.Update(Patch{Title: strPtr("")})
	require.NoError(t, err)

	saver.release <- struct{}{}
	saver.release <- struct{}{}
	require.NoError(t, s.Flush(context.Background()))

	calls := saver.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "res-1", calls[1].ID)
	assert.Empty(t, calls[1].Title)
	assert.False(t, s.HasUnsavedChanges())
	assert.Equal(t, 0, clock.Live())
}

func TestFlushFiresPendingWindow(t *testing.T) {
	saver := newFakeSaver()
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	_, err := s.Update(Patch{Title: strPtr("now")})
	require.NoError(t, err)
	require.Equal(t, 1, clock.Live())

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 0, clock.Live())
	require.Len(t, saver.Calls(), 1)
	assert.Equal(t, "now", saver.Calls()[0].Title)
	assert.False(t, s.HasUnsavedChanges())
}

func TestFailedSaveStaysDirtyAndRetries(t *testing.T) {
	saver := newFakeSaver()
	saver.errs = []error{errors.New("connection reset")}
	var reported []error
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{OnError: func(err error) { reported = append(reported, err) }})

	_, err := s.Update(Patch{Title: strPtr("keep me")})
	require.NoError(t, err)
	clock.Elapse()
	waitIdle(t, s)

	state := s.State()
	assert.True(t, state.Dirty)
	assert.False(t, state.Saving)
	require.Error(t, state.LastError)
	assert.Equal(t, KindTransient, Classify(state.LastError))
	assert.Len(t, reported, 1)
	assert.Equal(t, "keep me", s.Document().Title)
	assert.Equal(t, 0, clock.Live())

	require.NoError(t, s.Flush(context.Background()))
	assert.False(t, s.HasUnsavedChanges())
	assert.NoError(t, s.State().LastError)
	assert.Len(t, saver.Calls(), 2)
}

func TestFlushReturnsSaveError(t *testing.T) {
	saver := newFakeSaver()
	saver.errs = []error{resumes.ErrVersionConflict}
	s, _ := newTestSession(t, resumes.Resume{ID: "r", Version: 3}, saver, Options{})

	_, err := s.Update(Patch{Summary: strPtr("x")})
	require.NoError(t, err)
	err = s.Flush(context.Background())
	assert.ErrorIs(t, err, resumes.ErrVersionConflict)
	assert.Equal(t, KindConflict, Classify(err))
	assert.True(t, s.HasUnsavedChanges())
}

func TestEmptyNewDocumentNeverSaves(t *testing.T) {
	saver := newFakeSaver()
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	_, err := s.Update(Patch{Title: strPtr("   ")})
	require.NoError(t, err)
	_, err = s.Update(Patch{Title: strPtr("")})
	require.NoError(t, err)

	assert.Equal(t, 0, clock.Live())
	assert.False(t, s.HasUnsavedChanges())
	require.NoError(t, s.Flush(context.Background()))
	assert.Empty(t, saver.Calls())
}

func TestFreeTierColorChangeDeniedBeforeMutation(t *testing.T) {
	saver := newFakeSaver()
	initial := resumes.Resume{ID: "r", Title: "t", Presentation: resumes.Presentation{ColorHex: "#000000"}}
	s, clock := newTestSession(t, initial, saver, Options{Level: subscriptions.LevelFree})

	_, err := s.Update(Patch{Presentation: &resumes.Presentation{ColorHex: "#ff0000"}})
	assert.ErrorIs(t, err, resumes.ErrCustomizationNotAllowed)
	assert.Equal(t, KindCapabilityDenied, Classify(err))

	assert.Equal(t, "#000000", s.Document().Presentation.ColorHex)
	assert.False(t, s.HasUnsavedChanges())
	assert.Equal(t, 0, clock.Live())

	// Resubmitting the stored value is not a change.
	_, err = s.Update(Patch{Presentation: &resumes.Presentation{ColorHex: "#000000"}})
	assert.NoError(t, err)

	s.SetLevel(subscriptions.LevelProPlus)
	doc, err := s.Update(Patch{Presentation: &resumes.Presentation{ColorHex: "#ff0000", BorderStyle: resumes.BorderCircle}})
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", doc.Presentation.ColorHex)
}

func TestSubmitInvalidStepChangesNothing(t *testing.T) {
	saver := newFakeSaver()
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})

	err := s.Submit(PersonalInfoStep{Info: resumes.PersonalInfo{Email: "not-an-email"}})
	var verr *resumes.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Issues[0].Field)
	assert.Equal(t, KindValidation, Classify(err))
	assert.Equal(t, 0, clock.Live())
	assert.True(t, s.Document().IsEmpty())

	require.NoError(t, s.Submit(GeneralInfoStep{Title: "  CV  "}))
	assert.Equal(t, "CV", s.Document().Title)
	assert.Equal(t, 1, clock.Live())
}

func TestClosedSessionStopsAutosave(t *testing.T) {
	saver := newFakeSaver()
	s, clock := newTestSession(t, resumes.Resume{}, saver, Options{})
	_, err := s.Update(Patch{Title: strPtr("x")})
	require.NoError(t, err)

	s.Close()
	assert.Equal(t, 0, clock.Live())
	_, err = s.Update(Patch{Title: strPtr("y")})
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Empty(t, saver.Calls())
}

type fixedTier subscriptions.Level

func (f fixedTier) LevelFor(context.Context, string) (subscriptions.Level, error) {
	return subscriptions.Level(f), nil
}

func TestReorderRoundTripsThroughService(t *testing.T) {
	svc := &resumes.Service{Repo: resumes.NewMemoryRepo(), Tiers: fixedTier(subscriptions.LevelPro)}
	saver := ServiceSaver{Resumes: svc, UserID: "u"}
	s, _ := newTestSession(t, resumes.Resume{}, saver, Options{})
	ctx := context.Background()

	require.NoError(t, s.Submit(EducationStep{Entries: []resumes.Education{
		{Degree: "BSc", School: "A"},
		{Degree: "MSc", School: "B"},
		{Degree: "PhD", School: "C"},
	}}))
	require.NoError(t, s.Flush(ctx))
	id := s.Document().ID
	require.NotEmpty(t, id)

	edu := s.Document().Educations
	reordered := []resumes.Education{edu[2], edu[0], edu[1]}
	require.NoError(t, s.Submit(EducationStep{Entries: reordered}))
	require.NoError(t, s.Flush(ctx))

	stored, err := svc.Get(ctx, "u", id)
	require.NoError(t, err)
	require.Len(t, stored.Educations, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{stored.Educations[0].School, stored.Educations[1].School, stored.Educations[2].School})
	assert.Equal(t, 2, stored.Version)
	assert.Equal(t, 2, s.Document().Version)
}

func TestServiceSaverQuotaIsCapabilityDenied(t *testing.T) {
	svc := &resumes.Service{Repo: resumes.NewMemoryRepo(), Tiers: fixedTier(subscriptions.LevelFree)}
	ctx := context.Background()
	_, err := svc.Save(ctx, "u", resumes.Resume{Title: "existing"})
	require.NoError(t, err)

	s, _ := newTestSession(t, resumes.Resume{}, ServiceSaver{Resumes: svc, UserID: "u"}, Options{})
	_, err = s.Update(Patch{Title: strPtr("second")})
	require.NoError(t, err)
	err = s.Flush(ctx)
	assert.ErrorIs(t, err, resumes.ErrResumeLimitReached)
	assert.Equal(t, KindCapabilityDenied, Classify(err))
	assert.Equal(t, "second", s.Document().Title)
}

type fakeGenerator struct {
	summary string
	entry   resumes.WorkExperience
	err     error
	calls   int
}

func (g *fakeGenerator) GenerateSummary(context.Context, resumes.Resume) (string, error) {
	g.calls++
	return g.summary, g.err
}

func (g *fakeGenerator) GenerateWorkExperience(context.Context, string) (resumes.WorkExperience, error) {
	g.calls++
	return g.entry, g.err
}

func TestGenerationGatedByTier(t *testing.T) {
	gen := &fakeGenerator{summary: "Great engineer."}
	s, _ := newTestSession(t, resumes.Resume{}, newFakeSaver(), Options{Level: subscriptions.LevelFree, Generator: gen})

	_, err := s.GenerateSummary(context.Background())
	assert.ErrorIs(t, err, generation.ErrUpgradeRequired)
	assert.Zero(t, gen.calls)
	assert.Empty(t, s.Document().Summary)
}

func TestGenerationAppliesResult(t *testing.T) {
	gen := &fakeGenerator{summary: "Great engineer.", entry: resumes.WorkExperience{Position: "Dev", Company: "Acme"}}
	s, clock := newTestSession(t, resumes.Resume{
		WorkExperiences: []resumes.WorkExperience{{Position: "Intern"}},
	}, newFakeSaver(), Options{Level: subscriptions.LevelPro, Generator: gen})

	text, err := s.GenerateSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Great engineer.", text)
	assert.Equal(t, "Great engineer.", s.Document().Summary)

	_, err = s.GenerateWorkExperience(context.Background(), "dev at acme for three years")
	require.NoError(t, err)
	doc := s.Document()
	require.Len(t, doc.WorkExperiences, 2)
	assert.Equal(t, "Acme", doc.WorkExperiences[1].Company)
	assert.Equal(t, 1, clock.Live())
}

func TestGenerationFailureKeepsDocument(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("%w: provider", generation.ErrQuotaExceeded)}
	s, _ := newTestSession(t, resumes.Resume{Summary: "mine"}, newFakeSaver(), Options{Level: subscriptions.LevelProPlus, Generator: gen})

	_, err := s.GenerateSummary(context.Background())
	assert.Equal(t, KindServiceUnavailable, Classify(err))
	assert.Equal(t, "mine", s.Document().Summary)
	assert.False(t, s.HasUnsavedChanges())
}

func TestSessionUsesRealTimerByDefault(t *testing.T) {
	saver := newFakeSaver()
	s := NewSession(resumes.Resume{}, saver, Options{QuietWindow: 5 * time.Millisecond})
	s.Start()
	defer s.Close()

	_, err := s.Update(Patch{Title: strPtr("x")})
	require.NoError(t, err)
	waitStarted(t, saver)
	waitIdle(t, s)
	assert.False(t, s.HasUnsavedChanges())
}
