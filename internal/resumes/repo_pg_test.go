package resumes

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resumeColumnNames = []string{
	"id", "user_id", "title", "description", "photo_key", "color_hex", "border_style", "summary",
	"first_name", "last_name", "job_title", "city", "country", "phone", "email", "skills",
	"version", "created_at", "updated_at",
}

func TestPGRepoCreateInsertsChildrenInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	res := Resume{
		ID:        "r-1",
		UserID:    "u-1",
		Title:     "Backend",
		Skills:    []string{"go"},
		CreatedAt: now,
		UpdatedAt: now,
		WorkExperiences: []WorkExperience{
			{Position: "Lead", Company: "Acme", StartDate: datePtr(2022, time.March, 1)},
			{Position: "Dev", Company: "Initech"},
		},
		Educations: []Education{{Degree: "BSc", School: "Uni"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resumes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO work_experiences").
		WithArgs("r-1", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO work_experiences").
		WithArgs("r-1", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO educations").
		WithArgs("r-1", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	out, err := repo.Create(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUpdateConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE resumes SET").WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "photo_key"}))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("r-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	_, err = repo.Update(context.Background(), Resume{ID: "r-1", UserID: "u-1", Version: 3}, 3)
	assert.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUpdateMissingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE resumes SET").WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "photo_key"}))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	_, err = repo.Update(context.Background(), Resume{ID: "r-1", UserID: "u-1"}, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUpdateReplacesChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE resumes SET").
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "photo_key"}).AddRow(4, created, "photos/p.png"))
	mock.ExpectExec("DELETE FROM work_experiences").WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM educations").WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO educations").
		WithArgs("r-1", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	out, err := repo.Update(context.Background(), Resume{
		ID: "r-1", UserID: "u-1", Educations: []Education{{Degree: "BSc"}},
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Version)
	assert.Equal(t, created, out.CreatedAt)
	assert.Equal(t, "photos/p.png", out.Personal.PhotoKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetLoadsOrderedChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM resumes").WithArgs("r-1", "u-1").
		WillReturnRows(sqlmock.NewRows(resumeColumnNames).AddRow(
			"r-1", "u-1", "Backend", nil, nil, "#123456", "circle", nil,
			"Ada", nil, nil, nil, nil, nil, nil, []byte(`["go","sql"]`),
			2, now, now,
		))
	mock.ExpectQuery("FROM work_experiences").WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"position", "company", "start_date", "end_date", "description"}).
			AddRow("Lead", "Acme", now, nil, "Built it").
			AddRow("Dev", "Initech", nil, nil, nil))
	mock.ExpectQuery("FROM educations").WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"degree", "school", "start_date", "end_date"}))

	repo := &PGRepo{DB: db}
	res, err := repo.Get(context.Background(), "u-1", "r-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend", res.Title)
	assert.Equal(t, "Ada", res.Personal.FirstName)
	assert.Equal(t, []string{"go", "sql"}, res.Skills)
	assert.Equal(t, Presentation{ColorHex: "#123456", BorderStyle: BorderCircle}, res.Presentation)
	require.Len(t, res.WorkExperiences, 2)
	assert.Equal(t, "Lead", res.WorkExperiences[0].Position)
	assert.Equal(t, "2026-05-01", res.WorkExperiences[0].StartDate.String())
	assert.Nil(t, res.WorkExperiences[0].EndDate)
	assert.Empty(t, res.Educations)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("FROM resumes").WillReturnRows(sqlmock.NewRows(resumeColumnNames))

	repo := &PGRepo{DB: db}
	_, err = repo.Get(context.Background(), "u-1", "r-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM resumes").WithArgs("r-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-1", "r-1"), ErrNotFound)
}
