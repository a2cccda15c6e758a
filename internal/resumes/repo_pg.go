package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. Child lists keep their order in sort_order.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, description, photo_key, color_hex, border_style, summary,
       first_name, last_name, job_title, city, country, phone, email, skills, version, created_at, updated_at`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts the resume and its child lists in one transaction.
func (r *PGRepo) Create(ctx context.Context, res Resume) (Resume, error) {
	const query = `
INSERT INTO resumes (
    id, user_id, title, description, photo_key, color_hex, border_style, summary,
    first_name, last_name, job_title, city, country, phone, email, skills,
    version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1, $17, $18)`

	skills, err := encodeSkills(res.Skills)
	if err != nil {
		return Resume{}, err
	}
	err = db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query,
			res.ID,
			res.UserID,
			nullString(res.Title),
			nullString(res.Description),
			nullString(res.Personal.PhotoKey),
			nullString(res.Presentation.ColorHex),
			nullString(res.Presentation.BorderStyle),
			nullString(res.Summary),
			nullString(res.Personal.FirstName),
			nullString(res.Personal.LastName),
			nullString(res.Personal.JobTitle),
			nullString(res.Personal.City),
			nullString(res.Personal.Country),
			nullString(res.Personal.Phone),
			nullString(res.Personal.Email),
			skills,
			res.CreatedAt,
			res.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert resume: %w", err)
		}
		return insertChildren(ctx, tx, res)
	})
	if err != nil {
		return Resume{}, err
	}
	res.Version = 1
	return res, nil
}

// Update rewrites the resume row and replaces its child lists.
func (r *PGRepo) Update(ctx context.Context, res Resume, expectedVersion int) (Resume, error) {
	const query = `
UPDATE resumes SET
    title = $3,
    description = $4,
    color_hex = $5,
    border_style = $6,
    summary = $7,
    first_name = $8,
    last_name = $9,
    job_title = $10,
    city = $11,
    country = $12,
    phone = $13,
    email = $14,
    skills = $15,
    updated_at = $16,
    version = version + 1
WHERE id = $1 AND user_id = $2 AND ($17::int = 0 OR version = $17::int)
RETURNING version, created_at, photo_key`

	skills, err := encodeSkills(res.Skills)
	if err != nil {
		return Resume{}, err
	}
	err = db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var photoKey sql.NullString
		err := tx.QueryRowContext(ctx, query,
			res.ID,
			res.UserID,
			nullString(res.Title),
			nullString(res.Description),
			nullString(res.Presentation.ColorHex),
			nullString(res.Presentation.BorderStyle),
			nullString(res.Summary),
			nullString(res.Personal.FirstName),
			nullString(res.Personal.LastName),
			nullString(res.Personal.JobTitle),
			nullString(res.Personal.City),
			nullString(res.Personal.Country),
			nullString(res.Personal.Phone),
			nullString(res.Personal.Email),
			skills,
			res.UpdatedAt,
			expectedVersion,
		).Scan(&res.Version, &res.CreatedAt, &photoKey)
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM resumes WHERE id = $1 AND user_id = $2)`,
				res.ID, res.UserID,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return ErrVersionConflict
			}
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update resume: %w", err)
		}
		res.Personal.PhotoKey = photoKey.String

		if _, err := tx.ExecContext(ctx, `DELETE FROM work_experiences WHERE resume_id = $1`, res.ID); err != nil {
			return fmt.Errorf("clear work experiences: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM educations WHERE resume_id = $1`, res.ID); err != nil {
			return fmt.Errorf("clear educations: %w", err)
		}
		return insertChildren(ctx, tx, res)
	})
	if err != nil {
		return Resume{}, err
	}
	return res, nil
}

func insertChildren(ctx context.Context, tx execer, res Resume) error {
	const workQuery = `
INSERT INTO work_experiences (resume_id, sort_order, position, company, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const eduQuery = `
INSERT INTO educations (resume_id, sort_order, degree, school, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6)`

	for i, w := range res.WorkExperiences {
		if _, err := tx.ExecContext(ctx, workQuery,
			res.ID, i,
			nullString(w.Position),
			nullString(w.Company),
			nullDate(w.StartDate),
			nullDate(w.EndDate),
			nullString(w.Description),
		); err != nil {
			return fmt.Errorf("insert work experience %d: %w", i, err)
		}
	}
	for i, e := range res.Educations {
		if _, err := tx.ExecContext(ctx, eduQuery,
			res.ID, i,
			nullString(e.Degree),
			nullString(e.School),
			nullDate(e.StartDate),
			nullDate(e.EndDate),
		); err != nil {
			return fmt.Errorf("insert education %d: %w", i, err)
		}
	}
	return nil
}

// Get fetches one resume with its child lists.
func (r *PGRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2`
	rows, err := r.DB.QueryContext(ctx, query, id, userID)
	if err != nil {
		return Resume{}, err
	}
	list, err := scanResumes(rows)
	if err != nil {
		return Resume{}, err
	}
	if len(list) == 0 {
		return Resume{}, ErrNotFound
	}
	res := list[0]
	if err := loadChildren(ctx, r.DB, &res); err != nil {
		return Resume{}, err
	}
	return res, nil
}

// ListByUser returns the user's resumes, most recently updated first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	list, err := scanResumes(rows)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if err := loadChildren(ctx, r.DB, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CountByUser counts the user's resumes.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// Delete removes the resume; child rows cascade.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetPhotoKey records the stored photo key without touching the version.
func (r *PGRepo) SetPhotoKey(ctx context.Context, userID, id, key string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE resumes SET photo_key = $3 WHERE id = $1 AND user_id = $2`,
		id, userID, nullString(key),
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResumes(rows *sql.Rows) ([]Resume, error) {
	defer rows.Close()
	var out []Resume
	for rows.Next() {
		var res Resume
		var title, description, photoKey, colorHex, borderStyle, summary sql.NullString
		var firstName, lastName, jobTitle, city, country, phone, email sql.NullString
		var skills []byte
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&title,
			&description,
			&photoKey,
			&colorHex,
			&borderStyle,
			&summary,
			&firstName,
			&lastName,
			&jobTitle,
			&city,
			&country,
			&phone,
			&email,
			&skills,
			&res.Version,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res.Title = title.String
		res.Description = description.String
		res.Summary = summary.String
		res.Presentation = Presentation{ColorHex: colorHex.String, BorderStyle: borderStyle.String}
		res.Personal = PersonalInfo{
			FirstName: firstName.String,
			LastName:  lastName.String,
			JobTitle:  jobTitle.String,
			City:      city.String,
			Country:   country.String,
			Phone:     phone.String,
			Email:     email.String,
			PhotoKey:  photoKey.String,
		}
		if len(skills) > 0 {
			if err := json.Unmarshal(skills, &res.Skills); err != nil {
				return nil, fmt.Errorf("decode skills: %w", err)
			}
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func loadChildren(ctx context.Context, q queryer, res *Resume) error {
	workRows, err := q.QueryContext(ctx, `
SELECT position, company, start_date, end_date, description
FROM work_experiences
WHERE resume_id = $1
ORDER BY sort_order`, res.ID)
	if err != nil {
		return err
	}
	defer workRows.Close()
	res.WorkExperiences = []WorkExperience{}
	for workRows.Next() {
		var position, company, description sql.NullString
		var start, end sql.NullTime
		if err := workRows.Scan(&position, &company, &start, &end, &description); err != nil {
			return err
		}
		res.WorkExperiences = append(res.WorkExperiences, WorkExperience{
			Position:    position.String,
			Company:     company.String,
			StartDate:   dateFromNull(start),
			EndDate:     dateFromNull(end),
			Description: description.String,
		})
	}
	if err := workRows.Err(); err != nil {
		return err
	}

	eduRows, err := q.QueryContext(ctx, `
SELECT degree, school, start_date, end_date
FROM educations
WHERE resume_id = $1
ORDER BY sort_order`, res.ID)
	if err != nil {
		return err
	}
	defer eduRows.Close()
	res.Educations = []Education{}
	for eduRows.Next() {
		var degree, school sql.NullString
		var start, end sql.NullTime
		if err := eduRows.Scan(&degree, &school, &start, &end); err != nil {
			return err
		}
		res.Educations = append(res.Educations, Education{
			Degree:    degree.String,
			School:    school.String,
			StartDate: dateFromNull(start),
			EndDate:   dateFromNull(end),
		})
	}
	return eduRows.Err()
}

func encodeSkills(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(d *Date) sql.NullTime {
	if d == nil || d.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time(), Valid: true}
}

func dateFromNull(t sql.NullTime) *Date {
	if !t.Valid {
		return nil
	}
	d := DateOf(t.Time)
	return &d
}

var _ Repo = (*PGRepo)(nil)
