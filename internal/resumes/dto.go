package resumes

import "time"

// WorkExperienceDTO is the wire form of a WorkExperience.
type WorkExperienceDTO struct {
	Position    string `json:"position,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   *Date  `json:"startDate,omitempty"`
	EndDate     *Date  `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationDTO is the wire form of an Education.
type EducationDTO struct {
	Degree    string `json:"degree,omitempty"`
	School    string `json:"school,omitempty"`
	StartDate *Date  `json:"startDate,omitempty"`
	EndDate   *Date  `json:"endDate,omitempty"`
}

// ResumeDTO is the wire form of a Resume, used for requests and responses.
type ResumeDTO struct {
	ID              string              `json:"id,omitempty"`
	Version         int                 `json:"version,omitempty"`
	Title           string              `json:"title,omitempty"`
	Description     string              `json:"description,omitempty"`
	FirstName       string              `json:"firstName,omitempty"`
	LastName        string              `json:"lastName,omitempty"`
	JobTitle        string              `json:"jobTitle,omitempty"`
	City            string              `json:"city,omitempty"`
	Country         string              `json:"country,omitempty"`
	Phone           string              `json:"phone,omitempty"`
	Email           string              `json:"email,omitempty"`
	PhotoURL        string              `json:"photoUrl,omitempty"`
	WorkExperiences []WorkExperienceDTO `json:"workExperiences"`
	Educations      []EducationDTO      `json:"educations"`
	Skills          []string            `json:"skills"`
	Summary         string              `json:"summary,omitempty"`
	ColorHex        string              `json:"colorHex,omitempty"`
	BorderStyle     string              `json:"borderStyle,omitempty"`
	CreatedAt       *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time          `json:"updatedAt,omitempty"`
}

// ListResponse is the GET /resumes payload.
type ListResponse struct {
	Resumes    []ResumeDTO `json:"resumes"`
	TotalCount int         `json:"totalCount"`
	Level      string      `json:"level"`
	CanCreate  bool        `json:"canCreate"`
}

// PhotoPath is the API path serving a resume's photo.
func PhotoPath(id string) string {
	return "/api/v1/resumes/" + id + "/photo"
}

// ToDTO converts r to its wire form.
func ToDTO(r Resume) ResumeDTO {
	d := ResumeDTO{
		ID:              r.ID,
		Version:         r.Version,
		Title:           r.Title,
		Description:     r.Description,
		FirstName:       r.Personal.FirstName,
		LastName:        r.Personal.LastName,
		JobTitle:        r.Personal.JobTitle,
		City:            r.Personal.City,
		Country:         r.Personal.Country,
		Phone:           r.Personal.Phone,
		Email:           r.Personal.Email,
		WorkExperiences: make([]WorkExperienceDTO, 0, len(r.WorkExperiences)),
		Educations:      make([]EducationDTO, 0, len(r.Educations)),
		Skills:          append([]string{}, r.Skills...),
		Summary:         r.Summary,
		ColorHex:        r.Presentation.ColorHex,
		BorderStyle:     r.Presentation.BorderStyle,
	}
	if r.Personal.PhotoKey != "" && r.ID != "" {
		d.PhotoURL = PhotoPath(r.ID)
	}
	for _, w := range r.WorkExperiences {
		d.WorkExperiences = append(d.WorkExperiences, WorkExperienceToDTO(w))
	}
	for _, e := range r.Educations {
		d.Educations = append(d.Educations, EducationDTO{
			Degree:    e.Degree,
			School:    e.School,
			StartDate: cloneDate(e.StartDate),
			EndDate:   cloneDate(e.EndDate),
		})
	}
	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt
		d.CreatedAt = &t
	}
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		d.UpdatedAt = &t
	}
	return d
}

// ToResume converts the wire form back to a Resume. PhotoURL is not mapped.
func (d ResumeDTO) ToResume() Resume {
	r := Resume{
		ID:          d.ID,
		Version:     d.Version,
		Title:       d.Title,
		Description: d.Description,
		Personal: PersonalInfo{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			JobTitle:  d.JobTitle,
			City:      d.City,
			Country:   d.Country,
			Phone:     d.Phone,
			Email:     d.Email,
		},
		Skills:       append([]string(nil), d.Skills...),
		Summary:      d.Summary,
		Presentation: Presentation{ColorHex: d.ColorHex, BorderStyle: d.BorderStyle},
	}
	for _, w := range d.WorkExperiences {
		r.WorkExperiences = append(r.WorkExperiences, w.ToModel())
	}
	for _, e := range d.Educations {
		r.Educations = append(r.Educations, e.ToModel())
	}
	if d.CreatedAt != nil {
		r.CreatedAt = *d.CreatedAt
	}
	if d.UpdatedAt != nil {
		r.UpdatedAt = *d.UpdatedAt
	}
	return r
}

// WorkExperienceToDTO converts one entry to its wire form.
func WorkExperienceToDTO(w WorkExperience) WorkExperienceDTO {
	return WorkExperienceDTO{
		Position:    w.Position,
		Company:     w.Company,
		StartDate:   cloneDate(w.StartDate),
		EndDate:     cloneDate(w.EndDate),
		Description: w.Description,
	}
}

// ToModel converts the wire form back to a WorkExperience.
func (w WorkExperienceDTO) ToModel() WorkExperience {
	return WorkExperience{
		Position:    w.Position,
		Company:     w.Company,
		StartDate:   cloneDate(w.StartDate),
		EndDate:     cloneDate(w.EndDate),
		Description: w.Description,
	}
}

// ToModel converts the wire form back to an Education.
func (e EducationDTO) ToModel() Education {
	return Education{
		Degree:    e.Degree,
		School:    e.School,
		StartDate: cloneDate(e.StartDate),
		EndDate:   cloneDate(e.EndDate),
	}
}
