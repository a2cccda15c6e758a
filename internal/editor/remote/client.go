package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"resume-builder/internal/generation"
	"resume-builder/internal/resumes"
	"resume-builder/internal/subscriptions"
)

// Client talks to the resume API over HTTP. It satisfies editor.Saver and
// editor.Generator.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New constructs a Client for baseURL (e.g. http://localhost:8080) using a bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is a non-2xx response. It unwraps to the matching domain sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
	Issues  []resumes.FieldIssue
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "unauthorized":
		return resumes.ErrNotAuthenticated
	case "not_found":
		return resumes.ErrNotFound
	case "resume_limit_reached":
		return resumes.ErrResumeLimitReached
	case "customization_not_allowed":
		return resumes.ErrCustomizationNotAllowed
	case "validation_error":
		return &resumes.ValidationError{Issues: e.Issues}
	case "version_conflict":
		return resumes.ErrVersionConflict
	case "upgrade_required":
		return generation.ErrUpgradeRequired
	case "quota_exceeded", "rate_limited":
		return generation.ErrQuotaExceeded
	case "service_unavailable":
		return generation.ErrServiceUnavailable
	}
	return nil
}

type errorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, in, out any) (http.Header, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.Header, nil
}

func decodeError(status int, raw []byte) error {
	apiErr := &APIError{Status: status, Message: strings.TrimSpace(string(raw))}
	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		if len(env.Error.Details) > 0 {
			_ = json.Unmarshal(env.Error.Details, &apiErr.Issues)
		}
	}
	if apiErr.Code == "" && status == http.StatusUnauthorized {
		apiErr.Code = "unauthorized"
	}
	return apiErr
}

// Save creates r when it has no ID, otherwise updates it guarded by its version.
func (c *Client) Save(ctx context.Context, r resumes.Resume) (resumes.Resume, error) {
	body := resumes.ToDTO(r)
	body.PhotoURL = ""
	var out resumes.ResumeDTO
	if r.ID == "" {
		if _, err := c.do(ctx, http.MethodPost, "/api/v1/resumes", nil, body, &out); err != nil {
			return resumes.Resume{}, err
		}
		return out.ToResume(), nil
	}
	header := http.Header{}
	if r.Version > 0 {
		header.Set("If-Match", strconv.Quote(strconv.Itoa(r.Version)))
	}
	if _, err := c.do(ctx, http.MethodPut, "/api/v1/resumes/"+url.PathEscape(r.ID), header, body, &out); err != nil {
		return resumes.Resume{}, err
	}
	return out.ToResume(), nil
}

// Get fetches one resume.
func (c *Client) Get(ctx context.Context, id string) (resumes.Resume, error) {
	var out resumes.ResumeDTO
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/resumes/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return resumes.Resume{}, err
	}
	return out.ToResume(), nil
}

// List fetches the caller's resume overview.
func (c *Client) List(ctx context.Context) (resumes.ListResponse, error) {
	var out resumes.ListResponse
	_, err := c.do(ctx, http.MethodGet, "/api/v1/resumes", nil, nil, &out)
	return out, err
}

// Delete removes a resume.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/resumes/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// Level fetches the caller's tier. Unknown values read as free.
func (c *Client) Level(ctx context.Context) (subscriptions.Level, error) {
	var out struct {
		Level string `json:"level"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/subscription", nil, nil, &out); err != nil {
		return subscriptions.LevelFree, err
	}
	return subscriptions.ParseLevel(out.Level), nil
}

// GenerateSummary asks the API for a summary of r.
func (c *Client) GenerateSummary(ctx context.Context, r resumes.Resume) (string, error) {
	in := generation.SummaryInputFrom(r)
	req := generation.SummaryRequest{
		JobTitle:        in.JobTitle,
		WorkExperiences: make([]resumes.WorkExperienceDTO, 0, len(in.WorkExperiences)),
		Educations:      resumes.ToDTO(resumes.Resume{Educations: in.Educations}).Educations,
		Skills:          in.Skills,
	}
	for _, w := range in.WorkExperiences {
		req.WorkExperiences = append(req.WorkExperiences, resumes.WorkExperienceToDTO(w))
	}
	var out generation.SummaryResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/ai/summary", nil, req, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// GenerateWorkExperience asks the API to structure a free-text description.
func (c *Client) GenerateWorkExperience(ctx context.Context, description string) (resumes.WorkExperience, error) {
	var out generation.WorkExperienceResponse
	req := generation.WorkExperienceRequest{Description: description}
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/ai/work-experience", nil, req, &out); err != nil {
		return resumes.WorkExperience{}, err
	}
	return out.WorkExperience.ToModel(), nil
}
