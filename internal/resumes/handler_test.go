package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/subscriptions"
)

func newTestRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestHandlerCreateGetUpdate(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := newTestRouter(svc, "u1")

	w := doJSON(r, http.MethodPost, "/api/v1/resumes", `{
		"title":"Backend","firstName":"Ada","email":"ada@example.com",
		"workExperiences":[{"position":"Lead","company":"Acme","startDate":"2022-03-01"}],
		"educations":[],"skills":["go"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created ResumeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, `"1"`, w.Header().Get("ETag"))
	require.Len(t, created.WorkExperiences, 1)
	assert.Equal(t, "2022-03-01", created.WorkExperiences[0].StartDate.String())
	assert.Nil(t, created.WorkExperiences[0].EndDate)

	w = doJSON(r, http.MethodGet, "/api/v1/resumes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/v1/resumes/"+created.ID, `{"title":"Renamed","skills":[]}`, "If-Match", `"1"`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated ResumeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 2, updated.Version)

	w = doJSON(r, http.MethodPut, "/api/v1/resumes/"+created.ID, `{"title":"Stale","version":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "version_conflict", decodeError(t, w))
}

func TestHandlerErrorMapping(t *testing.T) {
	svc, _, _ := newTestService(fixedTiers{"pro": subscriptions.LevelPro})
	r := newTestRouter(svc, "pro")

	w := doJSON(r, http.MethodPost, "/api/v1/resumes", `{"title":"x","colorHex":"#ff0000"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "customization_not_allowed", decodeError(t, w))

	w = doJSON(r, http.MethodPost, "/api/v1/resumes", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decodeError(t, w))

	w = doJSON(r, http.MethodPost, "/api/v1/resumes", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/resumes/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	free := newTestRouter(svc, "free")
	require.Equal(t, http.StatusCreated, doJSON(free, http.MethodPost, "/api/v1/resumes", `{"title":"1"}`).Code)
	w = doJSON(free, http.MethodPost, "/api/v1/resumes", `{"title":"2"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "resume_limit_reached", decodeError(t, w))

	anon := newTestRouter(svc, "")
	w = doJSON(anon, http.MethodGet, "/api/v1/resumes", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerListAndDelete(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := newTestRouter(svc, "u1")

	w := doJSON(r, http.MethodPost, "/api/v1/resumes", `{"title":"only"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created ResumeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodGet, "/api/v1/resumes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "free", list.Level)
	assert.False(t, list.CanCreate)
	require.Len(t, list.Resumes, 1)

	w = doJSON(r, http.MethodDelete, "/api/v1/resumes/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(r, http.MethodDelete, "/api/v1/resumes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerPhotoLifecycle(t *testing.T) {
	svc, _, _ := newTestService(nil)
	r := newTestRouter(svc, "u1")

	w := doJSON(r, http.MethodPost, "/api/v1/resumes", `{"title":"photo"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created ResumeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	upload := func(name string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("photo", name)
		require.NoError(t, err)
		_, _ = part.Write(data)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPut, "/api/v1/resumes/"+created.ID+"/photo", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	w = upload("me.png", pngBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var withPhoto ResumeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &withPhoto))
	assert.Equal(t, PhotoPath(created.ID), withPhoto.PhotoURL)

	w = doJSON(r, http.MethodGet, "/api/v1/resumes/"+created.ID+"/photo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.Bytes())

	w = upload("notes.txt", []byte("hello there"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/resumes/"+created.ID+"/photo", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/api/v1/resumes/"+created.ID+"/photo", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
