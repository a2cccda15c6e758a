package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

// MaxPhotoBytes caps an uploaded photo.
const MaxPhotoBytes = 4 << 20

// SetPhoto replaces the resume's photo. The upload is checked in full first, then
// the previous photo is deleted before the new one is stored.
func (s *Service) SetPhoto(ctx context.Context, userID, id, fileName string, r io.Reader) (Resume, error) {
	if userID == "" {
		return Resume{}, ErrNotAuthenticated
	}
	existing, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	rest, head, contentType, err := object.Sniff(r)
	if err != nil {
		return Resume{}, fmt.Errorf("read photo: %w", err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return Resume{}, fmt.Errorf("%w: must be an image, got %s", ErrInvalidPhoto, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(io.MultiReader(bytes.NewReader(head), rest), MaxPhotoBytes+1))
	if err != nil {
		return Resume{}, fmt.Errorf("read photo: %w", err)
	}
	if len(data) > MaxPhotoBytes {
		return Resume{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidPhoto, MaxPhotoBytes)
	}

	if key := existing.Personal.PhotoKey; key != "" {
		if err := s.Store.Delete(ctx, key); err != nil {
			return Resume{}, fmt.Errorf("delete previous photo: %w", err)
		}
		if err := s.Repo.SetPhotoKey(ctx, userID, id, ""); err != nil {
			return Resume{}, err
		}
	}

	obj, err := s.Store.Put(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Resume{}, fmt.Errorf("store photo: %w", err)
	}
	if err := s.Repo.SetPhotoKey(ctx, userID, id, obj.Key); err != nil {
		return Resume{}, err
	}
	existing.Personal.PhotoKey = obj.Key
	telemetry.Info("resume.photo_set", map[string]any{"user_id": userID, "resume_id": id, "size": obj.Size})
	return existing, nil
}

// ClearPhoto deletes the resume's photo, if any.
func (s *Service) ClearPhoto(ctx context.Context, userID, id string) (Resume, error) {
	if userID == "" {
		return Resume{}, ErrNotAuthenticated
	}
	existing, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}
	key := existing.Personal.PhotoKey
	if key == "" {
		return existing, nil
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		return Resume{}, fmt.Errorf("delete photo: %w", err)
	}
	if err := s.Repo.SetPhotoKey(ctx, userID, id, ""); err != nil {
		return Resume{}, err
	}
	existing.Personal.PhotoKey = ""
	return existing, nil
}

// OpenPhoto streams the resume's photo.
func (s *Service) OpenPhoto(ctx context.Context, userID, id string) (io.ReadCloser, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	existing, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if existing.Personal.PhotoKey == "" {
		return nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, existing.Personal.PhotoKey)
	if errors.Is(err, object.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rc, err
}
