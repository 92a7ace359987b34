package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

const maxImageBytes = 10 << 20

// ImageStore turns client data URLs into stored objects and back.
type ImageStore struct {
	objects ports.ObjectStore
	now     func() time.Time
}

func NewImageStore(objects ports.ObjectStore) *ImageStore {
	return &ImageStore{objects: objects, now: time.Now}
}

// Upload decodes a base64 data URL, checks that the payload really is an
// image and stores it under folder/yyyy/mm/<uuid><ext>.
func (s *ImageStore) Upload(ctx context.Context, dataURL, folder string) (string, error) {
	body, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	if len(body) > maxImageBytes {
		return "", domain.Validation("Image must be smaller than 10MB")
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.ErrUnsupportedImage
	}

	d := s.now().UTC()
	key := fmt.Sprintf("%s/%d/%02d/%s%s", folder, d.Year(), d.Month(), uuid.NewString(), mt.Extension())

	url, err := s.objects.Put(ctx, key, body, mt.String())
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

// Release deletes a stored image. Empty and already missing references are no-ops.
func (s *ImageStore) Release(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.objects.Delete(ctx, ref); err != nil && !errors.Is(err, domain.ErrObjectNotFound) {
		return fmt.Errorf("release image: %w", err)
	}
	return nil
}

func decodeDataURL(dataURL string) ([]byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, domain.ErrInvalidImage
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, domain.ErrInvalidImage
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(body) == 0 {
		return nil, domain.ErrInvalidImage
	}
	return body, nil
}
