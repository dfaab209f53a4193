package main

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// photoStorage holds spot photo assets; satisfied by cloudinaryStorage.
type photoStorage interface {
	Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	Delete(ctx context.Context, photoURL string) error
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func newCloudinaryStorage(cld *cloudinary.Cloudinary) *cloudinaryStorage {
	return &cloudinaryStorage{cld: cld}
}

// Upload uploads validated files to the "spots" folder and returns their
// secure URLs in input order.
func (s *cloudinaryStorage) Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	var urls []string

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}

		resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:    "spots",
			PublicID:  fmt.Sprintf("spot_%s", uuid.NewString()),
			Overwrite: api.Bool(false),
		})
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("cloudinary upload: %w", err)
		}

		urls = append(urls, resp.SecureURL)
	}

	return urls, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, photoURL string) error {
	publicID, err := extractPublicIDFromURL(photoURL)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	_, err = s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo from Cloudinary: %w", err)
	}

	return nil
}

// extractPublicIDFromURL recovers the public ID from a Cloudinary delivery
// URL: everything after the upload segment and the optional v<version>,
// minus the extension.
func extractPublicIDFromURL(photoURL string) (string, error) {
	parsedURL, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part != "upload" || i+1 >= len(pathParts) {
			continue
		}

		rest := pathParts[i+1:]
		if isVersionSegment(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}

		publicID := strings.Join(rest, "/")
		if dot := strings.LastIndex(publicID, "."); dot != -1 {
			publicID = publicID[:dot]
		}
		return publicID, nil
	}

	return "", errors.New("failed to extract public ID from URL")
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
