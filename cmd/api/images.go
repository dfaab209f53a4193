package main

import (
	"encoding/json"
	"fmt"
	"image"
	"mime/multipart"
	"net/http"

	"mangal/internal/store"

	// Registered decoders back the structural validity check in
	// validatePhotos.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const maxPhotoSize = 5 << 20 // 5 MiB

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// parseSpotForm parses the multipart create/update form: a "spot" JSON part
// plus optional "photos" files. Files are returned unread; validation and
// upload happen separately.
func (app *application) parseSpotForm(w http.ResponseWriter, r *http.Request, data any) ([]*multipart.FileHeader, error) {
	// 10 photos x 5 MiB plus the JSON part.
	const maxBytes = 64 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	if err := json.Unmarshal([]byte(r.FormValue("spot")), data); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	if err := Validate.Struct(data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return r.MultipartForm.File["photos"], nil
}

// validatePhotos enforces the photo constraints: at most MaxPhotosPerSpot
// files, each within the size limit, an allowed image content type, and
// decodable as an actual image. The error names the offending file.
func validatePhotos(files []*multipart.FileHeader) error {
	if len(files) > store.MaxPhotosPerSpot {
		return fmt.Errorf("maximum photos for upload is %d", store.MaxPhotosPerSpot)
	}

	for _, fileHeader := range files {
		if err := validatePhoto(fileHeader); err != nil {
			return err
		}
	}
	return nil
}

func validatePhoto(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > maxPhotoSize {
		return fmt.Errorf("photo %s is too large, must not be bigger than 5 MiB", fileHeader.Filename)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		return fmt.Errorf("photo %s has wrong format, only JPEG, PNG and WEBP are allowed", fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open photo %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	if _, _, err := image.Decode(file); err != nil {
		return fmt.Errorf("file %s is not a valid image or corrupted", fileHeader.Filename)
	}
	return nil
}
