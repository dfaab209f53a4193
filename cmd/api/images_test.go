package main

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"mangal/internal/store"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// photoHeaders builds real multipart.FileHeader values by writing a form and
// parsing it back through the request machinery.
func photoHeaders(t *testing.T, parts []struct {
	filename    string
	contentType string
	data        []byte
}) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photos"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.contentType)
		fw, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(p.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest("POST", "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		t.Fatal(err)
	}
	return r.MultipartForm.File["photos"]
}

type photoPart = struct {
	filename    string
	contentType string
	data        []byte
}

func TestValidatePhotosAccepts(t *testing.T) {
	files := photoHeaders(t, []photoPart{
		{"a.png", "image/png", pngBytes(t)},
		{"b.png", "image/png", pngBytes(t)},
	})

	if err := validatePhotos(files); err != nil {
		t.Fatalf("validatePhotos: %v", err)
	}
}

func TestValidatePhotosTooMany(t *testing.T) {
	data := pngBytes(t)
	parts := make([]photoPart, store.MaxPhotosPerSpot+1)
	for i := range parts {
		parts[i] = photoPart{"a.png", "image/png", data}
	}

	err := validatePhotos(photoHeaders(t, parts))
	if err == nil {
		t.Fatal("expected an error for too many photos")
	}
}

func TestValidatePhotosWrongType(t *testing.T) {
	err := validatePhotos(photoHeaders(t, []photoPart{
		{"doc.gif", "image/gif", pngBytes(t)},
	}))
	if err == nil || !strings.Contains(err.Error(), "doc.gif") {
		t.Fatalf("err = %v, want an error naming the file", err)
	}
}

func TestValidatePhotosCorrupt(t *testing.T) {
	err := validatePhotos(photoHeaders(t, []photoPart{
		{"broken.png", "image/png", []byte("definitely not a png")},
	}))
	if err == nil || !strings.Contains(err.Error(), "broken.png") {
		t.Fatalf("err = %v, want an error naming the file", err)
	}
}

func TestValidatePhotosTooLarge(t *testing.T) {
	big := make([]byte, maxPhotoSize+1)
	copy(big, pngBytes(t))

	err := validatePhotos(photoHeaders(t, []photoPart{
		{"huge.png", "image/png", big},
	}))
	if err == nil || !strings.Contains(err.Error(), "huge.png") {
		t.Fatalf("err = %v, want an error naming the file", err)
	}
}

func TestExtractPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1700000000/spots/spot_abc123.jpg", "spots/spot_abc123"},
		{"https://res.cloudinary.com/demo/image/upload/spots/spot_abc123.png", "spots/spot_abc123"},
		{"https://example.com/no-upload-segment.jpg", ""},
	}

	for _, tt := range tests {
		got, err := extractPublicIDFromURL(tt.url)
		if tt.want == "" {
			if err == nil {
				t.Errorf("extractPublicIDFromURL(%q) = %q, want error", tt.url, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("extractPublicIDFromURL(%q): %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("extractPublicIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
