package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/gaana/internal/shared"
	"github.com/gabriel-vasile/mimetype"
)

// RequestPart is the form field holding the JSON metadata of a multipart upload.
const RequestPart = "request"

// Upload is a file part of a multipart request.
type Upload struct {
	FieldName   string // set by the resource client when empty
	Filename    string
	ContentType string
	Reader      io.Reader
}

// OpenUpload opens the file at path and detects its content type.
//
// The caller closes the upload with [Upload.Close].
func OpenUpload(path string) (Upload, error) {
	if strings.TrimSpace(path) == "" {
		return Upload{}, fmt.Errorf("%w: file path", shared.ErrMissingArgument)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return Upload{
		Filename:    filepath.Base(path),
		ContentType: mtype.String(),
		Reader:      f,
	}, nil
}

// Close closes the underlying reader when it is an [io.Closer].
func (u Upload) Close() error {
	if c, ok := u.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Empty reports whether the upload carries no content.
func (u Upload) Empty() bool { return u.Reader == nil }

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// PostMultipart posts request as a JSON part named "request" followed by each non-empty file part.
func (a *APIService) PostMultipart(ctx context.Context, path string, request any, files ...Upload) (*APIResponse, error) {
	body, contentType, err := encodeMultipart(request, files)
	if err != nil {
		return nil, err
	}
	return a.do(ctx, http.MethodPost, path, body, contentType)
}

func encodeMultipart(request any, files []Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(request)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, RequestPart))
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return nil, "", fmt.Errorf("failed to write request part: %w", err)
	}

	for _, f := range files {
		if f.Empty() {
			continue
		}
		if f.FieldName == "" {
			return nil, "", fmt.Errorf("%w: upload %q has no field name", shared.ErrInvalidInput, f.Filename)
		}

		ctype := f.ContentType
		if ctype == "" {
			ctype = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", ctype)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create %s part: %w", f.FieldName, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, "", fmt.Errorf("failed to write %s part: %w", f.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
