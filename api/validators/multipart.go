package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
)

const (
	payloadField = "payload"
	filesField   = "files"
	maxFileName  = 255
)

// UploadedFile is one part of the "files" field of a multipart request.
type UploadedFile struct {
	Name string
	Data []byte
}

// DecodePayloadWithFiles accepts either a JSON body or a multipart form whose
// "payload" field holds the JSON document and whose "files" parts carry uploads.
func DecodePayloadWithFiles(r *http.Request, maxBytes int64, dest any) ([]UploadedFile, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, DecodeJSONBody(r, dest)
	}

	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "request exceeds upload limit")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	defer r.MultipartForm.RemoveAll()

	raw := r.FormValue(payloadField)
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	decoder := json.NewDecoder(bytes.NewBufferString(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload field")
	}
	if err := validate.Struct(dest); err != nil {
		return nil, formatValidationErrors(err)
	}

	headers := r.MultipartForm.File[filesField]
	files := make([]UploadedFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
		}
		files = append(files, UploadedFile{Name: SanitizeFileName(header.Filename, maxFileName), Data: data})
	}
	return files, nil
}
