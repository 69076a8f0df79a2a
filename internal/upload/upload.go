package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/kdduha/multimodal-gateway/internal/models"
)

const defaultMimeType = "application/octet-stream"

// File is a multipart file part stored in the upload directory for the
// duration of one request.
type File struct {
	Path     string
	Name     string
	MimeType string
	Size     int64

	removeOnce sync.Once
	removeErr  error
}

// Payload reads the stored file and tags it with mimeType.
func (f *File) Payload(mimeType string) (*models.InlinePayload, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return &models.InlinePayload{Name: f.Name, MimeType: mimeType, Data: data}, nil
}

// Remove deletes the file from disk. Only the first call touches the
// filesystem; later calls return the first result.
func (f *File) Remove() error {
	f.removeOnce.Do(func() {
		f.removeErr = os.Remove(f.Path)
	})
	return f.removeErr
}

// Form is the parsed multipart body: at most one stored file plus the plain
// text fields.
type Form struct {
	File   *File
	Values url.Values
}

// Remove deletes the stored file, if any.
func (f *Form) Remove() error {
	if f == nil || f.File == nil {
		return nil
	}
	return f.File.Remove()
}

type Store struct {
	dir string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Receive streams the multipart body of r. The first file part named field is
// written to the upload directory, other file parts are discarded. A request
// that is not multipart yields an empty form.
func (s *Store) Receive(r *http.Request, field string) (*Form, error) {
	form := &Form{Values: url.Values{}}

	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return form, nil
	}
	if err != nil {
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			form.Remove()
			return nil, err
		}

		switch {
		case part.FileName() == "":
			value, err := io.ReadAll(part)
			if err != nil {
				part.Close()
				form.Remove()
				return nil, err
			}
			form.Values.Add(part.FormName(), string(value))
		case part.FormName() == field && form.File == nil:
			file, err := s.store(part)
			if err != nil {
				part.Close()
				return nil, err
			}
			form.File = file
		default:
			if _, err := io.Copy(io.Discard, part); err != nil {
				part.Close()
				form.Remove()
				return nil, err
			}
		}
		part.Close()
	}
}

func (s *Store) store(part *multipart.Part) (*File, error) {
	tmp, err := os.CreateTemp(s.dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	size, err := io.Copy(tmp, part)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	mimeType := part.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	return &File{
		Path:     tmp.Name(),
		Name:     part.FileName(),
		MimeType: mimeType,
		Size:     size,
	}, nil
}
