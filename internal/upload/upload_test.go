package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, build func(mw *multipart.Writer)) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	build(mw)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func writeFile(t *testing.T, mw *multipart.Writer, field, name, mimeType, content string) {
	t.Helper()
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	if mimeType != "" {
		h.Set("Content-Type", mimeType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return store
}

func TestReceive_FileAndValues(t *testing.T) {
	store := newTestStore(t)
	req := newRequest(t, func(mw *multipart.Writer) {
		writeFile(t, mw, "image", "cat.png", "image/png", "png-bytes")
		require.NoError(t, mw.WriteField("prompt", "what is it"))
	})

	form, err := store.Receive(req, "image")
	require.NoError(t, err)
	require.NotNil(t, form.File)

	assert.Equal(t, "what is it", form.Values.Get("prompt"))
	assert.Equal(t, "cat.png", form.File.Name)
	assert.Equal(t, "image/png", form.File.MimeType)
	assert.EqualValues(t, len("png-bytes"), form.File.Size)
	assert.Equal(t, store.Dir(), filepath.Dir(form.File.Path))

	payload, err := form.File.Payload("image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", payload.MimeType)
	assert.Equal(t, "cat.png", payload.Name)
	assert.Equal(t, "cG5nLWJ5dGVz", payload.Base64())
	assert.Equal(t, "data:image/jpeg;base64,cG5nLWJ5dGVz", payload.DataURL())

	require.NoError(t, form.Remove())
	assert.NoFileExists(t, form.File.Path)
}

func TestReceive_OnlyFirstMatchingFileKept(t *testing.T) {
	store := newTestStore(t)
	req := newRequest(t, func(mw *multipart.Writer) {
		writeFile(t, mw, "other", "x.bin", "", "ignored")
		writeFile(t, mw, "audio", "a.mp3", "audio/mpeg", "first")
		writeFile(t, mw, "audio", "b.mp3", "audio/mpeg", "second")
	})

	form, err := store.Receive(req, "audio")
	require.NoError(t, err)
	require.NotNil(t, form.File)
	assert.Equal(t, "a.mp3", form.File.Name)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, form.Remove())
}

func TestReceive_DefaultMimeType(t *testing.T) {
	store := newTestStore(t)
	req := newRequest(t, func(mw *multipart.Writer) {
		writeFile(t, mw, "document", "blob", "", "raw")
	})

	form, err := store.Receive(req, "document")
	require.NoError(t, err)
	defer form.Remove()
	assert.Equal(t, "application/octet-stream", form.File.MimeType)
}

func TestReceive_MissingField(t *testing.T) {
	store := newTestStore(t)
	req := newRequest(t, func(mw *multipart.Writer) {
		require.NoError(t, mw.WriteField("prompt", "hello"))
	})

	form, err := store.Receive(req, "image")
	require.NoError(t, err)
	assert.Nil(t, form.File)
	assert.NoError(t, form.Remove())
}

func TestReceive_NotMultipart(t *testing.T) {
	store := newTestStore(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	form, err := store.Receive(req, "image")
	require.NoError(t, err)
	assert.Nil(t, form.File)
	assert.Empty(t, form.Values)
}

func TestReceive_MissingBoundary(t *testing.T) {
	store := newTestStore(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	req.Header.Set("Content-Type", "multipart/form-data")

	_, err := store.Receive(req, "image")
	assert.Error(t, err)
}

func TestReceive_TruncatedBodyLeavesNothing(t *testing.T) {
	store := newTestStore(t)
	req := newRequest(t, func(mw *multipart.Writer) {
		writeFile(t, mw, "audio", "a.wav", "audio/wav", strings.Repeat("a", 4096))
	})
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	req.Body = io.NopCloser(bytes.NewReader(body[:len(body)/2]))

	_, err = store.Receive(req, "audio")
	assert.Error(t, err)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFile_RemoveOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload-1")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	f := &File{Path: path}

	require.NoError(t, f.Remove())
	assert.NoFileExists(t, path)

	// recreate to prove the second call does not touch the filesystem
	require.NoError(t, os.WriteFile(path, []byte("y"), 0o600))
	require.NoError(t, f.Remove())
	assert.FileExists(t, path)
}

func TestFile_PayloadMissing(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "missing")}
	_, err := f.Payload("audio/wav")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
