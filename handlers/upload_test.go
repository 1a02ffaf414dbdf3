package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRouter(dir string) *gin.Engine {
	h := &FileHandler{UploadDir: dir}
	r := gin.New()
	r.POST("/api/v1/files", h.Upload)
	return r
}

func multipartFile(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, formType := multipartFile(t, filename, contentType, content)
	req := httptest.NewRequest("POST", "/api/v1/files", body)
	req.Header.Set("Content-Type", formType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadMissingFile(t *testing.T) {
	r := uploadRouter(t.TempDir())

	req := httptest.NewRequest("POST", "/api/v1/files", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "file", decodeBody(t, w)["field"])
}

func TestUploadRejectsExtension(t *testing.T) {
	r := uploadRouter(t.TempDir())

	w := doUpload(t, r, "payload.exe", "application/pdf", []byte("MZ"))
	requireStatus(t, w, http.StatusBadRequest)
}

// The declared content type is checked independently of the extension.
func TestUploadRejectsContentType(t *testing.T) {
	r := uploadRouter(t.TempDir())

	w := doUpload(t, r, "doc.pdf", "application/zip", []byte("PK"))
	requireStatus(t, w, http.StatusBadRequest)
}

func TestUploadRejectsOversize(t *testing.T) {
	r := uploadRouter(t.TempDir())

	big := bytes.Repeat([]byte("a"), maxUploadSize+1)
	w := doUpload(t, r, "big.pdf", "application/pdf", big)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, decodeBody(t, w)["error"], "2MB")
}

func TestUploadStoresFile(t *testing.T) {
	dir := t.TempDir()
	r := uploadRouter(dir)

	w := doUpload(t, r, "my avatar.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	requireStatus(t, w, http.StatusCreated)

	name, ok := decodeBody(t, w)["file"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(name, "my_avatar.png"), "spaces are replaced in %q", name)
	assert.NotContains(t, name, " ")

	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, stored)
}
