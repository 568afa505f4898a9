package endpoints

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbu-it/website-backend/internal/http/middleware"
)

// minimal but correctly signed PNG header
var pngBytes = append(
	[]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A},
	make([]byte, 64)...,
)

func uploadFile(t *testing.T, router http.Handler, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpload_Success(t *testing.T) {
	router, _, token := newTestRouter(t)

	w := uploadFile(t, router, token, "logo image.png", pngBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success      bool   `json:"success"`
		Filename     string `json:"filename"`
		URL          string `json:"url"`
		OriginalName string `json:"originalName"`
		Size         int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "logo image.png", resp.OriginalName)
	assert.EqualValues(t, len(pngBytes), resp.Size)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))
	assert.NotContains(t, resp.Filename, " ")
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	router, _, token := newTestRouter(t)

	big := append(append([]byte{}, pngBytes...), make([]byte, testMaxUploadSize)...)
	w := uploadFile(t, router, token, "big.png", big)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum allowed size")
}

func TestUpload_RejectsOversizedBodyAtTransport(t *testing.T) {
	router, _, token := newTestRouter(t)

	// far beyond the cap plus multipart headroom: rejected while parsing,
	// with the same error the post-parse size check produces
	huge := append(append([]byte{}, pngBytes...), make([]byte, 64*testMaxUploadSize)...)
	w := uploadFile(t, router, token, "huge.png", huge)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum allowed size")
}

func TestUpload_RejectsDisallowedType(t *testing.T) {
	router, _, token := newTestRouter(t)

	exe := append([]byte("MZ"), make([]byte, 64)...)
	w := uploadFile(t, router, token, "setup.exe", exe)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not allowed")

	// a plain text file is not on the allow-list either
	w = uploadFile(t, router, token, "notes.txt", []byte("hello world"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_RequiresToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := uploadFile(t, router, "", "logo.png", pngBytes)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	router, _, token := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.TokenHeader, token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no file uploaded")
}
