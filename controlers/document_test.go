package controlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

func uploadFile(t *testing.T, ts *testServer, token, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestUploadListDelete(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "user-1")

	w := uploadFile(t, ts, token, "notes.pdf", "pdf bytes")
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var uploaded struct {
		FilePath string `json:"filePath"`
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("upload: decode: %v", err)
	}
	if uploaded.FileName != "notes.pdf" || uploaded.FilePath == "" {
		t.Fatalf("upload: bad body %s", w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/api/documents", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var docs []model.Document
	if err := json.Unmarshal(w.Body.Bytes(), &docs); err != nil {
		t.Fatalf("list: decode: %v", err)
	}
	if len(docs) != 1 || docs[0].Path != uploaded.FilePath {
		t.Fatalf("list: unexpected docs %+v", docs)
	}

	w = ts.do(t, http.MethodDelete, "/api/documents/"+uploaded.FilePath, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/documents", token, nil)
	json.Unmarshal(w.Body.Bytes(), &docs)
	if len(docs) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", docs)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "user-1")

	w := uploadFile(t, ts, token, "malware.exe", "MZ")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for .exe, got %d", w.Code)
	}

	// Nothing stuck around.
	w = ts.do(t, http.MethodGet, "/api/documents", token, nil)
	var docs []model.Document
	json.Unmarshal(w.Body.Bytes(), &docs)
	if len(docs) != 0 {
		t.Fatalf("rejected upload must leave no record, got %+v", docs)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "user-1")

	w := ts.do(t, http.MethodPost, "/api/upload", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a file, got %d", w.Code)
	}
}

func TestDeleteUnknownDocumentOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "user-1")

	w := ts.do(t, http.MethodDelete, "/api/documents/nope.txt", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
