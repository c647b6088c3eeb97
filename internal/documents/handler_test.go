package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"kb-backend/internal/documents"
	"kb-backend/internal/shared/server/middleware"
	localstore "kb-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &documents.Service{
		Store: localstore.New(t.TempDir()),
		Repo:  documents.NewMemoryRepo(),
	}
	handler := documents.NewHandler(svc)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Auth("dev"))
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r
}

func uploadFile(t *testing.T, router *gin.Engine, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDocumentsUploadAndList(t *testing.T) {
	router := newTestRouter(t)

	resp := uploadFile(t, router, "hello.txt", "hello world")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID   string `json:"documentId"`
		FileName     string `json:"fileName"`
		HasText      bool   `json:"hasText"`
		HasEmbedding bool   `json:"hasEmbedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatalf("expected documentId, got empty")
	}
	if created.FileName != "hello.txt" {
		t.Fatalf("expected fileName hello.txt, got %s", created.FileName)
	}
	if created.HasText || created.HasEmbedding {
		t.Fatalf("plain text upload must not extract or embed: %+v", created)
	}

	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)

	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}
	var listed []struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].DocumentID != created.DocumentID {
		t.Fatalf("unexpected listing: %v", listed)
	}
}

func TestDocumentsUploadRequiresFile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestDocumentsRawDownload(t *testing.T) {
	router := newTestRouter(t)

	resp := uploadFile(t, router, "raw.bin", "raw bytes here")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d", resp.Code)
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	reqRaw := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID+"/raw", nil)
	addGuestHeader(reqRaw)
	respRaw := httptest.NewRecorder()
	router.ServeHTTP(respRaw, reqRaw)

	if respRaw.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respRaw.Code)
	}
	if respRaw.Body.String() != "raw bytes here" {
		t.Fatalf("raw body mismatch: %q", respRaw.Body.String())
	}
	if cd := respRaw.Header().Get("Content-Disposition"); cd == "" {
		t.Fatalf("expected Content-Disposition header")
	}
}

func TestDocumentsRawUnknownIDNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/nope/raw", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestDocumentsIsolatedPerUser(t *testing.T) {
	router := newTestRouter(t)

	resp := uploadFile(t, router, "mine.txt", "secret")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("X-Guest-Id", "someone-else")
	respOther := httptest.NewRecorder()
	router.ServeHTTP(respOther, req)

	if respOther.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respOther.Code)
	}
	var listed []json.RawMessage
	if err := json.NewDecoder(respOther.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty listing for other user, got %d entries", len(listed))
	}
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}
