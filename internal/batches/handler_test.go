package batches_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"screening-backend/internal/bootstrap"
	sharedauth "screening-backend/internal/shared/auth"
	"screening-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		CORSAllowOrigin: []string{"http://localhost:5173"},
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func bearerToken(t *testing.T, tenantID string) string {
	t.Helper()
	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:      "user-1",
		TenantID: tenantID,
		Role:     "member",
		Exp:      time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return "Bearer " + token
}

func uploadResume(t *testing.T, router http.Handler, token, fileName, content string) string {
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

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Resume struct {
			ID string `json:"id"`
		} `json:"resume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.Resume.ID == "" {
		t.Fatalf("expected resume id, got empty")
	}
	return created.Resume.ID
}

func createJD(t *testing.T, router http.Handler, token string) string {
	t.Helper()
	payload := map[string]any{
		"title":       "Backend Engineer",
		"description": "Python backend role",
		"data": map[string]any{
			"job_title":    "Backend Engineer",
			"skills":       []string{"Python", "Django"},
			"technologies": []string{"PostgreSQL"},
			"experience":   "2+ years",
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/job-descriptions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("create jd: expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var jd struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jd); err != nil {
		t.Fatalf("decode jd response: %v", err)
	}
	return jd.ID
}

func TestCreateScreeningEndToEnd(t *testing.T) {
	app := buildTestApp(t)
	token := bearerToken(t, "tenant-1")

	resumeID := uploadResume(t, app.Router, token, "resume.txt", "Priya Sharma\npython developer")
	jdID := createJD(t, app.Router, token)

	payload, _ := json.Marshal(map[string]any{
		"jobDescriptionId": jdID,
		"resumeIds":        []string{resumeID},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/screenings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Batch struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Total  int    `json:"total"`
		} `json:"batch"`
		JobIDs []string `json:"jobIds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode screening response: %v", err)
	}
	if created.Batch.Total != 1 || len(created.JobIDs) != 1 {
		t.Fatalf("expected one job, got total=%d jobs=%d", created.Batch.Total, len(created.JobIDs))
	}

	// The batch shows up in the tenant's list with queued jobs counted.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+created.Batch.ID, nil)
	reqGet.Header.Set("Authorization", token)
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("get batch: expected status 200, got %d", respGet.Code)
	}
	var detail struct {
		Counts struct {
			Queued int `json:"queued"`
		} `json:"jobCounts"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&detail); err != nil {
		t.Fatalf("decode batch detail: %v", err)
	}
	if detail.Counts.Queued != 1 {
		t.Fatalf("expected 1 queued job, got %d", detail.Counts.Queued)
	}
}

func TestCreateScreeningUnknownJD(t *testing.T) {
	app := buildTestApp(t)
	token := bearerToken(t, "tenant-1")

	resumeID := uploadResume(t, app.Router, token, "resume.txt", "plain resume text")

	payload, _ := json.Marshal(map[string]any{
		"jobDescriptionId": "missing-jd",
		"resumeIds":        []string{resumeID},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/screenings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestScreeningRequiresTenantScope(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/screenings", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "guest-1")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", resp.Code, resp.Body.String())
	}
}
