package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"
)

// Black-box tests against a running server with its MongoDB and MinIO
// backends. Set PDFTOOLBOX_API (e.g. http://localhost:8080) to run.

const (
	testPassword = "password123"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type fileRecord struct {
	ID            string    `json:"id"`
	ToolType      string    `json:"tool_type"`
	SizeBytes     int64     `json:"size_bytes"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type listResponse struct {
	Files []fileRecord `json:"files"`
}

func apiBase(t *testing.T) string {
	t.Helper()
	base := os.Getenv("PDFTOOLBOX_API")
	if base == "" {
		t.Skip("PDFTOOLBOX_API not set, skipping end-to-end tests")
	}
	return base
}

// minimalPDF builds a valid single-page PDF with a correct xref table.
func minimalPDF() []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, 4)
	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")
	xref := b.Len()
	b.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes()
}

func registerUser(t *testing.T, base string) authResponse {
	t.Helper()
	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())
	payload, _ := json.Marshal(map[string]string{
		"name":     "E2E Tester",
		"email":    email,
		"password": testPassword,
	})

	resp, err := http.Post(base+"/auth/register", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Failed to register user. Status: %d, Response: %s", resp.StatusCode, body)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatalf("Failed to decode register response: %v", err)
	}
	return auth
}

func mergeRequest(t *testing.T, base, token string, fileCount int) *http.Response {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	pdfBytes := minimalPDF()
	for i := 0; i < fileCount; i++ {
		part, err := writer.CreateFormFile("files", fmt.Sprintf("doc-%d.pdf", i))
		if err != nil {
			t.Fatalf("Failed to build multipart body: %v", err)
		}
		part.Write(pdfBytes)
	}
	writer.Close()

	req, _ := http.NewRequest("POST", base+"/merge", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Merge request failed: %v", err)
	}
	return resp
}

func TestAPIEndpoints(t *testing.T) {
	base := apiBase(t)

	auth := registerUser(t, base)

	t.Run("Login", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"email":    auth.User.Email,
			"password": testPassword,
		})
		resp, err := http.Post(base+"/auth/login", "application/json", bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("Failed to login: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("Failed to login. Status: %d, Response: %s", resp.StatusCode, body)
		}
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"email":    auth.User.Email,
			"password": "wrong-password",
		})
		resp, err := http.Post(base+"/auth/login", "application/json", bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("Login request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("Expected 400 for bad credentials, got %d", resp.StatusCode)
		}
	})

	t.Run("Validate token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", base+"/auth/validate", nil)
		req.Header.Set("Authorization", "Bearer "+auth.Token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Validate request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 from validate, got %d", resp.StatusCode)
		}
	})

	t.Run("Merge rejects a single file", func(t *testing.T) {
		resp := mergeRequest(t, base, auth.Token, 1)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("Expected 400 for single-file merge, got %d", resp.StatusCode)
		}
	})

	var fileID string
	t.Run("Merge three files", func(t *testing.T) {
		resp := mergeRequest(t, base, auth.Token, 3)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("Merge failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Fatalf("Expected application/pdf, got %s", ct)
		}
		fileID = resp.Header.Get("X-File-Id")
		if fileID == "" {
			t.Fatal("Expected X-File-Id header on authenticated merge")
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) == 0 {
			t.Fatal("Merge returned empty body")
		}
	})

	t.Run("List shows newest merge first", func(t *testing.T) {
		req, _ := http.NewRequest("GET", base+"/files", nil)
		req.Header.Set("Authorization", "Bearer "+auth.Token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("List request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 from list, got %d", resp.StatusCode)
		}

		var list listResponse
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("Failed to decode list response: %v", err)
		}
		if len(list.Files) == 0 {
			t.Fatal("Expected at least one file record")
		}
		first := list.Files[0]
		if first.ID != fileID {
			t.Fatalf("Expected newest record %s first, got %s", fileID, first.ID)
		}
		if first.ToolType != "merge" {
			t.Fatalf("Expected tool_type merge, got %s", first.ToolType)
		}
		if first.SizeBytes <= 0 {
			t.Fatalf("Expected positive size, got %d", first.SizeBytes)
		}
		retention := first.ExpiresAt.Sub(first.CreatedAt)
		if retention < 23*time.Hour || retention > 25*time.Hour {
			t.Fatalf("Expected ~24h retention, got %s", retention)
		}
	})

	t.Run("Download own file", func(t *testing.T) {
		req, _ := http.NewRequest("GET", base+"/files/"+fileID, nil)
		req.Header.Set("Authorization", "Bearer "+auth.Token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Download request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 from download, got %d", resp.StatusCode)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) == 0 {
			t.Fatal("Download returned empty body")
		}
	})

	t.Run("Other user cannot see the file", func(t *testing.T) {
		other := registerUser(t, base)
		req, _ := http.NewRequest("GET", base+"/files/"+fileID, nil)
		req.Header.Set("Authorization", "Bearer "+other.Token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Download request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("Expected 404 for foreign file, got %d", resp.StatusCode)
		}
	})

	t.Run("Anonymous merge is one-shot", func(t *testing.T) {
		resp := mergeRequest(t, base, "", 2)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("Anonymous merge failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		if id := resp.Header.Get("X-File-Id"); id != "" {
			t.Fatalf("Anonymous merge must not expose a record id, got %s", id)
		}
	})
}
