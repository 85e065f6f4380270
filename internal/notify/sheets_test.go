package notify

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mightyathletic/academy/internal/models"
)

func testServiceAccountJSON(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	raw, _ := json.Marshal(map[string]string{
		"client_email": "feed@project.iam.gserviceaccount.com",
		"private_key":  string(pemKey),
	})
	return string(raw)
}

func TestNewSheets_RejectsBadKey(t *testing.T) {
	if _, err := NewSheets("{}", "sheet-id", "Sheet1"); err == nil {
		t.Error("empty key should be rejected")
	}
	if _, err := NewSheets("not json", "sheet-id", "Sheet1"); err == nil {
		t.Error("malformed JSON should be rejected")
	}
}

// TestAppendRegistration drives the full exchange against stub
// endpoints: JWT grant for a token, then one values:append call
// carrying the registration row.
func TestAppendRegistration(t *testing.T) {
	tokenCalls := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("grant_type"); got != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("grant_type = %q", got)
		}
		if r.FormValue("assertion") == "" {
			t.Error("missing assertion")
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}))
	defer tokenSrv.Close()

	var appended [][]any
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		appended = body.Values
		w.Write([]byte(`{}`))
	}))
	defer apiSrv.Close()

	s, err := NewSheets(testServiceAccountJSON(t), "sheet-id", "Sheet1")
	if err != nil {
		t.Fatalf("new sheets: %v", err)
	}
	s.tokenURL = tokenSrv.URL
	s.apiBase = apiSrv.URL

	reg := models.Registration{
		ChildName:  "Ana",
		Age:        9,
		BirthDate:  time.Date(2016, 4, 1, 0, 0, 0, 0, time.UTC),
		ParentName: "Maria",
		Email:      "maria@example.com",
		Phone:      "555-0101",
	}
	if err := s.AppendRegistration(context.Background(), reg); err != nil {
		t.Fatalf("append: %v", err)
	}

	if tokenCalls != 1 {
		t.Errorf("expected 1 token exchange, got %d", tokenCalls)
	}
	if len(appended) != 1 || len(appended[0]) != 8 {
		t.Fatalf("expected one 8-column row, got %v", appended)
	}
	if appended[0][1] != "Ana" || appended[0][4] != "maria@example.com" {
		t.Errorf("row contents wrong: %v", appended[0])
	}
	if appended[0][6] != "Not specified" {
		t.Errorf("empty experience should appear as %q, got %v", "Not specified", appended[0][6])
	}
}
