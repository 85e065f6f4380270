package notify

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/mightyathletic/academy/internal/models"
)

const (
	googleTokenURL = "https://oauth2.googleapis.com/token"
	sheetsScope    = "https://www.googleapis.com/auth/spreadsheets"
	sheetsAPIBase  = "https://sheets.googleapis.com/v4/spreadsheets"
)

// Sheets appends registration rows to a Google spreadsheet using a
// service-account key: sign a JWT assertion, trade it for an access
// token, then call values:append. One shot, no retry.
type Sheets struct {
	clientEmail   string
	privateKey    *rsa.PrivateKey
	spreadsheetID string
	sheetName     string

	httpClient *http.Client
	tokenURL   string
	apiBase    string
}

type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// NewSheets parses the service-account JSON key. Returns an error when
// the key is missing its fields; callers treat a nil Sheets as "feed
// disabled".
func NewSheets(serviceAccountJSON, spreadsheetID, sheetName string) (*Sheets, error) {
	var key serviceAccountKey
	if err := json.Unmarshal([]byte(serviceAccountJSON), &key); err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("service account key missing client_email or private_key")
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account private key: %w", err)
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &Sheets{
		clientEmail:   key.ClientEmail,
		privateKey:    priv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		tokenURL:      googleTokenURL,
		apiBase:       sheetsAPIBase,
	}, nil
}

// AppendRegistration adds one row for a new registration.
func (s *Sheets) AppendRegistration(ctx context.Context, reg models.Registration) error {
	token, err := s.accessToken(ctx)
	if err != nil {
		return err
	}

	experience := reg.Experience
	if experience == "" {
		experience = "Not specified"
	}
	row := []any{
		time.Now().UTC().Format(time.RFC3339),
		reg.ChildName,
		strconv.Itoa(reg.Age),
		reg.ParentName,
		reg.Email,
		reg.Phone,
		experience,
		reg.Notes,
	}

	body, err := json.Marshal(map[string]any{"values": [][]any{row}})
	if err != nil {
		return err
	}

	appendURL := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED",
		s.apiBase, s.spreadsheetID, url.PathEscape(s.sheetName+"!A:H"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, appendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		return fmt.Errorf("sheets append: %s: %s", resp.Status, strings.TrimSpace(buf.String()))
	}
	return nil
}

func (s *Sheets) accessToken(ctx context.Context) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   s.clientEmail,
		"scope": sheetsScope,
		"aud":   s.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("token exchange: %s", resp.Status)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token exchange: empty access token")
	}
	return out.AccessToken, nil
}
