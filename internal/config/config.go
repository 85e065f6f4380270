package config

import (
	"os"
	"strconv"
)

// Config is everything the server reads from the environment. Block
// size and the payment-due threshold are deliberately configuration,
// not constants: deployments have billed in blocks of 4 and of 8.
type Config struct {
	Addr   string
	DBPath string

	// BaseURL is the externally visible origin, used for upload URLs,
	// QR payloads, and password-reset links.
	BaseURL string

	// AdminEmail is the single address granted the admin dashboard.
	// Every other authenticated account is a parent.
	AdminEmail string
	JWTSecret  string

	// BlockSize is the number of sessions per billing block.
	// DueThreshold is the cached count at which marking one more
	// session flips payment status to pending; it defaults to
	// BlockSize-1 (the mark that fills the block).
	BlockSize    int
	DueThreshold int

	UploadDir string

	ResendAPIKey string
	EmailFrom    string

	// Google Sheets registration feed.
	ServiceAccountKey string // JSON key, client_email + private_key
	SpreadsheetID     string
	SheetName         string
}

func Load() Config {
	blockSize := getInt("BLOCK_SIZE", 8)
	if blockSize < 1 {
		blockSize = 8
	}
	due := getInt("PAYMENT_DUE_THRESHOLD", blockSize-1)

	return Config{
		Addr:              getEnv("ADDR", ":8080"),
		DBPath:            getEnv("DB_PATH", "academy.db"),
		BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
		AdminEmail:        getEnv("ADMIN_EMAIL", "coach@mightyathletic.example"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		BlockSize:         blockSize,
		DueThreshold:      due,
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		EmailFrom:         getEnv("EMAIL_FROM", "Mighty Athletic <no-reply@mightyathletic.example>"),
		ServiceAccountKey: os.Getenv("GOOGLE_SERVICE_ACCOUNT_KEY"),
		SpreadsheetID:     os.Getenv("SHEETS_SPREADSHEET_ID"),
		SheetName:         getEnv("SHEETS_SHEET_NAME", "Sheet1"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
