// Package credential loads the platform session cookies the sweep runs
// under. Cookies are produced by the login flow (out of scope here); this
// package only locates, parses, and validates them.
package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"bilisweep/internal/log"
)

// Credential holds the session cookies for the authenticated account.
// Values are never logged or serialized; do not add String() or
// MarshalJSON() methods that could leak them.
type Credential struct {
	SessData string
	BiliJCT  string
	UserID   int64
}

// cookieFile mirrors the cookies.json layout written by the login tooling.
type cookieFile struct {
	SessData   string `json:"SESSDATA"`
	BiliJCT    string `json:"bili_jct"`
	DedeUserID string `json:"DedeUserID"`
}

// CookieHeader renders the Cookie request header value.
func (c Credential) CookieHeader() string {
	return fmt.Sprintf("SESSDATA=%s; bili_jct=%s; DedeUserID=%d", c.SessData, c.BiliJCT, c.UserID)
}

// Validate checks that all required cookie values are present.
func (c Credential) Validate() error {
	if c.SessData == "" {
		return fmt.Errorf("missing SESSDATA cookie")
	}
	if c.BiliJCT == "" {
		return fmt.Errorf("missing bili_jct cookie")
	}
	if c.UserID == 0 {
		return fmt.Errorf("missing DedeUserID cookie")
	}
	return nil
}

// DefaultCookiesPath returns the cookies.json location under the user
// config directory.
func DefaultCookiesPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".bilisweep", "cookies.json")
	}
	return filepath.Join(configDir, "bilisweep", "cookies.json")
}

// Load resolves credentials from, in order: process environment
// (BILI_SESSDATA / BILI_JCT / BILI_USER_ID, with a best-effort .env load
// first), then the cookies.json file at path (DefaultCookiesPath when
// empty).
func Load(path string) (Credential, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	if sessdata := os.Getenv("BILI_SESSDATA"); sessdata != "" {
		uid, err := strconv.ParseInt(os.Getenv("BILI_USER_ID"), 10, 64)
		if err != nil {
			return Credential{}, fmt.Errorf("invalid BILI_USER_ID: %w", err)
		}
		cred := Credential{
			SessData: sessdata,
			BiliJCT:  os.Getenv("BILI_JCT"),
			UserID:   uid,
		}
		if err := cred.Validate(); err != nil {
			return Credential{}, fmt.Errorf("incomplete credentials in environment: %w", err)
		}
		log.Debug("loaded credentials from environment")
		return cred, nil
	}

	if path == "" {
		path = DefaultCookiesPath()
	}
	return loadFile(path)
}

func loadFile(path string) (Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credential{}, fmt.Errorf("no credentials found: set BILI_SESSDATA or provide %s: %w", path, err)
	}

	var cf cookieFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return Credential{}, fmt.Errorf("corrupt cookies file %s: %w", path, err)
	}

	uid, err := strconv.ParseInt(cf.DedeUserID, 10, 64)
	if err != nil {
		return Credential{}, fmt.Errorf("corrupt cookies file %s: invalid DedeUserID: %w", path, err)
	}

	cred := Credential{
		SessData: cf.SessData,
		BiliJCT:  cf.BiliJCT,
		UserID:   uid,
	}
	if err := cred.Validate(); err != nil {
		return Credential{}, fmt.Errorf("incomplete cookies file %s: %w", path, err)
	}
	log.Debug("loaded credentials from cookies file", "path", path)
	return cred, nil
}
