package credential

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BILI_SESSDATA", "sess-token")
	t.Setenv("BILI_JCT", "csrf-token")
	t.Setenv("BILI_USER_ID", "12345")

	cred, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cred.SessData != "sess-token" || cred.BiliJCT != "csrf-token" || cred.UserID != 12345 {
		t.Errorf("unexpected credential: %+v", cred)
	}
}

func TestLoadFromEnvIncomplete(t *testing.T) {
	t.Setenv("BILI_SESSDATA", "sess-token")
	t.Setenv("BILI_JCT", "")
	t.Setenv("BILI_USER_ID", "12345")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing bili_jct")
	}
}

func TestLoadFromCookiesFile(t *testing.T) {
	t.Setenv("BILI_SESSDATA", "")
	path := filepath.Join(t.TempDir(), "cookies.json")
	content := `{"SESSDATA": "file-sess", "bili_jct": "file-csrf", "DedeUserID": "67890"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cred, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cred.SessData != "file-sess" || cred.BiliJCT != "file-csrf" || cred.UserID != 67890 {
		t.Errorf("unexpected credential: %+v", cred)
	}
}

func TestLoadFromCookiesFileCorrupt(t *testing.T) {
	t.Setenv("BILI_SESSDATA", "")
	path := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt cookies file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("BILI_SESSDATA", "")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error when no credentials exist")
	}
}

func TestCookieHeader(t *testing.T) {
	cred := Credential{SessData: "a", BiliJCT: "b", UserID: 7}
	want := "SESSDATA=a; bili_jct=b; DedeUserID=7"
	if got := cred.CookieHeader(); got != want {
		t.Errorf("CookieHeader() = %q, want %q", got, want)
	}
}
