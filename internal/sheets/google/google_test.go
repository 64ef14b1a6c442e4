package google

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCredentialsJSON(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(keyFile, []byte(`{"type":"service_account"}`), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		creds   Credentials
		env     string
		want    string
		wantErr error
	}{
		{name: "inline json", creds: Credentials{JSON: `{"a":1}`, File: keyFile}, want: `{"a":1}`},
		{name: "file", creds: Credentials{File: keyFile}, want: `{"type":"service_account"}`},
		{name: "application credentials fallback", env: keyFile, want: `{"type":"service_account"}`},
		{name: "nothing configured", wantErr: ErrMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", tt.env)
			got, err := credentialsJSON(tt.creds)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("credentialsJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("credentialsJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCredentialsJSONMissingFile(t *testing.T) {
	_, err := credentialsJSON(Credentials{File: filepath.Join(t.TempDir(), "missing.json")})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("error = %v", err)
	}
}

func TestNewWithInvalidCredentials(t *testing.T) {
	_, err := New(context.Background(), Credentials{JSON: "not-json"})
	if err == nil {
		t.Fatal("New() with invalid JSON should fail")
	}
}

func TestReadValuesWithoutService(t *testing.T) {
	c := &Client{}
	if _, err := c.ReadValues(context.Background(), "id", "A:Z"); err == nil {
		t.Error("ReadValues() without service should fail")
	}
}
