package cognito_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/sjyoon/taskhub-api/internal/cognito"
)

func expectedHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestComputeSecretHash(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		clientID     string
		clientSecret string
	}{
		{"typical", "dana@example.com", "3kt9client", "hunter2secret"},
		{"empty username", "", "3kt9client", "hunter2secret"},
		{"empty secret", "dana@example.com", "3kt9client", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cognito.ComputeSecretHash(tt.username, tt.clientID, tt.clientSecret)
			want := expectedHash(tt.username, tt.clientID, tt.clientSecret)
			if got != want {
				t.Errorf("ComputeSecretHash() = %q, want %q", got, want)
			}
		})
	}
}

func TestComputeSecretHash_InputsMatter(t *testing.T) {
	base := cognito.ComputeSecretHash("user", "client", "secret")
	if cognito.ComputeSecretHash("user", "client", "secret") != base {
		t.Error("hash is not deterministic")
	}
	for name, got := range map[string]string{
		"username": cognito.ComputeSecretHash("user2", "client", "secret"),
		"clientID": cognito.ComputeSecretHash("user", "client2", "secret"),
		"secret":   cognito.ComputeSecretHash("user", "client", "secret2"),
	} {
		if got == base {
			t.Errorf("changing %s did not change the hash", name)
		}
	}
}
