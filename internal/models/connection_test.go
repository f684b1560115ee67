package models

import (
	"testing"
	"time"
)

func TestConnectionIsValid(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		conn     *PlatformConnection
		expected bool
	}{
		{"token with future expiry", &PlatformConnection{AccessToken: "tok", TokenExpiresAt: &future}, true},
		{"token with no expiry recorded", &PlatformConnection{AccessToken: "tok"}, true},
		{"token with past expiry", &PlatformConnection{AccessToken: "tok", TokenExpiresAt: &past}, false},
		{"no token", &PlatformConnection{}, false},
		{"no token but future expiry", &PlatformConnection{TokenExpiresAt: &future}, false},
		{"nil connection", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conn.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConnectionIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	if !(&PlatformConnection{AccessToken: "tok", TokenExpiresAt: &past}).IsExpired() {
		t.Error("past expiry should report expired")
	}
	if (&PlatformConnection{AccessToken: "tok"}).IsExpired() {
		t.Error("no expiry recorded should not report expired")
	}
}

func TestConnectionMetadataLookups(t *testing.T) {
	m := ConnectionMetadata{
		AdAccounts: []AdAccount{{ID: "act_1", Name: "Main"}},
		Pages:      []Page{{ID: "123", Name: "Shop"}},
	}

	if !m.HasAdAccount("act_1") || m.HasAdAccount("act_2") {
		t.Error("HasAdAccount lookup wrong")
	}
	if !m.HasPage("123") || m.HasPage("456") {
		t.Error("HasPage lookup wrong")
	}
}
