package model

import "testing"

func TestLanguageValid(t *testing.T) {
	tests := []struct {
		lang Language
		want bool
	}{
		{LanguageGerman, true},
		{LanguageEnglish, true},
		{Language(""), false},
		{Language("fr"), false},
		{Language("DE"), false},
	}

	for _, tt := range tests {
		if got := tt.lang.Valid(); got != tt.want {
			t.Errorf("Language(%q).Valid() = %v, want %v", tt.lang, got, tt.want)
		}
	}
}

func TestStatusValues(t *testing.T) {
	// Status values double as log/display strings; keep them stable.
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusInitializing, "initializing"},
		{StatusListening, "listening"},
		{StatusStopping, "stopping"},
		{StatusDisconnected, "disconnected"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("status = %q, want %q", tt.status, tt.want)
		}
	}
}
