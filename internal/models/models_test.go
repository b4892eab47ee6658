package models

import (
	"context"
	"errors"
	"testing"

	"github.com/nikhil181511/smartplan/internal/config"
)

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{
		Default: "main",
		Providers: map[string]config.ProviderConfig{
			"main": {Driver: "ollama", Model: "llama3.2"},
		},
	})

	if _, err := r.Get(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRegistryNoDefault(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{})
	if _, err := r.Default(context.Background()); err == nil {
		t.Error("expected error when no default configured")
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{
		Default: "a",
		Providers: map[string]config.ProviderConfig{
			"a": {Driver: "openai"},
			"b": {Driver: "claude"},
		},
	})

	if r.DefaultName() != "a" {
		t.Errorf("DefaultName() = %q", r.DefaultName())
	}
	if got := len(r.Names()); got != 2 {
		t.Errorf("Names() returned %d entries, want 2", got)
	}
}

func TestCreateModelUnknownDriver(t *testing.T) {
	_, err := CreateModel(context.Background(), config.ProviderConfig{Driver: "bard"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNormalizeError(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"status 401 unauthorized", "authentication failed"},
		{"429 too many requests", "rate limited"},
		{"request exceeds token limit", "context too long"},
		{"dial tcp: connection refused", "connection error"},
	}
	for _, tc := range cases {
		got := NormalizeError(errors.New(tc.in))
		if got == nil || !errorContains(got, tc.want) {
			t.Errorf("NormalizeError(%q) = %v, want prefix %q", tc.in, got, tc.want)
		}
	}

	if NormalizeError(nil) != nil {
		t.Error("NormalizeError(nil) should be nil")
	}
}

func errorContains(err error, sub string) bool {
	return err != nil && len(err.Error()) >= len(sub) && containsAny(err.Error(), sub)
}
