package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestApplicationConfig_Locale(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.Locale = "zh"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zh should pass: %v", err)
	}
	cfg.App.Locale = "fr"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unsupported locale should fail")
	}
}

func TestBoardConfig_Validation(t *testing.T) {
	cases := []BoardConfig{
		{Debounce: -time.Second, Extension: "md"},
		{Debounce: 2 * time.Minute, Extension: "md"},
		{Debounce: time.Second, Extension: ""},
		{Debounce: time.Second, Extension: "md", MaxViews: -1},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("%+v should fail", c)
		}
	}
	ok := BoardConfig{Debounce: 0, Extension: "md", MaxViews: 3}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid board config failed: %v", err)
	}
}

func TestStateConfig_Required(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.State.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty state path should fail")
	}
}
