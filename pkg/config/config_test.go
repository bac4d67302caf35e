package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PB_TEST_NAME", "board")
	p := writeFile(t, "name: ${PB_TEST_NAME}\nport: 9000\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "board" || s.Port != 9000 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, "port: 0\n")
	var s sample
	if err := Load(p, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadOptional_MissingKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 8080}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &s)
	if err != nil || found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if s.Name != "default" || s.Port != 8080 {
		t.Errorf("defaults changed: %+v", s)
	}
}

func TestLoadOptional_OverridesDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 8080}
	found, err := LoadOptional(writeFile(t, "port: 9999\n"), &s)
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if s.Name != "default" || s.Port != 9999 {
		t.Errorf("got %+v", s)
	}
}
