package config

import (
	"os"
	"path/filepath"
	"testing"
)

func baseConfig() *Config {
	return &Config{
		Input:    []string{"bundle.zip"},
		Output:   "out.log",
		Parallel: 1,
	}
}

func TestValidateAcceptsBareConfig(t *testing.T) {
	c := baseConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBothKeyAndKeyFile(t *testing.T) {
	c := baseConfig()
	c.Key = "00"
	c.KeyFile = "somefile"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error when both Key and KeyFile are set")
	}
}

func TestValidateRejectsMissingInput(t *testing.T) {
	c := baseConfig()
	c.Input = nil
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for empty Input")
	}
}

func TestValidateRejectsInvalidHexKey(t *testing.T) {
	c := baseConfig()
	c.Key = "not-hex"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for invalid hex key")
	}
}

func TestValidateReadsKeyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.hex")
	hexKey := "1c74b66f000000000000000000000000000000000000000000000000cbfd38"
	if err := os.WriteFile(path, []byte(hexKey+"\n"), 0o644); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	c := baseConfig()
	c.KeyFile = path
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Key != hexKey {
		t.Fatalf("Key = %q, want %q", c.Key, hexKey)
	}
}
