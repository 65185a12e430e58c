package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the fully resolved configuration for the read command, bound
// through viper from flags, environment variables (GLOGREAD_ prefix), and
// defaults.
type Config struct {
	// Input is one or more zip archives of Glog files.
	Input []string `validate:"min=1"`

	// Output is the path the formatted log lines are written to.
	Output string `validate:"required"`

	// Types is an optional set of i32 log-record types to keep; empty
	// means keep everything.
	Types []int32

	// Key is the server's 64-hex secp256k1 private key, used to decrypt V4
	// AES entries. Mutually exclusive with KeyFile.
	Key string `validate:"exclusive=KeyFile" label:"key"`

	// KeyFile names a file holding the same hex key, for callers that
	// don't want the key on the command line. Mutually exclusive with Key.
	KeyFile string `validate:"exclusive=Key" label:"key-file"`

	// Parallel bounds how many input files are decoded concurrently.
	Parallel int `validate:"min=1"`

	// JSONLogs switches the ambient logger to structured JSON output.
	JSONLogs bool
}

// Validate checks struct tags and the key-source cross-field rule, then
// resolves KeyFile into Key so callers only ever need to read Key.
func (c *Config) Validate() error {
	v := validator.New()
	if err := registerExclusive(v); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	if c.KeyFile != "" {
		raw, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return fmt.Errorf("reading key file %q: %w", c.KeyFile, err)
		}
		c.Key = strings.TrimSpace(string(raw))
	}

	if c.Key != "" {
		if _, err := hex.DecodeString(c.Key); err != nil {
			return fmt.Errorf("invalid key format: %w", err)
		}
	}

	return nil
}
