package bank

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBankPath resolves the bank file path in priority order:
// 1. MATHBANK_BANK environment variable
// 2. $XDG_DATA_HOME/mathbank/problem_bank.json
// 3. ~/.local/share/mathbank/problem_bank.json
func DefaultBankPath() (string, error) {
	if p := os.Getenv("MATHBANK_BANK"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mathbank", "problem_bank.json")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
