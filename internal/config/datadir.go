package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the platform data directory holding settings.json,
// prompts.json, and chats.json.
//
//	macOS:   ~/Library/Application Support/Localchat/
//	Windows: %AppData%\Localchat\
//	Linux:   ~/.config/localchat/
//
// Set LOCALCHAT_DATA_DIR to override.
func DataDir() (string, error) {
	if dir := os.Getenv("LOCALCHAT_DATA_DIR"); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}

	// Linux: lowercase per XDG convention.
	if runtime.GOOS == "linux" {
		return filepath.Join(configDir, "localchat"), nil
	}
	return filepath.Join(configDir, "Localchat"), nil
}

// EnsureDataDir creates the data directory if missing and returns it.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	return dir, nil
}
