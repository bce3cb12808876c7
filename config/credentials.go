// Package config locates and guards the files a dyndns installation keeps
// between runs.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	KeyFileName    = "api_key"
	GotifyFileName = "gotify.yaml"
	LogFileName    = "dyndns.log"
	ConfigName     = "config"
)

var ErrEmptyKey = errors.New("api key file is empty")

// DefaultDir is $HOME/.config/dyndns, falling back to the working directory.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "dyndns")
}

// ReadKey returns the first line of the key file after checking that only
// the owner can read it.
func ReadKey(path string) (string, error) {
	if err := VerifyPermissions(path); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error reading key: %w", err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", fmt.Errorf("error reading line: %w", err)
		}
		return "", ErrEmptyKey
	}
	key := strings.TrimSpace(s.Text())
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}

// WriteKey stores key with mode 0600, replacing an existing file.
func WriteKey(path, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("unable to create \"%s\": %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("unable to create \"%s\": %w", path, err)
	}
	defer f.Close()
	if err := f.Chmod(0600); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, strings.TrimSpace(key)); err != nil {
		return err
	}
	return nil
}

func VerifyPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error checking keyfile permissions: %w", err)
	}

	perms := info.Mode().Perm()
	// 0400 is accepted as well, secret managers often mount keys read-only.
	if perms != 0600 && perms != 0400 {
		return fmt.Errorf("invalid permissions for \"%s\": expected file permissions \"-rw-------\"; found \"%s\"", path, fs.FileMode(perms))
	}
	return nil
}
