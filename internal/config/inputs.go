package config

import (
	"fmt"
	"os"
	"strings"

	"mactrace/internal/session"
)

// LoadHostList reads a device list file: one hostname per non-blank line.
// An empty list is an error; the caller treats it as fatal before any
// device contact is attempted.
func LoadHostList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host list %s: %w", path, err)
	}

	var hosts []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hosts = append(hosts, line)
	}

	if len(hosts) == 0 {
		return nil, fmt.Errorf("host list %s is empty", path)
	}
	return hosts, nil
}

// LoadCredentials reads a credentials file: first non-blank line is the
// username, second is the password. Fewer than two lines is a fatal
// configuration error.
func LoadCredentials(path string) (session.Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Credentials{}, fmt.Errorf("read credentials %s: %w", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return session.Credentials{}, fmt.Errorf("credentials file %s: need username and password lines", path)
	}

	return session.Credentials{Username: lines[0], Password: lines[1]}, nil
}
