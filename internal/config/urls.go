package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// ErrInvalidURL is returned for entries that are not absolute http(s) URLs
var ErrInvalidURL = errors.New("invalid url")

// ValidateURL checks that raw is an absolute http or https URL
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// ReadURLList reads video or playlist URLs from path, one per line.
// Blank lines and lines starting with # are skipped, and anything after the
// first whitespace on a line is treated as a note.
func ReadURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseURLList(file)
}

func ParseURLList(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		raw := strings.Fields(line)[0]
		if err := ValidateURL(raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		urls = append(urls, raw)
	}

	return urls, scanner.Err()
}
