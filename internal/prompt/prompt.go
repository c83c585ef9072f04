// Package prompt reads answers from an input stream until one is accepted.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoInput is returned when the input ends before an answer was accepted.
var ErrNoInput = errors.New("no valid input")

// Until writes question to out and reads lines from in until valid accepts one.
// Answers are validated as typed; only the line ending is removed.
func Until(in io.Reader, out io.Writer, question string, valid func(string) bool) (string, error) {
	scanner := bufio.NewScanner(in)

	for {
		if _, err := fmt.Fprint(out, question); err != nil {
			return "", fmt.Errorf("writing prompt: %w", err)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading answer: %w", err)
			}

			return "", ErrNoInput
		}

		answer := strings.TrimSuffix(scanner.Text(), "\r")
		if valid(answer) {
			return answer, nil
		}
	}
}

// IsDir reports whether path names an existing, accessible directory.
func IsDir(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
