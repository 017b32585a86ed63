// Copyright 2025 Fossouo Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package pdf extracts text from PDF documents using the poppler pdftotext
// tool. Pages are extracted one at a time so a corrupt page is skipped
// instead of losing the whole document.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fossouo/creche-pilou-chatbot/extract"
)

// ErrPDFToolNotFound is returned when the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner abstracts command execution so tests can inject fake output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor implements extract.TextExtractor for PDF files.
type Extractor struct {
	runner CommandRunner
	logger *slog.Logger
}

var _ extract.TextExtractor = (*Extractor)(nil)

// New creates a PDF extractor backed by the pdftotext binary.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF extractor with a custom command runner.
// Intended for tests.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{
		runner: runner,
		logger: slog.Default().With("component", "pdf-extractor"),
	}
}

// CheckAvailable reports whether the pdftotext tool is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns a hint for installing the PDF tooling.
func InstallInstructions() string {
	return "pdftotext is required for PDF extraction.\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils"
}

// Extract returns the plain text of the PDF at path.
//
// The page count is read with pdfinfo and each page is extracted with its own
// pdftotext invocation; a page that fails to extract is logged and skipped.
// When the page count cannot be determined the whole document is extracted in
// one call. Returns extract.ErrNoText when no page yields usable text.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	pages, err := e.pageCount(ctx, path)
	if err != nil {
		e.logger.Warn("could not determine page count, extracting whole document", "path", path, "err", err)
		return e.extractRange(ctx, path, 0, 0)
	}

	var sb strings.Builder
	extracted := 0
	for page := 1; page <= pages; page++ {
		text, err := e.extractRange(ctx, path, page, page)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			e.logger.Warn("page extraction failed, skipping page", "path", path, "page", page, "err", err)
			continue
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
		extracted++
	}

	if extracted == 0 || strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: %s", extract.ErrNoText, path)
	}

	e.logger.Info("extracted text from PDF", "path", path, "pages", extracted, "chars", sb.Len())
	return sb.String(), nil
}

// extractRange runs pdftotext for the given page range. Page 0 means the
// whole document. Output goes to stdout via the "-" file argument.
func (e *Extractor) extractRange(ctx context.Context, path string, first, last int) (string, error) {
	args := []string{"-layout", "-enc", "UTF-8"}
	if first > 0 {
		args = append(args, "-f", strconv.Itoa(first), "-l", strconv.Itoa(last))
	}
	args = append(args, path, "-")

	out, err := e.runner.Run(ctx, "pdftotext", args...)
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: pages %d-%d of %s", extract.ErrNoText, first, last, path)
	}
	return text, nil
}

// pageCount reads the number of pages from pdfinfo output.
func (e *Extractor) pageCount(ctx context.Context, path string) (int, error) {
	out, err := e.runner.Run(ctx, "pdfinfo", path)
	if err != nil {
		return 0, fmt.Errorf("pdfinfo failed: %w", err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("malformed pdfinfo page count: %w", err)
		}
		return count, nil
	}

	return 0, errors.New("pdfinfo output has no Pages field")
}
