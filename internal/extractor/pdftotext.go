package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// PdftotextAvailable reports whether poppler's pdftotext is on PATH.
func PdftotextAvailable() bool {
	_, err := exec.LookPath("pdftotext")
	return err == nil
}

// extractWithPdftotext runs the external pdftotext command from
// poppler-utils over data, one page at a time.
func extractWithPdftotext(data []byte) ([]string, error) {
	if !PdftotextAvailable() {
		return nil, fmt.Errorf("pdftotext not available")
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	path := tmp.Name()

	numPages := 1
	if out, err := exec.Command("pdfinfo", path).Output(); err == nil {
		numPages = parsePageCount(string(out))
	}

	// Extract each page separately to preserve page boundaries
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", page, "-l", page, path, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) > 0 {
		return pages, nil
	}

	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	text := strings.TrimSpace(string(out))
	if text == "" {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	// pdftotext separates pages with form feeds
	return strings.Split(text, "\f"), nil
}

// parsePageCount reads the "Pages:" line of pdfinfo output, defaulting to 1.
func parsePageCount(info string) int {
	for _, line := range strings.Split(info, "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err == nil && n > 0 {
			return n
		}
	}
	return 1
}
