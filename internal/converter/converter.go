// Package converter turns rendered documents into PDF with an external
// office suite.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrConversion is returned when the office suite fails or produces no output.
var ErrConversion = errors.New("conversion failed")

// Converter converts the file at input into a PDF written under outDir and
// returns the PDF path.
type Converter interface {
	Convert(ctx context.Context, input, outDir string) (string, error)
}

// LibreOffice runs soffice in headless mode. Each call gets its own user
// profile inside outDir so concurrent conversions do not share state.
type LibreOffice struct {
	Binary  string
	Timeout time.Duration
}

// NewLibreOffice returns a converter for binary (soffice when empty).
func NewLibreOffice(binary string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	return &LibreOffice{Binary: binary, Timeout: timeout}
}

func (c *LibreOffice) Convert(ctx context.Context, input, outDir string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	profile, err := profileURL(outDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}
	cmd := exec.CommandContext(ctx, c.Binary,
		"--headless",
		"--norestore",
		"-env:UserInstallation="+profile,
		"--convert-to", "pdf",
		"--outdir", outDir,
		input,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrConversion, ctx.Err())
		}
		return "", fmt.Errorf("%w: %v: %s", ErrConversion, err, strings.TrimSpace(stderr.String()))
	}

	base := filepath.Base(input)
	out := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("%w: no output produced: %s", ErrConversion, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// profileURL is the file URL of a LibreOffice user profile inside outDir.
// The path must be absolute: "file://tmp/x" would read tmp as a host.
func profileURL(outDir string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(outDir, ".profile"))
	if err != nil {
		return "", fmt.Errorf("resolve profile dir: %w", err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String(), nil
}
