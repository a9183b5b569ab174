// Package export writes the rendered page to disk.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// Renderer writes a full HTML document
type Renderer interface {
	Render(w io.Writer) error
}

// HTML renders r into the file at path. The file is only replaced once
// rendering succeeded.
func HTML(r Renderer, path string) error {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create output directory '%s' with %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write page to '%s' with %w", path, err)
	}
	return nil
}

// PDF prints the HTML file at htmlPath to pdfPath with headless Chromium
func PDF(ctx context.Context, htmlPath, pdfPath string) error {
	// Install playwright if needed
	err := playwright.Install()
	if err != nil {
		return fmt.Errorf("could not install playwright: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	browser, err := pw.Chromium.Launch()
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	defer page.Close()

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("could not get absolute path: %w", err)
	}

	fileURL := fmt.Sprintf("file://%s", absPath)
	if _, err = page.Goto(fileURL); err != nil {
		return fmt.Errorf("could not navigate to HTML file: %w", err)
	}

	_, err = page.PDF(playwright.PagePdfOptions{
		Path:            playwright.String(pdfPath),
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("15mm"),
			Right:  playwright.String("15mm"),
			Bottom: playwright.String("15mm"),
			Left:   playwright.String("15mm"),
		},
	})
	if err != nil {
		return fmt.Errorf("could not generate PDF: %w", err)
	}

	return nil
}
