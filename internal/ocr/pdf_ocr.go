package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/room-measurements/constants"
)

// minEmbeddedText: below this many characters the embedded text layer is
// treated as missing and pdftotext is tried instead.
const minEmbeddedText = 20

// extractPDF tries the embedded text layer, then pdftotext, then rasterizes
// the pages and runs tesseract on them.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{FileType: constants.FileTypePDF, Language: e.cfg.TesseractLang}

	text, pages, err := e.pdfEmbeddedText(path)
	if err == nil && len(strings.TrimSpace(text)) >= minEmbeddedText {
		res.Text, res.Pages, res.Method, res.Confidence = Normalize(text), pages, "pdf-embedded", 0.95
		return res, nil
	}
	if err != nil {
		res.Warnings = append(res.Warnings, "embedded text: "+err.Error())
	}

	text, pages, warns, err := e.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err == nil && len(strings.TrimSpace(text)) >= minEmbeddedText {
		res.Text, res.Pages, res.Method, res.Confidence = Normalize(text), pages, "pdf-text", 0.9
		return res, nil
	}
	if err != nil {
		e.logger.Warn("ocr.pdftotext.failed", "path", path, "err", err)
	}

	text, pages, warns, err = e.pdfToOCR(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, fmt.Errorf("pdf %s: %w", path, err)
	}
	text = Normalize(text)
	res.Text, res.Pages, res.Method = text, pages, "pdf-ocr"
	res.Confidence = heuristicConfidence(text)
	return res, nil
}

// pdfEmbeddedText reads the text layer row by row. The library panics on some
// malformed files, so every call into it is guarded.
func (e *Extractor) pdfEmbeddedText(path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages, err = "", 0, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	pages = r.NumPage()
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		pages = e.cfg.MaxPages
	}
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			e.logger.Debug("ocr.pdf.page_skipped", "page", i, "err", rowErr)
			continue
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				words = append(words, t.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteByte('\n')
		}
		b.WriteString("\f")
	}
	if b.Len() == 0 {
		return "", pages, errors.New("no embedded text")
	}
	return b.String(), pages, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.logger, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// form feed separates pages
	pages = 1 + strings.Count(strings.TrimRight(text, "\f"), "\f")
	return text, pages, nil, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "rm-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("ocr.tmpdir.cleanup_failed", "dir", tmpDir, "err", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.logger, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	// prefix-1.png, prefix-2.png, ...
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}
	return b.String(), len(matches), warns, nil
}
