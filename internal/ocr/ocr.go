// Package ocr pulls plain text out of measurement files: embedded PDF text,
// pdftotext, rasterized-PDF OCR and tesseract for photographed sketches.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir         string
	HeicConverter       string // heif-convert | magick | sips
	EnableTSVConfidence bool

	PSM int // 6 suits a uniform block of text; 11 suits sparse sketch labels
	OEM int // 1 = LSTM; leave 0 to use default
}

// ConfigFromApp maps the env-driven OCR section onto Config.
func ConfigFromApp(c common.OCRConfig) Config {
	return Config{
		Pdftotext:     c.Pdftotext,
		Tesseract:     c.Tesseract,
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		HeicConverter: c.HeicConverter,
	}
}

type ExtractionResult struct {
	Text       string
	Pages      int
	FileType   string // constants.FileType*
	Method     string // "plain" | "pdf-embedded" | "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner, for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	cp := *e
	cp.runner = r
	return &cp
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)

	switch fileType := constants.MapExtToFileType(ext); fileType {
	case constants.FileTypePDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.FileTypeImage:
		var warns []string
		if constants.IsHEICExt(ext) {
			out, w, cleanup, err := convertHEICtoPNG(ctx, e.runner, e.logger, e.cfg.HeicConverter, path)
			if cleanup != nil {
				defer cleanup()
			}
			warns = append(warns, w...)
			if err != nil {
				e.logger.Error("ocr.heic.failed", "path", path, "err", err)
				return ExtractionResult{FileType: fileType, Warnings: warns}, err
			}
			path = out
		}
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		res.Warnings = append(res.Warnings, warns...)
		return res, err
	case constants.FileTypeCSV, constants.FileTypeJSON:
		b, err := os.ReadFile(path)
		if err != nil {
			return ExtractionResult{FileType: fileType}, fmt.Errorf("read %s: %w", path, err)
		}
		return ExtractionResult{
			Text:       string(b),
			Pages:      1,
			FileType:   fileType,
			Method:     "plain",
			Duration:   time.Since(start),
			Confidence: 1,
		}, nil
	default:
		e.logger.Error("ocr.extract.unsupported", "ext", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}
