package printing

import (
	"go.uber.org/zap"

	"github.com/agoramall/backend/internal/infrastructure/config"
)

// NewRenderer selects a PDF rendering backend from config. Chromedp is the
// default; wkhtmltopdf is the fallback for hosts without a Chrome binary.
func NewRenderer(cfg *config.PrintingConfig, logger *zap.Logger) (PDFRenderer, error) {
	if cfg != nil && cfg.Renderer == "wkhtmltopdf" {
		return NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath: cfg.BinaryPath,
			Logger:     logger,
		})
	}
	return NewChromedpRenderer(&ChromedpConfig{
		NoSandbox: true,
		Logger:    logger,
	})
}
