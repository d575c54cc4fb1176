package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/document"
	"github.com/mark3labs/msgdoc/internal/generate"
	"github.com/mark3labs/msgdoc/internal/logger"
	"github.com/mark3labs/msgdoc/internal/transform"
)

// buildDocument loads the catalog and the raw document (generating it when
// no --document is given), then runs the transformation pipeline. Every call
// works on its own document and repository.
func buildDocument(ctx context.Context, cfg *GenerateConfig, legacy bool) (*openapi3.T, *transform.Result, error) {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, nil, newUsageError(fmt.Sprintf("catalog: %v", err))
	}
	gen := generate.New(cat)

	var doc *openapi3.T
	if cfg.Document != "" {
		doc, err = document.Load(ctx, cfg.Document)
		if err != nil {
			return nil, nil, documentError(err)
		}
	} else {
		doc = gen.Document()
	}

	res, err := transform.NewPipeline(cat, gen, cfg.transformOptions(legacy)...).Run(doc)
	if err != nil {
		if errors.Is(err, transform.ErrNilDocument) {
			return nil, nil, err
		}
		return nil, nil, newUsageError(fmt.Sprintf("catalog %s: %v", cfg.Catalog, err))
	}

	if cfg.Validate {
		if err := document.Validate(ctx, doc); err != nil {
			logger.Warn("transformed document does not validate: %v", err)
		}
	}
	return doc, res, nil
}

// documentError maps structured load errors into friendly messages.
func documentError(err error) error {
	var de *document.Error
	if !errors.As(err, &de) {
		return err
	}
	msg := fmt.Sprintf("document: %s", de.Message)
	if de.Location != "" {
		msg = fmt.Sprintf("%s\nLocation: %s", msg, de.Location)
	}
	if de.JSONPointer != "" {
		msg = fmt.Sprintf("%s\nPointer: %s", msg, de.JSONPointer)
	}
	return newUsageError(msg)
}

func wrapOutputError(err error, out string) error {
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") {
		return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --out or check directory permissions.", out, err))
	}
	return err
}
