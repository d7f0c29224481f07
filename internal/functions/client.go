// Package functions invokes the hosted backend's serverless functions.
package functions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lifeband-data/internal/supabase"
)

const generatePDF = "generate-pdf"

// ErrUnavailable no serverless backend in local mode.
var ErrUnavailable = errors.New("serverless functions unavailable without a configured backend")

// PDFResult generate-pdf response. URL is empty when the function renders
// asynchronously and only acknowledges the request.
type PDFResult struct {
	URL string          `json:"url"`
	Raw json.RawMessage `json:"-"`
}

// PDFGenerator renders the public PDF of a portador.
type PDFGenerator interface {
	GeneratePDF(ctx context.Context, portadorID string) (*PDFResult, error)
}

type Client struct {
	sb     *supabase.Client
	logger *zap.Logger
}

func NewClient(sb *supabase.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{sb: sb, logger: logger}
}

func (c *Client) GeneratePDF(ctx context.Context, portadorID string) (*PDFResult, error) {
	c.logger.Info("invoking pdf generation", zap.String("portador_id", portadorID))

	var raw json.RawMessage
	if err := c.sb.Invoke(ctx, generatePDF, map[string]string{"portadorId": portadorID}, &raw); err != nil {
		return nil, fmt.Errorf("invoke %s: %w", generatePDF, err)
	}

	result := &PDFResult{Raw: raw}
	var body struct {
		URL          string `json:"url"`
		PublicPDFURL string `json:"public_pdf_url"`
	}
	// non-object payloads are kept raw only
	if err := json.Unmarshal(raw, &body); err == nil {
		result.URL = body.URL
		if result.URL == "" {
			result.URL = body.PublicPDFURL
		}
	}
	return result, nil
}

// Unavailable PDFGenerator used in local mode.
type Unavailable struct{}

func (Unavailable) GeneratePDF(context.Context, string) (*PDFResult, error) {
	return nil, ErrUnavailable
}
