// Package render produces printable documents: an invoice PDF with a QR
// code pointing at the invoice's external payment page.
package render

import (
	"fmt"
	"net/url"

	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rs/zerolog"

	"finadmin/internal/logger"
)

// DocumentRenderer draws generated content onto a document surface.
type DocumentRenderer interface {
	RenderQuickResponseCode(surface core.Maroto, payloadURL string) error
}

// Renderer is the maroto-backed DocumentRenderer.
type Renderer struct {
	// QRHeight is the height of the QR row in millimetres. Default: 40.
	QRHeight float64

	log zerolog.Logger
}

func NewRenderer() *Renderer {
	return &Renderer{
		QRHeight: 40,
		log:      logger.WithComponent("render"),
	}
}

// RenderQuickResponseCode appends a row holding a QR code of payloadURL and
// the URL in clear text below it. payloadURL must be an absolute http(s)
// URL.
func (r *Renderer) RenderQuickResponseCode(surface core.Maroto, payloadURL string) error {
	const op = "RenderQuickResponseCode"

	if surface == nil {
		return fmt.Errorf("%s: no surface to render on", op)
	}
	u, err := url.Parse(payloadURL)
	if err != nil {
		return fmt.Errorf("%s: invalid payload URL: %w", op, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: payload URL must be an absolute http(s) URL, got %q", op, payloadURL)
	}

	height := r.QRHeight
	if height <= 0 {
		height = 40
	}
	surface.AddRow(height,
		col.New(4),
		code.NewQrCol(4, payloadURL, props.Rect{Center: true, Percent: 100}),
		col.New(4),
	)
	surface.AddRow(5,
		col.New(12).Add(text.New(payloadURL, props.Text{Size: 7, Align: align.Center})),
	)

	r.log.Debug().Str("payload_url", payloadURL).Msg("Rendered QR code")
	return nil
}
