package compose

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"

	"github.com/lvillar/reportgen/template"
)

// Scaled pixel sizes for embedded barcodes. Renderers size the final image
// in mm; these only need enough resolution to stay crisp in print.
const (
	qrPixels       = 256
	linearWidthPx  = 512
	linearHeightPx = 128
)

// encodeBarcode renders content as a PNG in the requested symbology. An
// unknown format defaults to QR.
func encodeBarcode(format template.BarcodeFormat, content string) ([]byte, error) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch format {
	case template.BarcodeCode128:
		bc, err = code128.Encode(content)
		if err == nil {
			bc, err = barcode.Scale(bc, linearWidthPx, linearHeightPx)
		}
	case template.BarcodePDF417:
		bc, err = pdf417.Encode(content, 2)
		if err == nil {
			bc, err = barcode.Scale(bc, linearWidthPx, linearHeightPx)
		}
	default:
		bc, err = qr.Encode(content, qr.M, qr.Auto)
		if err == nil {
			bc, err = barcode.Scale(bc, qrPixels, qrPixels)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("barcode %s: %w", format, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, bc); err != nil {
		return nil, fmt.Errorf("barcode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
