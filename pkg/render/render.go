// Package render turns evaluation metrics into embeddable PNG images. Every
// function here is pure: metrics in, image bytes out, so scoring stays
// unit-testable without any drawing and a rendering failure can degrade to a
// missing artifact instead of failing the evaluation.
package render

import (
	"bytes"
	"encoding/base64"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// pngBytes rasterizes the plot at the given size.
func pngBytes(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Base64 encodes image bytes for embedding in a JSON payload.
func Base64(img []byte) string {
	return base64.StdEncoding.EncodeToString(img)
}
