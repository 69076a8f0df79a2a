package provider

import (
	"bytes"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"github.com/kdduha/multimodal-gateway/internal/models"
)

const (
	pdfMimeType      = "application/pdf"
	pdfJPEGQuality   = 85
	renderedPageMime = "image/jpeg"
)

// renderPDFPages rasterizes up to maxPages pages (all when maxPages <= 0).
func renderPDFPages(data []byte, maxPages int) ([]*models.InlinePayload, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	pages := make([]*models.InlinePayload, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: pdfJPEGQuality}); err != nil {
			return nil, err
		}
		pages = append(pages, &models.InlinePayload{MimeType: renderedPageMime, Data: buf.Bytes()})
	}
	return pages, nil
}
