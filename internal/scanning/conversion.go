package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// normalizeImage converts whatever the picker produced (PDF, HEIC, JPEG, GIF,
// PNG) into PNG bytes the vision models accept.
func normalizeImage(imageData []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg" // default
	}

	switch {
	case mimeType == "application/pdf":
		return pdfToPNG(imageData)
	case mimeType == "image/png" && !isHEICData(imageData):
		return imageData, nil
	default:
		return imageToPNG(imageData, mimeType)
	}
}

// pdfToPNG renders the first page of a PDF as PNG. Receipts are almost always
// single page.
func pdfToPNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageToPNG converts any supported image format to PNG.
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEICData(imageData) || isHEICMimeType(mimeType) {
		// Go's standard image package cannot decode the HEIC/HEIF photos
		// phones produce
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICData checks the ftyp box for HEIC/HEIF brands.
func isHEICData(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1"
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format.
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
