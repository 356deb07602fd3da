// Package imageproc adapts arbitrary captured images into bounded payloads
// for local storage and network transport: aspect-preserving resize,
// iterative JPEG recompression to a byte budget, and the base64 codec used
// at the network boundary.
package imageproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/quickfit/quickfit-server/internal/domain"
)

const (
	maxQuality     = 100
	minQuality     = 10
	qualityStep    = 10
	DefaultMaxDim  = 1024
	DefaultMaxSize = 800 * 1024 // upload byte budget consumed by the try-on client
)

// Decode parses image bytes (JPEG or PNG) and rejects zero-area images.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero dimensions", domain.ErrInvalidImage)
	}
	return img, nil
}

// Resize scales img to fit within targetW x targetH preserving aspect ratio,
// using the smaller of the two scale factors. Pure and deterministic.
func Resize(img image.Image, targetW, targetH int) (image.Image, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero dimensions", domain.ErrInvalidImage)
	}
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("%w: non-positive target size", domain.ErrInvalidImage)
	}
	return imaging.Fit(img, targetW, targetH, imaging.Lanczos), nil
}

// Compress re-encodes img as JPEG, starting at maximum quality and stepping
// down by a fixed decrement until the encoding fits maxBytes or the quality
// floor is reached. The floor encoding is returned even when it still
// exceeds the budget; the loop is bounded so a pathological input cannot
// spin forever.
func Compress(img image.Image, maxBytes int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero dimensions", domain.ErrInvalidImage)
	}
	var best []byte
	for q := maxQuality; q >= minQuality; q -= qualityStep {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return nil, fmt.Errorf("%w: jpeg encode: %v", domain.ErrInvalidImage, err)
		}
		best = buf.Bytes()
		if len(best) <= maxBytes {
			return best, nil
		}
	}
	// Budget unreachable; lossy best effort at the floor.
	return best, nil
}

// PrepareForUpload composes resize and compress: images exceeding maxDim on
// either axis are scaled down so the longer side equals maxDim, then
// recompressed to at most maxBytes.
func PrepareForUpload(data []byte, maxDim, maxBytes int) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img, err = Resize(img, maxDim, maxDim)
		if err != nil {
			return nil, err
		}
	}
	return Compress(img, maxBytes)
}

// EncodeJPEG encodes at a fixed quality, used for locally stored snapshots.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: jpeg encode: %v", domain.ErrInvalidImage, err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 encodes bytes for transport. Local storage keeps raw binary.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a transport payload.
func DecodeBase64(s string) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", domain.ErrDecodingFailure, err)
	}
	return out, nil
}
