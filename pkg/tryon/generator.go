// Package tryon talks to the try-on generation service. The Generator
// interface lets the orchestration run against either the real HTTP client
// or the local compositing simulator; both are selected at construction
// time, never by build tags.
package tryon

import "context"

// Request carries the prepared (resized, recompressed) images for one
// generation round. BodyDescription is an optional prompt fragment built
// from the user profile.
type Request struct {
	PersonImage     []byte
	ClothingImages  [][]byte
	BodyDescription string
}

// Generator produces a composite result image from a person image and up to
// three garment images.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}
