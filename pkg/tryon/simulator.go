package tryon

import (
	"context"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/quickfit/quickfit-server/pkg/imageproc"
)

// Simulator composes a preview locally: the first garment is overlaid
// semi-transparently on the person image. Good enough to exercise the whole
// flow without the remote service.
type Simulator struct {
	Delay time.Duration // stands in for model inference latency
}

func NewSimulator(delay time.Duration) *Simulator {
	return &Simulator{Delay: delay}
}

func (s *Simulator) Generate(ctx context.Context, req Request) ([]byte, error) {
	person, err := imageproc.Decode(req.PersonImage)
	if err != nil {
		return nil, err
	}
	var garment image.Image
	if len(req.ClothingImages) > 0 {
		garment, err = imageproc.Decode(req.ClothingImages[0])
		if err != nil {
			return nil, err
		}
	}

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	out := imaging.Clone(person)
	if garment != nil {
		pb := person.Bounds()
		gw := pb.Dx() * 6 / 10
		scaled := imaging.Resize(garment, gw, 0, imaging.Lanczos)
		pos := image.Pt((pb.Dx()-scaled.Bounds().Dx())/2, pb.Dy()/4)
		out = imaging.Overlay(out, scaled, pos, 0.7)
	}
	return imageproc.EncodeJPEG(out, 80)
}

var _ Generator = (*Simulator)(nil)
