package imageproc

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/quickfit/quickfit-server/internal/domain"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	b, err := EncodeJPEG(img, 95)
	require.NoError(t, err)
	return b
}

// noisyImage defeats JPEG compression so byte budgets actually bite.
func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := imaging.New(w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	b, err := EncodeJPEG(img, 100)
	require.NoError(t, err)
	return b
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestResizePreservesAspectRatio(t *testing.T) {
	img := imaging.New(4000, 2000, color.NRGBA{A: 255})
	out, err := Resize(img, 1024, 1024)
	require.NoError(t, err)
	require.Equal(t, 1024, out.Bounds().Dx())
	require.Equal(t, 512, out.Bounds().Dy())
}

func TestResizeRejectsNonPositiveTarget(t *testing.T) {
	img := imaging.New(10, 10, color.NRGBA{A: 255})
	_, err := Resize(img, 0, 100)
	require.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestPrepareForUploadShrinksLargeImage(t *testing.T) {
	data := jpegBytes(t, 4000, 3000)

	out, err := PrepareForUpload(data, DefaultMaxDim, DefaultMaxSize)
	require.NoError(t, err)
	require.LessOrEqual(t, len(out), DefaultMaxSize)

	img, err := Decode(out)
	require.NoError(t, err)
	require.LessOrEqual(t, img.Bounds().Dx(), DefaultMaxDim)
	require.LessOrEqual(t, img.Bounds().Dy(), DefaultMaxDim)
	require.Equal(t, 1024, img.Bounds().Dx())
	require.Equal(t, 768, img.Bounds().Dy())
}

func TestPrepareForUploadKeepsSmallImage(t *testing.T) {
	data := jpegBytes(t, 500, 400)

	out, err := PrepareForUpload(data, DefaultMaxDim, DefaultMaxSize)
	require.NoError(t, err)

	img, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, 500, img.Bounds().Dx())
	require.Equal(t, 400, img.Bounds().Dy())
}

func TestCompressWalksDownToBudget(t *testing.T) {
	img, err := Decode(noisyJPEG(t, 600, 600))
	require.NoError(t, err)

	full, err := Compress(img, 1<<30)
	require.NoError(t, err)

	budget := len(full) / 2
	out, err := Compress(img, budget)
	require.NoError(t, err)
	require.LessOrEqual(t, len(out), budget)
}

func TestCompressReturnsFloorWhenBudgetUnreachable(t *testing.T) {
	img, err := Decode(noisyJPEG(t, 400, 400))
	require.NoError(t, err)

	// 10 bytes can never hold a JPEG; the floor encoding comes back anyway
	out, err := Compress(img, 10)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestBase64RoundTrip(t *testing.T) {
	in := []byte{0x00, 0x01, 0xfe, 0xff}
	out, err := DecodeBase64(EncodeBase64(in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodeBase64RejectsInvalidPayload(t *testing.T) {
	_, err := DecodeBase64("@@@not base64@@@")
	require.ErrorIs(t, err, domain.ErrDecodingFailure)
}
