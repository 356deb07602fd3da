package tryon

import (
	"context"
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/pkg/imageproc"
)

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 120, G: 120, B: 120, A: 255})
	b, err := imageproc.EncodeJPEG(img, 90)
	require.NoError(t, err)
	return b
}

func TestClientGenerateSuccess(t *testing.T) {
	person := testImage(t, 100, 200)
	garment := testImage(t, 80, 80)
	result := testImage(t, 100, 200)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tryon/generate", r.URL.Path)

		var req struct {
			PersonImage     string   `json:"person_image"`
			ClothingImages  []string `json:"clothing_images"`
			BodyDescription string   `json:"body_description"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.PersonImage)
		require.Len(t, req.ClothingImages, 1)
		require.Equal(t, "female, height 170cm", req.BodyDescription)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"result_image": imageproc.EncodeBase64(result),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	out, err := c.Generate(context.Background(), Request{
		PersonImage:     person,
		ClothingImages:  [][]byte{garment},
		BodyDescription: "female, height 170cm",
	})
	require.NoError(t, err)
	require.Equal(t, result, out)
}

func TestClientGenerateRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "no person detected",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Generate(context.Background(), Request{
		PersonImage:    testImage(t, 10, 10),
		ClothingImages: [][]byte{testImage(t, 10, 10)},
	})
	require.ErrorIs(t, err, domain.ErrNetworkFailure)
	require.Contains(t, err.Error(), "no person detected")
}

func TestClientGenerateNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Generate(context.Background(), Request{
		PersonImage:    testImage(t, 10, 10),
		ClothingImages: [][]byte{testImage(t, 10, 10)},
	})
	require.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClientGenerateMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Generate(context.Background(), Request{
		PersonImage:    testImage(t, 10, 10),
		ClothingImages: [][]byte{testImage(t, 10, 10)},
	})
	require.ErrorIs(t, err, domain.ErrDecodingFailure)
}

func TestClientGenerateRequiresImages(t *testing.T) {
	c := NewClient("http://localhost:0", time.Second)
	_, err := c.Generate(context.Background(), Request{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSimulatorComposesResult(t *testing.T) {
	sim := NewSimulator(0)
	out, err := sim.Generate(context.Background(), Request{
		PersonImage:    testImage(t, 200, 400),
		ClothingImages: [][]byte{testImage(t, 100, 100)},
	})
	require.NoError(t, err)

	img, err := imageproc.Decode(out)
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
	require.Equal(t, 400, img.Bounds().Dy())
}

func TestSimulatorHonorsContextCancellation(t *testing.T) {
	sim := NewSimulator(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Generate(ctx, Request{
		PersonImage:    testImage(t, 50, 50),
		ClothingImages: [][]byte{testImage(t, 20, 20)},
	})
	require.ErrorIs(t, err, context.Canceled)
}
