package tryon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/pkg/imageproc"
)

// Client calls the remote generation endpoint. Model inference is slow, so
// the timeout is minutes where the rest of the app uses seconds.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	PersonImage     string   `json:"person_image"`
	ClothingImages  []string `json:"clothing_images"`
	BodyDescription string   `json:"body_description,omitempty"`
}

type generateResponse struct {
	Success     bool   `json:"success"`
	ResultImage string `json:"result_image,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (c *Client) Generate(ctx context.Context, req Request) ([]byte, error) {
	if len(req.PersonImage) == 0 || len(req.ClothingImages) == 0 {
		return nil, fmt.Errorf("%w: person and clothing images are required", domain.ErrInvalidInput)
	}
	payload := generateRequest{
		PersonImage:     imageproc.EncodeBase64(req.PersonImage),
		BodyDescription: req.BodyDescription,
	}
	for _, img := range req.ClothingImages {
		payload.ClothingImages = append(payload.ClothingImages, imageproc.EncodeBase64(img))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/tryon/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrNetworkFailure, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodingFailure, err)
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "generation failed"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrNetworkFailure, msg)
	}
	result, err := imageproc.DecodeBase64(out.ResultImage)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: empty result image", domain.ErrDecodingFailure)
	}
	return result, nil
}

var _ Generator = (*Client)(nil)
