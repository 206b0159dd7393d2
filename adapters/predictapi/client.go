package predictapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"digitpad/domain/prediction"
	"digitpad/internal"
	apperrors "digitpad/internal/errors"
	"digitpad/ports"
)

const (
	// ImageField is the multipart field the model server reads the drawing from.
	ImageField = "image"
	imageName  = "sketch.png"

	healthPath       = "/api/health"
	currentModelPath = "/api/models/current"

	// maxBodyPreview bounds how much of an error body ends up in messages.
	maxBodyPreview = 200
)

// Config holds predictor client settings
type Config struct {
	URL     string
	Timeout time.Duration
}

// Client talks to the model server over HTTP.
type Client struct {
	predictURL *url.URL
	httpClient *http.Client
	logger     *internal.Logger
}

var (
	_ ports.Predictor      = (*Client)(nil)
	_ ports.ModelInspector = (*Client)(nil)
)

// NewClient creates a client for the predict endpoint at config.URL.
func NewClient(config Config, logger *internal.Logger) (*Client, error) {
	u, err := url.Parse(config.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.ConfigInvalid(fmt.Sprintf("predict URL %q must be absolute", config.URL))
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Client{
		predictURL: u,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("predictapi"),
	}, nil
}

type predictResponse struct {
	Result *[]float64 `json:"result"`
}

// Predict uploads image as a PNG form file and decodes {"result": [...]}.
func (c *Client) Predict(ctx context.Context, image io.Reader) (prediction.Result, error) {
	body, contentType, err := multipartImage(image)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build predict request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictURL.String(), body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create predict request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp predictResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.InvalidResponse("malformed predict response", err)
	}
	if resp.Result == nil {
		return nil, apperrors.InvalidResponse("predict response has no result field", nil)
	}

	result := prediction.Result(*resp.Result)
	c.logger.Debug("predict returned %d scores in %s", len(result), time.Since(start))
	c.logger.Trace("result = %v", []float64(result))
	return result, nil
}

// Health calls GET /api/health on the model server.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Health string `json:"health"`
	}
	if err := c.getJSON(ctx, healthPath, &resp); err != nil {
		return err
	}
	if resp.Health != "ok" {
		return apperrors.ExternalService(fmt.Sprintf("model server reports health %q", resp.Health), nil)
	}
	return nil
}

// CurrentModel calls GET /api/models/current and returns the model tag.
func (c *Client) CurrentModel(ctx context.Context) (string, error) {
	var resp struct {
		Tag string `json:"tag"`
	}
	if err := c.getJSON(ctx, currentModelPath, &resp); err != nil {
		return "", err
	}
	return resp.Tag, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	target := c.predictURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return apperrors.Wrapf(err, "failed to create request for %s", path)
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.InvalidResponse(fmt.Sprintf("malformed response from %s", path), err)
	}
	return nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ExternalService(fmt.Sprintf("%s %s failed", req.Method, req.URL.Path), err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperrors.ExternalService("failed to read model server response", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		preview := data
		if len(preview) > maxBodyPreview {
			preview = preview[:maxBodyPreview]
		}
		return nil, apperrors.ExternalService(
			fmt.Sprintf("model server error: status %d, response: %s", res.StatusCode, string(preview)), nil)
	}
	return data, nil
}

func multipartImage(image io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, ImageField, imageName))
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
