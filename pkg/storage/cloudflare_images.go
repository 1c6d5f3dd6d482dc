package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// CloudflareImages produces display variants and thumbnails through the
// Cloudflare Images API.
type CloudflareImages struct {
	accountID   string
	apiToken    string
	baseURL     string
	client      *http.Client
	accountHash string // account hash used in delivery URLs
}

const (
	VariantPublic    = "public"
	VariantThumbnail = "thumbnail"
)

type cloudflareImageResponse struct {
	Success bool `json:"success"`
	Result  struct {
		ID       string   `json:"id"`
		Variants []string `json:"variants"`
	} `json:"result"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func NewCloudflareImages(accountID, token, accountHash string) *CloudflareImages {
	client := &http.Client{
		Timeout: 5 * time.Minute, // large uploads
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			MaxConnsPerHost:     100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &CloudflareImages{
		accountID:   accountID,
		apiToken:    token,
		baseURL:     "https://api.cloudflare.com/client/v4",
		client:      client,
		accountHash: accountHash,
	}
}

// Upload sends the file and returns the image id and variant URLs.
func (c *CloudflareImages) Upload(ctx context.Context, filename string, reader io.Reader) (string, []string, error) {
	var buf bytes.Buffer
	fileSize, err := io.Copy(&buf, reader)
	if err != nil {
		return "", nil, fmt.Errorf("failed to copy file content to buffer: %w", err)
	}
	if fileSize == 0 {
		return "", nil, fmt.Errorf("empty file, size is 0 bytes")
	}

	fileBytes := buf.Bytes()

	createForm := func() (*bytes.Buffer, string, error) {
		formBuf := &bytes.Buffer{}
		writer := multipart.NewWriter(formBuf)

		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(fileBytes)); err != nil {
			return nil, "", fmt.Errorf("failed to copy file: %w", err)
		}
		if err := writer.WriteField("requireSignedURLs", "false"); err != nil {
			return nil, "", fmt.Errorf("failed to add form field: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to close writer: %w", err)
		}

		return formBuf, writer.FormDataContentType(), nil
	}

	formBuf, contentType, err := createForm()
	if err != nil {
		return "", nil, fmt.Errorf("failed to create multipart form: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/images/v1", c.baseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, formBuf)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}

	// GetBody is needed so HTTP/2 can retry the request.
	req.GetBody = func() (io.ReadCloser, error) {
		newForm, _, err := createForm()
		if err != nil {
			return nil, err
		}
		return io.NopCloser(newForm), nil
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("cloudflare returned non-OK status: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var response cloudflareImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !response.Success {
		return "", nil, fmt.Errorf("cloudflare returned error: %v", response.Errors)
	}

	variantURLs := []string{
		c.GetVariantURL(response.Result.ID, VariantPublic),
		c.GetVariantURL(response.Result.ID, VariantThumbnail),
	}

	return response.Result.ID, variantURLs, nil
}

func (c *CloudflareImages) Delete(ctx context.Context, imageID string) error {
	url := fmt.Sprintf("%s/accounts/%s/images/v1/%s", c.baseURL, c.accountID, imageID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to delete image: %d", resp.StatusCode)
	}

	return nil
}

func (c *CloudflareImages) GetVariantURL(imageID, variant string) string {
	return fmt.Sprintf("https://imagedelivery.net/%s/%s/%s", c.accountHash, imageID, variant)
}

func (c *CloudflareImages) GetThumbnailURL(imageID string) string {
	return c.GetVariantURL(imageID, VariantThumbnail)
}
