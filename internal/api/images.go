package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/mdoering/marquee/internal/domain"
)

// ListImages returns the stored objects under a logical prefix via
// GET images/{prefix}. The listing includes folder placeholders; callers
// filter with ImageObject.IsPlaceholder.
func (c *Client) ListImages(ctx context.Context, prefix string) ([]domain.ImageObject, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "images/"+prefix, nil, true)
	if err != nil {
		return nil, err
	}

	var resp imageListResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.Contents == nil {
		return nil, &domain.DataShapeError{Field: "Contents"}
	}

	objects := make([]domain.ImageObject, 0, len(resp.Contents))
	for _, dto := range resp.Contents {
		objects = append(objects, dto.toDomain())
	}
	return objects, nil
}

// GetImage downloads an image's binary body via GET images/{key}.
func (c *Client) GetImage(ctx context.Context, key string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "images/"+key, nil, true)
	if err != nil {
		return nil, "", err
	}
	// Binary response, not JSON
	req.Header.Set("Accept", "*/*")

	c.logger.Debug("api request", "method", http.MethodGet, "path", "images/"+key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("image download failed", "key", key, "error", err)
		return nil, "", domain.ErrServerUnreachable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		c.logger.Error("image download error", "key", key, "status", resp.StatusCode)
		return nil, "", err
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// UploadImage posts the file via POST images/ as multipart form field
// "image". The server processes uploads asynchronously, so the new image
// may not be visible in ListImages until processing completes.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "images/", &buf, true)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("api request", "method", http.MethodPost, "path", "images/", "filename", filename, "bytes", len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("image upload failed", "filename", filename, "error", err)
		return domain.ErrServerUnreachable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		c.logger.Error("image upload error", "filename", filename, "status", resp.StatusCode, "body", string(body))
		return err
	}

	c.logger.Info("image uploaded", "filename", filename)
	return nil
}
