package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"micrositebuilder/internal/domain"
)

type httpUploader struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPUploader returns a MediaUploader that posts files to the media
// service's multipart upload endpoint. Uploaded files are grouped by album,
// one album per event.
func NewHTTPUploader(client *http.Client, baseURL, apiKey string) domain.MediaUploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpUploader{client: client, baseURL: baseURL, apiKey: apiKey}
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (u *httpUploader) Upload(ctx context.Context, album, filename string, content io.Reader) (string, error) {
	// Stream the multipart body through a pipe so large photos are never
	// buffered whole in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("album", album); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/uploads", pr)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("media api returned status: %d", resp.StatusCode)
	}
	var data uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if data.URL == "" {
		return "", fmt.Errorf("media api returned empty url for %s", filename)
	}
	return data.URL, nil
}
