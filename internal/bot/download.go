package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// download fetches a document payload from Telegram's file API. The body
// read is capped at maxFileSize even when the reported size lied.
func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, b.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file body: %w", err)
	}
	if int64(len(data)) > b.maxFileSize {
		return nil, fmt.Errorf("file exceeds %d byte limit", b.maxFileSize)
	}
	return data, nil
}
