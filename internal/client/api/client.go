// Package api is the offline client's HTTP binding to the server's wire
// surface: token issuance, token redemption, and the offline registry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/eduvault/eduvault/internal/errors"
	"github.com/eduvault/eduvault/internal/httputil"
)

// TokenGrant is an issued access token with its expiry.
type TokenGrant struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OfflineRecord mirrors the server's view of one offline download.
type OfflineRecord struct {
	ResourceID     string    `json:"resource_id"`
	Status         string    `json:"status"`
	DownloadedAt   time.Time `json:"downloaded_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Client talks to the offline resource access API on behalf of one principal.
type Client struct {
	baseURL     string
	principalID string
	httpClient  *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL, principalID string) *Client {
	return &Client{
		baseURL:     baseURL,
		principalID: principalID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// IssueDownloadToken requests a single-use download token for the resource.
func (c *Client) IssueDownloadToken(ctx context.Context, resourceID string) (*TokenGrant, error) {
	return c.issueToken(ctx, resourceID, "download-token")
}

// IssueDecryptToken requests a single-use decrypt token for the resource.
func (c *Client) IssueDecryptToken(ctx context.Context, resourceID string) (*TokenGrant, error) {
	return c.issueToken(ctx, resourceID, "decrypt-token")
}

func (c *Client) issueToken(ctx context.Context, resourceID, kind string) (*TokenGrant, error) {
	url := fmt.Sprintf("%s/v1/resources/%s/%s", c.baseURL, resourceID, kind)

	resp, err := c.do(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.apiError(resp)
	}

	var grant TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode token response")
	}
	return &grant, nil
}

// RedeemDownload burns a download token and returns the encrypted blob bytes.
func (c *Client) RedeemDownload(ctx context.Context, token string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/downloads", map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, err.Error())
	}
	return blob, nil
}

// RedeemDecrypt burns a decrypt token and returns the access key. The caller
// must not persist the key beyond one decrypt operation.
func (c *Client) RedeemDecrypt(ctx context.Context, token string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/decrypt-keys", map[string]string{"token": token})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp)
	}

	var body struct {
		AccessKey string `json:"access_key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperrors.Wrap(err, "failed to decode decrypt-key response")
	}
	return body.AccessKey, nil
}

// RegisterDownload records a completed download in the server registry.
func (c *Client) RegisterDownload(ctx context.Context, resourceID string) (*OfflineRecord, error) {
	resp, err := c.do(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/offline-resources",
		map[string]string{"resource_id": resourceID},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.apiError(resp)
	}

	var record OfflineRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode offline record response")
	}
	return &record, nil
}

// TouchOfflineRecord records a playback access in the server registry.
func (c *Client) TouchOfflineRecord(ctx context.Context, resourceID string) (*OfflineRecord, error) {
	url := fmt.Sprintf("%s/v1/offline-resources/%s/touch", c.baseURL, resourceID)

	resp, err := c.do(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var record OfflineRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode offline record response")
	}
	return &record, nil
}

// DeleteOfflineRecord removes the record from the server registry.
func (c *Client) DeleteOfflineRecord(ctx context.Context, resourceID string) error {
	url := fmt.Sprintf("%s/v1/offline-resources/%s", c.baseURL, resourceID)

	resp, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.apiError(resp)
	}
	return nil
}

// do builds and executes one request. Transport failures surface as
// ErrUnavailable; the caller decides whether to retry.
func (c *Client) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.principalID != "" {
		req.Header.Set("X-Principal-ID", c.principalID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, err.Error())
	}
	return resp, nil
}

// apiError decodes the server's error envelope and maps the stable code back
// to a domain sentinel.
func (c *Client) apiError(resp *http.Response) error {
	var body httputil.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return apperrors.Wrap(
			apperrors.ErrUnavailable,
			fmt.Sprintf("server returned status %d", resp.StatusCode),
		)
	}
	return httputil.DomainError(body.Error)
}
