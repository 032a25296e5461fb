package dto

import (
	"time"
)

// IssueTokenResponse returns a freshly issued access token. The token value
// appears here once and is never retrievable again.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DecryptKeyResponse returns the per-resource access key released against a
// redeemed decrypt token. The client derives the content key from it locally.
type DecryptKeyResponse struct {
	AccessKey string `json:"access_key"`
}
