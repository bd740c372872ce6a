package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.cloudinary.com/v1_1"

// Host is the domain Cloudinary serves delivered assets from.
const Host = "res.cloudinary.com"

var ErrNotConfigured = errors.New("cloudinary is not configured: set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

func (c Config) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type Client struct {
	http   *resty.Client
	config Config
	now    func() time.Time
}

// NewClient uses http for all calls. A client without a base URL is pointed at the
// public upload API.
func NewClient(http *resty.Client, config Config) *Client {
	if http.BaseURL == "" {
		http.SetBaseURL(DefaultBaseURL)
	}
	return &Client{
		http:   http,
		config: config,
		now:    time.Now,
	}
}

func (c *Client) Configured() bool {
	return c.config.Configured()
}

type UploadParams struct {
	Folder         string
	PublicID       string
	Transformation string
}

type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
}

type APIError struct {
	Detail struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return e.Detail.Message
}

type destroyResult struct {
	Result string `json:"result"`
}

// Upload sends data as an image upload and returns the stored asset.
func (c *Client) Upload(ctx context.Context, params UploadParams, fileName string, data []byte) (*UploadResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	form := c.signed(map[string]string{
		"folder":         params.Folder,
		"public_id":      params.PublicID,
		"transformation": params.Transformation,
	})

	result := &UploadResult{}
	responseError := &APIError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", fileName, bytes.NewReader(data)).
		SetFormData(form).
		SetResult(result).
		SetError(responseError).
		Post(fmt.Sprintf("/%s/image/upload", c.config.CloudName))
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cloudinary upload failed with status %d: %w", resp.StatusCode(), responseError)
	}
	return result, nil
}

// Destroy removes an image by public id. Assets that are already gone are not an error.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	form := c.signed(map[string]string{
		"public_id": publicID,
	})

	result := &destroyResult{}
	responseError := &APIError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(result).
		SetError(responseError).
		Post(fmt.Sprintf("/%s/image/destroy", c.config.CloudName))
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("cloudinary destroy failed with status %d: %w", resp.StatusCode(), responseError)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %q: unexpected result %q", publicID, result.Result)
	}
	return nil
}

func (c *Client) signed(params map[string]string) map[string]string {
	for k, v := range params {
		if v == "" {
			delete(params, k)
		}
	}
	params["timestamp"] = strconv.FormatInt(c.now().Unix(), 10)
	params["signature"] = Sign(params, c.config.APISecret)
	params["api_key"] = c.config.APIKey
	return params
}

// Sign computes the request signature: the non-empty parameters sorted by name,
// joined as a query string, suffixed with the secret and SHA-1 hashed.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" || k == "file" || k == "api_key" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
