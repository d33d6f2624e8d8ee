// Package media uploads cabin photos to Cloudinary through its signed
// REST API. Uploads use a per-request SHA-1 signature over the signed
// parameters plus the API secret, as required by Cloudinary.
package media

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the Cloudinary credentials are absent.
var ErrNotConfigured = errors.New("cloudinary is not configured")

// Client talks to the Cloudinary image API for a single cloud.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	http      *http.Client
}

// NewClientFromEnv builds a Client from CLOUDINARY_CLOUD_NAME,
// CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET and the optional
// CLOUDINARY_FOLDER. A nil client is returned when credentials are missing;
// callers treat that as media features being disabled.
func NewClientFromEnv() *Client {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil
	}
	return &Client{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    os.Getenv("CLOUDINARY_FOLDER"),
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// sign computes the request signature over public_id and timestamp, the
// parameters Cloudinary includes in signed uploads and deletions.
func (c *Client) sign(publicID, timestamp string) string {
	payload := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, c.apiSecret)
	return fmt.Sprintf("%x", sha1.Sum([]byte(payload)))
}

func (c *Client) qualified(publicID string) string {
	if c.folder != "" {
		return c.folder + "/" + publicID
	}
	return publicID
}

// Upload sends the image bytes to Cloudinary under the given public ID and
// returns the hosted HTTPS URL.
func (c *Client) Upload(ctx context.Context, image io.Reader, publicID string) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	raw, err := io.ReadAll(image)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	fullID := c.qualified(publicID)
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(raw))
	form.Add("api_key", c.apiKey)
	form.Add("public_id", fullID)
	form.Add("timestamp", timestamp)
	form.Add("signature", c.sign(fullID, timestamp))

	endpoint := "https://api.cloudinary.com/v1_1/" + c.cloudName + "/image/upload"
	var res struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := c.post(ctx, endpoint, form, &res); err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	out := res.SecureURL
	if out == "" {
		out = res.URL
	}
	if out == "" {
		return "", errors.New("cloudinary: no url in response")
	}
	return out, nil
}

// Delete removes the hosted image behind a Cloudinary URL. Non-Cloudinary
// URLs (seed data, external links) are ignored without error.
func (c *Client) Delete(ctx context.Context, imageURL string) error {
	if c == nil {
		return ErrNotConfigured
	}
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return nil
	}
	parts := strings.Split(imageURL, "/")
	last := parts[len(parts)-1]
	publicID := strings.SplitN(last, ".", 2)[0]
	if publicID == "" {
		return fmt.Errorf("cloudinary: cannot derive public id from %q", imageURL)
	}

	fullID := c.qualified(publicID)
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("public_id", fullID)
	form.Add("api_key", c.apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", c.sign(fullID, timestamp))

	endpoint := "https://api.cloudinary.com/v1_1/" + c.cloudName + "/image/destroy"
	var res struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := c.post(ctx, endpoint, form, &res); err != nil {
		return err
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary: unexpected destroy result %q", res.Result)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read cloudinary response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}
