package internal

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ImageClient fetches source images for the API server's url= parameter.
type ImageClient interface {
	Fetch(imageUrl string) (io.ReadCloser, error)
}

type RemoteImageManager struct {
	userAgent string
	maxBytes  int64
	client    HTTPClient
}

func NewImageClient(userAgent string, maxBytes int64) ImageClient {
	return &RemoteImageManager{
		userAgent: userAgent,
		maxBytes:  maxBytes,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns the body of an http(s) image URL. Bodies longer than the
// configured maximum are cut short, which makes decoding fail.
func (mgr *RemoteImageManager) Fetch(imageUrl string) (io.ReadCloser, error) {
	u, err := url.Parse(imageUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	return mgr.get(u.String(), "image/*")
}

func (mgr *RemoteImageManager) get(url string, acceptHeader string) (io.ReadCloser, error) {
	log.Printf("Retrieving: %s", url)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", mgr.userAgent)
	req.Header.Set("Accept", acceptHeader)

	res, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	if mgr.maxBytes <= 0 {
		return res.Body, nil
	}
	return limitedBody{Reader: io.LimitReader(res.Body, mgr.maxBytes), Closer: res.Body}, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}
