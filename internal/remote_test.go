package internal

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// MockHTTPClient is a mock implementation of http.Client for testing
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

func TestRemoteImageManager_Fetch(t *testing.T) {
	mockImageData := "this is mock image data"

	t.Run("successful retrieval", func(t *testing.T) {
		var seen *http.Request
		mockClient := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				seen = req
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(mockImageData)),
					Header:     make(http.Header),
				}, nil
			},
		}

		mgr := &RemoteImageManager{userAgent: "test-agent", client: mockClient}

		reader, err := mgr.Fetch("https://example.com/cat.png")
		assert.NoError(t, err)
		assert.NotNil(t, reader)

		data, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, mockImageData, string(data))
		assert.NoError(t, reader.Close())
		assert.Equal(t, "test-agent", seen.Header.Get("User-Agent"))
		assert.Equal(t, "image/*", seen.Header.Get("Accept"))
	})

	t.Run("body is truncated at the limit", func(t *testing.T) {
		mockClient := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(mockImageData)),
					Header:     make(http.Header),
				}, nil
			},
		}

		mgr := &RemoteImageManager{maxBytes: 4, client: mockClient}
		reader, err := mgr.Fetch("http://example.com/cat.png")
		assert.NoError(t, err)
		data, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, "this", string(data))
		assert.NoError(t, reader.Close())
	})

	t.Run("API error response", func(t *testing.T) {
		mockClient := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusNotFound,
					Status:     "404 Not Found",
					Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
					Header:     make(http.Header),
				}, nil
			},
		}

		mgr := &RemoteImageManager{client: mockClient}

		reader, err := mgr.Fetch("http://test-url/missing.png")
		assert.Error(t, err)
		assert.Nil(t, reader)
		assert.Equal(t, "http status response from http://test-url/missing.png: 404 Not Found", err.Error())
	})

	t.Run("transport error", func(t *testing.T) {
		mockClient := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}

		mgr := &RemoteImageManager{client: mockClient}
		_, err := mgr.Fetch("http://test-url/cat.png")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		mgr := &RemoteImageManager{client: &MockHTTPClient{}}
		_, err := mgr.Fetch("file:///etc/passwd")
		assert.ErrorContains(t, err, "unsupported url scheme")
	})
}
