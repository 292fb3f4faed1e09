// Package github wraps the GitHub API for fetching shared mapping packs.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps the GitHub REST API for pronghorn's needs.
type Client struct {
	rest *api.RESTClient
}

// NewClient creates a GitHub client using go-gh (automatic auth).
func NewClient() (*Client, error) {
	client, err := api.DefaultRESTClient()
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// NewClientWithToken creates a GitHub client with an explicit token.
func NewClientWithToken(token string) (*Client, error) {
	client, err := api.NewRESTClient(api.ClientOptions{
		AuthToken: token,
	})
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// fileContentsResponse represents GitHub's contents API response.
type fileContentsResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
}

// FetchFile fetches a file's content from a repo.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path string) (string, error) {
	if owner == "" || repo == "" || path == "" {
		return "", fmt.Errorf("owner, repo, and path are required")
	}

	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, url.PathEscape(path))

	var response fileContentsResponse
	if err := c.rest.Get(endpoint, &response); err != nil {
		return "", err
	}

	content, err := base64.StdEncoding.DecodeString(response.Content)
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	return string(content), nil
}

// RepoExists checks if a repository exists and is accessible.
func (c *Client) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	endpoint := fmt.Sprintf("repos/%s/%s", owner, repo)

	var response struct {
		ID int `json:"id"`
	}
	if err := c.rest.Get(endpoint, &response); err != nil {
		if httpErr, ok := err.(*api.HTTPError); ok && httpErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DirectoryEntry represents an item in a directory listing.
type DirectoryEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	SHA  string `json:"sha"`
}

// ListDirectory lists contents of a directory in a repo.
// Returns nil, nil if the directory doesn't exist.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path string) ([]DirectoryEntry, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, url.PathEscape(path))

	var response []DirectoryEntry
	if err := c.rest.Get(endpoint, &response); err != nil {
		if httpErr, ok := err.(*api.HTTPError); ok && httpErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return response, nil
}
