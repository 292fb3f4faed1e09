package github

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// SyncResult reports what a pack sync fetched.
type SyncResult struct {
	Fetched []string // pack filenames written locally
	Skipped []string // non-YAML entries ignored
}

// SyncPacks downloads every YAML mapping pack from owner/repo/path into
// targetDir, overwriting local copies. Fetching is all-or-nothing per file;
// one bad file does not abort the rest.
func (c *Client) SyncPacks(ctx context.Context, owner, repo, path, targetDir string) (*SyncResult, error) {
	entries, err := c.ListDirectory(ctx, owner, repo, path)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	if len(entries) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.Type != "file" || !isYAML(entry.Name) {
			result.Skipped = append(result.Skipped, entry.Name)
			continue
		}
		content, err := c.FetchFile(ctx, owner, repo, entry.Path)
		if err != nil {
			result.Skipped = append(result.Skipped, entry.Name)
			continue
		}
		target := filepath.Join(targetDir, entry.Name)
		if err := os.WriteFile(target, []byte(content), 0644); err != nil {
			result.Skipped = append(result.Skipped, entry.Name)
			continue
		}
		result.Fetched = append(result.Fetched, entry.Name)
	}

	return result, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
