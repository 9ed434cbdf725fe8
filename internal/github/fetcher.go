package github

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/google/go-github/v81/github"
)

// Default corpus location. The shared standards repository keeps tenets and
// bindings under docs/.
const (
	DefaultOwner    = "standards-dev"
	DefaultRepo     = "standards"
	DefaultBasePath = "docs"
)

// RemoteDoc is a markdown document fetched from the remote corpus.
type RemoteDoc struct {
	Path        string // Relative path within the corpus, e.g. "tenets/simplicity.md"
	Content     string // Full markdown content
	SHA         string // Git blob SHA
	ContentHash string // SHA-256 of content, comparable to local file hashes
	URL         string // Raw URL of the source
}

// Fetcher lists and fetches corpus documents from a GitHub repository.
type Fetcher struct {
	client   *Client
	owner    string
	repo     string
	basePath string
}

// NewFetcher creates a corpus fetcher rooted at owner/repo/basePath.
func NewFetcher(client *Client, owner, repo, basePath string) *Fetcher {
	return &Fetcher{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
	}
}

// ListDocs recursively lists all markdown files in the corpus directory,
// returning paths relative to the corpus root.
func (f *Fetcher) ListDocs(ctx context.Context) ([]string, error) {
	return f.listDocsRecursive(ctx, f.basePath, "")
}

func (f *Fetcher) listDocsRecursive(ctx context.Context, fullPath, relativePath string) ([]string, error) {
	var docs []string

	_, dirContents, _, err := f.client.Repositories.GetContents(
		ctx,
		f.owner,
		f.repo,
		fullPath,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("list contents of %s: %w", fullPath, err)
	}

	for _, item := range dirContents {
		if item.Type == nil || item.Name == nil {
			continue
		}

		itemRelPath := path.Join(relativePath, *item.Name)

		switch *item.Type {
		case "file":
			if strings.HasSuffix(*item.Name, ".md") {
				docs = append(docs, itemRelPath)
			}

		case "dir":
			itemFullPath := path.Join(fullPath, *item.Name)
			subDocs, err := f.listDocsRecursive(ctx, itemFullPath, itemRelPath)
			if err != nil {
				return nil, err
			}
			docs = append(docs, subDocs...)
		}
	}

	return docs, nil
}

// FetchDoc fetches the content of a single corpus document.
func (f *Fetcher) FetchDoc(ctx context.Context, relativePath string) (*RemoteDoc, error) {
	fullPath := path.Join(f.basePath, relativePath)

	fileContent, _, _, err := f.client.Repositories.GetContents(
		ctx,
		f.owner,
		f.repo,
		fullPath,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", fullPath, err)
	}

	if fileContent == nil {
		return nil, fmt.Errorf("no file content returned for %s", fullPath)
	}

	content, err := base64.StdEncoding.DecodeString(*fileContent.Content)
	if err != nil {
		return nil, fmt.Errorf("decode content of %s: %w", fullPath, err)
	}

	sum := sha256.Sum256(content)

	rawURL := fmt.Sprintf(
		"https://raw.githubusercontent.com/%s/%s/main/%s",
		f.owner,
		f.repo,
		fullPath,
	)

	return &RemoteDoc{
		Path:        relativePath,
		Content:     string(content),
		SHA:         *fileContent.SHA,
		ContentHash: hex.EncodeToString(sum[:]),
		URL:         rawURL,
	}, nil
}

// LatestCommitSHA returns the SHA of the most recent commit touching the
// corpus directory.
func (f *Fetcher) LatestCommitSHA(ctx context.Context) (string, error) {
	commits, _, err := f.client.Repositories.ListCommits(
		ctx,
		f.owner,
		f.repo,
		&github.CommitsListOptions{
			Path: f.basePath,
			ListOptions: github.ListOptions{
				PerPage: 1,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("get latest commit: %w", err)
	}

	if len(commits) == 0 {
		return "", fmt.Errorf("no commits found for path %s", f.basePath)
	}

	if commits[0].SHA == nil {
		return "", fmt.Errorf("commit SHA is nil")
	}

	return *commits[0].SHA, nil
}

// CommitsBehind reports how many commits the given base SHA is behind the
// repository's main branch.
func (f *Fetcher) CommitsBehind(ctx context.Context, baseSHA string) (int, error) {
	comparison, _, err := f.client.Repositories.CompareCommits(
		ctx,
		f.owner,
		f.repo,
		baseSHA,
		"main",
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("compare commits: %w", err)
	}
	return comparison.GetAheadBy(), nil
}
