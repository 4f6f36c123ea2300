// Package release publishes a rendered slide file as the single asset of a
// fixed, reused GitHub release tag. Each publish replaces whatever was
// there before, so the download URL under the tag always points at the
// latest abstract.
package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTag is the release tag reused for every upload.
const DefaultTag = "latest-abstract"

const maxTitleChars = 70

// Publisher uploads rendered slide decks as single-asset releases.
type Publisher struct {
	gh  *gh.Client
	tag string
}

// New builds a Publisher authenticated with token. An empty tag selects
// DefaultTag.
func New(ctx context.Context, token, tag string) (*Publisher, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("github token required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = 30 * time.Second
	return NewWithClient(gh.NewClient(tc), tag), nil
}

// NewWithClient wraps an already-configured client; tests use it to point
// at a local server.
func NewWithClient(client *gh.Client, tag string) *Publisher {
	if tag == "" {
		tag = DefaultTag
	}
	return &Publisher{gh: client, tag: tag}
}

// SplitRepo validates an "owner/name" repository reference.
func SplitRepo(full string) (owner, name string, err error) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", full)
	}
	return parts[0], parts[1], nil
}

// Publish replaces the release under the configured tag with a fresh one
// carrying path as its only asset and returns the public download URL.
func (p *Publisher) Publish(ctx context.Context, repoFullName, title, path string) (string, error) {
	owner, name, err := SplitRepo(repoFullName)
	if err != nil {
		return "", err
	}

	repo, _, err := p.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return "", fmt.Errorf("repository access: %w", err)
	}

	if err := p.deletePrevious(ctx, owner, name); err != nil {
		return "", err
	}

	rel, err := p.createRelease(ctx, owner, name, repo.GetDefaultBranch(), title)
	if err != nil {
		return "", err
	}

	asset, err := p.uploadAsset(ctx, owner, name, rel.GetID(), path)
	if err != nil {
		return "", err
	}
	return asset.GetBrowserDownloadURL(), nil
}

// deletePrevious removes the old release, its assets, and the tag ref.
// A missing release is not an error.
func (p *Publisher) deletePrevious(ctx context.Context, owner, name string) error {
	rel, resp, err := p.gh.Repositories.GetReleaseByTag(ctx, owner, name, p.tag)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("look up release tag %q: %w", p.tag, err)
	}
	assets, _, err := p.gh.Repositories.ListReleaseAssets(ctx, owner, name, rel.GetID(), &gh.ListOptions{PerPage: 100})
	if err == nil {
		for _, a := range assets {
			_, _ = p.gh.Repositories.DeleteReleaseAsset(ctx, owner, name, a.GetID())
		}
	}
	if _, err := p.gh.Repositories.DeleteRelease(ctx, owner, name, rel.GetID()); err != nil {
		return fmt.Errorf("delete previous release: %w", err)
	}
	_, _ = p.gh.Git.DeleteRef(ctx, owner, name, "tags/"+p.tag)
	return nil
}

func (p *Publisher) createRelease(ctx context.Context, owner, name, defaultBranch, title string) (*gh.RepositoryRelease, error) {
	safeTitle := strings.TrimSpace(title)
	if safeTitle == "" {
		safeTitle = "Visual Abstract"
	}
	if r := []rune(safeTitle); len(r) > maxTitleChars {
		safeTitle = string(r[:maxTitleChars])
	}
	body := &gh.RepositoryRelease{
		TagName:    gh.Ptr(p.tag),
		Name:       gh.Ptr("Visual Abstract - " + safeTitle),
		Body:       gh.Ptr(fmt.Sprintf("Automatically generated visual abstract\nArticle: %s\nDate: %s", safeTitle, time.Now().Format("2006-01-02 15:04:05"))),
		Draft:      gh.Ptr(false),
		Prerelease: gh.Ptr(false),
	}

	var rel *gh.RepositoryRelease
	err := retry.Do(
		func() error {
			var err error
			rel, _, err = p.gh.Repositories.CreateRelease(ctx, owner, name, body)
			if err != nil && strings.Contains(err.Error(), "Repository is empty") {
				if initErr := p.initEmptyRepo(ctx, owner, name, defaultBranch); initErr != nil {
					return retry.Unrecoverable(initErr)
				}
				return err // retry the create against the now-initialized repo
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}
	return rel, nil
}

// initEmptyRepo makes a release possible on a repository with no commits
// by creating an initial README on the default branch.
func (p *Publisher) initEmptyRepo(ctx context.Context, owner, name, defaultBranch string) error {
	if defaultBranch == "" {
		defaultBranch = "main"
	}
	readme := "# Auto Init\n\nSlide assets for visual abstracts.\n"
	_, _, err := p.gh.Repositories.CreateFile(ctx, owner, name, "README.md", &gh.RepositoryContentFileOptions{
		Message: gh.Ptr("init"),
		Content: []byte(readme),
		Branch:  gh.Ptr(defaultBranch),
	})
	if err != nil {
		return fmt.Errorf("initialize empty repository: %w", err)
	}
	return nil
}

func (p *Publisher) uploadAsset(ctx context.Context, owner, name string, releaseID int64, path string) (*gh.ReleaseAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()
	asset, _, err := p.gh.Repositories.UploadReleaseAsset(ctx, owner, name, releaseID, &gh.UploadOptions{
		Name:      filepath.Base(path),
		MediaType: "application/octet-stream",
	}, f)
	if err != nil {
		return nil, fmt.Errorf("upload asset: %w", err)
	}
	return asset, nil
}
