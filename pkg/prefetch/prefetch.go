// Package prefetch warms a wheelhouse with upstream wheels before a build, so
// the local package index can serve them without touching the network again.
package prefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"

	"github.com/wheelforge/wheelforge/pkg/util/console"
	"github.com/wheelforge/wheelforge/pkg/util/files"
)

const maxConcurrentDownloads = 3

// Warm downloads each URL into cacheDir and then copies the cached wheels
// into destDir. The cache outlives any single project, so repeated builds hit
// the network once per wheel at most.
func Warm(ctx context.Context, client *http.Client, urls []string, cacheDir string, destDir string) error {
	if len(urls) == 0 {
		return nil
	}
	if err := Fetch(ctx, client, urls, cacheDir); err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for _, rawURL := range urls {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("Invalid prefetch URL %s: %w", rawURL, err)
		}
		filename := path.Base(parsed.Path)
		dest := filepath.Join(destDir, filename)
		exists, err := files.Exists(dest)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := files.Copy(filepath.Join(cacheDir, filename), dest); err != nil {
			return fmt.Errorf("Copying %s out of the prefetch cache: %w", filename, err)
		}
	}
	return nil
}

// Fetch downloads each URL into destDir, showing one progress bar per file.
// Files already present are left alone.
func Fetch(ctx context.Context, client *http.Client, urls []string, destDir string) error {
	if len(urls) == 0 {
		return nil
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	progress := mpb.NewWithContext(ctx, mpb.WithWidth(60))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDownloads)

	for _, rawURL := range urls {
		rawURL := rawURL
		group.Go(func() error {
			return fetchOne(ctx, client, progress, rawURL, destDir)
		})
	}

	err := group.Wait()
	progress.Wait()
	return err
}

func fetchOne(ctx context.Context, client *http.Client, progress *mpb.Progress, rawURL string, destDir string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("Invalid prefetch URL %s: %w", rawURL, err)
	}
	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" {
		return fmt.Errorf("Cannot derive a filename from prefetch URL %s", rawURL)
	}
	dest := filepath.Join(destDir, filename)

	exists, err := files.Exists(dest)
	if err != nil {
		return err
	}
	if exists {
		console.Debugf("%s already in wheelhouse, skipping", filename)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	bar := progress.AddBar(total,
		mpb.PrependDecorators(decor.Name(filename)),
		mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f")),
	)
	reader := bar.ProxyReader(resp.Body)
	defer reader.Close()

	tmp, err := os.CreateTemp(destDir, filename+".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	bar.SetTotal(bar.Current(), true)

	return os.Rename(tmp.Name(), dest)
}
