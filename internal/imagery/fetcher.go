// Package imagery downloads one still frame per script prompt from a
// keyword-seeded image provider.
package imagery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultProviderURL = "https://source.unsplash.com/1280x720/?%s"

const maxAttempts = 3

type Fetcher struct {
	httpClient  *http.Client
	providerURL string
}

// NewFetcher creates a fetcher. providerURL must contain one %s verb for
// the prompt seed; empty selects the default provider.
func NewFetcher(providerURL string) *Fetcher {
	if providerURL == "" {
		providerURL = defaultProviderURL
	}
	return &Fetcher{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		providerURL: providerURL,
	}
}

// FetchSet downloads one image per prompt into outputDir and returns the
// file paths in prompt order. An empty prompt list is an error: the video
// stage cannot assemble a slideshow from nothing.
func (f *Fetcher) FetchSet(ctx context.Context, prompts []string, outputDir string) ([]string, error) {
	if len(prompts) == 0 {
		return nil, fmt.Errorf("no prompts to render")
	}

	paths := make([]string, 0, len(prompts))
	for i, prompt := range prompts {
		imagePath := filepath.Join(outputDir, fmt.Sprintf("frame-%d.jpg", i))
		if err := f.fetchOne(ctx, prompt, imagePath); err != nil {
			return nil, fmt.Errorf("image fetch failed for prompt: %s: %w", prompt, err)
		}
		paths = append(paths, imagePath)
	}
	return paths, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, prompt, outputPath string) error {
	seed := url.QueryEscape(strings.ReplaceAll(strings.ToLower(prompt), " ", "-"))
	imageURL := fmt.Sprintf(f.providerURL, seed)

	// Image providers time out now and then. Retry with a short backoff
	// before giving up on the stage.
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = f.download(ctx, imageURL, outputPath); err == nil {
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("image download failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}
	return err
}

func (f *Fetcher) download(ctx context.Context, imageURL, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; videoforge/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from image provider", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(data) < 100 {
		return fmt.Errorf("response too small (%d bytes)", len(data))
	}
	return os.WriteFile(outputPath, data, 0o644)
}
