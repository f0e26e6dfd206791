// Package voice turns narration text into a single mp3 using the free
// Google Translate TTS endpoint.
package voice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"videoforge/internal/media"
)

// maxSegmentLength is the longest text chunk the TTS endpoint accepts
// reliably. Longer scripts are split on sentence boundaries.
const maxSegmentLength = 180

const ttsEndpoint = "https://translate.google.com/translate_tts"

type Synthesizer struct {
	httpClient *http.Client
	language   string
}

func NewSynthesizer(language string) *Synthesizer {
	if language == "" {
		language = "en"
	}
	return &Synthesizer{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		language:   language,
	}
}

// Synthesize renders the text as speech and writes voiceover.mp3 into
// outputDir, returning its path. Multi-segment scripts are concatenated
// with the ffmpeg concat demuxer.
func (s *Synthesizer) Synthesize(ctx context.Context, text, outputDir string) (string, error) {
	cleaned := collapseWhitespace(text)
	if cleaned == "" {
		return "", fmt.Errorf("script is empty")
	}

	segments := SplitSegments(cleaned)
	log.Debug().Int("segments", len(segments)).Msg("synthesizing voiceover")

	segmentPaths := make([]string, 0, len(segments))
	for i, segment := range segments {
		segmentPath := filepath.Join(outputDir, fmt.Sprintf("voiceover-%d.mp3", i))
		if err := s.fetchSegment(ctx, segment, segmentPath); err != nil {
			return "", fmt.Errorf("tts segment %d: %w", i, err)
		}
		segmentPaths = append(segmentPaths, segmentPath)
	}

	outputPath := filepath.Join(outputDir, "voiceover.mp3")
	if len(segmentPaths) == 1 {
		if err := copyFile(segmentPaths[0], outputPath); err != nil {
			return "", err
		}
		return outputPath, nil
	}

	var lines []string
	for _, segmentPath := range segmentPaths {
		lines = append(lines, media.ConcatListEntry(segmentPath))
	}
	concatFile := filepath.Join(outputDir, "voiceover_concat.txt")
	if err := os.WriteFile(concatFile, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", err
	}

	if err := media.Run(ctx, "-y", "-f", "concat", "-safe", "0", "-i", concatFile, "-c", "copy", outputPath); err != nil {
		return "", fmt.Errorf("concat voiceover: %w", err)
	}
	return outputPath, nil
}

func (s *Synthesizer) fetchSegment(ctx context.Context, text, outputPath string) error {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", s.language)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ttsEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; videoforge/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TTS fetch failed: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]?`)

// SplitSegments breaks text into chunks of at most maxSegmentLength runes,
// preferring sentence boundaries. A single oversize sentence stays whole
// rather than being cut mid-word.
func SplitSegments(input string) []string {
	if len(input) <= maxSegmentLength {
		return []string{input}
	}

	sentences := sentencePattern.FindAllString(input, -1)
	if sentences == nil {
		sentences = []string{input}
	}

	var segments []string
	current := ""
	for _, sentence := range sentences {
		prospective := strings.TrimSpace(current + " " + sentence)
		if len(prospective) > maxSegmentLength && current != "" {
			segments = append(segments, strings.TrimSpace(current))
			current = strings.TrimSpace(sentence)
		} else {
			current = prospective
		}
	}
	if strings.TrimSpace(current) != "" {
		segments = append(segments, strings.TrimSpace(current))
	}
	return segments
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
