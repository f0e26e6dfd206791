// Package thumbnail renders a 1280x720 cover image by burning the title
// and a keyword tagline onto a darkened hero frame with ffmpeg drawtext.
package thumbnail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"videoforge/internal/media"
)

const (
	titleFontSize   = 72
	taglineFontSize = 32
	maxTitleLine    = 24 // characters per wrapped title line
	maxTitleLines   = 3
)

type Renderer struct {
	width, height int
}

func NewRenderer(width, height int) *Renderer {
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	return &Renderer{width: width, height: height}
}

// Render writes thumbnail.jpg into outputDir and returns its path. A hero
// image that cannot be read degrades to a solid dark frame instead of
// failing the stage.
func (r *Renderer) Render(ctx context.Context, heroImagePath, title string, keywords []string, outputDir string) (string, error) {
	outputPath := filepath.Join(outputDir, "thumbnail.jpg")

	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", r.width, r.height),
		fmt.Sprintf("crop=%d:%d", r.width, r.height),
		"eq=brightness=-0.22:saturation=0.85",
		fmt.Sprintf("drawbox=x=0:y=%d:w=%d:h=%d:color=black@0.55:t=fill", r.height/3, r.width, r.height-r.height/3),
	}

	for i, line := range wrapTitle(strings.ToUpper(title)) {
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':fontcolor=white:fontsize=%d:x=120:y=%d",
			escapeDrawtext(line), titleFontSize, 120+i*(titleFontSize+8),
		))
	}

	if tagline := buildTagline(keywords); tagline != "" {
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':fontcolor=0x9cb7ff:fontsize=%d:x=120:y=%d",
			escapeDrawtext(tagline), taglineFontSize, r.height-120,
		))
	}

	input := heroImagePath
	if _, err := os.Stat(heroImagePath); err != nil {
		log.Warn().Err(err).Str("hero", heroImagePath).Msg("hero image unreadable, using dark frame")
		input = ""
	}

	args := []string{"-y"}
	if input != "" {
		args = append(args, "-i", input)
	} else {
		args = append(args, "-f", "lavfi", "-i", fmt.Sprintf("color=c=0x04060b:s=%dx%d:d=1", r.width, r.height))
	}
	args = append(args,
		"-vf", strings.Join(filters, ","),
		"-frames:v", "1",
		"-q:v", "2",
		outputPath,
	)

	if err := media.Run(ctx, args...); err != nil {
		return "", fmt.Errorf("render thumbnail: %w", err)
	}
	return outputPath, nil
}

// wrapTitle greedily wraps the title into at most maxTitleLines lines.
func wrapTitle(title string) []string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > maxTitleLine {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)

	if len(lines) > maxTitleLines {
		lines = lines[:maxTitleLines]
		lines[maxTitleLines-1] += "…"
	}
	return lines
}

func buildTagline(keywords []string) string {
	var tags []string
	for _, kw := range keywords {
		if len(tags) == 5 {
			break
		}
		kw = strings.ReplaceAll(strings.TrimSpace(kw), " ", "")
		if kw != "" {
			tags = append(tags, "#"+kw)
		}
	}
	return strings.Join(tags, "   ")
}

func escapeDrawtext(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, ":", `\:`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return s
}
