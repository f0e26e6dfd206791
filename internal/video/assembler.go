// Package video assembles the final deliverable: an image slideshow timed
// to the narration, with an ambient noise bed mixed underneath.
package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"videoforge/internal/media"
)

// minImageSeconds is the floor on how long each frame stays on screen.
const minImageSeconds = 4.0

// Input names the pieces the assembler combines inside one workspace.
type Input struct {
	AudioPath  string
	ImagePaths []string
	Workspace  string
}

// Output is the assembled video plus the mixed audio track and the
// effective duration in seconds.
type Output struct {
	VideoPath    string
	AudioMixPath string
	Duration     float64
}

type Assembler struct {
	fps           int
	width, height int
	ambientVolume float64
}

func NewAssembler(fps, width, height int, ambientVolume float64) *Assembler {
	if fps <= 0 {
		fps = 30
	}
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	if ambientVolume <= 0 {
		ambientVolume = 0.35
	}
	return &Assembler{fps: fps, width: width, height: height, ambientVolume: ambientVolume}
}

// Assemble builds the slideshow, renders the ambient bed, mixes it under
// the narration, and muxes everything into final-video.mp4.
func (a *Assembler) Assemble(ctx context.Context, in Input) (Output, error) {
	if len(in.ImagePaths) == 0 {
		return Output{}, fmt.Errorf("no imagery available for video")
	}

	audioDuration, err := media.Duration(ctx, in.AudioPath)
	if err != nil {
		log.Warn().Err(err).Msg("could not probe narration duration, using slideshow floor")
		audioDuration = 0
	}
	safeDuration := audioDuration
	if floor := float64(len(in.ImagePaths)) * minImageSeconds; safeDuration < floor {
		safeDuration = floor
	}
	perImage := safeDuration / float64(len(in.ImagePaths))
	if perImage < minImageSeconds {
		perImage = minImageSeconds
	}

	slideshowPath, err := a.buildSlideshow(ctx, in, perImage)
	if err != nil {
		return Output{}, err
	}

	ambientPath, err := a.renderAmbientBed(ctx, in.Workspace, safeDuration)
	if err != nil {
		return Output{}, err
	}

	mixPath := filepath.Join(in.Workspace, "voiceover-mix.mp3")
	mixFilter := fmt.Sprintf(
		"[0:a]volume=1[a0];[1:a]volume=%.2f[a1];[a0][a1]amix=inputs=2:duration=first:dropout_transition=3[aout]",
		a.ambientVolume,
	)
	if err := media.Run(ctx,
		"-y",
		"-i", in.AudioPath,
		"-i", ambientPath,
		"-filter_complex", mixFilter,
		"-map", "[aout]",
		"-c:a", "libmp3lame",
		mixPath,
	); err != nil {
		return Output{}, fmt.Errorf("mix ambient bed: %w", err)
	}

	finalPath := filepath.Join(in.Workspace, "final-video.mp4")
	if err := media.Run(ctx,
		"-y",
		"-i", slideshowPath,
		"-i", mixPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		"-movflags", "+faststart",
		finalPath,
	); err != nil {
		return Output{}, fmt.Errorf("mux video and audio: %w", err)
	}

	return Output{VideoPath: finalPath, AudioMixPath: mixPath, Duration: safeDuration}, nil
}

// buildSlideshow concatenates the stills with the concat demuxer. The last
// frame is repeated without a duration directive so the demuxer holds it
// until the stream ends.
func (a *Assembler) buildSlideshow(ctx context.Context, in Input, perImage float64) (string, error) {
	var entries []string
	for _, imagePath := range in.ImagePaths {
		entries = append(entries, media.ConcatListEntry(imagePath))
		entries = append(entries, fmt.Sprintf("duration %.3f", perImage))
	}
	entries = append(entries, media.ConcatListEntry(in.ImagePaths[len(in.ImagePaths)-1]))

	concatFile := filepath.Join(in.Workspace, "slideshow.txt")
	if err := os.WriteFile(concatFile, []byte(strings.Join(entries, "\n")+"\n"), 0o644); err != nil {
		return "", err
	}

	scaleFilter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,format=yuv420p",
		a.width, a.height, a.width, a.height,
	)

	slideshowPath := filepath.Join(in.Workspace, "slideshow.mp4")
	if err := media.Run(ctx,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", concatFile,
		"-vf", scaleFilter,
		"-r", fmt.Sprintf("%d", a.fps),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		slideshowPath,
	); err != nil {
		return "", fmt.Errorf("build slideshow: %w", err)
	}
	return slideshowPath, nil
}

func (a *Assembler) renderAmbientBed(ctx context.Context, workspace string, duration float64) (string, error) {
	ambientPath := filepath.Join(workspace, "ambient.wav")
	if err := media.Run(ctx,
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anoisesrc=color=pink:duration=%.3f:amplitude=0.08", duration),
		ambientPath,
	); err != nil {
		return "", fmt.Errorf("render ambient bed: %w", err)
	}
	return ambientPath, nil
}
