package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"videoforge/internal/ideas"
	"videoforge/internal/script"
	"videoforge/internal/video"
	"videoforge/internal/youtube"
)

// Collaborator contracts. The runner drives these as black boxes; every
// implementation lives in its own package and the tests substitute stubs.
type (
	// IdeaSource returns zero or more ideas for an optional locator.
	IdeaSource interface {
		Fetch(ctx context.Context, locator string) ([]ideas.Idea, error)
	}

	// Composer builds the script bundle. Pure, no I/O.
	Composer interface {
		Compose(idea *ideas.Idea, ov script.Overrides) script.Bundle
	}

	// Synthesizer renders narration text to a playable audio file.
	Synthesizer interface {
		Synthesize(ctx context.Context, text, outputDir string) (string, error)
	}

	// ImageFetcher materializes one image per prompt.
	ImageFetcher interface {
		FetchSet(ctx context.Context, prompts []string, outputDir string) ([]string, error)
	}

	// Assembler produces the final video from audio plus imagery.
	Assembler interface {
		Assemble(ctx context.Context, in video.Input) (video.Output, error)
	}

	// ThumbnailRenderer produces the cover image.
	ThumbnailRenderer interface {
		Render(ctx context.Context, heroImagePath, title string, keywords []string, outputDir string) (string, error)
	}

	// Scheduler publishes the video. Soft failures travel in the Outcome;
	// a non-nil error is treated like any other fatal stage failure.
	Scheduler interface {
		Schedule(ctx context.Context, req youtube.Request) (youtube.Outcome, error)
	}

	// WorkspaceProvider allocates the job's scratch directory.
	WorkspaceProvider interface {
		Allocate(jobID string) (string, error)
	}
)

// Runner sequences the six pipeline stages for one job at a time. Each
// Launch spawns an independent run; nothing is shared between runs except
// the store.
type Runner struct {
	store      *Store
	workspaces WorkspaceProvider

	ideaSource IdeaSource
	composer   Composer
	voice      Synthesizer
	imagery    ImageFetcher
	assembler  Assembler
	thumbnails ThumbnailRenderer
	scheduler  Scheduler
}

func NewRunner(
	store *Store,
	workspaces WorkspaceProvider,
	ideaSource IdeaSource,
	composer Composer,
	voice Synthesizer,
	imagery ImageFetcher,
	assembler Assembler,
	thumbnails ThumbnailRenderer,
	scheduler Scheduler,
) *Runner {
	return &Runner{
		store:      store,
		workspaces: workspaces,
		ideaSource: ideaSource,
		composer:   composer,
		voice:      voice,
		imagery:    imagery,
		assembler:  assembler,
		thumbnails: thumbnails,
		scheduler:  scheduler,
	}
}

// runState is the mutable pipeline state threaded through the stages of a
// single run. Each stage reads its inputs from here and writes its outputs
// back for the next one.
type runState struct {
	payload   Payload
	workspace string

	bundle     script.Bundle
	audioPath  string
	imagePaths []string
	assembly   video.Output
	thumbPath  string
	outcome    youtube.Outcome
}

// stage is one descriptor in the fixed pipeline plan: which step it drives,
// the progress note shown while it runs, and the work itself. run returns
// the completed-step summary detail.
type stage struct {
	id      StepID
	running string
	run     func(ctx context.Context, rs *runState) (string, error)
}

func (r *Runner) stages() []stage {
	return []stage{
		{StepIdea, "Fetching ideas and building script", r.runIdea},
		{StepVoiceover, "Synthesizing narration with Google TTS", r.runVoiceover},
		{StepImagery, "Fetching cinematic imagery", r.runImagery},
		{StepVideo, "Assembling slideshow and mixing audio", r.runVideo},
		{StepThumbnail, "Designing thumbnail", r.runThumbnail},
		{StepYoutube, "Uploading to YouTube (if creds present)", r.runYoutube},
	}
}

// Launch starts the pipeline for an already-created job and returns
// immediately. The spawned run owns all of its failures: they end up in
// the job record, never in a panic or an ignored error.
func (r *Runner) Launch(jobID string, payload Payload) {
	go r.run(context.Background(), jobID, payload)
}

func (r *Runner) run(ctx context.Context, jobID string, payload Payload) {
	rs := &runState{payload: payload}
	active := StepID("")

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(jobID, active, fmt.Sprintf("workflow panic: %v", rec))
		}
	}()

	workspaceDir, err := r.workspaces.Allocate(jobID)
	if err != nil {
		r.fail(jobID, active, err.Error())
		return
	}
	rs.workspace = workspaceDir

	r.store.SetStatus(jobID, StatusRunning, "")
	log.Info().Str("job", jobID).Str("workspace", workspaceDir).Msg("workflow started")

	for _, st := range r.stages() {
		active = st.id
		r.store.SetStep(jobID, st.id, StepRunning, st.running)

		detail, err := st.run(ctx, rs)
		if err != nil {
			r.fail(jobID, active, errorMessage(err))
			return
		}

		r.store.SetStep(jobID, st.id, StepDone, detail)
		log.Info().Str("job", jobID).Str("step", string(st.id)).Str("detail", detail).Msg("stage completed")
	}

	r.store.SetResult(jobID, r.buildResult(rs))
	r.store.SetStatus(jobID, StatusCompleted, "")
	log.Info().Str("job", jobID).Msg("workflow completed")
}

// fail marks the active step and the job as failed with the same message.
// When no step has started yet only the job status changes.
func (r *Runner) fail(jobID string, active StepID, message string) {
	if active != "" {
		r.store.SetStep(jobID, active, StepFailed, message)
	}
	r.store.SetStatus(jobID, StatusError, message)
	log.Error().Str("job", jobID).Str("step", string(active)).Str("error", message).Msg("workflow failed")
}

func (r *Runner) runIdea(ctx context.Context, rs *runState) (string, error) {
	list, err := r.ideaSource.Fetch(ctx, rs.payload.SheetURL)
	if err != nil {
		return "", err
	}

	// The requested index is 1-based. Out-of-range values clamp to the
	// nearest valid row; an empty list degrades to no idea at all.
	var idea *ideas.Idea
	if len(list) > 0 {
		idx := clampIndex(rs.payload.SheetRowIndex-1, len(list))
		idea = &list[idx]
	}

	rs.bundle = r.composer.Compose(idea, script.Overrides{
		Script:   rs.payload.StoryScript,
		Title:    rs.payload.CustomTitle,
		Keywords: rs.payload.Keywords,
	})

	wordCount := len(strings.Fields(rs.bundle.Script))
	return fmt.Sprintf("Script ready (%d words)", wordCount), nil
}

func (r *Runner) runVoiceover(ctx context.Context, rs *runState) (string, error) {
	audioPath, err := r.voice.Synthesize(ctx, rs.bundle.Script, rs.workspace)
	if err != nil {
		return "", err
	}
	rs.audioPath = audioPath
	return "Voiceover rendered", nil
}

func (r *Runner) runImagery(ctx context.Context, rs *runState) (string, error) {
	paths, err := r.imagery.FetchSet(ctx, rs.bundle.Prompts, rs.workspace)
	if err != nil {
		return "", err
	}
	rs.imagePaths = paths
	return fmt.Sprintf("%d frames ready", len(paths)), nil
}

func (r *Runner) runVideo(ctx context.Context, rs *runState) (string, error) {
	out, err := r.assembler.Assemble(ctx, video.Input{
		AudioPath:  rs.audioPath,
		ImagePaths: rs.imagePaths,
		Workspace:  rs.workspace,
	})
	if err != nil {
		return "", err
	}
	rs.assembly = out
	return fmt.Sprintf("Final cut synced (%.1fs)", out.Duration), nil
}

func (r *Runner) runThumbnail(ctx context.Context, rs *runState) (string, error) {
	hero := ""
	if len(rs.imagePaths) > 0 {
		hero = rs.imagePaths[0]
	}
	thumbPath, err := r.thumbnails.Render(ctx, hero, rs.bundle.Metadata.Title, rs.bundle.Metadata.Keywords, rs.workspace)
	if err != nil {
		return "", err
	}
	rs.thumbPath = thumbPath
	return "Thumbnail exported", nil
}

// runYoutube completes on either scheduling outcome. Only an error the
// scheduler did not anticipate fails the stage.
func (r *Runner) runYoutube(ctx context.Context, rs *runState) (string, error) {
	outcome, err := r.scheduler.Schedule(ctx, youtube.Request{
		VideoPath:     rs.assembly.VideoPath,
		ThumbnailPath: rs.thumbPath,
		Title:         rs.bundle.Metadata.Title,
		Description:   rs.bundle.Metadata.Description,
		Keywords:      rs.bundle.Metadata.Keywords,
		PublishAt:     rs.payload.PublishAt,
	})
	if err != nil {
		return "", err
	}
	rs.outcome = outcome

	switch {
	case outcome.Success && outcome.VideoID != "":
		return "Scheduled " + outcome.VideoID, nil
	case outcome.Success:
		return "Upload completed", nil
	default:
		return outcome.Reason, nil
	}
}

func (r *Runner) buildResult(rs *runState) *Result {
	metadata := Metadata{
		Title:                rs.bundle.Metadata.Title,
		Keywords:             rs.bundle.Metadata.Keywords,
		Description:          rs.bundle.Metadata.Description,
		ScheduledPublishTime: rs.payload.PublishAt,
	}
	if rs.outcome.Success {
		metadata.YoutubeVideoID = rs.outcome.VideoID
		metadata.YoutubeVideoURL = rs.outcome.VideoURL
	}
	return &Result{
		Script:   rs.bundle.Script,
		Metadata: metadata,
		Artifacts: Artifacts{
			AudioPath:     rs.assembly.AudioMixPath,
			VideoPath:     rs.assembly.VideoPath,
			ThumbnailPath: rs.thumbPath,
		},
	}
}

// clampIndex confines a 0-based index to [0, n-1] for n > 0.
func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "Workflow failed"
	}
	return err.Error()
}
