package workflow

import "time"

// Status is the lifecycle state of a whole job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// StepID identifies one of the six pipeline stages.
type StepID string

const (
	StepIdea      StepID = "idea"
	StepVoiceover StepID = "voiceover"
	StepImagery   StepID = "imagery"
	StepVideo     StepID = "video"
	StepThumbnail StepID = "thumbnail"
	StepYoutube   StepID = "youtube"
)

// StepStatus is the lifecycle state of one step within a job.
type StepStatus string

const (
	StepIdle    StepStatus = "idle"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "completed"
	StepFailed  StepStatus = "error"
)

// Step tracks the progress of a single stage for one job.
type Step struct {
	ID     StepID     `json:"id"`
	Label  string     `json:"label"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
}

// Payload is the start request for a job. All fields are optional.
type Payload struct {
	SheetURL      string `json:"sheetUrl,omitempty"`
	SheetRowIndex int    `json:"sheetRowIndex,omitempty"`
	StoryScript   string `json:"storyScript,omitempty"`
	CustomTitle   string `json:"customTitle,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	PublishAt     string `json:"publishAt,omitempty"`
}

// Metadata is the publish metadata attached to a completed job.
type Metadata struct {
	Title                string   `json:"title"`
	Keywords             []string `json:"keywords"`
	Description          string   `json:"description"`
	ScheduledPublishTime string   `json:"scheduledPublishTime,omitempty"`
	YoutubeVideoID       string   `json:"youtubeVideoId,omitempty"`
	YoutubeVideoURL      string   `json:"youtubeVideoUrl,omitempty"`
}

// Artifacts holds the filesystem paths of the final deliverables.
type Artifacts struct {
	AudioPath     string `json:"audioPath"`
	VideoPath     string `json:"videoPath"`
	ThumbnailPath string `json:"thumbnailPath"`
}

// Result is the output bundle of a successfully completed job.
// It is set exactly once and never mutated afterwards.
type Result struct {
	Script    string    `json:"script"`
	Metadata  Metadata  `json:"metadata"`
	Artifacts Artifacts `json:"artifacts"`
}

// Job is one end-to-end pipeline run. The store owns every Job value;
// everyone else works with snapshot copies.
type Job struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Steps     []Step    `json:"steps"`
	Error     string    `json:"error,omitempty"`
	Result    *Result   `json:"result,omitempty"`
}

// baseSteps is the fixed six-stage plan seeded into every new job.
// Order and identity never change for the lifetime of a job.
var baseSteps = []Step{
	{ID: StepIdea, Label: "Generate Script & Prompts", Status: StepIdle},
	{ID: StepVoiceover, Label: "Voiceover Synthesis", Status: StepIdle},
	{ID: StepImagery, Label: "Image Generation", Status: StepIdle},
	{ID: StepVideo, Label: "Video Assembly", Status: StepIdle},
	{ID: StepThumbnail, Label: "Thumbnail Design", Status: StepIdle},
	{ID: StepYoutube, Label: "YouTube Scheduling", Status: StepIdle},
}
