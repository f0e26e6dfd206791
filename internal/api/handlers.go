package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"videoforge/internal/workflow"
)

// mimeByArtifact fixes the content type served for each artifact kind.
var mimeByArtifact = map[string]string{
	"video":     "video/mp4",
	"audio":     "audio/mpeg",
	"thumbnail": "image/jpeg",
}

// Handler exposes the workflow over HTTP: start a job, poll its snapshot,
// download its artifacts.
type Handler struct {
	store  *workflow.Store
	runner *workflow.Runner
}

func NewHandler(store *workflow.Store, runner *workflow.Runner) *Handler {
	return &Handler{store: store, runner: runner}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST("/api/workflow", h.Start)
	e.GET("/api/workflow", h.Get)
	e.GET("/api/workflow/download", h.Download)
}

// Start creates the job and launches the pipeline without waiting on it.
// The only failure a caller can see here is a malformed body; everything
// later surfaces through polling.
func (h *Handler) Start(c echo.Context) error {
	var payload workflow.Payload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}

	job := h.store.Create(payload)
	h.runner.Launch(job.ID, payload)

	log.Info().Str("job", job.ID).Msg("workflow accepted")
	return c.JSON(http.StatusOK, map[string]string{"id": job.ID})
}

// Get returns the current job snapshot.
func (h *Handler) Get(c echo.Context) error {
	jobID := c.QueryParam("id")
	if jobID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing job id"})
	}

	job, ok := h.store.Get(jobID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, job)
}

// Download streams one artifact of a completed job.
func (h *Handler) Download(c echo.Context) error {
	jobID := c.QueryParam("id")
	artifact := c.QueryParam("artifact")
	if jobID == "" || artifact == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing id or artifact"})
	}

	mime, ok := mimeByArtifact[artifact]
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown artifact kind"})
	}

	job, ok := h.store.Get(jobID)
	if !ok || job.Result == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Job has no artifacts"})
	}

	filePath := artifactPath(&job.Result.Artifacts, artifact)
	if filePath == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Artifact not found"})
	}

	f, err := os.Open(filePath)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "File missing"})
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "File missing"})
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentLength, fmt.Sprintf("%d", info.Size()))
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filepath.Base(filePath)))
	return c.Stream(http.StatusOK, mime, f)
}

func artifactPath(artifacts *workflow.Artifacts, kind string) string {
	switch kind {
	case "video":
		return artifacts.VideoPath
	case "audio":
		return artifacts.AudioPath
	case "thumbnail":
		return artifacts.ThumbnailPath
	}
	return ""
}
