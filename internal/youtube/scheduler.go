// Package youtube schedules the finished video on YouTube via the Data API.
//
// Unlike every other stage, scheduling reports problems through its Outcome
// value rather than an error: a missing credential or a failed upload is a
// soft result the pipeline records and moves past. The error return is
// reserved for failures the scheduler itself did not anticipate.
package youtube

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

const missingCredsReason = "Missing YouTube OAuth credentials. Set YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, YOUTUBE_REFRESH_TOKEN."

// Request carries everything needed to publish one video.
type Request struct {
	VideoPath     string
	ThumbnailPath string
	Title         string
	Description   string
	Keywords      []string
	PublishAt     string
}

// Outcome is the scheduling result. Success=false carries a human-readable
// reason and never fails the job.
type Outcome struct {
	Success  bool
	Reason   string
	VideoID  string
	VideoURL string
}

type Scheduler struct {
	categoryID string
}

func NewScheduler(categoryID string) *Scheduler {
	return &Scheduler{categoryID: categoryID}
}

// Schedule uploads the video as private (with an optional scheduled publish
// time) and sets its thumbnail. All failures fold into the Outcome.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (Outcome, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return Outcome{Success: false, Reason: missingCredsReason}, nil
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtubeapi.YoutubeUploadScope, youtubeapi.YoutubeScope},
	}
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	svc, err := youtubeapi.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
	if err != nil {
		return Outcome{Success: false, Reason: fmt.Sprintf("youtube service: %v", err)}, nil
	}

	video := &youtubeapi.Video{
		Snippet: &youtubeapi.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Keywords,
			CategoryId:  s.categoryID,
		},
		Status: &youtubeapi.VideoStatus{
			PrivacyStatus:           "private",
			SelfDeclaredMadeForKids: false,
		},
	}
	if req.PublishAt != "" {
		video.Status.PublishAt = req.PublishAt
	}

	f, err := os.Open(req.VideoPath)
	if err != nil {
		return Outcome{Success: false, Reason: fmt.Sprintf("open video file: %v", err)}, nil
	}
	defer f.Close()

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.NotifySubscribers(false)
	call.Media(f)

	uploaded, err := call.Context(ctx).Do()
	if err != nil {
		return Outcome{Success: false, Reason: fmt.Sprintf("youtube upload: %v", err)}, nil
	}

	videoID := uploaded.Id
	if videoID != "" && req.ThumbnailPath != "" {
		if err := s.setThumbnail(ctx, svc, videoID, req.ThumbnailPath); err != nil {
			// Video is already uploaded at this point, only log.
			log.Warn().Err(err).Str("video", videoID).Msg("thumbnail set failed")
		}
	}

	outcome := Outcome{Success: true, VideoID: videoID}
	if videoID != "" {
		outcome.VideoURL = "https://youtube.com/watch?v=" + videoID
	}
	log.Info().Str("video", videoID).Str("publishAt", req.PublishAt).Msg("youtube upload complete")
	return outcome, nil
}

func (s *Scheduler) setThumbnail(ctx context.Context, svc *youtubeapi.Service, videoID, thumbnailPath string) error {
	f, err := os.Open(thumbnailPath)
	if err != nil {
		return err
	}
	defer f.Close()

	call := svc.Thumbnails.Set(videoID)
	call.Media(f)
	_, err = call.Context(ctx).Do()
	return err
}
