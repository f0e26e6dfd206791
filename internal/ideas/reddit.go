package ideas

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vartanbeno/go-reddit/v2/reddit"
)

// RedditSource mines content ideas from the top posts of a set of
// subreddits. The locator is ignored; subreddits come from config.
type RedditSource struct {
	client       *reddit.Client
	subreddits   []string
	minScore     int
	lookbackDays int
	limit        int
}

func NewRedditSource(subreddits []string, minScore, lookbackDays int) (*RedditSource, error) {
	client, err := newRedditClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &RedditSource{
		client:       client,
		subreddits:   subreddits,
		minScore:     minScore,
		lookbackDays: lookbackDays,
		limit:        25,
	}, nil
}

// newRedditClient prefers script-app credentials from the environment and
// falls back to the read-only client, which is enough for public listings.
func newRedditClient() (*reddit.Client, error) {
	id := os.Getenv("REDDIT_CLIENT_ID")
	secret := os.Getenv("REDDIT_CLIENT_SECRET")
	if id == "" || secret == "" {
		return reddit.NewReadonlyClient()
	}
	return reddit.NewClient(reddit.Credentials{
		ID:       id,
		Secret:   secret,
		Username: os.Getenv("REDDIT_USERNAME"),
		Password: os.Getenv("REDDIT_PASSWORD"),
	})
}

// Fetch returns recent high-scoring posts as idea records. A subreddit that
// fails to list is logged and skipped rather than failing the whole stage.
func (r *RedditSource) Fetch(ctx context.Context, _ string) ([]Idea, error) {
	cutoff := time.Now().AddDate(0, 0, -r.lookbackDays)

	var out []Idea
	for _, sub := range r.subreddits {
		posts, _, err := r.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: r.limit},
			Time:        "week",
		})
		if err != nil {
			log.Warn().Err(err).Str("subreddit", sub).Msg("reddit listing failed")
			continue
		}

		for _, post := range posts {
			if post.Score < r.minScore {
				continue
			}
			if post.Created != nil && post.Created.Before(cutoff) {
				continue
			}
			description := post.Body
			if description == "" {
				description = post.Title
			}
			out = append(out, Idea{
				Title:       post.Title,
				Description: description,
				Tags:        []string{post.SubredditName},
			})
		}
	}

	if len(out) == 0 && len(r.subreddits) > 0 {
		log.Info().Strs("subreddits", r.subreddits).Msg("no reddit ideas matched the filters")
	}
	return out, nil
}
