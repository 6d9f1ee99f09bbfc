package sponsorblock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/timeline"
)

// DefaultAPI is the public SponsorBlock endpoint.
const DefaultAPI = "https://sponsor.ajay.app"

const requestTimeout = 15 * time.Second

// Client fetches skip segments from a SponsorBlock server.
type Client struct {
	api    string
	http   *http.Client
	logger zerolog.Logger
}

// NewClient builds a client against the given API base URL. An empty
// base uses the public server.
func NewClient(api string, logger zerolog.Logger) *Client {
	if api == "" {
		api = DefaultAPI
	}
	return &Client{
		api:    strings.TrimRight(api, "/"),
		http:   &http.Client{Timeout: requestTimeout},
		logger: logger,
	}
}

// skipSegment mirrors one element of the skipSegments response.
type skipSegment struct {
	Category string    `json:"category"`
	Segment  []float64 `json:"segment"`
}

// Segments fetches the segments recorded for videoID, filtered to the
// given categories (all categories when empty). Videos the server has
// nothing for, rejects, or refuses (404, 400, 403) yield an empty list
// and no error; transport and server failures come back as errors so
// the caller can log and carry on without segment data. Malformed
// response entries are dropped.
func (c *Client) Segments(ctx context.Context, videoID string, categories []string) ([]timeline.Segment, error) {
	if !ValidVideoID(videoID) {
		c.logger.Debug().Str("video_id", videoID).Msg("not a valid video id, skipping segment lookup")
		return nil, nil
	}
	if len(categories) == 0 {
		categories = AllCategories
	}
	catJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}

	q := url.Values{}
	q.Set("videoID", videoID)
	q.Set("categories", string(catJSON))
	reqURL := c.api + "/api/skipSegments?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sponsorblock request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest, http.StatusForbidden:
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("video_id", videoID).
			Msg("no sponsorblock segments for video")
		return nil, nil
	default:
		return nil, fmt.Errorf("sponsorblock API returned status %d", resp.StatusCode)
	}

	var raw []skipSegment
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode sponsorblock response: %w", err)
	}

	segments := make([]timeline.Segment, 0, len(raw))
	for _, item := range raw {
		if item.Category == "" || len(item.Segment) < 2 {
			continue
		}
		segments = append(segments, timeline.Segment{
			Start:    item.Segment[0],
			End:      item.Segment[1],
			Category: item.Category,
		})
	}
	c.logger.Debug().
		Int("count", len(segments)).
		Str("video_id", videoID).
		Msg("fetched sponsorblock segments")
	return segments, nil
}

// ValidVideoID reports whether s has the shape of a YouTube video ID:
// exactly 11 characters drawn from letters, digits, - and _.
func ValidVideoID(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
