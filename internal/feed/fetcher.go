package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ecomslots/slotsync/internal/model"
)

// ErrUpstreamFeed marks a slot-feed fetch that failed before the
// batch started: non-2xx status or a body that does not decode.
var ErrUpstreamFeed = errors.New("upstream feed error")

var feedClient = &http.Client{Timeout: 20 * time.Second}

// FetchSlots downloads a pre-built slot feed.  The body is either a
// bare JSON array of slots or an object with a "slots" field.
func FetchSlots(ctx context.Context, url string) ([]model.FeedSlot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFeed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := feedClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFeed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamFeed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFeed, resp.StatusCode)
	}

	var slots []model.FeedSlot
	if err := json.Unmarshal(body, &slots); err == nil {
		return slots, nil
	}
	var wrapped struct {
		Slots []model.FeedSlot `json:"slots"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.Slots == nil {
		return nil, fmt.Errorf("%w: malformed body", ErrUpstreamFeed)
	}
	return wrapped.Slots, nil
}
