package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/commently/comment-service/pkg/logger"
	"github.com/commently/comment-service/pkg/metrics"
)

var (
	// ErrUnknownUser means the identity service answered but did not confirm
	// the user: non-200 status, malformed body or an id mismatch.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnavailable means the identity service could not be reached at all.
	ErrUnavailable = errors.New("user service unavailable")
)

// Verifier confirms that a userId names a known identity.
type Verifier interface {
	Verify(ctx context.Context, userID string) error
}

// Client verifies identities against the remote user service over HTTP:
// GET {base}/{userId}, success iff status 200 and the body's data._id equals
// the requested id. One round-trip per check, no retries.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type userEnvelope struct {
	Data struct {
		ID string `json:"_id"`
	} `json:"data"`
}

func (c *Client) Verify(ctx context.Context, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+userID, nil)
	if err != nil {
		return fmt.Errorf("build user request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IdentityChecks.WithLabelValues("unavailable").Inc()
		logger.Errorf("user service request failed: %v", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.IdentityChecks.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: status %d", ErrUnknownUser, resp.StatusCode)
	}

	var body userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.IdentityChecks.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: decode body: %v", ErrUnknownUser, err)
	}
	if body.Data.ID != userID {
		metrics.IdentityChecks.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: identity mismatch", ErrUnknownUser)
	}

	metrics.IdentityChecks.WithLabelValues("confirmed").Inc()
	return nil
}
