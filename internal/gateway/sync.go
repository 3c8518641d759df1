package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"auraz-storefront/internal/domain"
	"github.com/google/go-querystring/query"
)

type syncQuery struct {
	Endpoint string `url:"endpoint"`
	Since    *int64 `url:"since,omitempty"`
}

func (c *Client) syncCall(ctx context.Context, q syncQuery, out any) error {
	values, err := query.Values(q)
	if err != nil {
		return err
	}
	raw, err := c.do(ctx, http.MethodGet, "/api/sync", values, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// LastSync returns the server clock in Unix milliseconds, or the local clock
// when the server cannot be reached.
func (c *Client) LastSync(ctx context.Context) int64 {
	var res struct {
		Timestamp int64 `json:"timestamp"`
	}
	if err := c.syncCall(ctx, syncQuery{Endpoint: "last"}, &res); err != nil || res.Timestamp == 0 {
		if err != nil {
			c.logger.Printf("gateway: last sync error=%v", err)
		}
		return c.now().UnixMilli()
	}
	return res.Timestamp
}

// CheckUpdates asks whether rows were created after since (Unix ms). Any
// failure reads as "no updates".
func (c *Client) CheckUpdates(ctx context.Context, since int64) domain.SyncStatus {
	var status domain.SyncStatus
	if err := c.syncCall(ctx, syncQuery{Endpoint: "updates", Since: &since}, &status); err != nil {
		c.logger.Printf("gateway: check updates since=%d error=%v", since, err)
		return domain.SyncStatus{HasUpdates: false}
	}
	return status
}
