package remote

import (
	"context"
	"net/http"

	"github.com/bstanko/liftlog/internal/gym/settings"
)

type settingsRow struct {
	UserID            string `json:"user_id"`
	Theme             string `json:"theme"`
	DefaultWeightUnit string `json:"default_weight_unit"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

// GetSettings returns (nil, nil) when the user has no settings row yet.
func (c *Client) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var rows []settingsRow
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "user_settings",
		query:  "select=*&" + c.userFilter() + "&limit=1",
		out:    &rows,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &settings.Settings{
		Theme:             settings.Theme(rows[0].Theme),
		DefaultWeightUnit: settings.WeightUnit(rows[0].DefaultWeightUnit),
	}, nil
}

// UpsertSettings writes the full settings row, merging on user_id so the
// first call inserts and later calls update.
func (c *Client) UpsertSettings(ctx context.Context, s settings.Settings) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		table:  "user_settings",
		query:  "on_conflict=user_id",
		prefer: "resolution=merge-duplicates",
		body: []settingsRow{{
			UserID:            c.userID,
			Theme:             string(s.Theme),
			DefaultWeightUnit: string(s.DefaultWeightUnit),
			UpdatedAt:         nowTimestamp(),
		}},
	})
}
