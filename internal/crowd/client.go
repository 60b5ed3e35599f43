package crowd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/roomnav-dev/roomnav/internal/errors"
)

// Client calls the crowd API over HTTP. Pages use it so they see the
// same readings as any external consumer, whether the API lives in the
// same process or another instance.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the API mounted at base
// (e.g. "http://localhost:3000/api").
func NewClient(base string) *Client {
	return &Client{base: base, http: http.DefaultClient}
}

// RoomStatus is one entry of the catalog listing.
type RoomStatus struct {
	Room
	Level      Level  `json:"level"`
	LevelLabel string `json:"level_label"`
}

// ListRooms fetches the catalog with current readings.
func (c *Client) ListRooms(ctx context.Context) ([]RoomStatus, error) {
	var out []RoomStatus
	if err := c.do(ctx, http.MethodGet, "/rooms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLevel fetches the current reading of one room.
func (c *Client) GetLevel(ctx context.Context, roomID string) (Reading, error) {
	var out Reading
	if err := c.do(ctx, http.MethodGet, "/rooms/"+roomID+"/level", nil, &out); err != nil {
		return Reading{}, err
	}
	return out, nil
}

// PutLevel submits a reading for one room.
func (c *Client) PutLevel(ctx context.Context, roomID string, level Level) (Reading, error) {
	body := struct {
		Level Level `json:"level"`
	}{Level: level}

	var out Reading
	if err := c.do(ctx, http.MethodPut, "/rooms/"+roomID+"/level", body, &out); err != nil {
		return Reading{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap("E502", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.Wrap("E502", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap("E502", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return errors.Newf("E501", "%s %s", method, path)
	case http.StatusUnprocessableEntity:
		return errors.Newf("E503", "%s %s", method, path)
	default:
		return errors.Newf("E502", "%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
}

// Display renders the room as a single "name (level)" label for compact
// listings.
func (rs RoomStatus) Display() string {
	return fmt.Sprintf("%s (%s)", rs.Name, rs.LevelLabel)
}
