package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ytget/spotgram/internal/model"
)

// Catalog endpoints and limits
const (
	DefaultAPIBase = "https://api.spotify.com/v1"

	catalogTimeout = 30 * time.Second

	// maxResponseBytes caps catalog response reads
	maxResponseBytes = 4 << 20
)

// Client resolves playlist, album and track links against the catalog.
// All three link shapes go through the single Resolve entry point.
type Client struct {
	apiBase    string
	httpClient *http.Client
}

// NewClient creates a catalog client
func NewClient() *Client {
	return &Client{
		apiBase:    DefaultAPIBase,
		httpClient: &http.Client{Timeout: catalogTimeout},
	}
}

// SetAPIBase overrides the catalog base URL (used in tests)
func (c *Client) SetAPIBase(base string) {
	c.apiBase = base
}

// Resolve turns a submitted link into an ordered batch of tracks. Track
// ordering matches the catalog's native ordering. A single-track link yields
// a batch of size 1 named after the track itself.
func (c *Client) Resolve(ctx context.Context, creds *Credentials, rawLink string) (*model.Batch, error) {
	link, err := ParseLink(rawLink)
	if err != nil {
		return nil, err
	}

	if !creds.Valid() {
		return nil, ErrAuthRequired
	}

	var batch *model.Batch
	switch link.Kind {
	case LinkKindPlaylist:
		batch, err = c.resolvePlaylist(ctx, creds, link.ID)
	case LinkKindAlbum:
		batch, err = c.resolveAlbum(ctx, creds, link.ID)
	case LinkKindTrack:
		batch, err = c.resolveTrack(ctx, creds, link.ID)
	default:
		return nil, ErrUnsupportedLink
	}
	if err != nil {
		return nil, err
	}

	batch.SourceLink = rawLink
	return batch, nil
}

// resolvePlaylist fetches the playlist name and pages through its tracks
func (c *Client) resolvePlaylist(ctx context.Context, creds *Credentials, id string) (*model.Batch, error) {
	body, err := c.get(ctx, creds, fmt.Sprintf("%s/playlists/%s", c.apiBase, id))
	if err != nil {
		return nil, err
	}

	batch := &model.Batch{DisplayName: gjson.GetBytes(body, "name").String()}

	// First page is embedded in the playlist object; follow "next" cursors
	// so playlists longer than one page resolve completely.
	page := gjson.GetBytes(body, "tracks")
	for {
		for _, item := range page.Get("items").Array() {
			track := item.Get("track")
			batch.Tracks = append(batch.Tracks, model.Track{
				Title:  track.Get("name").String(),
				Artist: track.Get("artists.0.name").String(),
			})
		}

		next := page.Get("next").String()
		if next == "" {
			break
		}
		nextBody, err := c.get(ctx, creds, next)
		if err != nil {
			return nil, err
		}
		page = gjson.ParseBytes(nextBody)
	}

	return batch, nil
}

// resolveAlbum fetches the album name and pages through its tracks
func (c *Client) resolveAlbum(ctx context.Context, creds *Credentials, id string) (*model.Batch, error) {
	body, err := c.get(ctx, creds, fmt.Sprintf("%s/albums/%s", c.apiBase, id))
	if err != nil {
		return nil, err
	}

	batch := &model.Batch{DisplayName: gjson.GetBytes(body, "name").String()}

	page := gjson.GetBytes(body, "tracks")
	for {
		for _, item := range page.Get("items").Array() {
			batch.Tracks = append(batch.Tracks, model.Track{
				Title:  item.Get("name").String(),
				Artist: item.Get("artists.0.name").String(),
			})
		}

		next := page.Get("next").String()
		if next == "" {
			break
		}
		nextBody, err := c.get(ctx, creds, next)
		if err != nil {
			return nil, err
		}
		page = gjson.ParseBytes(nextBody)
	}

	return batch, nil
}

// resolveTrack fetches a single track as a batch of size 1
func (c *Client) resolveTrack(ctx context.Context, creds *Credentials, id string) (*model.Batch, error) {
	body, err := c.get(ctx, creds, fmt.Sprintf("%s/tracks/%s", c.apiBase, id))
	if err != nil {
		return nil, err
	}

	track := model.Track{
		Title:  gjson.GetBytes(body, "name").String(),
		Artist: gjson.GetBytes(body, "artists.0.name").String(),
	}

	return &model.Batch{
		DisplayName: track.Title,
		Tracks:      []model.Track{track},
	}, nil
}

// get performs an authorized catalog request and maps HTTP failures onto the
// package error taxonomy.
func (c *Client) get(ctx context.Context, creds *Credentials, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrAuthRequired
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("catalog request failed: status %d: %s",
			resp.StatusCode, gjson.GetBytes(body, "error.message").String())
	}
}

// readBody reads a capped response body
func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}
