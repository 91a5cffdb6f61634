package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// MyIssues lists the authenticated user's own issue reports.
func (c *Client) MyIssues(ctx context.Context) ([]Issue, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/users/me/issues", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]Issue](env)
}

// MyReposts lists the authenticated user's reposts.
func (c *Client) MyReposts(ctx context.Context) ([]Repost, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/users/me/reposts", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]Repost](env)
}

// Issues lists community issues, newest first.
func (c *Client) Issues(ctx context.Context) ([]Issue, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/issues", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]Issue](env)
}

// CreateIssueParams carries a new geotagged report with optional media.
type CreateIssueParams struct {
	Title       string
	Description string
	Category    string
	Latitude    float64
	Longitude   float64
	Media       *FileUpload
}

// CreateIssue submits a new report as multipart form data.
func (c *Client) CreateIssue(ctx context.Context, params CreateIssueParams) (Issue, error) {
	fields := map[string]string{
		"title":       params.Title,
		"description": params.Description,
		"category":    params.Category,
		"latitude":    strconv.FormatFloat(params.Latitude, 'f', -1, 64),
		"longitude":   strconv.FormatFloat(params.Longitude, 'f', -1, 64),
	}
	files := map[string]FileUpload{}
	if params.Media != nil {
		files["media"] = *params.Media
	}

	env, err := c.doMultipart(ctx, http.MethodPost, "/issues", fields, files)
	if err != nil {
		return Issue{}, err
	}
	return decodeData[Issue](env)
}

// Vote toggles the user's vote on an issue and returns the new vote count.
func (c *Client) Vote(ctx context.Context, issueID uuid.UUID) (int, error) {
	env, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/issues/%s/vote", issueID), nil)
	if err != nil {
		return 0, err
	}
	type voteResult struct {
		Votes int `json:"votes"`
	}
	res, err := decodeData[voteResult](env)
	if err != nil {
		return 0, err
	}
	return res.Votes, nil
}

// Comment posts a comment on an issue.
func (c *Client) Comment(ctx context.Context, issueID uuid.UUID, body string) (Comment, error) {
	env, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/issues/%s/comments", issueID), map[string]string{
		"body": body,
	})
	if err != nil {
		return Comment{}, err
	}
	return decodeData[Comment](env)
}

// Repost shares an issue to the user's own feed.
func (c *Client) Repost(ctx context.Context, issueID uuid.UUID) (Repost, error) {
	env, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/issues/%s/repost", issueID), nil)
	if err != nil {
		return Repost{}, err
	}
	return decodeData[Repost](env)
}
