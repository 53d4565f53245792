// Package client is the HTTP collaborator for the attendance, enrollment and
// cancellation view-models. Authentication is a bearer token supplied by an
// oauth2.TokenSource, which doubles as the session context: a static source
// for fixed tokens, or a refreshing source when the caller has a refresh
// callback.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the API at baseURL. All requests carry a bearer
// token drawn from ts; pass StaticToken for a fixed token.
func New(baseURL string, ts oauth2.TokenSource) *Client {
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 30 * time.Second
	return &Client{baseURL: baseURL, http: httpClient}
}

// StaticToken wraps a fixed bearer token as a TokenSource.
func StaticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}

// ResolveMeeting gets or creates the canonical meeting for (activityID,
// date). Safe to call repeatedly: the server keys meetings on the pair.
func (c *Client) ResolveMeeting(ctx context.Context, activityID uint, date string) (*Meeting, error) {
	body := map[string]any{"activity_id": activityID, "date": date}
	var out Meeting
	if err := c.do(ctx, http.MethodPost, "/meetings/resolve", body, &out); err != nil {
		return nil, err
	}
	for i := range out.Enrolled {
		out.Enrolled[i].normalize()
	}
	for i := range out.Waitlist {
		out.Waitlist[i].normalize()
	}
	return &out, nil
}

// SaveAttendance replaces the meeting's attendance with the full snapshot in
// records. Replacement, not delta, so re-sends and reordering are harmless.
func (c *Client) SaveAttendance(ctx context.Context, meetingID uint, records []RecordInput) error {
	body := map[string]any{"records": records}
	path := fmt.Sprintf("/meetings/%d/attendance", meetingID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// SearchStudents queries the student directory by name or email.
func (c *Client) SearchStudents(ctx context.Context, query string) ([]Student, error) {
	path := "/students/search?q=" + url.QueryEscape(query)
	var out struct {
		Students []Student `json:"students"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Students {
		out.Students[i].normalize()
	}
	return out.Students, nil
}

// QuickCreateStudent creates a minimal student record for a walk-in.
func (c *Client) QuickCreateStudent(ctx context.Context, firstName, lastName, email string) (*Student, error) {
	body := map[string]any{"first_name": firstName, "last_name": lastName, "email": email}
	var out Student
	if err := c.do(ctx, http.MethodPost, "/students/quick-create", body, &out); err != nil {
		return nil, err
	}
	out.normalize()
	return &out, nil
}

// ListStudents fetches the whole active student directory.
func (c *Client) ListStudents(ctx context.Context) ([]Student, error) {
	var out struct {
		Students []Student `json:"students"`
	}
	if err := c.do(ctx, http.MethodGet, "/students", nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Students {
		out.Students[i].normalize()
	}
	return out.Students, nil
}

// FetchActivity loads one activity with its enrolled and waitlist snapshots.
func (c *Client) FetchActivity(ctx context.Context, activityID uint) (*ActivityDetail, error) {
	var out ActivityDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/activities/%d", activityID), nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Students {
		out.Students[i].normalize()
	}
	for i := range out.Waitlist {
		out.Waitlist[i].normalize()
	}
	return &out, nil
}

// ListActivities fetches all open activities with display context.
func (c *Client) ListActivities(ctx context.Context) ([]Activity, error) {
	var out struct {
		Activities []Activity `json:"activities"`
	}
	if err := c.do(ctx, http.MethodGet, "/activities", nil, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

// SaveEnrollment replaces the activity's enrolled and waitlist id lists
// wholesale. The available bucket is never transmitted; it is the
// complement.
func (c *Client) SaveEnrollment(ctx context.Context, activityID uint, enrolled, waitlist []uint) error {
	body := map[string]any{"enrolled": enrolled, "waitlist": waitlist}
	path := fmt.Sprintf("/activities/%d/enrollment", activityID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// ListCancellations queries cancellations within [startDate, endDate],
// optionally scoped to one organization (0 means all).
func (c *Client) ListCancellations(ctx context.Context, startDate, endDate string, organizationID uint) ([]Cancellation, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	if organizationID != 0 {
		q.Set("organization_id", strconv.FormatUint(uint64(organizationID), 10))
	}
	var out struct {
		Cancellations []Cancellation `json:"cancellations"`
	}
	if err := c.do(ctx, http.MethodGet, "/cancellations?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Cancellations, nil
}

// CreateCancellation cancels one activity occurrence on one date.
func (c *Client) CreateCancellation(ctx context.Context, activityID uint, date, reason string) (*Cancellation, error) {
	body := map[string]any{"activity": activityID, "date": date, "reason": reason}
	var out Cancellation
	if err := c.do(ctx, http.MethodPost, "/cancellations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCancellation un-cancels by id.
func (c *Client) DeleteCancellation(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cancellations/%d", id), nil, nil)
}

// UpdateSession edits a session's name, closed flag and dates. Span edits
// that would shrink the session are rejected by the server.
func (c *Client) UpdateSession(ctx context.Context, id uint, name string, closed bool, startDate, endDate string) (*Session, error) {
	body := map[string]any{
		"name":       name,
		"closed":     closed,
		"start_date": startDate,
		"end_date":   endDate,
	}
	var out Session
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/sessions/%d", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %s: %s", resp.Status, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
