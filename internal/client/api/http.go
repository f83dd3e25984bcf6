package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/netx"
)

// HTTPClient talks JSON (and multipart for uploads) to the inspection API.
type HTTPClient struct {
	base string
	hc   *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// envelope is the common response wrapper. The server answers ok:true for
// both "inserted" and "already present"; the client never distinguishes.
type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var env envelope
	return c.getJSON(ctx, "/api/ping", nil, &env)
}

func (c *HTTPClient) StartSession(ctx context.Context, sessionID, code, employeeID string) (*StartResult, error) {
	body := map[string]string{"sessionId": sessionID, "code": code, "employeeId": employeeID}
	var out struct {
		envelope
		StartResult
	}
	if err := c.postJSON(ctx, "/api/inspections/start", body, &out); err != nil {
		return nil, err
	}
	return &out.StartResult, nil
}

func (c *HTTPClient) UpsertSession(ctx context.Context, body json.RawMessage) error {
	var env envelope
	return c.postJSON(ctx, "/api/inspections", body, &env)
}

func (c *HTTPClient) UpsertPhotoFolder(ctx context.Context, sessionID, kind, folderURL string) error {
	body := map[string]string{"sessionId": sessionID, "kind": kind, "folderUrl": folderURL}
	var env envelope
	return c.postJSON(ctx, "/api/inspections/photos", body, &env)
}

func (c *HTTPClient) UploadPhoto(ctx context.Context, sessionID, kind, filename string, content []byte) (string, error) {
	fields := map[string]string{"sessionId": sessionID, "kind": kind}
	resp, err := netx.PostMultipart(ctx, c.hc, c.base+"/api/photos/upload", fields, filename, content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTransient, err)
	}
	defer netx.DrainAndClose(resp.Body)

	var out struct {
		envelope
		FolderURL string `json:"folderUrl"`
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	return out.FolderURL, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, sessionID string) (*RemoteSession, error) {
	var out struct {
		envelope
		RemoteSession
	}
	if err := c.getJSON(ctx, "/api/inspections/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out.RemoteSession, nil
}

func (c *HTTPClient) Finalize(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error) {
	var out struct {
		envelope
		FinalizeResult
	}
	path := "/api/inspections/" + url.PathEscape(req.SessionID) + "/finalize"
	if err := c.postJSON(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out.FinalizeResult, nil
}

func (c *HTTPClient) ResolveQR(ctx context.Context, code string) (*Unit, error) {
	var out struct {
		envelope
		Unit Unit `json:"unit"`
	}
	q := url.Values{"code": {code}}
	if err := c.getJSON(ctx, "/api/qr/resolve", q, &out); err != nil {
		return nil, err
	}
	return &out.Unit, nil
}

func (c *HTTPClient) VerifyEmployee(ctx context.Context, employeeID string) (*Employee, string, error) {
	body := map[string]string{"employeeId": employeeID}
	var out struct {
		envelope
		Employee Employee `json:"employee"`
		Token    string   `json:"verifiedToken"`
	}
	if err := c.postJSON(ctx, "/api/employees/verify", body, &out); err != nil {
		return nil, "", err
	}
	return &out.Employee, out.Token, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body any, out any) error {
	var buf []byte
	switch b := body.(type) {
	case json.RawMessage:
		buf = b
	default:
		var err error
		buf, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransient, err)
	}
	defer netx.DrainAndClose(resp.Body)
	return decode(resp, out)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransient, err)
	}
	defer netx.DrainAndClose(resp.Body)
	return decode(resp, out)
}

// decode classifies the response per the retry taxonomy: 4xx means the
// payload can never succeed (validation), anything else non-OK is transient.
func decode(resp *http.Response, out any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", common.ErrTransient, err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Not-found stays distinguishable for read paths; for delivery it
		// is still terminal.
		return fmt.Errorf("%w: %w: %s", common.ErrValidation, common.ErrNotFound, env.Error)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s (HTTP %d)", common.ErrValidation, env.Error, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s (HTTP %d)", common.ErrTransient, env.Error, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", common.ErrTransient, err)
		}
	}
	// ok:false with a 2xx status is a server-reported rejection.
	if !env.OK {
		return fmt.Errorf("%w: %s", common.ErrValidation, env.Error)
	}
	return nil
}
