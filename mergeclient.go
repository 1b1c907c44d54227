package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ServiceError is a failure reported by the merge service itself: an
// HTTP error status plus whatever message could be dug out of the
// response body.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("merge service: http %d: %s", e.Status, e.Message)
}

// MergeClient talks to the remote merge service. One instance, one base
// URL, configured at startup.
type MergeClient struct {
	base  string
	httpc *http.Client
}

// NewMergeClient validates the service base URL. Only absolute http or
// https URLs are accepted; a trailing slash is trimmed so endpoint paths
// join cleanly.
func NewMergeClient(base string) (*MergeClient, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("service url %q: %w", base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("service url %q: need absolute http(s) URL", base)
	}
	return &MergeClient{
		base: strings.TrimRight(u.String(), "/"),
		// No client timeout: merges of large batches can be slow, and
		// cancellation rides on the request context instead.
		httpc: &http.Client{},
	}, nil
}

func (c *MergeClient) Base() string { return c.base }

// Merge streams the staged files to the service as one multipart POST,
// every file under the same field name, in list order. On success the
// caller receives the merged PDF body and must close it. On an HTTP
// error status the returned error is a *ServiceError carrying the
// message extracted from the response.
func (c *MergeClient) Merge(ctx context.Context, files []StagedFile) (io.ReadCloser, int64, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeParts(mw, files)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+mergeEndpoint, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("merge request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serviceMessage(resp)
		resp.Body.Close()
		return nil, 0, &ServiceError{Status: resp.StatusCode, Message: msg}
	}
	return resp.Body, resp.ContentLength, nil
}

// Ping checks that the service answers at all. Any HTTP response counts;
// only transport failures are errors.
func (c *MergeClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()
	return nil
}

func writeParts(mw *multipart.Writer, files []StagedFile) error {
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadField, escapeQuotes(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = pdfContentType
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Data); err != nil {
			return err
		}
	}
	return nil
}

// serviceMessage pulls a human-readable error out of a failure response.
// JSON bodies are expected to carry {"error": "..."}; HTML error pages
// get scraped for a heading or title. Anything else falls back to the
// generic message.
func serviceMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return msgMergeFailed
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return msgMergeFailed
	}

	if trimmed[0] == '{' {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(trimmed, &e) == nil && strings.TrimSpace(e.Error) != "" {
			return strings.TrimSpace(e.Error)
		}
	}

	if looksLikeHTML(resp.Header.Get("Content-Type")) {
		if msg := messageFromHTML(bytes.NewReader(trimmed)); msg != "" {
			return msg
		}
	}
	return msgMergeFailed
}

// messageFromHTML takes the first non-empty heading, title or paragraph
// of an error page. Whitespace is collapsed and long text clipped.
func messageFromHTML(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}
	for _, sel := range []string{"h1", "title", "p"} {
		text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " ")
		if text != "" {
			if len(text) > 160 {
				text = text[:160]
			}
			return text
		}
	}
	return ""
}
