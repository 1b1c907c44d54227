package main

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

// The page script is the other half of the UI contract: make sure the
// rendered document carries the pieces the browser behavior depends on.
func TestIndexPage(t *testing.T) {
	a, ts := startApp(t, deadService(t).URL)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	body := string(b)

	for _, want := range []string{
		"<title>PDF Merger</title>",
		"const ERROR_TTL_MS =",
		"3000",
		"zone.contains(e.relatedTarget)",
		`accept="application/pdf"`,
		"merged.pdf",
		msgNoFiles,
		msgMergeFailed,
		a.merge.Base(),
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexPage_UnknownPath(t *testing.T) {
	_, ts := startApp(t, deadService(t).URL)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestIndexPage_MethodGuard(t *testing.T) {
	_, ts := startApp(t, deadService(t).URL)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
