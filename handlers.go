package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// app wires the staging list, the merge client and the counters behind
// the HTTP surface.
type app struct {
	staging *Staging
	merge   *MergeClient
	metrics *Metrics
	started time.Time
	verbose bool
}

func newApp(merge *MergeClient, verbose bool) *app {
	return &app{
		staging: NewStaging(),
		merge:   merge,
		metrics: NewMetrics(),
		started: time.Now(),
		verbose: verbose,
	}
}

// routes assembles the mux. The request id middleware sits outermost so
// the access log can report ids.
func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.handleIndex)
	mux.HandleFunc("/api/files", a.handleFiles)
	mux.HandleFunc("/api/files/add", a.handleAdd)
	mux.HandleFunc("/api/files/remove", a.handleRemove)
	mux.HandleFunc("/api/files/clear", a.handleClear)
	mux.HandleFunc("/api/merge", a.handleMerge)
	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/metricsz", a.handleMetrics)

	var h http.Handler = mux
	h = a.withAccessLog(h)
	h = withRequestID(h)
	return h
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeList answers a staging endpoint with the current candidate list.
func (a *app) writeList(w http.ResponseWriter, rejected int) {
	resp := listResponse{Files: a.staging.Files(), Rejected: rejected}
	if rejected > 0 {
		resp.Error = msgOnlyPDF
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.renderIndex(w)
}

func (a *app) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.writeList(w, 0)
}

// handleAdd takes a multipart form and appends its PDF files to the
// list, in form order. Non-PDF parts are dropped and reported so the
// page can show the rejection banner.
func (a *app) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mr, err := r.MultipartReader()
	if err != nil {
		jsonError(w, "multipart form expected", http.StatusBadRequest)
		return
	}

	var batch []StagedFile
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			jsonError(w, "malformed multipart form", http.StatusBadRequest)
			return
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			jsonError(w, "reading upload", http.StatusBadRequest)
			return
		}
		batch = append(batch, StagedFile{
			Name:        clientFilename(part.FileName()),
			ContentType: part.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Data:        data,
		})
	}

	added, rejected := a.staging.Add(batch)
	a.metrics.RecordAdd(added, rejected)
	if a.verbose {
		log.Printf("[stage] rid=%s added=%d rejected=%d listed=%d",
			RequestIDFromContext(r.Context()), added, rejected, a.staging.Len())
	}
	a.writeList(w, rejected)
}

// handleRemove drops the candidate at the given position. A stale index
// is a silent no-op: the reply is simply the current list.
func (a *app) handleRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		jsonError(w, "missing index", http.StatusBadRequest)
		return
	}
	if a.staging.RemoveAt(*req.Index) {
		a.metrics.RecordRemove()
	}
	a.writeList(w, 0)
}

func (a *app) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.staging.Clear()
	a.metrics.RecordClear()
	a.writeList(w, 0)
}

// handleMerge sends the staged files to the merge service and relays the
// merged document back as a download. The list is cleared only after the
// whole document went out; every failure keeps it intact. An empty list
// or a concurrent merge is refused before any network traffic happens.
func (a *app) handleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rid := RequestIDFromContext(r.Context())

	files, err := a.staging.BeginMerge()
	if err != nil {
		switch {
		case errors.Is(err, errMergeInFlight):
			jsonError(w, msgMergeBusy, http.StatusConflict)
		case errors.Is(err, errNoFiles):
			jsonError(w, msgNoFiles, http.StatusBadRequest)
		default:
			jsonError(w, msgMergeFailed, http.StatusInternalServerError)
		}
		return
	}
	defer a.staging.EndMerge()

	var bytesOut int64
	for _, f := range files {
		bytesOut += f.Size
	}
	start := time.Now()

	body, length, err := a.merge.Merge(r.Context(), files)
	if err != nil {
		a.metrics.RecordMergeFailure()
		msg := msgMergeFailed
		var se *ServiceError
		if errors.As(err, &se) && se.Message != "" {
			msg = se.Message
		}
		log.Printf("[merge] rid=%s files=%d failed: %v", rid, len(files), err)
		jsonError(w, msg, http.StatusBadGateway)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", pdfContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+mergedName+`"`)
	if length > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	}
	n, err := io.Copy(w, body)
	if err != nil {
		// Headers are gone already, so no JSON error. The list stays as
		// it was for a retry.
		a.metrics.RecordMergeFailure()
		log.Printf("[merge] rid=%s relay aborted after %d bytes: %v", rid, n, err)
		return
	}

	a.staging.Clear()
	a.metrics.RecordMergeSuccess(bytesOut, n, time.Since(start))
	log.Printf("[merge] rid=%s ok files=%d out=%d in=%d ms=%d",
		rid, len(files), bytesOut, n, time.Since(start).Milliseconds())
}
