package main

import "time"

// ======================= CONFIG =======================

const (
	mergeEndpoint = "/api/merge" // path on the merge service
	uploadField   = "files"      // multipart field name, both directions
	mergedName    = "merged.pdf" // filename offered for the merged download

	pdfContentType = "application/pdf"

	// How long the page shows a transient error before it clears itself.
	// Every error path uses the same interval.
	errorBannerTTL = 3 * time.Second

	// Cap on how much of a failure response body is read while looking
	// for an error message.
	maxErrorBody = 256 << 10

	userAgent = "PDFMergerUI/1.0"
)

// User-facing messages. The page script and the JSON API share these.
const (
	msgOnlyPDF     = "Only PDF files are accepted"
	msgMergeFailed = "Failed to merge PDFs"
	msgNoFiles     = "Please select at least one PDF file"
	msgMergeBusy   = "A merge is already in progress"
)

// ======================= DATA TYPES ===================

// StagedFile is one entry of the candidate list: a file the user picked
// or dropped, held in memory until it is merged or removed. Insertion
// order is merge order.
type StagedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// listResponse is returned by every staging endpoint. Rejected and Error
// are only set by an add that dropped non-PDF entries.
type listResponse struct {
	Files    []StagedFile `json:"files"`
	Rejected int          `json:"rejected,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// removeRequest addresses a candidate by its current position. The
// pointer distinguishes a missing index from index 0.
type removeRequest struct {
	Index *int `json:"index"`
}
