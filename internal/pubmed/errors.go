// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import "fmt"

// UpstreamError reports a transport failure or a non-success status from the
// E-utilities API. Responses that produce it are never cached, and the client
// does not retry; callers decide on retry and backoff.
type UpstreamError struct {
	Endpoint   string // esearch, efetch, or elink
	StatusCode int    // zero when the transport failed before a response
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pubmed %s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("pubmed %s request: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NotFoundError reports that a requested PMID resolved to no records.
type NotFoundError struct {
	PMID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no article found with PMID %s", e.PMID)
}

// ValidationError reports a malformed request, rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
