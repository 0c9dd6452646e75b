package workstation

import "errors"

var (
	// ErrLoginFailed is returned when the portal rejects the
	// credentials or the post-login dashboard check bounces back to
	// the login page.
	ErrLoginFailed = errors.New("failed to login to the workstation")

	// ErrMalformedRow marks a CSV row that lacks a required field or
	// whose field fails type conversion. The whole row is rejected,
	// never a partial record.
	ErrMalformedRow = errors.New("malformed row")

	// ErrExtraction marks HTML whose expected structure (table,
	// labeled node, link) is absent. It aborts extraction of the one
	// record it occurred in; the caller decides whether to skip it or
	// abort the batch.
	ErrExtraction = errors.New("extraction failed")
)
