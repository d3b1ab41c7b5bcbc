package model

import "time"

// InboundEmail is a reply pulled from the journal inbox. It is
// transient: constructed per fetched message, discarded after the
// ingestion decision.
type InboundEmail struct {
	// From is the raw From header value, which may be a bare address
	// or the "Display Name <address>" form.
	From string

	// Subject is kept for logging only.
	Subject string

	// Timestamp is the message's Date header converted to UTC. Its
	// date components decide which journal day the reply belongs to.
	Timestamp time.Time

	// Body is the decoded plain-text content of the first MIME
	// subpart, or empty if the message had no subparts.
	Body string
}
