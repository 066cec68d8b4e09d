// Package requestid assigns every request a correlation identifier. An
// inbound X-Request-ID is reused when it looks sane, otherwise a fresh UUID
// is generated; the ID is echoed on the response and stored in the context
// for log correlation.
package requestid
