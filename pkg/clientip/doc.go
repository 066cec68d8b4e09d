// Package clientip resolves the originating client address behind proxies
// and CDNs. The account module keys rate limiting on it, so the resolution
// order matters: trusted proxy headers first, then the socket address.
package clientip
