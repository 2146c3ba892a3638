package fetch

import "errors"

// Fetch errors.
// Per-URL fetch errors are contained at the worker level; none of these
// ever aborts a crawl. Only ErrInvalidProxyAddress is configuration-time
// and therefore fatal.
var (
	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is
	// not in "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port format")

	// ErrHTTPStatus is returned when the server answered with a non-2xx
	// status. The crawler treats this the same as a transport failure:
	// the URL is rejected and never retried.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)
