package exception

import "errors"

// ErrUnreachable indicates the management port probe failed for an address.
// Terminal for that address within a single crawl run.
var ErrUnreachable = errors.New("host unreachable")

// ErrAuthenticationFailed indicates the device rejected our credentials
var ErrAuthenticationFailed = errors.New("authentication failed")

// ErrPlatformDetectionExhausted indicates every dialect attempt failed
// validation for a device
var ErrPlatformDetectionExhausted = errors.New("platform detection exhausted")

// ErrParseLowConfidence indicates the template parser score was at or below
// the usable threshold. Treated as "no records", not as a failure.
var ErrParseLowConfidence = errors.New("parse confidence too low")

// ErrOperationTimeout indicates the hard per-call deadline was exceeded
var ErrOperationTimeout = errors.New("operation timed out")

// ErrRecordNotFound custom database error for failure to find record
var ErrRecordNotFound = errors.New("record not found")
