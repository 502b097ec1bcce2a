package logging

import (
	"log/slog"
	"net/netip"
	"regexp"
	"strings"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyNamespace = "namespace"
	KeyCluster   = "cluster"
	KeyCommand   = "command"
	KeyKind      = "kind"
	KeyScope     = "scope"
	KeyAttempt   = "attempt"
	KeyCount     = "count"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const redactedIP = "<redacted-ip>"

// ipv4Regex matches IPv4 addresses for sanitization.
var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// ipv6Candidate matches runs of hex digits and colons, optionally bracketed.
// Only runs that parse as an IPv6 address are redacted, so ports and
// "host:port:" separators survive.
var ipv6Candidate = regexp.MustCompile(`\[?[0-9a-fA-F:]*:[0-9a-fA-F:]*\]?`)

func isIPv6(s string) bool {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if !strings.ContainsAny(s, "0123456789abcdefABCDEF") {
		return false
	}
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is6()
}

func redactIPs(s string) string {
	s = ipv4Regex.ReplaceAllString(s, redactedIP)
	return ipv6Candidate.ReplaceAllStringFunc(s, func(m string) string {
		if isIPv6(m) {
			return redactedIP
		}
		return m
	})
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Namespace returns a slog attribute for the namespace.
func Namespace(ns string) slog.Attr {
	return slog.String(KeyNamespace, ns)
}

// Cluster returns a slog attribute for the cluster context name.
func Cluster(name string) slog.Attr {
	return slog.String(KeyCluster, name)
}

// Command returns a slog attribute for a cluster CLI command line.
func Command(args []string) slog.Attr {
	return slog.String(KeyCommand, strings.Join(args, " "))
}

// Kind returns a slog attribute for a resource kind.
func Kind(kind string) slog.Attr {
	return slog.String(KeyKind, kind)
}

// Scope returns a slog attribute for a resource scope.
func Scope(scope string) slog.Attr {
	return slog.String(KeyScope, scope)
}

// Count returns a slog attribute for a result count.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Attempt returns a slog attribute for a retry attempt number.
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// Duration returns a slog attribute for an elapsed time.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with IP addresses redacted.
// This should be used when logging errors that may contain hostnames or IP addresses
// from Kubernetes API server responses.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, SanitizeHost(err.Error()))
}

// SanitizeHost returns a sanitized version of a host, URL or free-form
// message for logging purposes. IPv4 and IPv6 addresses are redacted,
// hostnames and ports are kept.
//
// Examples:
//   - "https://192.168.1.100:6443" -> "https://<redacted-ip>:6443"
//   - "https://api.cluster.example.com:6443" -> "https://api.cluster.example.com:6443"
//   - "https://[2001:db8::1]:6443" -> "https://<redacted-ip>:6443"
//   - "" -> "<empty>"
func SanitizeHost(host string) string {
	if host == "" {
		return "<empty>"
	}
	return redactIPs(host)
}
