package k8s

import "time"

const (
	// Default client-side rate limits for discovery clients.
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30

	// DefaultTimeout bounds each REST request.
	DefaultTimeout = 30 * time.Second
)

// Commands answered by DiscoveryRunner.
const (
	CommandAPIResources = "api-resources"
	CommandAPIVersions  = "api-versions"
)

// resourceTableHeader matches `kubectl api-resources -o wide`.
var resourceTableHeader = []string{"NAME", "SHORTNAMES", "APIVERSION", "NAMESPACED", "KIND", "VERBS", "CATEGORIES"}
