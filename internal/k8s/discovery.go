package k8s

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/cli-runtime/pkg/printers"
	"k8s.io/client-go/discovery"

	"github.com/giantswarm/kdeploy/internal/kubectl"
	"github.com/giantswarm/kdeploy/internal/logging"
)

// DiscoveryRunner answers the kubectl discovery commands from the API
// server's discovery endpoints. It renders the same tables kubectl prints,
// so it can stand in for kubectl.Exec wherever only discovery is needed.
type DiscoveryRunner struct {
	client  discovery.DiscoveryInterface
	logger  logging.Logger
	backoff wait.Backoff
}

// NewDiscoveryRunner creates a runner over client.
func NewDiscoveryRunner(client discovery.DiscoveryInterface, logger logging.Logger) *DiscoveryRunner {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &DiscoveryRunner{
		client: client,
		logger: logger,
		backoff: wait.Backoff{
			Duration: 500 * time.Millisecond,
			Factor:   2,
			Jitter:   0.1,
			Cap:      10 * time.Second,
		},
	}
}

// Run implements kubectl.Runner for "api-resources [--namespaced=BOOL]"
// and "api-versions". Any other command fails.
func (r *DiscoveryRunner) Run(ctx context.Context, args []string, opts kubectl.RunOptions) (string, string, kubectl.Status) {
	if len(args) == 0 {
		return "", "no command given", kubectl.Failed(1, fmt.Errorf("no command given"))
	}

	var produce func() (string, error)
	switch args[0] {
	case CommandAPIResources:
		namespaced, err := namespacedFilter(args[1:])
		if err != nil {
			return "", err.Error(), kubectl.Failed(1, err)
		}
		produce = func() (string, error) { return r.apiResources(namespaced) }
	case CommandAPIVersions:
		produce = r.apiVersions
	default:
		err := fmt.Errorf("unsupported discovery command %q", args[0])
		return "", err.Error(), kubectl.Failed(1, err)
	}

	var (
		out     string
		lastErr error
	)
	made, err := kubectl.Retry(ctx, r.backoff, opts.Attempts, func(attempt int) bool {
		out, lastErr = produce()
		if lastErr != nil {
			r.logger.Debug("discovery request failed", logging.Command(args), logging.Attempt(attempt), logging.SanitizedErr(lastErr))
			return false
		}
		return true
	})
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		r.logger.Warn("discovery request gave up", logging.Command(args), "attempts", made, logging.SanitizedErr(lastErr))
		return "", lastErr.Error(), kubectl.Failed(1, lastErr)
	}
	return out, "", kubectl.Succeeded()
}

// namespacedFilter reads an optional --namespaced=BOOL flag.
func namespacedFilter(flags []string) (*bool, error) {
	var namespaced *bool
	for _, f := range flags {
		value, ok := strings.CutPrefix(f, "--namespaced=")
		if !ok {
			return nil, fmt.Errorf("unsupported api-resources flag %q", f)
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --namespaced value %q: %w", value, err)
		}
		namespaced = &b
	}
	return namespaced, nil
}

type resourceRow struct {
	group string
	cells []string
}

func (r *DiscoveryRunner) apiResources(namespaced *bool) (string, error) {
	lists, err := discovery.ServerPreferredResources(r.client)
	if err != nil {
		// Aggregated APIs that are down should not hide the rest.
		if !discovery.IsGroupDiscoveryFailedError(err) || len(lists) == 0 {
			return "", fmt.Errorf("failed to get API resources: %w", err)
		}
		r.logger.Warn("some API groups could not be discovered, continuing with partial results", logging.Err(err))
	}

	var rows []resourceRow
	for _, list := range lists {
		gv, err := schema.ParseGroupVersion(list.GroupVersion)
		if err != nil {
			r.logger.Warn("failed to parse group version", "groupVersion", list.GroupVersion, logging.Err(err))
			continue
		}
		for _, res := range list.APIResources {
			if strings.Contains(res.Name, "/") {
				continue
			}
			if namespaced != nil && res.Namespaced != *namespaced {
				continue
			}
			verbs := append([]string(nil), res.Verbs...)
			sort.Strings(verbs)
			rows = append(rows, resourceRow{
				group: gv.Group,
				cells: []string{
					res.Name,
					strings.Join(res.ShortNames, ","),
					gv.String(),
					strconv.FormatBool(res.Namespaced),
					res.Kind,
					"[" + strings.Join(verbs, " ") + "]",
					strings.Join(res.Categories, ","),
				},
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].group != rows[j].group {
			return rows[i].group < rows[j].group
		}
		return rows[i].cells[0] < rows[j].cells[0]
	})

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, resourceTableHeader)
	for _, row := range rows {
		cells = append(cells, row.cells)
	}
	return renderTable(cells)
}

func (r *DiscoveryRunner) apiVersions() (string, error) {
	groups, err := r.client.ServerGroups()
	if err != nil {
		return "", fmt.Errorf("failed to get API groups: %w", err)
	}
	versions := metav1.ExtractGroupVersions(groups)
	sort.Strings(versions)

	var b strings.Builder
	for _, v := range versions {
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// renderTable aligns rows the way kubectl does.
func renderTable(rows [][]string) (string, error) {
	var b strings.Builder
	w := printers.GetNewTabWriter(&b)
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}
