package discovery

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Column names found in `kubectl api-resources -o wide` headers.
const (
	columnName       = "NAME"
	columnAPIGroup   = "APIGROUP"
	columnAPIVersion = "APIVERSION"
	columnNamespaced = "NAMESPACED"
	columnKind       = "KIND"
	columnVerbs      = "VERBS"
)

var headerColumnRegex = regexp.MustCompile(`[A-Z]+\s*`)

var errUnknownLayout = errors.New("discovery header has no KIND or NAMESPACED column")

// column is a half-open byte range of a fixed-width table. end < 0 means
// the column runs to the end of the line.
type column struct {
	start, end int
}

func (c column) value(line string) string {
	if c.start >= len(line) {
		return ""
	}
	end := c.end
	if end < 0 || end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[c.start:end])
}

// parseHeader locates every column by its position in the header line.
func parseHeader(header string) map[string]column {
	matches := headerColumnRegex.FindAllStringIndex(header, -1)
	columns := make(map[string]column, len(matches))
	for i, m := range matches {
		end := -1
		if i < len(matches)-1 {
			end = matches[i+1][0]
		}
		columns[strings.TrimSpace(header[m[0]:m[1]])] = column{start: m[0], end: end}
	}
	return columns
}

// parseResourceTable parses fixed-width discovery output into kind records.
// The first non-empty line is the header. Rows that do not fit the header's
// shape are skipped; skipped counts how many.
func parseResourceTable(raw string) (resources []ResourceKindInfo, skipped int, err error) {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")

	headerIdx := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, 0, nil
	}

	columns := parseHeader(lines[headerIdx])
	kindCol, hasKind := columns[columnKind]
	namespacedCol, hasNamespaced := columns[columnNamespaced]
	if !hasKind || !hasNamespaced {
		return nil, 0, errUnknownLayout
	}
	verbsCol, hasVerbs := columns[columnVerbs]

	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		kind := kindCol.value(line)
		namespaced, perr := strconv.ParseBool(namespacedCol.value(line))
		if kind == "" || strings.ContainsAny(kind, " \t") || perr != nil {
			skipped++
			continue
		}

		info := ResourceKindInfo{
			Name:  columns[columnName].value(line),
			Kind:  kind,
			Scope: ScopeGlobal,
		}
		if namespaced {
			info.Scope = ScopeNamespaced
		}

		if col, ok := columns[columnAPIVersion]; ok {
			gv, gverr := schema.ParseGroupVersion(col.value(line))
			if gverr != nil || gv.Version == "" {
				skipped++
				continue
			}
			info.APIGroup, info.APIVersion = gv.Group, gv.Version
		} else if col, ok := columns[columnAPIGroup]; ok {
			info.APIGroup = col.value(line)
		}

		if hasVerbs {
			info.Verbs = parseVerbs(verbsCol.value(line))
		}

		resources = append(resources, info)
	}

	return resources, skipped, nil
}

// parseVerbs turns "[get list watch]" or "get,list,watch" into its elements.
func parseVerbs(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	verbs := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if verbs == nil {
		verbs = []string{}
	}
	return verbs
}
