package index

import (
	"fmt"
	"regexp"
	"strings"
)

// Wheel is the metadata carried by a wheel filename:
// name-version(-build)?-python-abi-platform.whl
type Wheel struct {
	Filename    string
	Name        string
	Version     string
	PythonTag   string
	ABITag      string
	PlatformTag string
}

var projectNameSeparatorRe = regexp.MustCompile(`[-_.]+`)

// NormalizeProjectName lowercases a distribution name and collapses runs of
// "-", "_" and "." into a single dash, the canonical form package indexes
// compare names in.
func NormalizeProjectName(name string) string {
	return strings.ToLower(projectNameSeparatorRe.ReplaceAllString(name, "-"))
}

// ParseWheelFilename splits a wheel filename into its tagged components.
func ParseWheelFilename(filename string) (*Wheel, error) {
	stem, ok := strings.CutSuffix(filename, ".whl")
	if !ok {
		return nil, fmt.Errorf("%s is not a wheel filename", filename)
	}

	parts := strings.Split(stem, "-")
	if len(parts) < 5 || len(parts) > 6 {
		return nil, fmt.Errorf("Wheel filename %s must have 5 or 6 dash-separated fields", filename)
	}

	// An optional build tag sits between the version and the python tag.
	return &Wheel{
		Filename:    filename,
		Name:        parts[0],
		Version:     parts[1],
		PythonTag:   parts[len(parts)-3],
		ABITag:      parts[len(parts)-2],
		PlatformTag: parts[len(parts)-1],
	}, nil
}
