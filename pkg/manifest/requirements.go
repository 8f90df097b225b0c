package manifest

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/wheelforge/wheelforge/pkg/util/console"
)

// Requirement represents a single line of a requirements.txt-style build
// manifest. It's not meant to power a full-fledged parser, just the bits that
// matter when the manifest is rewritten with pinned versions.
type Requirement struct {
	Name               string
	Version            string
	EnvironmentAndHash string
	FindLinks          []string
	ExtraIndexURLs     []string

	// Literal is the string value this Requirement was originally parsed from, if any.
	Literal string

	// ParsedFieldsValid indicates whether the Name, Version etc. fields are valid and can
	// be read from. If this is false, then the Literal field should be used.
	ParsedFieldsValid bool

	order int
}

// RequirementLine returns a string representation of the requirement. Find
// links and extra index URLs are not included; they are hoisted to the top of
// the file by FileContent.
func (r Requirement) RequirementLine() string {
	if !r.ParsedFieldsValid {
		return r.Literal
	}

	if r.Name == "" {
		return ""
	}

	fields := []string{r.Name}
	if r.Version != "" {
		fields = append(fields, "==", r.Version)
	}

	if r.EnvironmentAndHash != "" {
		fields = append(fields, " ; ", r.EnvironmentAndHash)
	}

	return strings.Join(fields, "")
}

type Requirements []Requirement

// FileContent renders the manifest back to file form. --find-links and
// --extra-index-url entries are hoisted above the requirement lines, sorted
// for stability.
func (rs Requirements) FileContent() string {
	findLinks := make(map[string]struct{})
	extraIndexURLs := make(map[string]struct{})
	lines := make([]string, 0)

	for _, req := range rs {
		if !req.ParsedFieldsValid {
			continue
		}
		for _, findLink := range req.FindLinks {
			if len(findLink) > 0 {
				findLinks[findLink] = struct{}{}
			}
		}
		for _, extraIndexURL := range req.ExtraIndexURLs {
			if len(extraIndexURL) > 0 {
				extraIndexURLs[extraIndexURL] = struct{}{}
			}
		}
	}

	sortedFindLinks := maps.Keys(findLinks)
	slices.Sort(sortedFindLinks)
	for _, findLink := range sortedFindLinks {
		lines = append(lines, "--find-links "+findLink)
	}

	sortedExtraIndexURLs := maps.Keys(extraIndexURLs)
	slices.Sort(sortedExtraIndexURLs)
	for _, extraIndexURL := range sortedExtraIndexURLs {
		lines = append(lines, "--extra-index-url "+extraIndexURL)
	}

	// Preserve the original line order
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].order < rs[j].order
	})

	for _, req := range rs {
		lines = append(lines, req.RequirementLine())
	}
	return strings.Join(lines, "\n")
}

// Parse attempts to parse each line of a manifest. Lines that can't be parsed
// are passed through as literals.
func Parse(lines []string) Requirements {
	reqs := make(Requirements, 0, len(lines))
	for i, line := range lines {
		req := SplitPinnedRequirement(line)
		if !req.ParsedFieldsValid && strings.TrimSpace(line) != "" {
			console.Debugf("pass-through unparseable requirement - this is usually ok: %s", line)
		}

		// ordering key so order survives deduplication
		req.order = i
		reqs = append(reqs, req)
	}
	return reqs
}

var pinnedPackageRe = regexp.MustCompile(`(?:([a-zA-Z0-9\-_]+)==([^ ]+)|--find-links=([^\s]+)|-f\s+([^\s]+)|--extra-index-url=([^\s]+))`)

// SplitPinnedRequirement returns the name, version, findLinks, and extraIndexURLs from a
// requirements.txt line in the form name==version [--find-links=<findLink>] [-f <findLink>]
// [--extra-index-url=<extraIndexURL>]. If the line could not be parsed, the returned
// Requirement has ParsedFieldsValid set to false. Either way, Literal contains the
// original line.
func SplitPinnedRequirement(line string) (req Requirement) {
	req.Literal = line

	// Anything after the semicolon can contain runtime platform constraints,
	// hashes, etc. It is preserved untouched.
	parts := strings.Split(line, ";")
	requirementAndVersion := strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		req.EnvironmentAndHash = strings.TrimSpace(parts[1])
	}

	matches := pinnedPackageRe.FindAllStringSubmatch(requirementAndVersion, -1)
	if matches == nil {
		return
	}

	nameFound := false
	versionFound := false

	for _, match := range matches {
		if match[1] != "" {
			req.Name = match[1]
			nameFound = true
		}
		if match[2] != "" {
			req.Version = match[2]
			versionFound = true
		}
		if match[3] != "" {
			req.FindLinks = append(req.FindLinks, match[3])
		}
		if match[4] != "" {
			req.FindLinks = append(req.FindLinks, match[4])
		}
		if match[5] != "" {
			req.ExtraIndexURLs = append(req.ExtraIndexURLs, match[5])
		}
	}

	if !nameFound || !versionFound {
		return
	}

	req.ParsedFieldsValid = true
	return
}
