// CLAUDE:SUMMARY Page path rules (trailing-slash sanitization, screenshot file stems) and case filtering by exclusion set.
// Package pages holds the list of release pages compared between the legacy
// site and the development site, and the path rules both sites share.
package pages

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// IndexPage is routed as a file on both sites and is never given a
// trailing slash.
const IndexPage = "index2.htm"

var (
	ErrEmptyPath     = errors.New("pages: empty path")
	ErrDuplicatePath = errors.New("pages: duplicate path")
)

// Case is one comparison: a relative page path and optional overrides.
// Zero values mean "use the comparator defaults".
type Case struct {
	Path      string        `yaml:"path" json:"path"`
	IdleDelay time.Duration `yaml:"idle_delay,omitempty" json:"idle_delay,omitempty"`
	Width     int           `yaml:"width,omitempty" json:"width,omitempty"`
	Height    int           `yaml:"height,omitempty" json:"height,omitempty"`
}

// Exclusion is a page with a known and accepted divergence between the two
// sites. Excluded pages are never compared.
type Exclusion struct {
	Path   string `yaml:"path" json:"path"`
	Reason string `yaml:"reason" json:"reason"`
}

// Sanitize returns the form of p used for navigation on both origins:
// p itself when it already ends in "/" or is the index page, p+"/" otherwise.
func Sanitize(p string) string {
	if p == IndexPage || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// FileStem derives the screenshot file stem from a page path: the
// sanitized path without its trailing slash, every "/" replaced by "_".
func FileStem(p string) string {
	return strings.ReplaceAll(strings.TrimSuffix(Sanitize(p), "/"), "/", "_")
}

// Active returns cases minus every excluded path, in their original order.
func Active(cases []Case, excluded []Exclusion) []Case {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[Sanitize(e.Path)] = true
	}
	out := make([]Case, 0, len(cases))
	for _, c := range cases {
		if skip[Sanitize(c.Path)] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Select keeps only the cases whose path is listed in only. An empty only
// returns cases unchanged. Paths are matched in sanitized form.
func Select(cases []Case, only []string) []Case {
	if len(only) == 0 {
		return cases
	}
	want := make(map[string]bool, len(only))
	for _, p := range only {
		want[Sanitize(p)] = true
	}
	var out []Case
	for _, c := range cases {
		if want[Sanitize(c.Path)] {
			out = append(out, c)
		}
	}
	return out
}

// Validate rejects empty paths and paths sharing a file stem, since two
// such cases would write to the same screenshot files.
func Validate(cases []Case) error {
	seen := make(map[string]string, len(cases))
	for i, c := range cases {
		if c.Path == "" {
			return fmt.Errorf("%w (case %d)", ErrEmptyPath, i)
		}
		stem := FileStem(c.Path)
		if prev, ok := seen[stem]; ok {
			return fmt.Errorf("%w: %s and %s", ErrDuplicatePath, prev, c.Path)
		}
		seen[stem] = c.Path
	}
	return nil
}
