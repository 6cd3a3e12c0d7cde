package pages

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"index2.htm", "index2.htm"},
		{"Releases/c4/subterranean-by-design", "Releases/c4/subterranean-by-design/"},
		{"c4/echo/", "c4/echo/"},
		{"20y20k", "20y20k/"},
		{"other.htm", "other.htm/"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileStem(t *testing.T) {
	if got := FileStem("Releases/c4/echo"); got != "Releases_c4_echo" {
		t.Errorf("FileStem = %q", got)
	}
	if got := FileStem(Sanitize("Releases/c4/echo")); got != "Releases_c4_echo" {
		t.Errorf("FileStem(sanitized) = %q", got)
	}
	if got := FileStem(IndexPage); got != "index2.htm" {
		t.Errorf("FileStem(index) = %q", got)
	}
}

func TestDefault_IndexFirst(t *testing.T) {
	cases := Default()
	if len(cases) != 35 {
		t.Fatalf("Default: got %d cases, want 35", len(cases))
	}
	idx := cases[0]
	if idx.Path != IndexPage || idx.Width != 540 || idx.Height != 22000 || idx.IdleDelay.Milliseconds() != 1200 {
		t.Errorf("index case = %+v", idx)
	}
	if err := Validate(cases); err != nil {
		t.Fatalf("Validate(Default()): %v", err)
	}
}

func TestDefault_ReleasesUnderReleasePrefix(t *testing.T) {
	cases := Default()
	if got := cases[1].Path; got != "Releases/c4/journey-to-the-centre-of-your-mind" {
		t.Errorf("Default()[1].Path = %q", got)
	}
	for _, c := range cases[1:] {
		if !strings.HasPrefix(c.Path, ReleasePrefix) {
			t.Errorf("release case %q lacks %q", c.Path, ReleasePrefix)
		}
	}
	for _, e := range Excluded() {
		if !strings.HasPrefix(e.Path, ReleasePrefix) || e.Reason == "" {
			t.Errorf("exclusion %+v", e)
		}
	}
}

func TestDefault_NoOverlapWithExcluded(t *testing.T) {
	cases := Default()
	active := Active(cases, Excluded())
	if len(active) != len(cases) {
		t.Errorf("built-in list contains excluded pages: %d active of %d", len(active), len(cases))
	}
}

func TestActive_FiltersAndKeepsOrder(t *testing.T) {
	cases := []Case{{Path: "a/1"}, {Path: "b/2"}, {Path: "c/3/"}, {Path: "d/4"}}
	got := Active(cases, []Exclusion{{Path: "b/2/", Reason: "x"}, {Path: "c/3", Reason: "y"}})
	if len(got) != 2 || got[0].Path != "a/1" || got[1].Path != "d/4" {
		t.Errorf("Active = %+v", got)
	}
}

func TestSelect(t *testing.T) {
	cases := []Case{{Path: "a/1"}, {Path: "b/2"}, {Path: IndexPage}}
	if got := Select(cases, nil); len(got) != 3 {
		t.Errorf("Select(nil): got %d", len(got))
	}
	got := Select(cases, []string{"b/2/", IndexPage})
	if len(got) != 2 || got[0].Path != "b/2" || got[1].Path != IndexPage {
		t.Errorf("Select = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]Case{{Path: ""}}); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("empty: got %v", err)
	}
	if err := Validate([]Case{{Path: "a/b"}, {Path: "a/b/"}}); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("duplicate: got %v", err)
	}
	if err := Validate([]Case{{Path: "a/b"}, {Path: "a_b"}}); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("stem collision: got %v", err)
	}
}
