package pages

import "time"

// ReleasePrefix is the route segment both sites serve release pages under.
const ReleasePrefix = "Releases/"

// Default returns the built-in active case list. The index page is the
// tallest page on the site and loads embedded players after the network
// goes idle, so it gets its own viewport and settle delay.
func Default() []Case {
	cases := []Case{{
		Path:      IndexPage,
		IdleDelay: 1200 * time.Millisecond,
		Width:     540,
		Height:    22000,
	}}
	for _, dir := range releases {
		cases = append(cases, Case{Path: ReleasePrefix + dir})
	}
	return cases
}

// Excluded returns the built-in set of pages with accepted differences.
func Excluded() []Exclusion {
	out := make([]Exclusion, 0, len(divergent))
	for _, d := range divergent {
		out = append(out, Exclusion{Path: ReleasePrefix + d.dir, Reason: d.reason})
	}
	return out
}

// Release directories, relative to ReleasePrefix, expected to render a near pixel-perfect match.
var releases = []string{
	"c4/journey-to-the-centre-of-your-mind",
	"clockwork-keyboard/clock-soup-for-cooked-airports",
	"overthruster/revursals",
	"the-hardliner/suicide-bag-safely-locked-away",
	"graffiti-mechanism/in-vitro",
	"mono-syntax/echo",
	"thrust-pomp/very-cool-party",
	"stereo-realist/stereo-realist",
	"black-boss/hood-stories",
	"d_ruffnik/hatred",
	"john-geilo/charles-is-in-da-house",
	"sergio-stallone/saldi",
	"origami-repetika/jamboree-train",
	"toxic-chicken/things",
	"q24/vol1",
	"c4/subterranean-by-design",
	"pablo-javier-piacente/profundidad-del-tiempo",
	"karambol-bolno/b0ln0",
	"thrust-pomp/fucker",
	"holorime/2-cig",
	"duality-micro/batteries-low-ep",
	"jkp/film-noir",
	"matri-oxar/tiholaz-playing-the-piano-for-five-minutes",
	"origami-repetika/a-friend-in-space-and-time",
	"kai-nobuko/typical-trip",
	"slowfreq/tunnel",
	"slow-wave-sleep/elogio-della-follia",
	"origami-repetika/wonder-and-suspicion-in-cryptomnesia",
	"mauk-tenieb/esiön",
	"surrogate-sigma/untitled",
	"unseq/subject_xi",
	"origami-repetika/frozen-desert",
	"diobati-tanpa/diobati-tanpa",
	"20y20k",
}

// Release directories whose dev rendering differs on purpose.
var divergent = []struct{ dir, reason string }{
	{"mi-croevkhas/sunhigh-and-trenchlow", "dev has correct durations"},
	{"indu-mezu/noisiki", "dev doesn't render reviews"},
	{"hertzcanary/birds-just-wanna-have-fun-fun-fun", "dev renders header icons and special chars correctly"},
	{"lee-rosevere/symphony-for-monotron", "dev doesn't render Appearance and Related Movement sections"},
	{"hertzcanary/why-do-birds-sing-so-gay", "dev renders header icons and special chars correctly"},
	{"the-hairy-giant/cautionary-adhesive", "dev renders header icons correctly"},
	{"noisesurfer/old-autumn-tales-ep", "dev renders header icons correctly"},
	{"c4/vibe-from-the-korg-electribe", "dev renders header icons correctly"},
	{"sylver-second/glitchy-attitudes", "dev doesn't use custom template"},
	{"hertzcanary/birds-dont-come-easy", "dev doesn't use custom template"},
	{"june-lauren-prescott/hitting-30-for-the-first-time", "dev doesn't use custom template"},
	{"jacker-seppeli/das-isch-no-musig", "dev has correct durations"},
	{"surrogate-sigma/the-monarc", "dev has correct duration; identical jpeg is rendered differently"},
	{"breschniev-and-mech/benchmarked-v2", "dev has correct duration; identical jpeg is rendered differently"},
}
