// Package targeting converts free-text audience demographics and pain points
// into a structured Facebook targeting spec. Parsing is best effort: the
// transformer never fails, it defaults conservatively when text is
// unparseable.
//
// Known limitation: the pain-point keyword table maps to placeholder interest
// IDs. They follow the Facebook taxonomy ID format but are not guaranteed to
// be valid live taxonomy entries; the ads API is the final authority.
package targeting

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultAgeMin = 18
	DefaultAgeMax = 65

	// Facebook gender codes as used by the adset targeting field.
	GenderFemale = 1
	GenderMale   = 2
)

type Interest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GeoLocations struct {
	Countries []string `json:"countries"`
}

// Spec is the targeting payload attached to an ad set.
type Spec struct {
	AgeMin       int           `json:"age_min"`
	AgeMax       int           `json:"age_max"`
	Genders      []int         `json:"genders"`
	GeoLocations *GeoLocations `json:"geo_locations,omitempty"`
	Interests    []Interest    `json:"interests,omitempty"`
}

// Options carries per-call-site overrides. The zero value means "derive
// everything from the text, no geo fallback".
type Options struct {
	// DefaultCountry is applied when no country is recognised in the text.
	// Empty means no geo restriction.
	DefaultCountry string
	// AgeMin/AgeMax override the parsed range when both are > 0.
	AgeMin int
	AgeMax int
	// Genders overrides the parsed genders when non-empty.
	Genders []int
	// ExtraInterests are appended (deduplicated by ID) after keyword matching.
	ExtraInterests []Interest
}

var (
	ageRangeRe = regexp.MustCompile(`(\d{1,2})\s*(?:to|-|–)\s*(\d{1,2})`)
	agePlusRe  = regexp.MustCompile(`(\d{1,2})\s*\+`)
)

// countryAliases maps lowercase substrings to ISO country codes. Small and
// fixed on purpose; unmatched text yields no geo restriction (or the
// caller's DefaultCountry).
var countryAliases = []struct {
	alias string
	code  string
}{
	{"united states", "US"},
	{"usa", "US"},
	{"america", "US"},
	{"canada", "CA"},
	{"united kingdom", "GB"},
	{"uk", "GB"},
	{"britain", "GB"},
	{"australia", "AU"},
}

// interestKeywords maps pain-point keywords to interest entries. IDs are
// placeholders in taxonomy format, see the package comment.
var interestKeywords = []struct {
	keyword  string
	interest Interest
}{
	{"weight", Interest{ID: "6003384248805", Name: "Weight loss"}},
	{"fitness", Interest{ID: "6003107902433", Name: "Physical fitness"}},
	{"time", Interest{ID: "6003279598823", Name: "Time management"}},
	{"productivity", Interest{ID: "6003279598823", Name: "Time management"}},
	{"money", Interest{ID: "6002884511422", Name: "Personal finance"}},
	{"budget", Interest{ID: "6002884511422", Name: "Personal finance"}},
	{"stress", Interest{ID: "6003648059946", Name: "Stress management"}},
	{"anxiety", Interest{ID: "6003648059946", Name: "Stress management"}},
	{"sleep", Interest{ID: "6003648059997", Name: "Sleep"}},
	{"skin", Interest{ID: "6003244295567", Name: "Skin care"}},
	{"career", Interest{ID: "6004160395895", Name: "Career development"}},
	{"business", Interest{ID: "6003402305839", Name: "Small business"}},
	{"marketing", Interest{ID: "6003127206524", Name: "Digital marketing"}},
	{"cooking", Interest{ID: "6003397425735", Name: "Cooking"}},
	{"food", Interest{ID: "6003397425735", Name: "Cooking"}},
	{"parent", Interest{ID: "6002991239659", Name: "Parenting"}},
	{"kids", Interest{ID: "6002991239659", Name: "Parenting"}},
	{"travel", Interest{ID: "6003109205301", Name: "Travel"}},
}

// Transform builds a targeting spec from free-text demographics and pain
// points. It always returns a usable spec.
func Transform(demographics string, painPoints []string, opts Options) Spec {
	text := strings.ToLower(demographics)

	spec := Spec{
		AgeMin:  DefaultAgeMin,
		AgeMax:  DefaultAgeMax,
		Genders: []int{GenderFemale, GenderMale},
	}

	parseAges(text, &spec)
	parseGenders(text, &spec)
	parseGeo(text, opts.DefaultCountry, &spec)
	spec.Interests = matchInterests(painPoints, opts.ExtraInterests)

	if opts.AgeMin > 0 && opts.AgeMax > 0 {
		spec.AgeMin = opts.AgeMin
		spec.AgeMax = opts.AgeMax
	}
	if len(opts.Genders) > 0 {
		spec.Genders = opts.Genders
	}

	return spec
}

func parseAges(text string, spec *Spec) {
	if m := ageRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > 0 && hi >= lo {
			spec.AgeMin = lo
			spec.AgeMax = hi
		}
		return
	}
	if m := agePlusRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		if lo > 0 {
			spec.AgeMin = lo
			spec.AgeMax = DefaultAgeMax
		}
	}
}

func parseGenders(text string, spec *Spec) {
	// "female" contains "male", so check for a standalone "male" mention.
	hasFemale := strings.Contains(text, "female")
	hasMale := strings.Contains(strings.ReplaceAll(text, "female", ""), "male")

	switch {
	case hasFemale && !hasMale:
		spec.Genders = []int{GenderFemale}
	case hasMale && !hasFemale:
		spec.Genders = []int{GenderMale}
	}
}

func parseGeo(text, defaultCountry string, spec *Spec) {
	seen := map[string]bool{}
	var countries []string
	for _, ca := range countryAliases {
		if strings.Contains(text, ca.alias) && !seen[ca.code] {
			seen[ca.code] = true
			countries = append(countries, ca.code)
		}
	}
	if len(countries) == 0 && defaultCountry != "" {
		countries = []string{defaultCountry}
	}
	if len(countries) > 0 {
		spec.GeoLocations = &GeoLocations{Countries: countries}
	}
}

func matchInterests(painPoints []string, extra []Interest) []Interest {
	seen := map[string]bool{}
	var out []Interest
	for _, p := range painPoints {
		lp := strings.ToLower(p)
		for _, kw := range interestKeywords {
			if strings.Contains(lp, kw.keyword) && !seen[kw.interest.ID] {
				seen[kw.interest.ID] = true
				out = append(out, kw.interest)
			}
		}
	}
	for _, i := range extra {
		if i.ID != "" && !seen[i.ID] {
			seen[i.ID] = true
			out = append(out, i)
		}
	}
	return out
}
