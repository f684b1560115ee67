package targeting

import (
	"reflect"
	"testing"
)

func TestTransformAges(t *testing.T) {
	tests := []struct {
		demographics string
		ageMin       int
		ageMax       int
	}{
		{"Women aged 25 to 40 in the US", 25, 40},
		{"25-40 year olds", 25, 40},
		{"professionals 30+", 30, 65},
		{"retired people 65+", 65, 65},
		{"young adults", 18, 65},
		{"", 18, 65},
		{"ages 40 to 30 reversed", 18, 65}, // nonsense range -> defaults
		{"18 to 24 students", 18, 24},
	}

	for _, tt := range tests {
		t.Run(tt.demographics, func(t *testing.T) {
			spec := Transform(tt.demographics, nil, Options{})
			if spec.AgeMin != tt.ageMin || spec.AgeMax != tt.ageMax {
				t.Errorf("Transform(%q) ages = %d..%d, want %d..%d",
					tt.demographics, spec.AgeMin, spec.AgeMax, tt.ageMin, tt.ageMax)
			}
		})
	}
}

func TestTransformGenders(t *testing.T) {
	tests := []struct {
		demographics string
		genders      []int
	}{
		{"female entrepreneurs 25 to 40", []int{GenderFemale}},
		{"male gym-goers", []int{GenderMale}},
		{"male and female runners", []int{GenderFemale, GenderMale}},
		{"everyone welcome", []int{GenderFemale, GenderMale}},
		{"females who lift", []int{GenderFemale}},
	}

	for _, tt := range tests {
		t.Run(tt.demographics, func(t *testing.T) {
			spec := Transform(tt.demographics, nil, Options{})
			if !reflect.DeepEqual(spec.Genders, tt.genders) {
				t.Errorf("Transform(%q) genders = %v, want %v", tt.demographics, spec.Genders, tt.genders)
			}
		})
	}
}

func TestTransformGeo(t *testing.T) {
	tests := []struct {
		name           string
		demographics   string
		defaultCountry string
		countries      []string
	}{
		{"explicit usa", "young professionals in the USA", "", []string{"US"}},
		{"canada", "suburban canada families", "", []string{"CA"}},
		{"uk alias", "uk students", "", []string{"GB"}},
		{"australia", "australia surfers", "", []string{"AU"}},
		{"multiple", "people in canada and australia", "", []string{"CA", "AU"}},
		{"unmatched no default", "urban millennials", "", nil},
		{"unmatched with default", "urban millennials", "US", []string{"US"}},
		{"matched ignores default", "canada families", "US", []string{"CA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Transform(tt.demographics, nil, Options{DefaultCountry: tt.defaultCountry})
			if tt.countries == nil {
				if spec.GeoLocations != nil {
					t.Errorf("expected no geo restriction, got %v", spec.GeoLocations)
				}
				return
			}
			if spec.GeoLocations == nil {
				t.Fatalf("expected countries %v, got no geo restriction", tt.countries)
			}
			if !reflect.DeepEqual(spec.GeoLocations.Countries, tt.countries) {
				t.Errorf("countries = %v, want %v", spec.GeoLocations.Countries, tt.countries)
			}
		})
	}
}

func TestTransformInterests(t *testing.T) {
	spec := Transform("anyone", []string{
		"never has time for the gym",
		"struggles with weight despite trying",
		"time pressure at work",
	}, Options{})

	ids := map[string]int{}
	for _, i := range spec.Interests {
		ids[i.ID]++
	}

	// "time" appears in two pain points but the interest must appear once.
	for id, n := range ids {
		if n > 1 {
			t.Errorf("interest %s duplicated %d times", id, n)
		}
	}
	if _, ok := ids["6003384248805"]; !ok {
		t.Error("expected weight loss interest from pain points")
	}
	if _, ok := ids["6003279598823"]; !ok {
		t.Error("expected time management interest from pain points")
	}
}

func TestTransformOverrides(t *testing.T) {
	spec := Transform("female 25 to 40 in canada", []string{"weight"}, Options{
		AgeMin:  21,
		AgeMax:  35,
		Genders: []int{GenderFemale, GenderMale},
		ExtraInterests: []Interest{
			{ID: "6003384248805", Name: "Weight loss"}, // duplicate, must not double
			{ID: "9900000000001", Name: "Custom"},
		},
	})

	if spec.AgeMin != 21 || spec.AgeMax != 35 {
		t.Errorf("override ages = %d..%d, want 21..35", spec.AgeMin, spec.AgeMax)
	}
	if !reflect.DeepEqual(spec.Genders, []int{GenderFemale, GenderMale}) {
		t.Errorf("override genders = %v", spec.Genders)
	}
	if len(spec.Interests) != 2 {
		t.Errorf("interests = %v, want weight loss + custom", spec.Interests)
	}
}

func TestTransformNeverFails(t *testing.T) {
	// Garbage input still yields a conservative, usable spec.
	spec := Transform("@@@###!!! 999", []string{"", "???"}, Options{})
	if spec.AgeMin != DefaultAgeMin || spec.AgeMax != DefaultAgeMax {
		t.Errorf("garbage ages = %d..%d", spec.AgeMin, spec.AgeMax)
	}
	if len(spec.Genders) != 2 {
		t.Errorf("garbage genders = %v", spec.Genders)
	}
}
