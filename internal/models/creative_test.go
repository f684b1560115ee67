package models

import "testing"

func TestDecodeAdSize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected AdSize
	}{
		{"well formed", `{"width":1080,"height":1080,"label":"Square"}`, AdSize{1080, 1080, "Square"}},
		{"missing label", `{"width":1080,"height":1920}`, AdSize{1080, 1920, "Landscape"}},
		{"empty", ``, DefaultAdSize},
		{"malformed json", `{"width":"wide"}`, DefaultAdSize},
		{"zero dimensions", `{"width":0,"height":0,"label":"broken"}`, DefaultAdSize},
		{"negative width", `{"width":-5,"height":100}`, DefaultAdSize},
		{"not an object", `"1200x628"`, DefaultAdSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeAdSize([]byte(tt.raw))
			if got != tt.expected {
				t.Errorf("DecodeAdSize(%q) = %+v, want %+v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestDecodeFacebookAdSettings(t *testing.T) {
	got := DecodeFacebookAdSettings([]byte(`{"website_url":"https://example.com","call_to_action":"SIGN_UP"}`))
	if got == nil {
		t.Fatal("expected settings, got nil")
	}
	if got.WebsiteURL != "https://example.com" || got.CallToAction != "SIGN_UP" {
		t.Errorf("unexpected decode result: %+v", got)
	}

	for _, raw := range []string{``, `null`, `{}`, `not json`, `[1,2]`} {
		if s := DecodeFacebookAdSettings([]byte(raw)); s != nil {
			t.Errorf("DecodeFacebookAdSettings(%q) = %+v, want nil", raw, s)
		}
	}
}

func TestFacebookAdSettingsMerge(t *testing.T) {
	base := FacebookAdSettings{
		WebsiteURL:   "https://example.com",
		CallToAction: "LEARN_MORE",
		Language:     "en",
	}

	merged := base.Merge(&FacebookAdSettings{CallToAction: "SHOP_NOW", VisibleLink: "example.com/shop"})
	if merged.CallToAction != "SHOP_NOW" {
		t.Errorf("override not applied: %+v", merged)
	}
	if merged.WebsiteURL != "https://example.com" || merged.Language != "en" {
		t.Errorf("base fields lost: %+v", merged)
	}
	if merged.VisibleLink != "example.com/shop" {
		t.Errorf("new field not applied: %+v", merged)
	}

	if got := base.Merge(nil); got != base {
		t.Errorf("nil override changed settings: %+v", got)
	}
}
