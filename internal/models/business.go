package models

import "encoding/json"

// BusinessIdea is generated once per project and never mutated afterwards.
type BusinessIdea struct {
	Description      string `json:"description"`
	ValueProposition string `json:"valueProposition"`
}

// TargetAudience is the audience selected for a project. Demographics is
// free text and only interpreted by the targeting transformer.
type TargetAudience struct {
	Name              string   `json:"name"`
	Demographics      string   `json:"demographics"`
	PainPoints        []string `json:"painPoints"`
	Interests         []string `json:"interests,omitempty"`
	CoreMessage       string   `json:"coreMessage"`
	MarketingAngle    string   `json:"marketingAngle"`
	MessagingApproach string   `json:"messagingApproach"`
	MarketingChannels []string `json:"marketingChannels"`
}

// DecodeBusinessIdea parses a stored jsonb value. Malformed input yields a
// zero idea rather than propagating untyped data.
func DecodeBusinessIdea(raw []byte) BusinessIdea {
	var b BusinessIdea
	if len(raw) == 0 {
		return b
	}
	_ = json.Unmarshal(raw, &b)
	return b
}

// DecodeTargetAudience parses a stored jsonb value, defaulting on malformed
// input.
func DecodeTargetAudience(raw []byte) TargetAudience {
	var a TargetAudience
	if len(raw) == 0 {
		return a
	}
	_ = json.Unmarshal(raw, &a)
	return a
}
