package models

import "testing"

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{CampaignStatusDraft, CampaignStatusActive, true},
		{CampaignStatusActive, CampaignStatusPaused, true},
		{CampaignStatusPaused, CampaignStatusActive, true},

		{CampaignStatusDraft, CampaignStatusPaused, false},
		{CampaignStatusActive, CampaignStatusDraft, false},
		{CampaignStatusPaused, CampaignStatusDraft, false},
		{"nonexistent", CampaignStatusActive, false},
		{CampaignStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCampaignTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestIsValidStageTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{StageInit, StageCampaignCreated, true},
		{StageCampaignCreated, StageAdSetCreated, true},
		{StageAdSetCreated, StagePersisted, true},
		{StagePersisted, StageDone, true},

		// Error reachable from any non-terminal stage
		{StageInit, StageError, true},
		{StageCampaignCreated, StageError, true},
		{StageAdSetCreated, StageError, true},
		{StagePersisted, StageError, true},

		// No skipping
		{StageInit, StageAdSetCreated, false},
		{StageInit, StageDone, false},
		{StageCampaignCreated, StagePersisted, false},

		// Terminal stages
		{StageDone, StageError, false},
		{StageError, StageInit, false},
		{StageError, StageDone, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidStageTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidStageTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllStagesHaveTransitionEntry(t *testing.T) {
	stages := []string{StageInit, StageCampaignCreated, StageAdSetCreated, StagePersisted, StageDone, StageError}
	for _, stage := range stages {
		if _, ok := ValidStageTransitions[stage]; !ok {
			t.Errorf("stage %q missing from ValidStageTransitions map", stage)
		}
	}
}
