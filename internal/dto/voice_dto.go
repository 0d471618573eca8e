package dto

import "time"

type UpsertVoiceProfileRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=255"`
	SampleText  string `json:"sample_text" validate:"omitempty,max=5000"`
	Calibrated  bool   `json:"calibrated"`
}

type VoiceProfileResponse struct {
	DisplayName string     `json:"display_name"`
	SampleText  string     `json:"sample_text"`
	Calibrated  bool       `json:"calibrated"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
