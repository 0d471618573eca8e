package dto

type SelectEngineRequest struct {
	Engine string `json:"engine" validate:"required"`
}

type EngineStatusResponse struct {
	Engine    string `json:"engine"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Selected  bool   `json:"selected"`
}

type EngineListResponse struct {
	Engines  []EngineStatusResponse `json:"engines"`
	Selected string                 `json:"selected"`
}
