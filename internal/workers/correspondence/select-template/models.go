// internal/workers/correspondence/select-template/models.go
package selecttemplate

import "correspondence-workers/internal/correspondence"

type Input struct {
	EventType    string                    `json:"eventType,omitempty"`
	TemplateType string                    `json:"templateType,omitempty"`
	GuestCount   correspondence.GuestCount `json:"guestCount,omitzero"`
}

type Output struct {
	SelectedTemplateId string `json:"selectedTemplateId"`
	MatchedRule        string `json:"matchedRule"`
}

// MatchedRule values that are not rule names.
const (
	MatchedExplicit = "explicit"
	MatchedDefault  = "default"
)
