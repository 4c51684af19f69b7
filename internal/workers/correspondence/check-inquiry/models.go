// internal/workers/correspondence/check-inquiry/models.go
package checkinquiry

import "correspondence-workers/internal/correspondence"

type Input struct {
	Inquiry correspondence.InquiryContext `json:"inquiry"`
}

type Output struct {
	MissingFields []string `json:"missingFields"`
	Checklist     []string `json:"checklist"`
	IsComplete    bool     `json:"isComplete"`
	SeatingHint   string   `json:"seatingHint"`
	GuestCount    *int     `json:"guestCount"`
	EventDetails  string   `json:"eventDetails"`
}
