// internal/correspondence/types.go
package correspondence

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// InquiryContext holds the known facts about a prospective event. Every field is optional.
type InquiryContext struct {
	CustomerName string     `json:"customerName,omitempty"`
	CompanyName  string     `json:"companyName,omitempty"`
	EventDate    string     `json:"eventDate,omitempty"`
	GuestCount   GuestCount `json:"guestCount,omitzero"`
	EventType    string     `json:"eventType,omitempty"`
	Room         string     `json:"room,omitempty"`
	TimeWindow   string     `json:"timeWindow,omitempty"`
}

// OfferOption is one proposed configuration of the event.
type OfferOption struct {
	Label       string   `json:"label,omitempty"`
	PackageName string   `json:"packageName,omitempty"`
	GuestCount  int      `json:"guestCount,omitempty"`
	TotalAmount float64  `json:"totalAmount,omitempty"`
	Courses     []Course `json:"courses,omitempty"`
	Drinks      []Drink  `json:"drinks,omitempty"`
}

type Course struct {
	CourseType  string `json:"courseType"`
	CourseLabel string `json:"courseLabel,omitempty"`
	ItemName    string `json:"itemName"`
}

type Drink struct {
	DrinkGroup     string `json:"drinkGroup"`
	DrinkLabel     string `json:"drinkLabel,omitempty"`
	SelectedChoice string `json:"selectedChoice"`
}

// GuestCount keeps the guest count as the form delivered it together with the
// parsed positive integer, if there is one.
type GuestCount struct {
	raw   string
	value int
	valid bool
}

// ParseGuestCount reads the leading integer of s. Anything that does not start
// with a positive integer is kept for display only.
func ParseGuestCount(s string) GuestCount {
	raw := strings.TrimSpace(s)
	g := GuestCount{raw: raw}

	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return g
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil || n <= 0 {
		return g
	}
	g.value = n
	g.valid = true
	return g
}

// GuestCountOf is a convenience for callers that hold a number.
func GuestCountOf(n int) GuestCount {
	return ParseGuestCount(strconv.Itoa(n))
}

// String returns the guest count as supplied, trimmed.
func (g GuestCount) String() string { return g.raw }

// IsSet reports whether any guest count text was supplied.
func (g GuestCount) IsSet() bool { return g.raw != "" }

// Int returns the parsed count and whether it is a positive integer.
func (g GuestCount) Int() (int, bool) { return g.value, g.valid }

func (g *GuestCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = GuestCount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = ParseGuestCount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*g = ParseGuestCount(n.String())
	return nil
}

func (g GuestCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.raw)
}

func (g GuestCount) IsZero() bool { return g.raw == "" }
