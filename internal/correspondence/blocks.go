// internal/correspondence/blocks.go
package correspondence

import (
	"strconv"
	"strings"
)

const (
	defaultEventType     = "event"
	collectiveSalutation = "Sir or Madam"
)

// Checklist items that can never be inferred from an inquiry.
var fixedChecklistItems = []string{
	"preferred catering format",
	"technical requirements",
	"desired branding/styling",
}

// Facts an inquiry can be missing, in checklist order.
const (
	MissingEventDate  = "eventDate"
	MissingGuestCount = "guestCount"
	MissingEventType  = "eventType"
)

var missingFactLabels = map[string]string{
	MissingEventDate:  "preferred date and time window",
	MissingGuestCount: "planned guest count",
	MissingEventType:  "type of event",
}

// clean trims and collapses inner whitespace runs to a single space.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BuildSalutation greets the customer by name, then by company, then formally.
func BuildSalutation(ctx InquiryContext) string {
	if name := clean(ctx.CustomerName); name != "" {
		return "Dear " + name + ","
	}
	if company := clean(ctx.CompanyName); company != "" {
		return "Dear " + company + " team,"
	}
	return "Dear " + collectiveSalutation + ","
}

// BuildEventDetailsSentence describes the event with whatever facts are known,
// down to "for your event" when nothing is.
func (e *Engine) BuildEventDetailsSentence(ctx InquiryContext) string {
	eventType := clean(ctx.EventType)
	if eventType == "" {
		eventType = defaultEventType
	}
	clauses := []string{"for your " + eventType}

	if date := clean(ctx.EventDate); date != "" {
		clauses = append(clauses, "on "+clean(e.formatter.FormatDate(date)))
	}
	if window := clean(ctx.TimeWindow); window != "" {
		clauses = append(clauses, "at "+window+" o'clock")
	}
	if n, ok := ctx.GuestCount.Int(); ok {
		clauses = append(clauses, "for "+strconv.Itoa(n)+" guests")
	} else if guests := clean(ctx.GuestCount.String()); guests != "" {
		clauses = append(clauses, "for "+guests+" guests")
	}
	if room := clean(ctx.Room); room != "" {
		clauses = append(clauses, "in the "+room)
	}
	return strings.Join(clauses, " ")
}

// BuildSeatingHint proposes a table layout for the guest count. The cutoffs
// at 12 and 24 guests follow the restaurant's table plan.
func BuildSeatingHint(ctx InquiryContext) string {
	n, ok := ctx.GuestCount.Int()
	if !ok {
		return ""
	}
	switch {
	case n <= 12:
		return "a single long shared table"
	case n <= 24:
		return "two long tables side by side"
	default:
		return "several tables"
	}
}

// MissingFacts lists which inferable inquiry fields are absent.
func MissingFacts(ctx InquiryContext) []string {
	var missing []string
	if clean(ctx.EventDate) == "" {
		missing = append(missing, MissingEventDate)
	}
	if !ctx.GuestCount.IsSet() {
		missing = append(missing, MissingGuestCount)
	}
	if clean(ctx.EventType) == "" {
		missing = append(missing, MissingEventType)
	}
	return missing
}

// MissingInfoItems returns the checklist entries: the missing facts followed
// by the items a sales conversation always has to settle.
func MissingInfoItems(ctx InquiryContext) []string {
	missing := MissingFacts(ctx)
	items := make([]string, 0, len(missing)+len(fixedChecklistItems))
	for _, fact := range missing {
		items = append(items, missingFactLabels[fact])
	}
	return append(items, fixedChecklistItems...)
}

// BuildMissingInfoChecklist renders MissingInfoItems as a dash list.
func BuildMissingInfoChecklist(ctx InquiryContext) string {
	items := MissingInfoItems(ctx)
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// BuildSignatureBlock renders the configured closing, contacts and postal block.
func (e *Engine) BuildSignatureBlock() string {
	sig := e.settings.Signature

	var head []string
	if closing := strings.TrimSpace(sig.Closing); closing != "" {
		head = append(head, closing)
	}
	var team []string
	if name := strings.TrimSpace(sig.TeamName); name != "" {
		team = append(team, name)
	}
	for _, c := range sig.Contacts {
		if line := contactLine(c); line != "" {
			team = append(team, line)
		}
	}

	var postal []string
	if company := strings.TrimSpace(sig.CompanyName); company != "" {
		postal = append(postal, company)
	}
	for _, line := range sig.AddressLines {
		if line = strings.TrimSpace(line); line != "" {
			postal = append(postal, line)
		}
	}
	var reach []string
	if email := strings.TrimSpace(sig.Email); email != "" {
		reach = append(reach, email)
	}
	if site := strings.TrimSpace(sig.Website); site != "" {
		reach = append(reach, site)
	}
	if len(reach) > 0 {
		postal = append(postal, strings.Join(reach, " · "))
	}

	return joinParagraphs(
		strings.Join(head, "\n"),
		strings.Join(team, "\n"),
		strings.Join(postal, "\n"),
	)
}

func contactLine(c Contact) string {
	name := clean(c.Name)
	if name == "" {
		return ""
	}
	if role := clean(c.Role); role != "" {
		name += " (" + role + ")"
	}
	if phone := strings.TrimSpace(c.Phone); phone != "" {
		return name + ": " + phone
	}
	return name
}

// longTableParagraph seats the group and offers the starter platter add-on.
func (e *Engine) longTableParagraph(ctx InquiryContext) string {
	seating := "We would be glad to seat your group together at long tables."
	if hint := BuildSeatingHint(ctx); hint != "" {
		seating = "For your group we would set up " + hint + "."
	}
	if note := e.starterPlatterNote(); note != "" {
		return seating + " " + note
	}
	return seating
}

func (e *Engine) starterPlatterNote() string {
	if e.settings.StarterPlatterPrice <= 0 {
		return ""
	}
	return "On request we serve a mixed starter platter for the table at " +
		e.formatter.FormatCurrency(e.settings.StarterPlatterPrice) +
		" per person, VAT included."
}

// joinParagraphs joins the non-empty parts with one blank line between them.
func joinParagraphs(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
