// internal/correspondence/templates.go
package correspondence

// Template is a subject line and body with {{name}} placeholders.
type Template struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"body" yaml:"body"`
}

const (
	TemplateGroupReservation  = "group-reservation"
	TemplateBusinessAperitivo = "business-aperitivo"
	TemplateExclusiveLocation = "exclusive-location"
)

const groupReservationBody = `{{salutation}}

Thank you very much for your inquiry. We would be delighted to welcome you {{eventDetails}}.

Groups order from our full à la carte menu, so every guest can choose freely on the evening. Our kitchen is used to larger tables and serves each course to everyone at the same time.

{{longTableParagraph}}

{{offerParagraph}}

If you have any further wishes or questions, we are happy to help.

{{signature}}`

const businessAperitivoBody = `{{salutation}}

Thank you for your inquiry. We would be happy to host a business aperitivo {{eventDetails}}, a relaxed way to bring colleagues, clients and partners together after work.

{{offerBlock}}

You can find all of our aperitivo packages at {{packagesUrl}}.

{{signature}}`

const exclusiveLocationBody = `{{salutation}}

Thank you for your interest in booking our restaurant exclusively. We would be delighted to host you {{eventDetails}} and to shape the room, the menu and the schedule entirely around your event.

{{offerParagraph}}

To put together a complete proposal, we still need a few details from you:

{{missingInfoChecklist}}

We look forward to hearing from you and to planning your event together.

{{signature}}`

var namedTemplates = []Template{
	{
		ID:      TemplateGroupReservation,
		Name:    "Group reservation",
		Subject: "Your {{eventType}} with us",
		Body:    groupReservationBody,
	},
	{
		ID:      TemplateBusinessAperitivo,
		Name:    "Business aperitivo",
		Subject: "Your business aperitivo with us",
		Body:    businessAperitivoBody,
	},
	{
		ID:      TemplateExclusiveLocation,
		Name:    "Exclusive location",
		Subject: "Exclusive use of our restaurant for your {{eventType}}",
		Body:    exclusiveLocationBody,
	},
}

// NamedTemplates returns copies of the built-in letters.
func NamedTemplates() []Template {
	return append([]Template(nil), namedTemplates...)
}

// NamedTemplate looks up a built-in letter by id.
func NamedTemplate(id string) (Template, bool) {
	for _, t := range namedTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// RenderNamed renders one of the built-in letters. ok is false for an unknown id.
func (e *Engine) RenderNamed(id string, ctx InquiryContext, options []OfferOption) (Document, bool) {
	t, ok := NamedTemplate(id)
	if !ok {
		return Document{}, false
	}
	return e.RenderTemplate(t, ctx, options), true
}
