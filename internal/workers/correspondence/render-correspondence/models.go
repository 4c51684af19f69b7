// internal/workers/correspondence/render-correspondence/models.go
package rendercorrespondence

import "correspondence-workers/internal/correspondence"

// Input is either a stored template id or an ad-hoc body, plus the inquiry
// and offer data to fill it with.
type Input struct {
	TemplateID      string                        `json:"templateId,omitempty"`
	TemplateBody    string                        `json:"templateBody,omitempty"`
	SubjectTemplate string                        `json:"subjectTemplate,omitempty"`
	Inquiry         correspondence.InquiryContext `json:"inquiry"`
	Options         []correspondence.OfferOption  `json:"options,omitempty"`
}

type Output struct {
	RenderID        string `json:"renderId"`
	TemplateID      string `json:"templateId"`
	TemplateVersion int    `json:"templateVersion"`
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	RenderedAt      string `json:"renderedAt"` // RFC 3339
}

// InlineTemplateID labels renders of an ad-hoc template body.
const InlineTemplateID = "inline"

const inputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "templateId": {"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
    "templateBody": {"type": "string"},
    "subjectTemplate": {"type": "string"},
    "inquiry": {
      "type": ["object", "null"],
      "properties": {
        "customerName": {"type": ["string", "null"]},
        "companyName": {"type": ["string", "null"]},
        "eventDate": {"type": ["string", "null"]},
        "guestCount": {"type": ["string", "number", "null"]},
        "eventType": {"type": ["string", "null"]},
        "room": {"type": ["string", "null"]},
        "timeWindow": {"type": ["string", "null"]}
      }
    },
    "options": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "label": {"type": "string"},
          "packageName": {"type": "string"},
          "guestCount": {"type": "integer"},
          "totalAmount": {"type": "number"},
          "courses": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "courseType": {"type": "string"},
                "courseLabel": {"type": "string"},
                "itemName": {"type": "string"}
              }
            }
          },
          "drinks": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "drinkGroup": {"type": "string"},
                "drinkLabel": {"type": "string"},
                "selectedChoice": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`
