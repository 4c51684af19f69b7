// internal/correspondence/engine.go

// Package correspondence turns inquiry and offer data into ready-to-send
// letters: confirmations and quotations built from plain-text templates with
// {{name}} placeholders. Nothing here fails on missing data; absent facts drop
// their clause instead.
package correspondence

import (
	"regexp"
	"sort"
	"strings"
)

var (
	placeholderPattern = regexp.MustCompile(`^\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}$`)
	// Any brace-delimited token, including malformed ones like {{customer name}} or {{}}.
	tokenPattern    = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
)

// Engine renders correspondence from inquiry and offer data. It holds only its
// settings, so one Engine can serve any number of goroutines.
type Engine struct {
	settings  Settings
	formatter Formatter
}

func New(settings Settings) *Engine {
	s := settings.clone()
	if s.Locale != LocaleDE {
		s.Locale = LocaleEN
	}
	f := NewFormatter(s.Locale, s.Currency)
	s.Currency = f.currency
	return &Engine{settings: s, formatter: f}
}

// Formatter exposes the engine's date and currency formatter.
func (e *Engine) Formatter() Formatter { return e.formatter }

// Document is a rendered letter.
type Document struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Variables resolves every placeholder value for the given inquiry and options.
// All blocks are computed, whether or not a template references them.
func (e *Engine) Variables(ctx InquiryContext, options []OfferOption) map[string]string {
	customerName := clean(ctx.CustomerName)
	if customerName == "" {
		customerName = collectiveSalutation
	}
	eventType := clean(ctx.EventType)
	if eventType == "" {
		eventType = defaultEventType
	}
	var eventDate string
	if raw := clean(ctx.EventDate); raw != "" {
		eventDate = e.formatter.FormatDate(raw)
	}

	offerBlock := e.RenderOptionBlock(options)
	var offerParagraph string
	if offerBlock != "" {
		offerParagraph = "Based on your wishes we have put together the following proposal:\n\n" + offerBlock
	}

	var menuBlock, drinksBlock string
	if len(options) > 0 {
		menuBlock = e.FormatMenuBlock(options[0])
		drinksBlock = e.FormatDrinksBlock(options[0])
	}

	return map[string]string{
		"customerName":         customerName,
		"companyName":          clean(ctx.CompanyName),
		"salutation":           BuildSalutation(ctx),
		"eventType":            eventType,
		"eventDate":            eventDate,
		"eventDateRaw":         clean(ctx.EventDate),
		"guestCount":           ctx.GuestCount.String(),
		"room":                 clean(ctx.Room),
		"timeWindow":           clean(ctx.TimeWindow),
		"eventDetails":         e.BuildEventDetailsSentence(ctx),
		"seatingHint":          BuildSeatingHint(ctx),
		"longTableParagraph":   e.longTableParagraph(ctx),
		"starterPlatterNote":   e.starterPlatterNote(),
		"missingInfoChecklist": BuildMissingInfoChecklist(ctx),
		"offerBlock":           offerBlock,
		"offerParagraph":       offerParagraph,
		"menuBlock":            menuBlock,
		"drinksBlock":          drinksBlock,
		"packageNames":         FormatPackageNameList(options),
		"grandTotal":           e.FormatGrandTotal(options),
		"pricePerPerson":       e.FormatPricePerPerson(options),
		"packagesUrl":          strings.TrimSpace(e.settings.PackagesURL),
		"signature":            e.BuildSignatureBlock(),
	}
}

// VariableNames lists every placeholder name the engine resolves, sorted.
func VariableNames() []string {
	vars := New(DefaultSettings()).Variables(InquiryContext{}, nil)
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render substitutes every {{name}} token in body. Unknown names become empty
// text; the result has at most one blank line between paragraphs and no
// leading or trailing whitespace.
func (e *Engine) Render(body string, ctx InquiryContext, options []OfferOption) string {
	return Substitute(body, e.Variables(ctx, options))
}

// RenderTemplate renders subject and body of a template with one variable map.
func (e *Engine) RenderTemplate(t Template, ctx InquiryContext, options []OfferOption) Document {
	vars := e.Variables(ctx, options)
	return Document{
		Subject: singleLine(Substitute(t.Subject, vars)),
		Body:    Substitute(t.Body, vars),
	}
}

// Substitute replaces placeholders from vars, drops malformed tokens and
// normalizes whitespace.
func Substitute(body string, vars map[string]string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	out := tokenPattern.ReplaceAllStringFunc(body, func(token string) string {
		m := placeholderPattern.FindStringSubmatch(token)
		if m == nil {
			return ""
		}
		return vars[m[1]]
	})
	out = blankRunPattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// Placeholders lists the distinct placeholder names in body, in order of appearance.
func Placeholders(body string) []string {
	seen := map[string]bool{}
	var names []string
	for _, token := range tokenPattern.FindAllString(body, -1) {
		m := placeholderPattern.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
