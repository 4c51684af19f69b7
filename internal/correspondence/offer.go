// internal/correspondence/offer.go
package correspondence

import (
	"strings"
	"unicode/utf8"
)

const (
	singleOptionFallbackHeader = "Your individual proposal"
	drinkPairingHeader         = "Drink pairing:"
)

// FormatMenuBlock lists the courses in order, each as a label line followed by the dish.
func (e *Engine) FormatMenuBlock(option OfferOption) string {
	courses := make([]string, 0, len(option.Courses))
	for _, c := range option.Courses {
		label := CourseLabel(e.settings.Locale, c)
		item := clean(c.ItemName)
		switch {
		case label != "" && item != "":
			courses = append(courses, label+"\n"+item)
		case label != "":
			courses = append(courses, label)
		case item != "":
			courses = append(courses, item)
		}
	}
	return strings.Join(courses, "\n\n")
}

// FormatDrinksBlock lists the drinks in order as "label: choice".
func (e *Engine) FormatDrinksBlock(option OfferOption) string {
	lines := make([]string, 0, len(option.Drinks))
	for _, d := range option.Drinks {
		label := DrinkLabel(e.settings.Locale, d)
		choice := clean(d.SelectedChoice)
		switch {
		case label != "" && choice != "":
			lines = append(lines, label+": "+choice)
		case label != "":
			lines = append(lines, label)
		case choice != "":
			lines = append(lines, choice)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderOptionBlock renders every option. A lone option is headed by its
// package name; several options are headed "Option X" so the customer can
// refer to them.
func (e *Engine) RenderOptionBlock(options []OfferOption) string {
	if len(options) == 0 {
		return ""
	}
	if len(options) == 1 {
		header := clean(options[0].PackageName)
		if header == "" {
			header = singleOptionFallbackHeader
		}
		return e.optionBlock(header, options[0])
	}

	blocks := make([]string, len(options))
	for i, opt := range options {
		label := clean(opt.Label)
		if label == "" {
			label = optionLetter(i)
		}
		header := "Option " + label
		if pkg := clean(opt.PackageName); pkg != "" {
			header += ": " + pkg
		}
		blocks[i] = e.optionBlock(header, opt)
	}
	return strings.Join(blocks, "\n\n")
}

func (e *Engine) optionBlock(header string, opt OfferOption) string {
	title := header + "\n" + strings.Repeat("-", utf8.RuneCountInString(header))

	var drinks string
	if d := e.FormatDrinksBlock(opt); d != "" {
		drinks = drinkPairingHeader + "\n" + d
	}
	var price string
	if pp := e.perPerson(opt); pp != "" {
		price = "Price per person: " + pp
	}
	return joinParagraphs(title, e.FormatMenuBlock(opt), drinks, price)
}

// perPerson divides the option total by its guest count; unit prices of the
// individual items never enter this figure.
func (e *Engine) perPerson(opt OfferOption) string {
	if opt.TotalAmount <= 0 || opt.GuestCount <= 0 {
		return ""
	}
	return e.formatter.FormatCurrency(opt.TotalAmount / float64(opt.GuestCount))
}

// FormatPackageNameList returns the distinct package names in first-seen order.
func FormatPackageNameList(options []OfferOption) string {
	seen := make(map[string]bool, len(options))
	var names []string
	for _, opt := range options {
		name := clean(opt.PackageName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// FormatGrandTotal is the single option's total, or the sum over all options.
func (e *Engine) FormatGrandTotal(options []OfferOption) string {
	var total float64
	for _, opt := range options {
		total += opt.TotalAmount
	}
	if total <= 0 {
		return ""
	}
	return e.formatter.FormatCurrency(total)
}

// FormatPricePerPerson uses the first option only.
func (e *Engine) FormatPricePerPerson(options []OfferOption) string {
	if len(options) == 0 {
		return ""
	}
	return e.perPerson(options[0])
}

func optionLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return optionLetter(i/26-1) + string(rune('A'+i%26))
}
