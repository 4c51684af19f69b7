// internal/correspondence/labels.go
package correspondence

import "strings"

// Locale selects date, currency and label conventions.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleDE Locale = "de"
)

// ParseLocale falls back to English for anything it does not know.
func ParseLocale(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "de", "de-de", "de_de", "de-at", "de-ch", "german", "deutsch":
		return LocaleDE
	default:
		return LocaleEN
	}
}

var courseLabels = map[Locale]map[string]string{
	LocaleEN: {
		"aperitivo":   "Aperitivo",
		"amuse":       "Amuse-bouche",
		"antipasti":   "Antipasti",
		"starter":     "Starter",
		"soup":        "Soup",
		"salad":       "Salad",
		"primo":       "First course",
		"pasta":       "Pasta",
		"intermezzo":  "Intermezzo",
		"secondo":     "Main course",
		"main":        "Main course",
		"side":        "Side dish",
		"cheese":      "Cheese",
		"dessert":     "Dessert",
		"finger_food": "Finger food",
		"buffet":      "Buffet",
		"kids":        "Children's menu",
	},
	LocaleDE: {
		"aperitivo":   "Aperitivo",
		"amuse":       "Gruß aus der Küche",
		"antipasti":   "Antipasti",
		"starter":     "Vorspeise",
		"soup":        "Suppe",
		"salad":       "Salat",
		"primo":       "Erster Gang",
		"pasta":       "Pasta",
		"intermezzo":  "Zwischengang",
		"secondo":     "Hauptgang",
		"main":        "Hauptgang",
		"side":        "Beilage",
		"cheese":      "Käse",
		"dessert":     "Dessert",
		"finger_food": "Fingerfood",
		"buffet":      "Buffet",
		"kids":        "Kindermenü",
	},
}

var drinkLabels = map[Locale]map[string]string{
	LocaleEN: {
		"reception":   "Reception drink",
		"aperitif":    "Aperitif",
		"sparkling":   "Sparkling wine",
		"prosecco":    "Prosecco",
		"white_wine":  "White wine",
		"red_wine":    "Red wine",
		"rose_wine":   "Rosé wine",
		"wine":        "Wine",
		"beer":        "Beer",
		"soft_drinks": "Soft drinks",
		"water":       "Water",
		"coffee":      "Coffee",
		"digestif":    "Digestif",
		"cocktails":   "Cocktails",
	},
	LocaleDE: {
		"reception":   "Empfangsgetränk",
		"aperitif":    "Aperitif",
		"sparkling":   "Schaumwein",
		"prosecco":    "Prosecco",
		"white_wine":  "Weißwein",
		"red_wine":    "Rotwein",
		"rose_wine":   "Roséwein",
		"wine":        "Wein",
		"beer":        "Bier",
		"soft_drinks": "Softdrinks",
		"water":       "Wasser",
		"coffee":      "Kaffee",
		"digestif":    "Digestif",
		"cocktails":   "Cocktails",
	},
}

// CourseLabel resolves the heading for a course: explicit label, dictionary
// entry for the code, then the raw code.
func CourseLabel(locale Locale, c Course) string {
	return resolveLabel(courseLabels, locale, c.CourseLabel, c.CourseType)
}

// DrinkLabel applies the same fallback chain to drink groups.
func DrinkLabel(locale Locale, d Drink) string {
	return resolveLabel(drinkLabels, locale, d.DrinkLabel, d.DrinkGroup)
}

func resolveLabel(dict map[Locale]map[string]string, locale Locale, explicit, code string) string {
	if label := strings.TrimSpace(explicit); label != "" {
		return label
	}
	code = strings.TrimSpace(code)
	if label, ok := dict[locale][strings.ToLower(code)]; ok {
		return label
	}
	return code
}
