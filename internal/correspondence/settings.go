// internal/correspondence/settings.go
package correspondence

// Contact is one staff member listed in the signature.
type Contact struct {
	Name  string `mapstructure:"name" json:"name"`
	Role  string `mapstructure:"role" json:"role,omitempty"`
	Phone string `mapstructure:"phone" json:"phone,omitempty"`
}

// Signature is the organization boilerplate closing every letter.
type Signature struct {
	Closing      string    `mapstructure:"closing" json:"closing"`
	TeamName     string    `mapstructure:"team_name" json:"teamName,omitempty"`
	Contacts     []Contact `mapstructure:"contacts" json:"contacts,omitempty"`
	CompanyName  string    `mapstructure:"company_name" json:"companyName,omitempty"`
	AddressLines []string  `mapstructure:"address_lines" json:"addressLines,omitempty"`
	Email        string    `mapstructure:"email" json:"email,omitempty"`
	Website      string    `mapstructure:"website" json:"website,omitempty"`
}

// Settings configures an Engine. The engine copies them on construction.
type Settings struct {
	Locale              Locale
	Currency            string
	PackagesURL         string
	StarterPlatterPrice float64
	Signature           Signature
}

// DefaultSettings is used when a deployment leaves the correspondence section empty.
func DefaultSettings() Settings {
	return Settings{
		Locale:              LocaleEN,
		Currency:            "EUR",
		PackagesURL:         "https://example.com/events/packages",
		StarterPlatterPrice: 14.5,
		Signature: Signature{
			Closing:  "Kind regards",
			TeamName: "Your events team",
		},
	}
}

func (s Settings) clone() Settings {
	out := s
	out.Signature.Contacts = append([]Contact(nil), s.Signature.Contacts...)
	out.Signature.AddressLines = append([]string(nil), s.Signature.AddressLines...)
	return out
}
