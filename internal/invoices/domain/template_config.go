package domain

import (
	"fmt"
	"strings"
)

// TemplateConfig is the optional, shop specific template configuration.
// Every field may be missing; ResolveStyle fills the gaps.
type TemplateConfig struct {
	Template string         `json:"template,omitempty"`
	Source   string         `json:"source,omitempty"`
	Company  *CompanyConfig `json:"company,omitempty"`
	Fonts    *FontConfig    `json:"fonts,omitempty"`
	Colors   *ColorConfig   `json:"colors,omitempty"`
	Styling  *StylingConfig `json:"styling,omitempty"`
}

type CompanyConfig struct {
	Name             string         `json:"name,omitempty"`
	LegalName        string         `json:"legalName,omitempty"`
	Address          *AddressConfig `json:"address,omitempty"`
	GSTIN            string         `json:"gstin,omitempty"`
	Logo             string         `json:"logo,omitempty"`
	Signature        string         `json:"signature,omitempty"`
	IncludeSignature *bool          `json:"includeSignature,omitempty"`
	Email            string         `json:"email,omitempty"`
}

type AddressConfig struct {
	Line1   string `json:"line1,omitempty"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

type FontConfig struct {
	Family      string  `json:"family,omitempty"`
	TitleSize   float64 `json:"titleSize,omitempty"`
	HeadingSize float64 `json:"headingSize,omitempty"`
	BodySize    float64 `json:"bodySize,omitempty"`
	TableSize   float64 `json:"tableSize,omitempty"`
}

type ColorConfig struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Border     string `json:"border,omitempty"`
	Background string `json:"background,omitempty"`
	Success    string `json:"success,omitempty"`
	Warning    string `json:"warning,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StylingConfig accepts both headerBackgroundColor and documentHeaderBgColor
// for the banner color; the latter wins when both are set.
type StylingConfig struct {
	DocumentHeaderBgColor string `json:"documentHeaderBgColor,omitempty"`
	HeaderBackgroundColor string `json:"headerBackgroundColor,omitempty"`
	TableHeaderBgColor    string `json:"tableHeaderBgColor,omitempty"`
	HeaderTextColor       string `json:"headerTextColor,omitempty"`
}

// Style is the fully populated configuration the stages read
type Style struct {
	Company Company
	Fonts   Fonts
	Styling Styling
}

type Company struct {
	Name             string
	LegalName        string
	Address          Address
	GSTIN            string
	Logo             string
	Signature        string
	IncludeSignature bool
	Email            string
	// Jurisdiction is the state named in the disputes disclaimer
	Jurisdiction string
}

type Address struct {
	Line1   string
	Line2   string
	City    string
	State   string
	Pincode string
}

// Locality renders "city, state - pincode", skipping missing parts
func (a Address) Locality() string {
	s := a.City
	if a.State != "" {
		s += ", " + a.State
	}
	if a.Pincode != "" {
		s += " - " + a.Pincode
	}
	// drop separators left by missing leading parts
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ","))
	return strings.TrimSpace(strings.TrimPrefix(s, "-"))
}

type Fonts struct {
	Family      string
	TitleSize   float64
	HeadingSize float64
	BodySize    float64
	TableSize   float64
}

type Styling struct {
	DocumentHeaderBg string
	TableHeaderBg    string
	HeaderText       string
}

// Built-in company defaults
const (
	DefaultCompanyName  = "Your Company Name"
	DefaultLegalName    = "Legal Entity Name"
	DefaultAddressLine1 = "Address Line 1"
	DefaultAddressLine2 = "Address Line 2"
	DefaultGSTIN        = "GSTIN Number"
	DefaultLogo         = "logo.JPG"
	DefaultJurisdiction = "the respective"
	DefaultHeaderText   = "#ffffff"
)

// ResolveStyle merges cfg over the built-in defaults. fonts carries the
// template's default font sizes and primary is the resolved primary color
// used for header backgrounds that are not configured.
func ResolveStyle(cfg *TemplateConfig, fonts Fonts, primary string) Style {
	if cfg == nil {
		cfg = &TemplateConfig{}
	}

	company := CompanyConfig{}
	if cfg.Company != nil {
		company = *cfg.Company
	}
	address := AddressConfig{}
	if company.Address != nil {
		address = *company.Address
	}
	fontCfg := FontConfig{}
	if cfg.Fonts != nil {
		fontCfg = *cfg.Fonts
	}
	styling := StylingConfig{}
	if cfg.Styling != nil {
		styling = *cfg.Styling
	}

	includeSignature := true
	if company.IncludeSignature != nil {
		includeSignature = *company.IncludeSignature
	}

	return Style{
		Company: Company{
			Name:      or(company.Name, DefaultCompanyName),
			LegalName: or(company.LegalName, DefaultLegalName),
			Address: Address{
				Line1:   or(address.Line1, DefaultAddressLine1),
				Line2:   or(address.Line2, DefaultAddressLine2),
				City:    address.City,
				State:   address.State,
				Pincode: address.Pincode,
			},
			GSTIN:            or(company.GSTIN, DefaultGSTIN),
			Logo:             or(company.Logo, DefaultLogo),
			Signature:        company.Signature,
			IncludeSignature: includeSignature,
			Email:            company.Email,
			Jurisdiction:     or(address.State, DefaultJurisdiction),
		},
		Fonts: Fonts{
			Family:      or(fontCfg.Family, fonts.Family),
			TitleSize:   positive(fontCfg.TitleSize, fonts.TitleSize),
			HeadingSize: positive(fontCfg.HeadingSize, fonts.HeadingSize),
			BodySize:    positive(fontCfg.BodySize, fonts.BodySize),
			TableSize:   positive(fontCfg.TableSize, fonts.TableSize),
		},
		Styling: Styling{
			DocumentHeaderBg: or(styling.DocumentHeaderBgColor, or(styling.HeaderBackgroundColor, primary)),
			TableHeaderBg:    or(styling.TableHeaderBgColor, primary),
			HeaderText:       or(styling.HeaderTextColor, DefaultHeaderText),
		},
	}
}

// String summarizes the config for logs
func (c *TemplateConfig) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("template=%q source=%q company=%t fonts=%t colors=%t styling=%t",
		c.Template, c.Source, c.Company != nil, c.Fonts != nil, c.Colors != nil, c.Styling != nil)
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func positive(value, fallback float64) float64 {
	if value > 0 {
		return value
	}
	return fallback
}
