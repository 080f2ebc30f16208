package templates

import "invoice-pdf/invoice-pdf-backend/internal/invoices/domain"

// ColorScheme is the resolved palette of one render
type ColorScheme struct {
	Primary    string
	Secondary  string
	Accent     string
	Border     string
	Background string
	Success    string
	Warning    string
	Error      string
}

// resolvePalette merges a configured palette over the template defaults.
// Without a configured palette the seed replaces only the primary color.
func resolvePalette(defaults ColorScheme, seed string, colors *domain.ColorConfig) ColorScheme {
	if colors != nil {
		return ColorScheme{
			Primary:    orDefault(colors.Primary, defaults.Primary),
			Secondary:  orDefault(colors.Secondary, defaults.Secondary),
			Accent:     orDefault(colors.Accent, defaults.Accent),
			Border:     orDefault(colors.Border, defaults.Border),
			Background: orDefault(colors.Background, defaults.Background),
			Success:    orDefault(colors.Success, defaults.Success),
			Warning:    orDefault(colors.Warning, defaults.Warning),
			Error:      orDefault(colors.Error, defaults.Error),
		}
	}

	scheme := defaults
	scheme.Primary = orDefault(seed, defaults.Primary)
	return scheme
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
