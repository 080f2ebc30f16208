package templates

import (
	"sort"
	"strings"
)

// Template names
const (
	Minimalist  = "minimalist"
	Zen         = "zen"
	DefaultName = Minimalist
)

var registry = map[string]Template{
	Minimalist: minimalistTemplate{},
	Zen:        zenTemplate{},
}

// Lookup finds a template by case-insensitive name
func Lookup(name string) (Template, bool) {
	t, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Default returns the fallback template
func Default() Template {
	return registry[DefaultName]
}

// Names lists the registered template names
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
