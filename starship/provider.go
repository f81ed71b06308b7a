package starship

import (
	"fmt"

	"github.com/grovetools/coverlay/state"
)

// StatusProvider generates a status string for the prompt from the current
// state. Providers return an empty string when they have nothing to display.
type StatusProvider func(s state.State) (string, error)

// providers holds all registered status providers.
var providers []StatusProvider

func init() {
	RegisterProvider(coverageProvider)
}

// RegisterProvider registers a status provider to be called by the status
// command.
func RegisterProvider(p StatusProvider) {
	providers = append(providers, p)
}

// GetProviders returns all registered status providers.
// This is primarily used for testing.
func GetProviders() []StatusProvider {
	return providers
}

// ClearProviders removes all registered providers.
// This is primarily used for testing.
func ClearProviders() {
	providers = nil
}

// coverageProvider surfaces the last summary the watch session persisted.
func coverageProvider(s state.State) (string, error) {
	summary, ok := s[state.KeySummary].(string)
	if !ok || summary == "" {
		return "", nil
	}
	if warn, ok := s[state.KeyWarn].(bool); ok && warn {
		return fmt.Sprintf("☂ %s !", summary), nil
	}
	return fmt.Sprintf("☂ %s", summary), nil
}
