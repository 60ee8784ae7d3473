// Package reminder e-mails each user a summary of their week.
package reminder

import (
	"strings"

	"github.com/sojournii/sojournii/internal/model"
)

// Lookup is one way of finding a user's reminder address.
type Lookup struct {
	Name string
	Find func(model.Settings) (string, bool)
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// DefaultLookups tries the identity provider's address first, then the
// dedicated notifications address.
var DefaultLookups = []Lookup{
	{Name: "clerk", Find: func(st model.Settings) (string, bool) { return nonEmpty(st.ClerkEmail) }},
	{Name: "notifications", Find: func(st model.Settings) (string, bool) { return nonEmpty(st.NotificationsEmail) }},
}

// ResolveRecipient returns the first address produced by lookups, in order,
// and the name of the lookup that found it.
func ResolveRecipient(st model.Settings, lookups []Lookup) (addr, source string, ok bool) {
	for _, l := range lookups {
		if addr, ok := l.Find(st); ok {
			return addr, l.Name, true
		}
	}
	return "", "", false
}
