// Package nlp turns a free-text parking request into structured filters
// using keyword rules.
package nlp

import "strings"

// Filters are the constraints a driver asked for. Unset fields are omitted
// from JSON, so a request with no keywords encodes as {}.
type Filters struct {
	EV        bool   `json:"ev,omitempty"`
	ADA       bool   `json:"ada,omitempty"`
	Near      bool   `json:"near,omitempty"`
	Buffered  bool   `json:"buffered,omitempty"`
	Size      string `json:"size,omitempty"`
	Connector string `json:"connector,omitempty"`
}

// Size classes in match priority order.
var sizes = []string{"compact", "midsize", "full", "suv", "truck"}

// ParseRequest matches lower-cased substrings. Matching is deliberately
// loose: "ev" also matches inside "level".
func ParseRequest(text string) Filters {
	t := strings.ToLower(text)
	var f Filters

	f.EV = containsAny(t, "ev", "electric")
	f.ADA = containsAny(t, "ada", "disabled", "handicap")
	f.Near = containsAny(t, "near", "close", "entrance")
	f.Buffered = containsAny(t, "between two empty", "buffered")

	for _, s := range sizes {
		if strings.Contains(t, s) {
			f.Size = s
			break
		}
	}

	switch {
	case strings.Contains(t, "j1772"):
		f.Connector = "j1772"
	case strings.Contains(t, "ccs"):
		f.Connector = "ccs"
	case containsAny(t, "fast", "dc"):
		f.Connector = "dc_fast"
	}
	return f
}

// Merge overlays the fields set in o onto f.
func (f Filters) Merge(o Filters) Filters {
	f.EV = f.EV || o.EV
	f.ADA = f.ADA || o.ADA
	f.Near = f.Near || o.Near
	f.Buffered = f.Buffered || o.Buffered
	if o.Size != "" {
		f.Size = o.Size
	}
	if o.Connector != "" {
		f.Connector = o.Connector
	}
	return f
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
