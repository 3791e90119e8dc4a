package model

// Option is one entry of the toggle as the UI draws it.
type Option struct {
	Model     Model
	Label     string
	Selected  bool
	Available bool
}

// Toggle knows which models the deployment can serve. In production the
// local model stays on screen but cannot be picked.
type Toggle struct {
	production bool
}

func NewToggle(production bool) Toggle {
	return Toggle{production: production}
}

func (t Toggle) Available(m Model) bool {
	if !m.Valid() {
		return false
	}
	if t.production && m.IsLocal() {
		return false
	}
	return true
}

// Options returns every model, including unavailable ones.
func (t Toggle) Options(selected Model) []Option {
	options := make([]Option, 0, len(All))
	for _, m := range All {
		options = append(options, Option{
			Model:     m,
			Label:     m.Label(),
			Selected:  m == selected,
			Available: t.Available(m),
		})
	}
	return options
}

// Next returns the first available model after current, wrapping around.
// It returns current when nothing else can be selected.
func (t Toggle) Next(current Model) Model {
	start := 0
	for i, m := range All {
		if m == current {
			start = i + 1
			break
		}
	}
	for i := 0; i < len(All); i++ {
		candidate := All[(start+i)%len(All)]
		if candidate != current && t.Available(candidate) {
			return candidate
		}
	}
	return current
}
