// Package docs is the documentation collaborator: a keyed lookup from
// (command, parameter) to help text. Parsing documentation into per-parameter
// entries happens outside the derivation core; absence of an entry is never
// an error.
package docs

// Provider supplies help text for a command's parameter. Implementations
// return "" for unknown keys and never fail.
type Provider interface {
	Lookup(command, param string) string
}

// Map is a Provider backed by a nested map keyed by command then parameter.
type Map map[string]map[string]string

func (m Map) Lookup(command, param string) string {
	if params, ok := m[command]; ok {
		return params[param]
	}
	return ""
}

// Join combines providers; the first non-empty answer wins.
func Join(providers ...Provider) Provider {
	return joined(providers)
}

type joined []Provider

func (j joined) Lookup(command, param string) string {
	for _, p := range j {
		if p == nil {
			continue
		}
		if text := p.Lookup(command, param); text != "" {
			return text
		}
	}
	return ""
}
