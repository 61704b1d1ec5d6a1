package discovery

import (
	"strings"

	"github.com/cardoc/mechfind/internal/domain/provider"
)

// matcher is a case-insensitive substring test against provider name and tags.
type matcher struct {
	needle string
}

func newMatcher(text string) matcher {
	return matcher{needle: strings.ToLower(text)}
}

// Match reports whether p passes the text filter. An empty query matches everything.
func (m matcher) Match(p *provider.ServiceProvider) bool {
	if m.needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name()), m.needle) {
		return true
	}
	for i := range p.TagCount() {
		if strings.Contains(strings.ToLower(p.Tag(i)), m.needle) {
			return true
		}
	}
	return false
}
