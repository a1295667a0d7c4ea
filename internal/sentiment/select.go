package sentiment

import "fmt"

// Scorer kinds accepted by New.
const (
	KindLexicon = "lexicon"
	KindMock    = "mock"
	KindHTTP    = "http"
)

// New builds the scorer named by kind. An empty kind picks the remote
// service when baseURL is set and the lexicon otherwise.
func New(kind, baseURL string) (Scorer, error) {
	if kind == "" {
		kind = KindLexicon
		if baseURL != "" {
			kind = KindHTTP
		}
	}
	switch kind {
	case KindLexicon:
		return NewLexiconScorer(), nil
	case KindMock:
		return MockScorer{}, nil
	case KindHTTP:
		if baseURL == "" {
			return nil, fmt.Errorf("sentiment scorer %q needs a base url", kind)
		}
		return HTTPScorer{BaseURL: baseURL}, nil
	default:
		return nil, fmt.Errorf("unknown sentiment scorer %q", kind)
	}
}
