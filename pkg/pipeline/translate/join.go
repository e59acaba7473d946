package translate

import "github.com/askiada/go-pipegraph/pkg/pipeline/wire"

// pair is one port seen from the structured interface, the abstract interface, or both.
type pair[S any] struct {
	name string
	s    *S
	a    *wire.InterfacePort
}

func (p pair[S]) structured() (S, bool) {
	if p.s == nil {
		var zero S

		return zero, false
	}

	return *p.s, true
}

func (p pair[S]) abstract() (wire.InterfacePort, bool) {
	if p.a == nil {
		return wire.InterfacePort{}, false
	}

	return *p.a, true
}

// join matches structured and abstract ports by name. Structured order comes first, then
// abstract-only ports in their own order.
func join[S any](structured []S, name func(S) string, abstract []wire.InterfacePort) []pair[S] {
	byName := make(map[string]*wire.InterfacePort, len(abstract))
	for i := range abstract {
		byName[abstract[i].Name] = &abstract[i]
	}

	res := make([]pair[S], 0, len(structured)+len(abstract))
	seen := make(map[string]struct{}, len(structured))

	for i := range structured {
		n := name(structured[i])
		seen[n] = struct{}{}
		res = append(res, pair[S]{name: n, s: &structured[i], a: byName[n]})
	}

	for i := range abstract {
		if _, ok := seen[abstract[i].Name]; ok {
			continue
		}

		res = append(res, pair[S]{name: abstract[i].Name, a: &abstract[i]})
	}

	return res
}
