package normalize

import "github.com/niksmo/catalog-engine/internal/core/domain"

// InferTypeTag guesses the most likely product type from attribute
// shape alone: each raw key resolving to a declared field scores the
// type, and fields unique to a single type (wireless_band, conductor)
// score double. The guess is advisory only — the final type assignment
// is an explicit, immutable choice made at write time. ok is false
// when nothing matches or the best score is tied.
func (n Normalizer) InferTypeTag(raw domain.RawAttrs) (domain.TypeTag, bool) {
	occurrences := n.fieldOccurrences()

	var (
		best      domain.TypeTag
		bestScore int
		tied      bool
	)
	for _, tag := range domain.TypeTags() {
		def, err := n.reg.SchemaFor(tag)
		if err != nil {
			continue
		}

		score := 0
		for key := range raw {
			f, ok := resolveField(def, key)
			if !ok {
				continue
			}
			if occurrences[f.Name] == 1 {
				score += 2
			} else {
				score++
			}
		}

		switch {
		case score > bestScore:
			best, bestScore, tied = tag, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return "", false
	}
	return best, true
}

// fieldOccurrences counts how many schemas declare each field name.
func (n Normalizer) fieldOccurrences() map[string]int {
	counts := map[string]int{}
	for _, tag := range domain.TypeTags() {
		def, err := n.reg.SchemaFor(tag)
		if err != nil {
			continue
		}
		for _, f := range def.Fields {
			counts[f.Name]++
		}
	}
	return counts
}
