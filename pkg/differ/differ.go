package differ

import "sort"

// RealmsChanged compares the upstream realm groups against the stored
// sequence. Comparison is order-sensitive at both levels: a reordered
// group list or a reordered domain list counts as a change, because the
// stored record is replaced wholesale and consumers treat the sequence
// as canonical.
func RealmsChanged(source, current [][]string) bool {
	if len(source) != len(current) {
		return true
	}
	for i, group := range source {
		if !groupEqual(group, current[i]) {
			return true
		}
	}
	return false
}

// groupEqual reports element-wise equality of two realm groups.
func groupEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, domain := range a {
		if domain != b[i] {
			return false
		}
	}
	return true
}

// PlanRules computes the write directives that bring the destination
// rules collection in line with the source mapping. Only source domains
// are visited: destination records whose domain no longer appears
// upstream are left untouched, so stale records accumulate. Source
// domains are visited in sorted order so the resulting batch is
// deterministic.
func PlanRules(source map[string]string, current map[string]RuleState) *RulesChangeset {
	changeset := &RulesChangeset{
		Creates: []RuleCreate{},
		Updates: []RuleUpdate{},
	}

	domains := make([]string, 0, len(source))
	for domain := range source {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		rules := source[domain]
		existing, ok := current[domain]
		switch {
		case !ok:
			changeset.Creates = append(changeset.Creates, RuleCreate{
				Domain: domain,
				Rules:  rules,
			})
		case existing.Rules != rules:
			changeset.Updates = append(changeset.Updates, RuleUpdate{
				ID:     existing.ID,
				Domain: domain,
				Rules:  rules,
			})
		}
	}

	return changeset
}
