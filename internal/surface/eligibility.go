package surface

// Rule is one independently testable eligibility check. A surface is
// instrumented only if every rule accepts it.
type Rule struct {
	Name  string
	Check func(Surface) bool
}

// minFieldWidth filters out decorative or icon-sized inputs.
const minFieldWidth = 40

// Rules returns the eligibility rule set in evaluation order.
func Rules() []Rule {
	return []Rule{
		{"known-kind", func(s Surface) bool {
			switch s.Kind() {
			case KindPlain, KindMultiline, KindEditable:
				return true
			}
			return false
		}},
		{"enabled", func(s Surface) bool { return !s.Traits().Disabled }},
		{"writable", func(s Surface) bool { return !s.Traits().ReadOnly }},
		{"visible", func(s Surface) bool { return s.Traits().Visible }},
		{"not-sensitive", func(s Surface) bool { return !s.Traits().Sensitive }},
		{"minimum-size", func(s Surface) bool { return s.Traits().Width >= minFieldWidth }},
	}
}

// Eligible reports whether a surface may be instrumented.
func Eligible(s Surface) bool {
	_, ok := CheckEligible(s)
	return ok
}

// CheckEligible runs the rule set and returns the name of the first
// failing rule, if any.
func CheckEligible(s Surface) (failedRule string, ok bool) {
	for _, r := range Rules() {
		if !r.Check(s) {
			return r.Name, false
		}
	}
	return "", true
}
