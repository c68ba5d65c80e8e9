package grounding

import "strings"

// classificationRule pairs a predicate with the label it assigns. Rules are
// evaluated in order; the first match wins.
type classificationRule struct {
	matches func(domain, url string) bool
	label   SourceType
}

func domainContainsAny(needles ...string) func(domain, url string) bool {
	return func(domain, _ string) bool {
		for _, n := range needles {
			if strings.Contains(domain, n) {
				return true
			}
		}
		return false
	}
}

func urlContainsAny(needles ...string) func(domain, url string) bool {
	return func(_, url string) bool {
		for _, n := range needles {
			if strings.Contains(url, n) {
				return true
			}
		}
		return false
	}
}

var classificationRules = []classificationRule{
	{domainContainsAny("linkedin.com", "twitter.com", "facebook.com", "instagram.com"), SourceSocialMedia},
	{domainContainsAny("sec.gov", "edgar", "bloomberg.com", "reuters.com"), SourceFinancial},
	{domainContainsAny("crunchbase.com", "pitchbook.com"), SourceBusinessDatabase},
	{domainContainsAny("news", "cnn.com", "bbc.com", "wsj.com"), SourceNewsMedia},
	{urlContainsAny("about", "company", "leadership", "team"), SourceCompanyOfficial},
}

// Classify assigns a source type from domain and URL keyword rules.
// Domain rules take precedence over URL rules; unmatched sources fall
// through to Industry/Other.
func Classify(domain, url string) SourceType {
	domain = strings.ToLower(domain)
	url = strings.ToLower(url)
	for _, rule := range classificationRules {
		if rule.matches(domain, url) {
			return rule.label
		}
	}
	return SourceIndustryOther
}
