package grounding

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		url    string
		want   SourceType
	}{
		{"linkedin", "www.linkedin.com", "https://www.linkedin.com/company/acme", SourceSocialMedia},
		{"twitter", "twitter.com", "https://twitter.com/acme", SourceSocialMedia},
		{"sec filings", "www.sec.gov", "https://www.sec.gov/cgi-bin/browse-edgar", SourceFinancial},
		{"bloomberg", "bloomberg.com", "https://bloomberg.com/quote/ACME", SourceFinancial},
		{"crunchbase", "crunchbase.com", "https://crunchbase.com/organization/acme", SourceBusinessDatabase},
		{"news substring in domain", "technews.io", "https://technews.io/acme-funding", SourceNewsMedia},
		{"wsj", "wsj.com", "https://wsj.com/articles/acme", SourceNewsMedia},
		{"about page", "acme.io", "https://acme.io/about", SourceCompanyOfficial},
		{"leadership page", "acme.io", "https://acme.io/leadership", SourceCompanyOfficial},
		{"fallback", "example.org", "https://example.org/widgets", SourceIndustryOther},
		{"case insensitive", "LinkedIn.com", "https://LinkedIn.com/in/ceo", SourceSocialMedia},
		// Domain rules win over URL rules: a linkedin "about" page is social media.
		{"domain precedence", "linkedin.com", "https://linkedin.com/company/acme/about", SourceSocialMedia},
		// Financial beats the company-official URL keyword.
		{"financial precedence", "reuters.com", "https://reuters.com/companies/acme", SourceFinancial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.domain, tt.url); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.domain, tt.url, got, tt.want)
			}
		})
	}
}
