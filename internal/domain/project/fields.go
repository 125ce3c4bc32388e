package project

// Fields are the descriptive scalar columns of a project.
type Fields struct {
	Title                    string  `json:"title"`
	Description              string  `json:"description"`
	Status                   string  `json:"status"`
	WhyWeBuiltThis           *string `json:"why_we_built_this"`
	WhatWeveBuilt            *string `json:"what_weve_built"`
	NTIStatus                *string `json:"nti_status"`
	NTILink                  *string `json:"nti_link"`
	PrimaryBenefitsCategory  *string `json:"primary_benefits_category"`
	PrimaryAIBenefitCategory *string `json:"primary_ai_benefit_category"`
	InvestmentRequired       *string `json:"investment_required"`
	ExpectedNearTermBenefits *string `json:"expected_near_term_benefits"`
	ExpectedLongTermBenefits *string `json:"expected_long_term_benefits"`
	PrimaryBusinessFunction  *string `json:"primary_business_function"`
}

type scalarField struct {
	name string
	get  func(*Fields) *string
}

var scalarFields = []scalarField{
	{"title", func(f *Fields) *string { return &f.Title }},
	{"description", func(f *Fields) *string { return &f.Description }},
	{"status", func(f *Fields) *string { return &f.Status }},
	{"why_we_built_this", func(f *Fields) *string { return f.WhyWeBuiltThis }},
	{"what_weve_built", func(f *Fields) *string { return f.WhatWeveBuilt }},
	{"nti_status", func(f *Fields) *string { return f.NTIStatus }},
	{"nti_link", func(f *Fields) *string { return f.NTILink }},
	{"primary_benefits_category", func(f *Fields) *string { return f.PrimaryBenefitsCategory }},
	{"primary_ai_benefit_category", func(f *Fields) *string { return f.PrimaryAIBenefitCategory }},
	{"investment_required", func(f *Fields) *string { return f.InvestmentRequired }},
	{"expected_near_term_benefits", func(f *Fields) *string { return f.ExpectedNearTermBenefits }},
	{"expected_long_term_benefits", func(f *Fields) *string { return f.ExpectedLongTermBenefits }},
	{"primary_business_function", func(f *Fields) *string { return f.PrimaryBusinessFunction }},
}

// ScalarFieldNames lists the compared columns in comparison order.
func ScalarFieldNames() []string {
	names := make([]string, len(scalarFields))
	for i, field := range scalarFields {
		names[i] = field.name
	}
	return names
}

// FieldsChanged reports whether any scalar field differs. nil and "" compare
// equal; storage still keeps the distinction.
func FieldsChanged(existing, incoming Fields) bool {
	for _, field := range scalarFields {
		if text(field.get(&existing)) != text(field.get(&incoming)) {
			return true
		}
	}
	return false
}

// ChangedFields returns the names of the scalar fields that differ.
func ChangedFields(existing, incoming Fields) []string {
	var changed []string
	for _, field := range scalarFields {
		if text(field.get(&existing)) != text(field.get(&incoming)) {
			changed = append(changed, field.name)
		}
	}
	return changed
}

func (f *Fields) columns(cols map[string]any) {
	for _, field := range scalarFields {
		cols[field.name] = field.get(f)
	}
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
