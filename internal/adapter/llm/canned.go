package llm

import (
	"strings"

	"ragtour/internal/adapter/fixture"
)

// CannedLLM simulates generation with a keyword lookup over the fixture's
// answer rules. It never looks at retrieved context.
type CannedLLM struct {
	rules    []fixture.AnswerRule
	fallback string
}

func NewCannedLLM(f *fixture.Fixture) *CannedLLM {
	fallback, _ := f.Answer(f.DefaultAnswer)
	return &CannedLLM{
		rules:    f.Answers,
		fallback: fallback,
	}
}

// Generate returns the first rule whose trigger occurs in the lower-cased
// query, in rule order, or the default answer.
func (m *CannedLLM) Generate(query string) string {
	q := strings.ToLower(query)
	for _, rule := range m.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(q, trigger) {
				return rule.Text
			}
		}
	}
	return m.fallback
}

func (m *CannedLLM) ModelName() string {
	return "canned-answers"
}
