// Package selector models the ranked fallback locators used to pull fields
// out of unreliable job-board markup. Each logical field carries an ordered
// candidate list; extraction engines try candidates strictly in order and
// take the first match. New platforms contribute a new profile, not new code.
package selector

import "fmt"

// Kind is the locator mechanism of a candidate.
type Kind string

const (
	KindCSS   Kind = "css"
	KindXPath Kind = "xpath"
	KindClass Kind = "class"
	KindID    Kind = "id"
)

// Candidate is one (locator-kind, locator-value) pair tried when locating a
// DOM element for a field.
type Candidate struct {
	Kind  Kind   `yaml:"kind"`
	Value string `yaml:"value"`
}

// CSS translates the candidate into a CSS selector where possible.
// XPath candidates have no CSS form; engines that only speak CSS skip them.
func (c Candidate) CSS() (string, bool) {
	switch c.Kind {
	case KindCSS:
		return c.Value, true
	case KindClass:
		return "." + c.Value, true
	case KindID:
		return "#" + c.Value, true
	default:
		return "", false
	}
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s=%s", c.Kind, c.Value)
}

// Fields holds the per-field candidate lists.
type Fields struct {
	Title       []Candidate `yaml:"title"`
	Company     []Candidate `yaml:"company"`
	Description []Candidate `yaml:"description"`
}

// Login describes a platform's credential login flow. Zero value means the
// platform needs no login.
type Login struct {
	URL             string `yaml:"url"`
	UsernameField   string `yaml:"username_field"`
	PasswordField   string `yaml:"password_field"`
	PostLoginMarker string `yaml:"post_login_marker"`
}

// Profile bundles everything an engine needs to extract from one platform.
type Profile struct {
	Name string `yaml:"name"`
	// Readiness is the CSS selector for the primary content container; the
	// browser engine waits (bounded) for it before probing fields.
	Readiness string `yaml:"readiness"`
	Login     Login  `yaml:"login"`
	Fields    Fields `yaml:"fields"`
}

// LinkedIn returns the profile for LinkedIn job postings, rendered by the
// browser engine. The candidate ordering is deliberate: the unified top-card
// selectors are tried before the looser class/id fallbacks.
func LinkedIn() Profile {
	return Profile{
		Name:      "linkedin",
		Readiness: "div[class*='description'], #job-details",
		Login: Login{
			URL:             "https://www.linkedin.com/login",
			UsernameField:   "#username",
			PasswordField:   "#password",
			PostLoginMarker: "div.feed-identity-module",
		},
		Fields: Fields{
			Title: []Candidate{
				{Kind: KindCSS, Value: "div.job-details-jobs-unified-top-card__job-title"},
				{Kind: KindXPath, Value: "//h1[contains(@class, 'job-title')]"},
			},
			Company: []Candidate{
				{Kind: KindCSS, Value: "div.job-details-jobs-unified-top-card__company-name"},
				{Kind: KindXPath, Value: "//span[contains(@class, 'company-name')]"},
			},
			Description: []Candidate{
				{Kind: KindClass, Value: "jobs-description__container"},
				{Kind: KindCSS, Value: "div[class*='description']"},
				{Kind: KindID, Value: "job-details"},
				{Kind: KindXPath, Value: "//div[contains(@class, 'description') or contains(@id, 'description')]"},
			},
		},
	}
}

// Generic returns the best-effort profile used by the static engine on
// unknown job boards.
func Generic() Profile {
	return Profile{
		Name:      "generic",
		Readiness: "body",
		Fields: Fields{
			Title: []Candidate{
				{Kind: KindCSS, Value: "h1.job-title"},
				{Kind: KindCSS, Value: "h1.title"},
				{Kind: KindCSS, Value: "h2.job-title"},
				{Kind: KindCSS, Value: "h2.title"},
			},
			Company: []Candidate{
				{Kind: KindCSS, Value: "span.company-name"},
				{Kind: KindCSS, Value: "span.employer"},
				{Kind: KindCSS, Value: "div.company-name"},
				{Kind: KindCSS, Value: "div.employer"},
			},
			Description: []Candidate{
				{Kind: KindCSS, Value: "div.job-description"},
				{Kind: KindCSS, Value: "div.description"},
				{Kind: KindCSS, Value: "section.job-description"},
				{Kind: KindCSS, Value: "section.description"},
			},
		},
	}
}
