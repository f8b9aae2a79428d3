package static

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/auto-cv/jobscrape/pkg/models"
)

// ldJobPosting is the subset of the schema.org JobPosting vocabulary that
// job boards commonly embed in ld+json blocks.
type ldJobPosting struct {
	Type               string          `json:"@type"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	HiringOrganization json.RawMessage `json:"hiringOrganization"`
	Identifier         json.RawMessage `json:"identifier"`
	JobLocation        json.RawMessage `json:"jobLocation"`
	BaseSalary         json.RawMessage `json:"baseSalary"`
}

// fillFromJSONLD scans <script type="application/ld+json"> blocks for a
// JobPosting object and copies its fields into the record. Only fields still
// missing (empty or sentinel) are overwritten. Returns true when a
// description was recovered.
func fillFromJSONLD(doc *goquery.Document, rec *models.JobPosting) bool {
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		posting, ok := decodeJobPosting([]byte(s.Text()))
		if !ok {
			return true
		}

		if posting.Description != "" {
			rec.DescriptionHTML = posting.Description
			rec.RawDescription = htmlToText(posting.Description)
			found = true
		}
		if missing(rec.Title) && posting.Title != "" {
			rec.Title = posting.Title
		}
		if company := nameOf(posting.HiringOrganization); missing(rec.Company) && company != "" {
			rec.Company = company
		}
		if loc := locationOf(posting.JobLocation); loc != "" {
			rec.Location = loc
		}
		if sal := salaryOf(posting.BaseSalary); sal != "" {
			rec.Salary = sal
		}
		if id := identifierOf(posting.Identifier); id != "" {
			rec.JobID = id
		}
		return false
	})
	return found
}

func missing(field string) bool {
	return field == "" || field == models.NotAvailable
}

// decodeJobPosting handles the shapes ld+json comes in: a single object, an
// array of objects, or an object with an @graph list.
func decodeJobPosting(data []byte) (*ldJobPosting, bool) {
	var single ldJobPosting
	if err := json.Unmarshal(data, &single); err == nil && single.Type == "JobPosting" {
		return &single, true
	}

	var list []ldJobPosting
	if err := json.Unmarshal(data, &list); err == nil {
		for i := range list {
			if list[i].Type == "JobPosting" {
				return &list[i], true
			}
		}
	}

	var graph struct {
		Graph []ldJobPosting `json:"@graph"`
	}
	if err := json.Unmarshal(data, &graph); err == nil {
		for i := range graph.Graph {
			if graph.Graph[i].Type == "JobPosting" {
				return &graph.Graph[i], true
			}
		}
	}

	log.Debug().Msg("ld+json block held no JobPosting")
	return nil, false
}

func nameOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return obj.Name
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func identifierOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Value != "" {
		return obj.Value
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

type ldPlace struct {
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
		Country  string `json:"addressCountry"`
	} `json:"address"`
}

func locationOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var place ldPlace
	if err := json.Unmarshal(raw, &place); err != nil {
		var places []ldPlace
		if err := json.Unmarshal(raw, &places); err != nil || len(places) == 0 {
			return ""
		}
		place = places[0]
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{place.Address.Locality, place.Address.Region, place.Address.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func salaryOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var sal struct {
		Currency string `json:"currency"`
		Value    struct {
			Value    float64 `json:"value"`
			MinValue float64 `json:"minValue"`
			MaxValue float64 `json:"maxValue"`
			UnitText string  `json:"unitText"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &sal); err != nil {
		return ""
	}

	var amount string
	switch {
	case sal.Value.MinValue > 0 && sal.Value.MaxValue > 0:
		amount = fmt.Sprintf("%.0f-%.0f", sal.Value.MinValue, sal.Value.MaxValue)
	case sal.Value.Value > 0:
		amount = fmt.Sprintf("%.0f", sal.Value.Value)
	default:
		return ""
	}

	out := amount
	if sal.Currency != "" {
		out += " " + sal.Currency
	}
	if sal.Value.UnitText != "" {
		out += " per " + strings.ToLower(sal.Value.UnitText)
	}
	return out
}
