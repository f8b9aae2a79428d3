package static

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"

	"github.com/auto-cv/jobscrape/pkg/models"
)

// fillFromInlineScripts is the last-resort probe for boards that ship the
// posting as a JavaScript state blob instead of markup. Inline scripts run in
// a throwaway goja sandbox with a minimal window mock; globals left behind
// are scanned for objects that look like a posting. Returns true when a
// description was recovered.
func fillFromInlineScripts(doc *goquery.Document, rec *models.JobPosting) bool {
	vm := goja.New()

	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("document", map[string]any{
		"location": map[string]any{"href": rec.URL},
	})
	vm.Set("location", map[string]any{"href": rec.URL})
	vm.Set("console", map[string]any{
		"log":   func(goja.FunctionCall) goja.Value { return nil },
		"error": func(goja.FunctionCall) goja.Value { return nil },
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		if content := s.Text(); content != "" {
			// Most scripts fail against the mock DOM; that's expected.
			_, _ = vm.RunString(content)
		}
	})

	for _, key := range vm.GlobalObject().Keys() {
		if isStandardGlobal(key) {
			continue
		}
		val := vm.Get(key)
		if val == nil {
			continue
		}
		obj, ok := val.Export().(map[string]any)
		if !ok {
			continue
		}
		if applyPostingObject(obj, rec) {
			log.Debug().Str("global", key).Msg("Posting data found in script global")
			return true
		}
	}
	return false
}

// applyPostingObject copies posting-shaped fields out of a script global.
// An object counts as a posting only if it carries a description.
func applyPostingObject(obj map[string]any, rec *models.JobPosting) bool {
	desc := stringField(obj, "description", "jobDescription", "raw_description")
	if desc == "" {
		return false
	}

	if strings.Contains(desc, "<") {
		rec.DescriptionHTML = desc
		rec.RawDescription = htmlToText(desc)
	} else {
		rec.RawDescription = strings.TrimSpace(desc)
	}

	if title := stringField(obj, "title", "jobTitle"); missing(rec.Title) && title != "" {
		rec.Title = title
	}
	if company := stringField(obj, "company", "companyName", "employer"); missing(rec.Company) && company != "" {
		rec.Company = company
	}
	if loc := stringField(obj, "location"); rec.Location == "" && loc != "" {
		rec.Location = loc
	}
	return true
}

func stringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
			if m, ok := v.(map[string]any); ok {
				// e.g. company: {name: "Acme"}
				if s, ok := m["name"].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func isStandardGlobal(key string) bool {
	switch key {
	case "window", "self", "document", "location", "console",
		"Object", "Array", "String", "Number", "Boolean",
		"Date", "Math", "JSON", "RegExp", "Error",
		"Function", "parseInt", "parseFloat", "isNaN",
		"isFinite", "encodeURI", "decodeURI", "encodeURIComponent",
		"decodeURIComponent", "undefined", "NaN", "Infinity":
		return true
	}
	return key == "globalThis"
}
