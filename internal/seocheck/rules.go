package seocheck

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Bahjat/seo-check-api/internal/model"
)

// Recommended length ranges, inclusive, in characters.
const (
	minTitleLen       = 50
	maxTitleLen       = 60
	minDescriptionLen = 150
	maxDescriptionLen = 160
)

// Rule is one independent on-page check. Check returns the message to
// report and true when the issue is present.
type Rule struct {
	Kind  model.IssueKind
	Check func(doc *Document) (string, bool)
}

// DefaultRules returns the full rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: model.IssueMissingTitle, Check: checkMissingTitle},
		{Kind: model.IssueTitleLength, Check: checkTitleLength},
		{Kind: model.IssueMissingDescription, Check: checkMissingDescription},
		{Kind: model.IssueDescriptionLength, Check: checkDescriptionLength},
		{Kind: model.IssueMissingH1, Check: checkMissingH1},
		{Kind: model.IssueMultipleH1, Check: checkMultipleH1},
		{Kind: model.IssueMissingRobots, Check: checkMissingRobots},
		{Kind: model.IssueDuplicateRobots, Check: checkDuplicateRobots},
		{Kind: model.IssueMissingCanonical, Check: checkMissingCanonical},
		{Kind: model.IssueMissingImgAlt, Check: checkMissingImgAlt},
	}
}

// Evaluate runs every rule against doc and collects the ones that fired.
// The result is empty, never nil, when the page is clean.
func Evaluate(doc *Document, rules []Rule) model.IssueMap {
	issues := make(model.IssueMap)
	for _, r := range rules {
		if msg, fired := r.Check(doc); fired {
			issues[r.Kind] = msg
		}
	}
	return issues
}

func checkMissingTitle(doc *Document) (string, bool) {
	if isBlank(doc.Title) {
		return "Missing <title> tag.", true
	}
	return "", false
}

func checkTitleLength(doc *Document) (string, bool) {
	if isBlank(doc.Title) {
		return "", false
	}
	n := utf8.RuneCountInString(*doc.Title)
	if n < minTitleLen || n > maxTitleLen {
		return fmt.Sprintf("Title length is %d characters (should be %d-%d).", n, minTitleLen, maxTitleLen), true
	}
	return "", false
}

func checkMissingDescription(doc *Document) (string, bool) {
	if isBlank(doc.Description) {
		return "Missing Description Meta tag.", true
	}
	return "", false
}

func checkDescriptionLength(doc *Document) (string, bool) {
	if isBlank(doc.Description) {
		return "", false
	}
	n := utf8.RuneCountInString(*doc.Description)
	if n < minDescriptionLen || n > maxDescriptionLen {
		return fmt.Sprintf("Description length is %d characters (should be %d-%d).", n, minDescriptionLen, maxDescriptionLen), true
	}
	return "", false
}

func checkMissingH1(doc *Document) (string, bool) {
	if doc.H1Count == 0 {
		return "Missing H1 tag.", true
	}
	return "", false
}

func checkMultipleH1(doc *Document) (string, bool) {
	if doc.H1Count > 1 {
		return fmt.Sprintf("Found %d - H1 tags (should be only one).", doc.H1Count), true
	}
	return "", false
}

func checkMissingRobots(doc *Document) (string, bool) {
	if doc.RobotsCount == 0 {
		return "Missing Robots meta tag.", true
	}
	return "", false
}

func checkDuplicateRobots(doc *Document) (string, bool) {
	if doc.RobotsCount > 1 {
		return fmt.Sprintf("Found %d - robots tags (should be only one).", doc.RobotsCount), true
	}
	return "", false
}

func checkMissingCanonical(doc *Document) (string, bool) {
	if doc.Canonical == nil || doc.Canonical.Href == nil || strings.TrimSpace(*doc.Canonical.Href) == "" {
		return "Missing or empty canonical tag.", true
	}
	return "", false
}

func checkMissingImgAlt(doc *Document) (string, bool) {
	var missing int
	for _, img := range doc.Images {
		if img.Alt == nil || strings.TrimSpace(*img.Alt) == "" {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Sprintf("%d image(s) missing alt attribute.", missing), true
	}
	return "", false
}

// isBlank reports whether an optional text value is absent or empty. Text
// made only of whitespace still counts as present.
func isBlank(s *string) bool {
	return s == nil || *s == ""
}
