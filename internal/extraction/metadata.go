package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// Metadata heuristics are plain regex/keyword extractors over resume text.
// Each heuristic is independently optional: when it finds no signal the
// corresponding metadata key is omitted, not set to null. All of them are
// deterministic, so re-running over fixed text yields identical output.

const (
	maxSkills         = 20
	maxCertifications = 10
	maxIndustries     = 10
	maxYears          = 50
)

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(?i)experience:\s*(\d+)\s*\+?\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?\s+in`),
	regexp.MustCompile(`(?i)over\s+(\d+)\s*years?`),
	regexp.MustCompile(`(?i)more\s+than\s+(\d+)\s*years?`),
}

var skillLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)skills?:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)proficient\s+(?:in|with):\s*([^\n]+)`),
	regexp.MustCompile(`(?i)experience\s+(?:in|with):\s*([^\n]+)`),
	regexp.MustCompile(`(?i)knowledge\s+of:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)familiar\s+with:\s*([^\n]+)`),
}

// techTools is the fixed vocabulary of known tools and software scanned for
// whole-word matches.
var techTools = []string{
	"Excel", "PowerPoint", "Word", "Outlook", "Power BI", "Tableau", "SAP",
	"Oracle", "Salesforce", "QuickBooks", "SQL", "Python", "R", "SPSS",
	"Alteryx", "SAS", "Adobe", "Photoshop", "AutoCAD", "Revit", "MATLAB",
	"JavaScript", "HTML", "CSS", "CRM", "ERP", "ServiceTitan", "Jira",
	"Trello", "Slack", "Teams", "Zoom",
}

var availabilityLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)availability:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)available:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)start\s+date:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)can\s+start:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)notice\s+period:\s*([^\n]+)`),
}

// availabilityTerms is the common-term fallback, tried only after every
// labeled pattern misses.
var availabilityTerms = []string{
	"immediate", "immediately", "asap", "available now", "ready to start",
	"2 weeks notice", "one month notice", "flexible", "negotiable",
}

var certLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)certification[s]?:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)certified\s+in:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)license[s]?:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)credential[s]?:\s*([^\n]+)`),
}

var commonCerts = []string{
	"PMP", "CPA", "CFA", "CISSP", "CISA", "AWS", "Azure", "Google Cloud",
	"Salesforce", "Microsoft", "Oracle", "Cisco", "CompTIA", "ITIL",
	"Scrum Master", "Agile", "Six Sigma", "Lean", "Project Management",
}

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)salary\s+expectation[s]?:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)desired\s+salary:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)expected\s+salary:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)salary\s+range:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)compensation:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)rate:\s*\$?(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)\$(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:per\s+)?(?:hour|hr|annual|yearly|month)?`),
}

var industryLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)industry\s+preference[s]?:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)interested\s+in:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)looking\s+for:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)seeking\s+opportunities\s+in:\s*([^\n]+)`),
}

var commonIndustries = []string{
	"Technology", "Finance", "Healthcare", "Education", "Manufacturing",
	"Retail", "Consulting", "Real Estate", "Construction", "Logistics",
	"Marketing", "Sales", "HR", "Accounting", "Legal", "Media",
	"Telecommunications", "Automotive", "Aerospace", "Energy",
}

var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)remote\s+work`),
	regexp.MustCompile(`(?i)work\s+from\s+home`),
	regexp.MustCompile(`(?i)telecommute`),
	regexp.MustCompile(`(?i)distributed\s+team`),
}

var schedulePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)full.?time`),
	regexp.MustCompile(`(?i)part.?time`),
	regexp.MustCompile(`(?i)contract`),
	regexp.MustCompile(`(?i)freelance`),
	regexp.MustCompile(`(?i)temporary`),
	regexp.MustCompile(`(?i)permanent`),
}

var travelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)willing\s+to\s+travel`),
	regexp.MustCompile(`(?i)travel\s+up\s+to`),
	regexp.MustCompile(`(?i)no\s+travel`),
	regexp.MustCompile(`(?i)minimal\s+travel`),
	regexp.MustCompile(`(?i)extensive\s+travel`),
}

var (
	nonWordChars   = regexp.MustCompile(`[^\w]`)
	listSeparators = regexp.MustCompile(`[,;|•·\n]`)
)

// wholeWordRegex compiles a case-insensitive whole-word matcher for a
// vocabulary term.
func wholeWordRegex(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

var (
	techToolRegexps = compileVocabulary(techTools)
	certRegexps     = compileVocabulary(commonCerts)
	industryRegexps = compileVocabulary(commonIndustries)
)

func compileVocabulary(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		out[i] = wholeWordRegex(term)
	}
	return out
}

// ExtractYearsOfExperience returns the first year count in [0,50] matched by
// the experience-phrase patterns, or nil.
func ExtractYearsOfExperience(content string) *int {
	for _, pattern := range yearsPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			years, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if years >= 0 && years <= maxYears {
				return &years
			}
		}
	}
	return nil
}

// splitListItems breaks a captured list on common separators and keeps items
// within the given length bounds.
func splitListItems(text string, minLen, maxLen int) []string {
	var out []string
	for _, item := range listSeparators.Split(text, -1) {
		item = strings.TrimSpace(item)
		if len(item) > minLen && len(item) < maxLen {
			out = append(out, item)
		}
	}
	return out
}

// appendUnique appends items not already present, preserving first-seen
// order so output stays deterministic.
func appendUnique(dst []string, seen map[string]struct{}, items ...string) []string {
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}

// ExtractSkillsList pulls skills from labeled lists plus the fixed tool
// vocabulary, capped at 20 entries.
func ExtractSkillsList(content string) []string {
	var skills []string
	seen := make(map[string]struct{})

	for _, pattern := range skillLabelPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			skills = appendUnique(skills, seen, splitListItems(match[1], 2, 50)...)
		}
	}
	for i, re := range techToolRegexps {
		if re.MatchString(content) {
			skills = appendUnique(skills, seen, techTools[i])
		}
	}

	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}
	return skills
}

// ExtractAvailability tries the labeled patterns first, then the common-term
// fallback. Returns "" when nothing matches.
func ExtractAvailability(content string) string {
	for _, pattern := range availabilityLabelPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			availability := strings.TrimSpace(match[1])
			if len(availability) > 3 && len(availability) < 100 {
				return availability
			}
		}
	}
	lower := strings.ToLower(content)
	for _, term := range availabilityTerms {
		if strings.Contains(lower, term) {
			return term
		}
	}
	return ""
}

// ExtractCertifications pulls certifications from labeled lists plus the
// fixed vocabulary, capped at 10 entries.
func ExtractCertifications(content string) []string {
	var certs []string
	seen := make(map[string]struct{})

	for _, pattern := range certLabelPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			certs = appendUnique(certs, seen, splitListItems(match[1], 3, 100)...)
		}
	}
	for i, re := range certRegexps {
		if re.MatchString(content) {
			certs = appendUnique(certs, seen, commonCerts[i])
		}
	}

	if len(certs) > maxCertifications {
		certs = certs[:maxCertifications]
	}
	return certs
}

// ExtractDesiredSalary returns the first salary phrase matched, or "".
func ExtractDesiredSalary(content string) string {
	for _, pattern := range salaryPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			salary := strings.TrimSpace(match[1])
			if len(salary) > 1 && len(salary) < 50 {
				return salary
			}
		}
	}
	return ""
}

// ExtractPreferredIndustries pulls industries from labeled lists plus the
// fixed vocabulary, capped at 10 entries.
func ExtractPreferredIndustries(content string) []string {
	var industries []string
	seen := make(map[string]struct{})

	for _, pattern := range industryLabelPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			industries = appendUnique(industries, seen, splitListItems(match[1], 3, 50)...)
		}
	}
	for i, re := range industryRegexps {
		if re.MatchString(content) {
			industries = appendUnique(industries, seen, commonIndustries[i])
		}
	}

	if len(industries) > maxIndustries {
		industries = industries[:maxIndustries]
	}
	return industries
}

// ExtractWorkPreferences derives the boolean/string work-preference flags.
// Returns nil when no signal is present at all.
func ExtractWorkPreferences(content string) *storage.WorkPreferences {
	prefs := &storage.WorkPreferences{}
	found := false

	for _, pattern := range remotePatterns {
		if pattern.MatchString(content) {
			prefs.RemoteWork = true
			found = true
			break
		}
	}

	for _, pattern := range schedulePatterns {
		if match := pattern.FindString(content); match != "" {
			prefs.WorkSchedule = nonWordChars.ReplaceAllString(strings.ToLower(match), "")
			found = true
			break
		}
	}

	for _, pattern := range travelPatterns {
		if match := pattern.FindString(content); match != "" {
			prefs.TravelPreference = match
			found = true
			break
		}
	}

	if !found {
		return nil
	}
	return prefs
}

// ExtractMetadata runs every heuristic over the resume text and assembles
// the metadata object. Absent signals leave their keys omitted.
func ExtractMetadata(content string) *storage.Metadata {
	if strings.TrimSpace(content) == "" {
		return &storage.Metadata{}
	}

	m := &storage.Metadata{
		YearsOfExperience:   ExtractYearsOfExperience(content),
		SkillsList:          ExtractSkillsList(content),
		Availability:        ExtractAvailability(content),
		Certifications:      ExtractCertifications(content),
		DesiredSalary:       ExtractDesiredSalary(content),
		PreferredIndustries: ExtractPreferredIndustries(content),
		WorkPreferences:     ExtractWorkPreferences(content),
	}
	if !m.IsEmpty() {
		m.ExtractedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return m
}
