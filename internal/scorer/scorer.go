// Package scorer implements the lexical half of hybrid ranking: skill
// matching with synonym expansion, domain-context detection, and
// experience-threshold parsing. Scoring is a pure function of the query
// text and one candidate; it holds no state and touches no providers.
package scorer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// Weights are the tunable increments of the keyword scorer. Domain matches
// outweigh skill matches: shipping in a domain signals applied experience,
// not just tooling familiarity.
type Weights struct {
	SkillMatch       float64
	DomainMatch      float64
	ExperienceMet    float64
	ExperienceMissed float64 // negative
	MaxYearsMet      float64
	MaxYearsExceeded float64 // negative
	Available        float64
	Busy             float64 // negative
}

// DefaultWeights returns the stock scoring weights
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:       0.3,
		DomainMatch:      3.0,
		ExperienceMet:    0.3,
		ExperienceMissed: -0.5,
		MaxYearsMet:      0.2,
		MaxYearsExceeded: -0.2,
		Available:        0.1,
		Busy:             -0.2,
	}
}

// ExperienceRequirement is a parsed years-of-experience constraint
type ExperienceRequirement struct {
	MinYears int
	MaxYears int
	HasMin   bool
	HasMax   bool
}

// ParsedQuery is the structured form of a free-text staffing query
type ParsedQuery struct {
	Original   string
	Cleaned    string
	Keywords   []string
	Skills     []string
	Domains    []string
	Experience ExperienceRequirement
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s+\-.]`)
	rangeYearsRe = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*(?:years?|yrs?)`)
	minYearsRe   = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years?|yrs?)`)
	seniorRe     = regexp.MustCompile(`\b(?:senior|sr|lead|principal|architect)\b`)
	midRe        = regexp.MustCompile(`\b(?:mid|middle)\b`)
	juniorRe     = regexp.MustCompile(`\b(?:junior|jr|entry)\b`)
)

// Scorer scores candidates against parsed queries
type Scorer struct {
	weights Weights
}

// New creates a scorer with the given weights
func New(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the scorer's configured weights
func (s *Scorer) Weights() Weights {
	return s.weights
}

// CleanQuery lowercases, folds whitespace, expands shorthand tokens, and
// strips punctuation that carries no signal. "5+" style tokens survive so
// experience parsing still sees them.
func CleanQuery(query string) string {
	cleaned := strings.ToLower(strings.TrimSpace(query))
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")

	tokens := strings.Split(cleaned, " ")
	for i, token := range tokens {
		for _, r := range replacements {
			if token == r.old {
				tokens[i] = r.new
				break
			}
		}
	}
	cleaned = strings.Join(tokens, " ")

	cleaned = specialsRe.ReplaceAllString(cleaned, " ")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Parse turns a raw query into its structured form
func Parse(query string) ParsedQuery {
	cleaned := CleanQuery(query)
	keywords := extractKeywords(cleaned)

	return ParsedQuery{
		Original:   query,
		Cleaned:    cleaned,
		Keywords:   keywords,
		Skills:     identifySkills(cleaned, keywords),
		Domains:    identifyDomains(cleaned, keywords),
		Experience: parseExperience(cleaned),
	}
}

// extractKeywords filters stopwords and short tokens, then folds in
// synonym expansions.
func extractKeywords(cleaned string) []string {
	seen := make(map[string]bool)
	var keywords []string

	add := func(word string) {
		if !seen[word] {
			seen[word] = true
			keywords = append(keywords, word)
		}
	}

	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 || stopwords[word] {
			continue
		}
		add(word)
		for _, syn := range skillSynonyms[word] {
			add(syn)
		}
	}

	return keywords
}

// identifySkills finds technical skill terms in the query. Multi-word
// skills are found by substring, single tokens against the vocabulary,
// and shorthand through the synonym table.
func identifySkills(cleaned string, keywords []string) []string {
	seen := make(map[string]bool)
	var skills []string

	add := func(skill string) {
		if !seen[skill] {
			seen[skill] = true
			skills = append(skills, skill)
		}
	}

	for skill := range knownSkills {
		if strings.Contains(cleaned, skill) {
			add(skill)
		}
	}
	for _, keyword := range keywords {
		if knownSkills[keyword] {
			add(keyword)
		}
		for _, syn := range skillSynonyms[keyword] {
			add(syn)
		}
	}

	// Map iteration above is unordered; keep output deterministic
	sort.Strings(skills)
	return skills
}

// identifyDomains detects business-domain context in the query
func identifyDomains(cleaned string, keywords []string) []string {
	keywordSet := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		keywordSet[k] = true
	}

	var domains []string
	for domain, terms := range domainKeywords {
		matched := strings.Contains(cleaned, domain)
		for _, term := range terms {
			if matched {
				break
			}
			if strings.Contains(cleaned, term) || keywordSet[term] {
				matched = true
			}
		}
		if matched {
			domains = append(domains, domain)
		}
	}

	sort.Strings(domains)
	return domains
}

// parseExperience extracts years-of-experience constraints. Explicit
// numbers win over seniority words; "senior" alone implies five years.
func parseExperience(cleaned string) ExperienceRequirement {
	var req ExperienceRequirement

	if m := rangeYearsRe.FindStringSubmatch(cleaned); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		req.MinYears, req.HasMin = lo, true
		req.MaxYears, req.HasMax = hi, true
		return req
	}

	if m := minYearsRe.FindStringSubmatch(cleaned); m != nil {
		years, _ := strconv.Atoi(m[1])
		req.MinYears, req.HasMin = years, true
	}

	if !req.HasMin {
		switch {
		case seniorRe.MatchString(cleaned):
			req.MinYears, req.HasMin = 5, true
		case midRe.MatchString(cleaned):
			req.MinYears, req.HasMin = 3, true
		case juniorRe.MatchString(cleaned):
			req.MaxYears, req.HasMax = 2, true
		}
	}

	return req
}

// Score computes the keyword score for one candidate. The returned score
// is clamped non-negative; reasons come back ordered with domain evidence
// first, then skills, experience, and availability.
func (s *Scorer) Score(parsed ParsedQuery, candidate *types.CandidateProfile) (float64, []string) {
	var score float64
	var domainReasons, skillReasons, otherReasons []string

	candidateText := strings.ToLower(strings.Join(candidate.Projects, " ") + " " + strings.Join(candidate.Skills, " "))

	for _, domain := range parsed.Domains {
		if candidateHasDomain(candidateText, domain) {
			score += s.weights.DomainMatch
			domainReasons = append(domainReasons, fmt.Sprintf("Domain match: %s", domain))
		}
	}

	matchedSkills := make(map[string]bool)
	for _, skill := range parsed.Skills {
		for _, candidateSkill := range candidate.Skills {
			if strings.Contains(strings.ToLower(candidateSkill), skill) && !matchedSkills[candidateSkill] {
				matchedSkills[candidateSkill] = true
				score += s.weights.SkillMatch
				skillReasons = append(skillReasons, fmt.Sprintf("Skill match: %s", candidateSkill))
				break
			}
		}
	}

	if parsed.Experience.HasMin {
		if candidate.ExperienceYears >= parsed.Experience.MinYears {
			score += s.weights.ExperienceMet
			otherReasons = append(otherReasons, fmt.Sprintf("Meets experience requirement: %d years", candidate.ExperienceYears))
		} else {
			// Soft penalty over hard exclusion keeps recall high
			score += s.weights.ExperienceMissed
			otherReasons = append(otherReasons, fmt.Sprintf("Below requested experience: %d of %d years", candidate.ExperienceYears, parsed.Experience.MinYears))
		}
	}
	if parsed.Experience.HasMax {
		if candidate.ExperienceYears <= parsed.Experience.MaxYears {
			score += s.weights.MaxYearsMet
		} else {
			score += s.weights.MaxYearsExceeded
		}
	}

	switch candidate.Availability {
	case types.AvailabilityAvailable:
		score += s.weights.Available
		otherReasons = append(otherReasons, "Currently available")
	case types.AvailabilityBusy:
		score += s.weights.Busy
	}

	if score < 0 {
		score = 0
	}

	reasons := make([]string, 0, len(domainReasons)+len(skillReasons)+len(otherReasons))
	reasons = append(reasons, domainReasons...)
	reasons = append(reasons, skillReasons...)
	reasons = append(reasons, otherReasons...)
	return score, reasons
}

// candidateHasDomain reports whether the candidate's projects or skills
// carry evidence for the domain.
func candidateHasDomain(candidateText, domain string) bool {
	if strings.Contains(candidateText, domain) {
		return true
	}
	for _, term := range domainKeywords[domain] {
		if strings.Contains(candidateText, term) {
			return true
		}
	}
	return false
}
