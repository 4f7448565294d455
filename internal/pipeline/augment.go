package pipeline

import (
	"fmt"
	"strings"

	"github.com/rosterhq/talentsearch/pkg/types"
)

const (
	maxContextSkills   = 12
	maxContextProjects = 6
	maxContextReasons  = 5
)

// BuildAugmentationContext renders ranked results as a plain-text block
// suitable for downstream prompt assembly. Field lists are truncated to keep
// the block within a predictable token budget. Results whose candidate is
// missing from profiles are skipped rather than rendered half-empty.
func BuildAugmentationContext(results []types.SearchResult, profiles map[int64]*types.CandidateProfile) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		c, ok := profiles[r.CandidateID]
		if !ok {
			continue
		}
		skills := strings.Join(truncate(c.Skills, maxContextSkills), ", ")
		projects := strings.Join(truncate(c.Projects, maxContextProjects), ", ")
		reasons := strings.Join(truncate(r.MatchReasons, maxContextReasons), "; ")

		block := fmt.Sprintf(
			"Candidate %d: %s\nExperience: %d years | Match Score: %.2f\nSkills: %s\nProjects: %s\nWhy they fit: %s",
			len(blocks)+1, c.Name, c.ExperienceYears, r.FinalScore, skills, projects, reasons,
		)
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func truncate(values []string, max int) []string {
	if len(values) <= max {
		return values
	}
	return values[:max]
}
