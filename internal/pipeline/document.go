package pipeline

import (
	"fmt"
	"strings"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// BuildProfileText composes the document-role text for one candidate.
// Beyond the raw fields it appends derived specialization and domain lines,
// which measurably improve retrieval for role-shaped queries ("full-stack",
// "healthcare ML") that never mention a literal skill.
func BuildProfileText(c *types.CandidateProfile) string {
	parts := []string{
		fmt.Sprintf("Employee: %s", c.Name),
		fmt.Sprintf("Technical Skills: %s", strings.Join(c.Skills, ", ")),
		fmt.Sprintf("Professional Experience: %d years in the industry", c.ExperienceYears),
		fmt.Sprintf("Project Portfolio: %s", strings.Join(c.Projects, ", ")),
		fmt.Sprintf("Current Status: %s", c.Availability),
	}

	if ctx := specializationContext(c); ctx != "" {
		parts = append(parts, fmt.Sprintf("Specialization Areas: %s", ctx))
	}
	if ctx := domainContext(c); ctx != "" {
		parts = append(parts, fmt.Sprintf("Domain Expertise: %s", ctx))
	}

	return strings.Join(parts, ". ")
}

// specializationContext derives role descriptions from skill combinations
func specializationContext(c *types.CandidateProfile) string {
	skills := lowerSet(c.Skills)
	projectText := strings.ToLower(strings.Join(c.Projects, " "))

	var contexts []string

	if anyOf(skills, "tensorflow", "pytorch", "scikit-learn", "machine learning", "ai") {
		contexts = append(contexts, "artificial intelligence and machine learning specialist")
	}
	if anyOf(skills, "python", "javascript", "react") && anyOf(skills, "django", "flask", "nodejs", "express") {
		contexts = append(contexts, "full-stack web application developer")
	}
	if anyOf(skills, "ios", "android", "react native", "flutter", "swift", "kotlin") {
		contexts = append(contexts, "mobile application developer")
	}
	if anyOf(skills, "python", "sql", "pandas", "numpy") &&
		(strings.Contains(projectText, "data") || strings.Contains(projectText, "analytics") || strings.Contains(projectText, "visualization")) {
		contexts = append(contexts, "data science and analytics expert")
	}
	if anyOf(skills, "aws", "docker", "kubernetes", "terraform", "devops") {
		contexts = append(contexts, "cloud infrastructure and DevOps engineer")
	}
	if anyOf(skills, "react", "vue", "angular", "typescript", "css") {
		contexts = append(contexts, "frontend user interface specialist")
	}
	if anyOf(skills, "python", "java", "nodejs", "go", "rust") && anyOf(skills, "api", "microservices", "database") {
		contexts = append(contexts, "backend systems and API developer")
	}

	return strings.Join(contexts, ", ")
}

// domainContext derives business-domain descriptions from project history
func domainContext(c *types.CandidateProfile) string {
	projectText := strings.ToLower(strings.Join(c.Projects, " "))

	var domains []string
	add := func(desc string, terms ...string) {
		for _, term := range terms {
			if strings.Contains(projectText, term) {
				domains = append(domains, desc)
				return
			}
		}
	}

	add("healthcare and medical systems", "health", "medical", "patient", "hospital", "clinic", "x-ray", "imaging")
	add("e-commerce and retail solutions", "shop", "commerce", "retail", "checkout", "cart")
	add("financial technology and services", "banking", "finance", "payment", "trading", "crypto")
	add("educational technology", "education", "learning", "course", "student", "school")
	add("game development", "game", "gaming", "unity", "unreal")
	add("social media and communication platforms", "social", "chat", "messaging", "communication")

	return strings.Join(domains, ", ")
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

func anyOf(set map[string]bool, keys ...string) bool {
	for _, k := range keys {
		if set[k] {
			return true
		}
	}
	return false
}
