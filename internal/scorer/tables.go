package scorer

// skillSynonyms expands shorthand query terms into the canonical skill
// names candidates list on their profiles.
var skillSynonyms = map[string][]string{
	"ml":       {"machine learning", "ai", "artificial intelligence"},
	"js":       {"javascript", "ecmascript"},
	"ts":       {"typescript"},
	"py":       {"python"},
	"react":    {"reactjs", "react.js"},
	"node":     {"nodejs", "node.js"},
	"db":       {"database", "databases"},
	"api":      {"rest api", "restful api", "web api"},
	"cloud":    {"aws", "azure", "gcp", "google cloud"},
	"mobile":   {"ios", "android", "react native", "flutter"},
	"data":     {"data science", "data analysis", "analytics"},
	"backend":  {"server-side", "server side"},
	"frontend": {"client-side", "client side", "ui", "user interface"},
}

// domainKeywords maps a business domain to evidence terms. A term on either
// side (query or candidate projects/skills) counts as domain signal.
var domainKeywords = map[string][]string{
	"healthcare": {"medical", "health", "patient", "clinical", "diagnosis", "hipaa", "ehr", "emr", "x-ray", "imaging"},
	"fintech":    {"financial", "banking", "payment", "cryptocurrency", "blockchain", "trading"},
	"ecommerce":  {"retail", "shopping", "marketplace", "commerce", "store", "cart"},
	"education":  {"learning", "educational", "academic", "student", "course", "training"},
	"gaming":     {"game", "gaming", "unity", "unreal", "graphics", "entertainment"},
	"iot":        {"internet of things", "sensors", "embedded", "hardware", "device"},
}

// knownSkills is the vocabulary of technical terms recognized as skills
var knownSkills = map[string]bool{
	"python": true, "javascript": true, "typescript": true, "java": true,
	"c++": true, "c#": true, "go": true, "rust": true, "php": true, "ruby": true,
	"react": true, "angular": true, "vue": true, "nodejs": true, "express": true,
	"django": true, "flask": true, "spring": true, "laravel": true,
	"html": true, "css": true, "sass": true, "scss": true, "bootstrap": true, "tailwind": true,
	"sql": true, "mysql": true, "postgresql": true, "mongodb": true, "redis": true, "elasticsearch": true,
	"aws": true, "azure": true, "gcp": true, "docker": true, "kubernetes": true,
	"jenkins": true, "terraform": true,
	"tensorflow": true, "pytorch": true, "scikit-learn": true, "pandas": true,
	"numpy": true, "opencv": true,
	"git": true, "github": true, "gitlab": true, "ci/cd": true, "devops": true,
	"agile": true, "scrum": true,
	"ios": true, "android": true, "react native": true, "flutter": true,
	"swift": true, "kotlin": true,
	"machine learning": true, "ai": true, "data science": true, "deep learning": true,
	"nlp": true, "computer vision": true,
	"ml": true, "artificial intelligence": true, "sklearn": true,
}

// stopwords are filtered out before keyword extraction
var stopwords = map[string]bool{
	"i": true, "need": true, "want": true, "looking": true, "for": true,
	"someone": true, "with": true, "who": true, "has": true, "can": true,
	"is": true, "are": true, "the": true, "a": true, "an": true, "and": true,
	"or": true, "but": true, "in": true, "on": true, "at": true, "to": true,
	"from": true, "by": true, "about": true, "that": true, "this": true,
	"these": true, "those": true, "be": true, "been": true, "being": true,
	"have": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "could": true, "may": true,
	"might": true, "must": true, "project": true, "work": true,
}

// replacement pairs applied during query cleanup. Order matters: "w/o" must
// be rewritten before "w/" eats its prefix.
var replacements = []struct {
	old string
	new string
}{
	{"w/o", "without"},
	{"w/", "with"},
	{"&", "and"},
	{"+", "plus"},
	{"exp", "experience"},
	{"dev", "developer"},
	{"eng", "engineer"},
}
