package extract

import (
	"sort"
	"strings"
)

// skillVocabulary is the fixed set of technology terms recognized in job
// descriptions. Matching is by case-insensitive substring; the vocabulary
// grows by appending terms.
var skillVocabulary = []string{
	"Python", "SQL", "JavaScript", "AWS", "Docker", "Kubernetes", "React",
	"Angular", "Vue.js", "Node.js", "TypeScript", "Java", "C#", "Go", "Rust",
	"Azure", "GCP", "Terraform", "Ansible", "Git", "CI/CD", "Agile", "Scrum",
	"Linux", "Bash", "Data Science", "Machine Learning", "Deep Learning",
	"Pandas", "NumPy", "Scikit-learn", "TensorFlow", "PyTorch", "Spark",
	"Hadoop", "Kafka", "MongoDB", "PostgreSQL", "MySQL", "Redis", "GraphQL",
	"REST API", "Microservices", "Frontend", "Backend", "Fullstack", "DevOps",
	"Cloud", "Security", "Networking", "Blockchain", "AI", "NLP",
	"Computer Vision",
}

// ScanSkills returns the deduplicated set of known technology terms that
// appear in the description, case-insensitively. The result is sorted so
// callers get a stable order out of what is conceptually a set.
func ScanSkills(description string) []string {
	if description == "" {
		return nil
	}
	lower := strings.ToLower(description)

	seen := make(map[string]bool, len(skillVocabulary))
	var skills []string
	for _, term := range skillVocabulary {
		if seen[term] {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			seen[term] = true
			skills = append(skills, term)
		}
	}
	sort.Strings(skills)
	return skills
}
