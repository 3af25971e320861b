package aggregator

import "time"

// Listing is an external job posting surfaced alongside campus postings.
// External listings are read-only; applications happen on the source site.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	Description string    `json:"description"`
	JobType     string    `json:"job_type"`
	Experience  string    `json:"experience"`
	Skills      []string  `json:"skills"`
	PostedDate  string    `json:"posted_date"`
	Source      string    `json:"source"`
	ExternalURL string    `json:"external_url"`
	IsExternal  bool      `json:"is_external"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Category groups search keywords under a stable id for the category picker.
type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Categories returns the fixed category catalog used by advanced search.
func Categories() []Category {
	return []Category{
		{ID: "software", Name: "Software Development", Keywords: []string{"software", "developer", "programmer", "engineer"}},
		{ID: "data", Name: "Data Science", Keywords: []string{"data scientist", "data analyst", "machine learning", "ai"}},
		{ID: "design", Name: "Design", Keywords: []string{"designer", "ui", "ux", "graphic design"}},
		{ID: "marketing", Name: "Marketing", Keywords: []string{"marketing", "digital marketing", "social media"}},
		{ID: "sales", Name: "Sales", Keywords: []string{"sales", "business development", "account manager"}},
		{ID: "finance", Name: "Finance", Keywords: []string{"finance", "accounting", "financial analyst"}},
		{ID: "hr", Name: "Human Resources", Keywords: []string{"hr", "human resources", "recruiter"}},
		{ID: "operations", Name: "Operations", Keywords: []string{"operations", "project manager", "coordinator"}},
	}
}

// PopularLocations returns the fixed location suggestions.
func PopularLocations() []string {
	return []string{
		"Remote",
		"New York, NY",
		"San Francisco, CA",
		"Los Angeles, CA",
		"Chicago, IL",
		"Austin, TX",
		"Seattle, WA",
		"Boston, MA",
		"Denver, CO",
		"Miami, FL",
		"Atlanta, GA",
		"Dallas, TX",
		"Phoenix, AZ",
		"Portland, OR",
		"Nashville, TN",
	}
}

// knownSkills is the vocabulary matched against scraped descriptions.
var knownSkills = []string{
	"JavaScript", "Python", "Java", "React", "Node.js", "Angular", "Vue.js",
	"HTML", "CSS", "SQL", "MongoDB", "PostgreSQL", "AWS", "Docker",
	"Kubernetes", "Git", "REST API", "GraphQL", "TypeScript", "PHP",
	"Ruby", "Go", "C++", "C#", "Swift", "Kotlin", "Flutter", "React Native",
}
