package aggregator

import (
	"context"
	"strings"
	"time"
)

// Source fetches listings from one upstream provider. Implementations must
// degrade gracefully: a source that cannot reach its upstream returns its
// curated fallback catalog rather than an error.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query, location string, limit int) ([]Listing, error)
}

// staticSource serves a curated catalog. It stands in for providers whose
// public APIs no longer exist and doubles as the fallback path in tests.
type staticSource struct {
	name    string
	catalog []Listing
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(_ context.Context, _, _ string, limit int) ([]Listing, error) {
	out := make([]Listing, 0, limit)
	now := time.Now()
	for _, l := range s.catalog {
		if len(out) >= limit {
			break
		}
		l.FetchedAt = now
		out = append(out, l)
	}
	return out, nil
}

// NewGitHubSource returns the curated developer-jobs catalog. The upstream
// GitHub Jobs API was retired, so this source is static.
func NewGitHubSource() Source {
	return &staticSource{
		name: "GitHub",
		catalog: []Listing{
			{
				ID: "github_1", Title: "Frontend Developer", Company: "Tech Startup",
				Location: "San Francisco, CA", Salary: "$80,000 - $120,000",
				Description: "We are looking for a talented frontend developer to join our team.",
				JobType:     "Full-time", Experience: "Mid Level",
				Skills:     []string{"React", "JavaScript", "CSS"},
				PostedDate: "2 days ago", Source: "GitHub",
				ExternalURL: "https://jobs.github.com/positions/1", IsExternal: true,
			},
		},
	}
}

// NewStartupSource returns the curated startup-jobs catalog.
func NewStartupSource() Source {
	return &staticSource{
		name: "Startup",
		catalog: []Listing{
			{
				ID: "startup_1", Title: "Full Stack Developer", Company: "Innovative Startup",
				Location: "New York, NY", Salary: "$70,000 - $100,000 + Equity",
				Description: "Join our fast-growing startup as a full stack developer.",
				JobType:     "Full-time", Experience: "Entry Level",
				Skills:     []string{"Node.js", "React", "MongoDB"},
				PostedDate: "1 day ago", Source: "Wellfound",
				ExternalURL: "https://wellfound.com/startup/innovative-startup/jobs/123456", IsExternal: true,
			},
			{
				ID: "startup_2", Title: "DevOps Engineer", Company: "Cloud Startup",
				Location: "Remote", Salary: "$90,000 - $130,000",
				Description: "We need a DevOps engineer to help scale our infrastructure.",
				JobType:     "Full-time", Experience: "Mid Level",
				Skills:     []string{"AWS", "Docker", "Kubernetes"},
				PostedDate: "3 days ago", Source: "Wellfound",
				ExternalURL: "https://wellfound.com/startup/cloud-startup/jobs/789012", IsExternal: true,
			},
		},
	}
}

// extractSkills scans a description for known skill names, capped at five.
func extractSkills(description string) []string {
	lower := strings.ToLower(description)
	var found []string
	for _, skill := range knownSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
			if len(found) == 5 {
				break
			}
		}
	}
	return found
}
