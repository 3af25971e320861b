package aggregator

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campushire/backend/pkg/logger"
)

// Defaults applied when a request omits them.
const (
	DefaultQuery    = "software engineer"
	DefaultLocation = "remote"
	DefaultLimit    = 20
	MaxLimit        = 100
)

// SearchInput carries the advanced-search parameters. Category, experience,
// and job type are folded into the upstream query; salary filters the
// results afterwards.
type SearchInput struct {
	Query      string
	Location   string
	Category   string
	Experience string
	JobType    string
	Salary     string
	Source     string
	Limit      int
}

// Service fans a fetch out to every registered source and merges results.
type Service struct {
	sources []Source
	cache   *listingCache
}

// NewService builds the aggregator over the given sources. rdb may be nil;
// caching then silently disables.
func NewService(rdb *redis.Client, sources ...Source) *Service {
	return &Service{sources: sources, cache: newListingCache(rdb)}
}

// Fetch returns listings for one named source, or all sources interleaved
// when source is empty or "all". It never fails outright: sources degrade to
// their fallback catalogs and an unknown source name yields no listings.
func (s *Service) Fetch(ctx context.Context, source, query, location string, limit int) []Listing {
	query, location, limit = normalize(query, location, limit)

	key := cacheKey(strings.ToLower(source), query, location, limit)
	if cached, ok := s.cache.get(ctx, key); ok {
		return cached
	}

	var listings []Listing
	if source == "" || strings.EqualFold(source, "all") {
		listings = s.fetchAll(ctx, query, location, limit)
	} else {
		for _, src := range s.sources {
			if strings.EqualFold(src.Name(), source) {
				listings = s.fetchOne(ctx, src, query, location, limit)
				break
			}
		}
	}

	if listings == nil {
		listings = []Listing{}
	}
	s.cache.set(ctx, key, listings)
	return listings
}

// Search applies the advanced filters. Category keywords seed the query when
// none is given; experience and job type are appended to it; the salary
// filter keeps entries whose salary is unspecified or "competitive" so
// scraped listings without numbers are not hidden.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]Listing, string) {
	query := strings.TrimSpace(input.Query)
	if query == "" && input.Category != "" {
		for _, c := range Categories() {
			if c.ID == input.Category {
				query = c.Keywords[0]
				break
			}
		}
	}
	if input.Experience != "" {
		query = strings.TrimSpace(query + " " + input.Experience)
	}
	if input.JobType != "" {
		query = strings.TrimSpace(query + " " + input.JobType)
	}

	listings := s.Fetch(ctx, input.Source, query, input.Location, input.Limit)

	if input.Salary != "" {
		want := strings.ToLower(input.Salary)
		filtered := make([]Listing, 0, len(listings))
		for _, l := range listings {
			sal := strings.ToLower(l.Salary)
			if strings.Contains(sal, want) ||
				strings.Contains(sal, "not specified") ||
				strings.Contains(sal, "competitive") {
				filtered = append(filtered, l)
			}
		}
		listings = filtered
	}
	return listings, query
}

// Detail returns the stub record for an external listing. Full details live
// on the source site behind the external URL.
func (s *Service) Detail(id string) Listing {
	return Listing{
		ID:          id,
		Title:       "External Job",
		Company:     "External Company",
		Location:    "Various",
		Description: "This is an external job posting. Follow the external link to view full details.",
		Source:      "External",
		ExternalURL: "https://example.com",
		IsExternal:  true,
	}
}

func (s *Service) fetchAll(ctx context.Context, query, location string, limit int) []Listing {
	perSource := (limit + len(s.sources) - 1) / len(s.sources)

	results := make([][]Listing, len(s.sources))
	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = s.fetchOne(ctx, src, query, location, perSource)
		}(i, src)
	}
	wg.Wait()

	var all []Listing
	for _, batch := range results {
		all = append(all, batch...)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (s *Service) fetchOne(ctx context.Context, src Source, query, location string, limit int) []Listing {
	listings, err := src.Fetch(ctx, query, location, limit)
	if err != nil {
		// Sources are expected to self-degrade; a hard error still must not
		// take down the aggregate response.
		logger.L().Warn("external source failed",
			zap.String("source", src.Name()), zap.Error(err))
		return nil
	}
	return listings
}

func normalize(query, location string, limit int) (string, string, int) {
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return query, location, limit
}
