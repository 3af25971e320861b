package aggregator

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campushire/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type failingSource struct{ name string }

func (s *failingSource) Name() string { return s.name }
func (s *failingSource) Fetch(context.Context, string, string, int) ([]Listing, error) {
	return nil, errors.New("upstream unreachable")
}

func TestFetchSurvivesFailingSource(t *testing.T) {
	svc := NewService(nil, &failingSource{name: "Broken"}, NewStartupSource())

	listings := svc.Fetch(context.Background(), "all", "", "", 10)
	require.NotEmpty(t, listings)
	for _, l := range listings {
		require.True(t, l.IsExternal)
		require.NotEmpty(t, l.Source)
		require.NotEmpty(t, l.ExternalURL)
	}
}

func TestFetchUnknownSourceYieldsEmpty(t *testing.T) {
	svc := NewService(nil, NewStartupSource())
	listings := svc.Fetch(context.Background(), "linkedin", "", "", 10)
	require.Empty(t, listings)
}

func TestFetchSingleSourceByName(t *testing.T) {
	svc := NewService(nil, NewGitHubSource(), NewStartupSource())
	listings := svc.Fetch(context.Background(), "github", "", "", 10)
	require.NotEmpty(t, listings)
	for _, l := range listings {
		require.Equal(t, "GitHub", l.Source)
	}
}

func TestFetchRespectsLimit(t *testing.T) {
	svc := NewService(nil, NewStartupSource())
	listings := svc.Fetch(context.Background(), "startup", "", "", 1)
	require.Len(t, listings, 1)
}

func TestSearchSalaryFilterKeepsUnspecified(t *testing.T) {
	src := &staticSource{name: "Test", catalog: []Listing{
		{ID: "1", Salary: "$100,000 - $150,000", Source: "Test", IsExternal: true},
		{ID: "2", Salary: "Salary not specified", Source: "Test", IsExternal: true},
		{ID: "3", Salary: "Competitive", Source: "Test", IsExternal: true},
		{ID: "4", Salary: "$60,000", Source: "Test", IsExternal: true},
	}}
	svc := NewService(nil, src)

	listings, _ := svc.Search(context.Background(), SearchInput{
		Source: "Test",
		Salary: "$100,000",
	})

	ids := make(map[string]bool)
	for _, l := range listings {
		ids[l.ID] = true
	}
	require.True(t, ids["1"])
	require.True(t, ids["2"])
	require.True(t, ids["3"])
	require.False(t, ids["4"])
}

func TestSearchCategorySeedsQuery(t *testing.T) {
	svc := NewService(nil, NewStartupSource())

	_, query := svc.Search(context.Background(), SearchInput{
		Category:   "data",
		Experience: "senior",
		Source:     "startup",
	})
	require.Equal(t, "data scientist senior", query)
}

func TestDetailStub(t *testing.T) {
	svc := NewService(nil)
	d := svc.Detail("indeed_abc123")
	require.Equal(t, "indeed_abc123", d.ID)
	require.True(t, d.IsExternal)
}

func TestIndeedFallbackOnUnreachableUpstream(t *testing.T) {
	// A 1ns timeout guarantees the HTTP request fails and the curated
	// catalog is served instead.
	src := NewIndeedSource(1)

	listings, err := src.Fetch(context.Background(), "software engineer", "remote", 2)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	for _, l := range listings {
		require.Equal(t, "Indeed", l.Source)
		require.True(t, l.IsExternal)
	}
}

func TestExtractSkillsCapsAtFive(t *testing.T) {
	desc := "Looking for JavaScript, Python, Java, React, Node.js, Angular and CSS experience"
	skills := extractSkills(desc)
	require.Len(t, skills, 5)
}
