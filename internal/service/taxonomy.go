package service

import "context"

// Fixed vocabularies offered by the admin forms. Stored values are free text; these
// are suggestions, not constraints.
var (
	Regions = []string{
		"Europe", "Middle East", "Asia-Pacific", "North America", "Latin America", "Africa", "Turkey", "Global",
	}
	NewsCategories = []string{
		"Security", "Economy", "Diplomacy", "Human Rights", "Environment", "Technology", "Energy", "Migration",
	}
	AnalysisCategories = []string{
		"Security Studies", "International Organizations", "Regional Politics", "International Economy",
		"Diplomatic History", "Foreign Policy Analysis", "International Law", "Globalization",
	}
	ResourceTypes = []string{
		"Book", "Academic Article", "Thinker", "Online Tool", "Data Source", "Journal", "Think Tank", "Other",
	}
)

// Taxonomy is the set of vocabularies.
type Taxonomy struct {
	Regions            []string `json:"regions"`
	NewsCategories     []string `json:"newsCategories"`
	AnalysisCategories []string `json:"analysisCategories"`
	ResourceTypes      []string `json:"resourceTypes"`
}

// RegionMarker is a point on the globe linking to a region's news.
type RegionMarker struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Color     string  `json:"color"`
	NewsCount int     `json:"newsCount"`
}

var regionMarkers = []RegionMarker{
	{ID: "europe", Name: "Europe", Latitude: 50, Longitude: 10, Color: "#3b82f6"},
	{ID: "middle-east", Name: "Middle East", Latitude: 25, Longitude: 45, Color: "#f59e0b"},
	{ID: "asia-pacific", Name: "Asia-Pacific", Latitude: 30, Longitude: 105, Color: "#10b981"},
	{ID: "north-america", Name: "North America", Latitude: 45, Longitude: -100, Color: "#8b5cf6"},
	{ID: "south-america", Name: "Latin America", Latitude: -15, Longitude: -60, Color: "#ec4899"},
	{ID: "africa", Name: "Africa", Latitude: 0, Longitude: 20, Color: "#f97316"},
	{ID: "turkey", Name: "Turkey", Latitude: 39, Longitude: 35, Color: "#ef4444"},
}

// RegionCounter counts published news per region name.
type RegionCounter interface {
	CountByRegion(ctx context.Context) (map[string]int, error)
}

// TaxonomyService serves vocabularies and globe markers.
type TaxonomyService struct {
	news RegionCounter
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(news RegionCounter) *TaxonomyService {
	return &TaxonomyService{news: news}
}

func (s *TaxonomyService) Taxonomy() Taxonomy {
	return Taxonomy{
		Regions:            Regions,
		NewsCategories:     NewsCategories,
		AnalysisCategories: AnalysisCategories,
		ResourceTypes:      ResourceTypes,
	}
}

// Markers returns the globe markers with their published news counts.
func (s *TaxonomyService) Markers(ctx context.Context) ([]RegionMarker, error) {
	counts, err := s.news.CountByRegion(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RegionMarker, len(regionMarkers))
	for i, m := range regionMarkers {
		m.NewsCount = counts[m.Name]
		out[i] = m
	}
	return out, nil
}
