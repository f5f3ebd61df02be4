package services

import (
	"os"
)

type FeatureFlags struct {
	liveCatalogEnabled      bool
	generatedRepliesEnabled bool
	searchIndexEnabled      bool
}

func NewFeatureFlags() *FeatureFlags {
	return &FeatureFlags{
		liveCatalogEnabled:      os.Getenv("FEATURE_LIVE_CATALOG") == "true",
		generatedRepliesEnabled: os.Getenv("FEATURE_GENERATED_REPLIES") == "true",
		searchIndexEnabled:      os.Getenv("FEATURE_SEARCH_INDEX") == "true",
	}
}

func (f *FeatureFlags) LiveCatalogEnabled() bool {
	return f.liveCatalogEnabled
}

func (f *FeatureFlags) GeneratedRepliesEnabled() bool {
	return f.generatedRepliesEnabled
}

func (f *FeatureFlags) SearchIndexEnabled() bool {
	return f.searchIndexEnabled
}
