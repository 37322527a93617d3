package domain

// Default configuration values applied by the config loader.
const (
	DefaultContentDir           = "content/data"
	DefaultMetadataDir          = "public/metadata"
	DefaultAPIListenAddress     = "127.0.0.1:8080"
	DefaultObservabilityAddress = "127.0.0.1:9090"
	DefaultPageSize             = 20
	DefaultMaxPageSize          = 200
	DefaultFavoritesPath        = "favorites.db"
)

// CombinedMetadataFile is the name of the merged summary artifact.
const CombinedMetadataFile = "combined_metadata.json"

// ToolPagesDir is the subdirectory of the metadata dir holding one
// ToolPage document per tool.
const ToolPagesDir = "tools"
