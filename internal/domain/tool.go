package domain

import (
	"sort"
	"strings"
	"time"
)

// SourceKind identifies the origin of a metadata file in the content
// repository (bioconda recipe, biocontainers manifest, bio.tools record,
// bioschemas JSON-LD, Galaxy usage export).
type SourceKind string

const (
	SourceBioconda      SourceKind = "bioconda"
	SourceBiocontainers SourceKind = "biocontainers"
	SourceBiotools      SourceKind = "biotools"
	SourceBioschemas    SourceKind = "bioschemas"
	SourceGalaxy        SourceKind = "galaxy"
)

// SourceKinds lists all known source kinds in pattern-match order.
var SourceKinds = []SourceKind{
	SourceBioconda,
	SourceBiocontainers,
	SourceBiotools,
	SourceBioschemas,
	SourceGalaxy,
}

// Metadata holds extracted fields keyed by "<source>__<field>".
// Values are whatever the source document held at the mapped path:
// scalars, lists, or nested objects for grouped mappings.
type Metadata map[string]any

// ToolSummary is the compact per-tool record used for listing, search
// and filtering. ToolName is the content folder name and is unique
// across the collection.
type ToolSummary struct {
	ToolName        string       `json:"tool_name"`
	Contents        []SourceKind `json:"contents"`
	FetchedMetadata Metadata     `json:"fetched_metadata"`
}

// ToolPage is the full per-tool record backing the detail view. It
// carries the same contents set as the summary plus the richer page
// metadata (identifiers, usage statistics, workflows, tutorials).
type ToolPage struct {
	ToolName     string       `json:"tool_name"`
	Contents     []SourceKind `json:"contents"`
	PageMetadata Metadata     `json:"page_metadata"`
}

// HasSource reports whether the given source kind contributed to this tool.
func (t ToolSummary) HasSource(kind SourceKind) bool {
	for _, c := range t.Contents {
		if c == kind {
			return true
		}
	}
	return false
}

// descriptionKeys is the priority order for the display description.
var descriptionKeys = []string{
	"bioconda__summary",
	"biotools__summary",
	"biocontainers__summary",
	"galaxy__summary",
}

// licenseKeys is the priority order for the display license.
var licenseKeys = []string{
	"bioconda__license",
	"biotools__license",
	"bioschemas__license",
	"biocontainers__license",
}

// Description returns the first non-empty summary field across sources.
func (t ToolSummary) Description() string {
	return firstString(t.FetchedMetadata, descriptionKeys)
}

// License returns the first non-empty license field across sources.
func (t ToolSummary) License() string {
	return firstString(t.FetchedMetadata, licenseKeys)
}

// Tags returns the tool's EDAM topics in source casing. The returned
// slice is sorted and deduplicated case-insensitively.
func (t ToolSummary) Tags() []string {
	raw, ok := t.FetchedMetadata["galaxy__edam_topics"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(list))
	tags := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, s)
	}
	sort.Strings(tags)
	return tags
}

// HasTag reports case-insensitive exact membership in the tag set.
func (t ToolSummary) HasTag(tag string) bool {
	want := strings.ToLower(tag)
	for _, candidate := range t.Tags() {
		if strings.ToLower(candidate) == want {
			return true
		}
	}
	return false
}

// CreatedAt returns the bio.tools addition date, zero when absent or
// unparseable.
func (t ToolSummary) CreatedAt() time.Time {
	return parseDate(t.FetchedMetadata, "biotools__addition_date")
}

// UpdatedAt returns the bio.tools last-update date, zero when absent or
// unparseable.
func (t ToolSummary) UpdatedAt() time.Time {
	return parseDate(t.FetchedMetadata, "biotools__last_update_date")
}

func firstString(meta Metadata, keys []string) string {
	for _, key := range keys {
		if value, ok := meta[key]; ok {
			if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func parseDate(meta Metadata, key string) time.Time {
	value, ok := meta[key]
	if !ok {
		return time.Time{}
	}
	s, ok := value.(string)
	if !ok {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
