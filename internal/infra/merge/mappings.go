package merge

import "biocat/internal/domain"

// Path addresses a value inside a parsed source document. Elements are
// string map keys or int list indices. Walking a list with a string key
// descends into the list's first element.
type Path []any

// Mapping binds one output field to a path in the source document. A
// mapping with a Group is resolved as a nested object of its children.
type Mapping struct {
	Field string
	Path  Path
	Group []Mapping
}

// sourceFile pairs a source kind with its expected filename inside a
// tool folder. Pattern order is fixed and doubles as the contents order
// in the emitted records.
type sourceFile struct {
	kind domain.SourceKind
	name string
}

func sourceFiles(tool string) []sourceFile {
	return []sourceFile{
		{domain.SourceBioconda, "bioconda_" + tool + ".yaml"},
		{domain.SourceBiocontainers, tool + ".biocontainers.yaml"},
		{domain.SourceBiotools, tool + ".biotools.json"},
		{domain.SourceBioschemas, tool + ".bioschemas.jsonld"},
		{domain.SourceGalaxy, tool + ".galaxy.json"},
	}
}

// summaryMappings produces the compact fields carried by ToolSummary.
var summaryMappings = map[domain.SourceKind][]Mapping{
	domain.SourceBioconda: {
		{Field: "name", Path: Path{"package", "name"}},
		{Field: "version", Path: Path{"package", "version"}},
		{Field: "license", Path: Path{"about", "license"}},
		{Field: "summary", Path: Path{"about", "summary"}},
	},
	domain.SourceBiotools: {
		{Field: "license", Path: Path{"license"}},
		{Field: "summary", Path: Path{"description"}},
		{Field: "addition_date", Path: Path{"additionDate"}},
		{Field: "last_update_date", Path: Path{"lastUpdate"}},
		{Field: "version", Path: Path{"version"}},
	},
	domain.SourceBioschemas: {
		{Field: "name", Path: Path{"sc:name"}},
		{Field: "license", Path: Path{"sc:license"}},
		{Field: "version", Path: Path{"sc:softwareVersion"}},
	},
	domain.SourceGalaxy: {
		{Field: "summary", Path: Path{"Description"}},
		{Field: "edam_topics", Path: Path{"EDAM_topics"}},
	},
	domain.SourceBiocontainers: {
		{Field: "name", Path: Path{"name"}},
		{Field: "license", Path: Path{"license"}},
		{Field: "summary", Path: Path{"description"}},
	},
}

// pageMappings produces the richer fields carried by ToolPage.
var pageMappings = map[domain.SourceKind][]Mapping{
	domain.SourceBioconda: {
		{Field: "name", Path: Path{"package", "name"}},
		{Field: "version", Path: Path{"package", "version"}},
		{Field: "home", Path: Path{"about", "home"}},
		{Field: "documentation", Path: Path{"about", "doc_url"}},
		{Field: "license", Path: Path{"about", "license"}},
		{Field: "summary", Path: Path{"about", "summary"}},
		{Field: "identifiers", Path: Path{"extra", "identifiers"}},
	},
	domain.SourceBiocontainers: {
		{Field: "name", Path: Path{"name"}},
		{Field: "identifiers", Path: Path{"identifiers"}},
		{Field: "license", Path: Path{"license"}},
		{Field: "summary", Path: Path{"description"}},
	},
	domain.SourceBiotools: {
		{Field: "id", Path: Path{"biotoolsID"}},
		{Field: "home", Path: Path{"homepage"}},
		{Field: "license", Path: Path{"license"}},
		{Field: "summary", Path: Path{"description"}},
		{Field: "addition_date", Path: Path{"additionDate"}},
		{Field: "last_update_date", Path: Path{"lastUpdate"}},
		{Field: "tool_type", Path: Path{"toolType"}},
		{Field: "version", Path: Path{"version"}},
	},
	domain.SourceBioschemas: {
		{Field: "name", Path: Path{"sc:name"}},
		{Field: "home", Path: Path{"@id"}},
		{Field: "license", Path: Path{"sc:license"}},
		{Field: "version", Path: Path{"sc:softwareVersion"}},
		{Field: "summary", Path: Path{"sc:description"}},
		{Field: "tool_type", Path: Path{"@type"}},
	},
	domain.SourceGalaxy: {
		{Field: "first_commit", Path: Path{"Suite_first_commit_date"}},
		{Field: "conda_name", Path: Path{"Suite_conda_package"}},
		{Field: "conda_version", Path: Path{"Latest_suite_conda_package_version"}},
		{Field: "summary", Path: Path{"Description"}},
		{Field: "edam_operations", Path: Path{"EDAM_operations"}},
		{Field: "edam_topics", Path: Path{"EDAM_topics"}},
		{Field: "toolshed_categories", Path: Path{"ToolShed_categories"}},
		{Field: "toolshed_id", Path: Path{"Suite_ID"}},
		{Field: "users_5_years", Path: Path{"Suite_users_(last_5_years)_on_main_servers"}},
		{Field: "users_all_time", Path: Path{"Suite_users_on_main_servers"}},
		{Field: "usage_5_years", Path: Path{"Suite_runs_(last_5_years)_on_main_servers"}},
		{Field: "usage_all_time", Path: Path{"Suite_runs_on_main_servers"}},
		{Field: "bio_tools_summary", Path: Path{"bio.tool_description"}},
		{Field: "bio_tools_ids", Path: Path{"bio.tool_ID"}},
		{Field: "bio_tools_name", Path: Path{"bio.tool_name"}},
		{Field: "related_tutorials", Path: Path{"Related_Tutorials"}},
		{Field: "related_workflows", Path: Path{"Related_Workflows"}},
		{Field: "tool_ids", Path: Path{"Tool_IDs"}},
		{Field: "no_of_tools", Group: []Mapping{
			{Field: "eu", Path: Path{"Number_of_tools_on_UseGalaxy.eu"}},
			{Field: "org", Path: Path{"Number_of_tools_on_UseGalaxy.org_(Main)"}},
			{Field: "au", Path: Path{"Number_of_tools_on_UseGalaxy.org.au"}},
			{Field: "be", Path: Path{"Number_of_tools_on_UseGalaxy.be"}},
			{Field: "cz", Path: Path{"Number_of_tools_on_UseGalaxy.cz"}},
			{Field: "fr", Path: Path{"Number_of_tools_on_UseGalaxy.fr"}},
			{Field: "no", Path: Path{"Number_of_tools_on_UseGalaxy.no"}},
		}},
	},
}
