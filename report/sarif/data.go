package sarif

// Level SARIF level
// From https://docs.oasis-open.org/sarif/sarif/v2.0/csprd02/sarif-v2.0-csprd02.html#_Toc10127839
type Level string

const (
	// None : The concept of “severity” does not apply to this result because the kind
	// property (§3.27.9) has a value other than "fail".
	None = Level("none")
	// Note : The rule specified by ruleId was evaluated and a minor problem or an opportunity
	// to improve the code was found.
	Note = Level("note")
	// Warning : The rule specified by ruleId was evaluated and a problem was found.
	Warning = Level("warning")
	// Error : The rule specified by ruleId was evaluated and a serious problem was found.
	Error = Level("error")
	// Version : SARIF Schema version
	Version = "2.1.0"
	// Schema : SARIF Schema URL
	Schema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
)

// Report SARIF log structure, the top level object
type Report struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []*Run `json:"runs"`
}

// Run describes a single run of an analysis tool
type Run struct {
	Tool       *Tool            `json:"tool"`
	Results    []*Result        `json:"results"`
	Taxonomies []*ToolComponent `json:"taxonomies,omitempty"`
}

// Tool describes the analysis tool that was run
type Tool struct {
	Driver *ToolComponent `json:"driver"`
}

// ToolComponent a component of the analysis tool, either the driver or a taxonomy
type ToolComponent struct {
	Name                                        string                    `json:"name"`
	Version                                     string                    `json:"version,omitempty"`
	InformationURI                              string                    `json:"informationUri,omitempty"`
	GUID                                        string                    `json:"guid,omitempty"`
	SemanticVersion                             string                    `json:"semanticVersion,omitempty"`
	ReleaseDateUtc                              string                    `json:"releaseDateUtc,omitempty"`
	DownloadURI                                 string                    `json:"downloadUri,omitempty"`
	Organization                                string                    `json:"organization,omitempty"`
	ShortDescription                            *MultiformatMessageString `json:"shortDescription,omitempty"`
	Language                                    string                    `json:"language,omitempty"`
	IsComprehensive                             bool                      `json:"isComprehensive,omitempty"`
	MinimumRequiredLocalizedDataSemanticVersion string                    `json:"minimumRequiredLocalizedDataSemanticVersion,omitempty"`
	SupportedTaxonomies                         []*ToolComponentReference `json:"supportedTaxonomies,omitempty"`
	Taxa                                        []*ReportingDescriptor    `json:"taxa,omitempty"`
	Rules                                       []*ReportingDescriptor    `json:"rules,omitempty"`
}

// ToolComponentReference identifies a particular tool component
type ToolComponentReference struct {
	Name string `json:"name"`
	GUID string `json:"guid,omitempty"`
}

// ReportingDescriptor metadata that describes a rule or a taxon
type ReportingDescriptor struct {
	ID                   string                             `json:"id"`
	Name                 string                             `json:"name,omitempty"`
	GUID                 string                             `json:"guid,omitempty"`
	HelpURI              string                             `json:"helpUri,omitempty"`
	ShortDescription     *MultiformatMessageString          `json:"shortDescription,omitempty"`
	FullDescription      *MultiformatMessageString          `json:"fullDescription,omitempty"`
	Help                 *MultiformatMessageString          `json:"help,omitempty"`
	Properties           *PropertyBag                       `json:"properties,omitempty"`
	DefaultConfiguration *ReportingConfiguration            `json:"defaultConfiguration,omitempty"`
	Relationships        []*ReportingDescriptorRelationship `json:"relationships,omitempty"`
}

// ReportingConfiguration the default configuration of a reporting descriptor
type ReportingConfiguration struct {
	Level Level `json:"level"`
}

// ReportingDescriptorRelationship a relationship between two reporting descriptors
type ReportingDescriptorRelationship struct {
	Target *ReportingDescriptorReference `json:"target"`
	Kinds  []string                      `json:"kinds,omitempty"`
}

// ReportingDescriptorReference a reference to a reporting descriptor
type ReportingDescriptorReference struct {
	ID            string                  `json:"id"`
	GUID          string                  `json:"guid,omitempty"`
	ToolComponent *ToolComponentReference `json:"toolComponent,omitempty"`
}

// MultiformatMessageString a message string in plain text and optionally markdown
type MultiformatMessageString struct {
	Text string `json:"text"`
}

// PropertyBag a set of name/value pairs with arbitrary names
type PropertyBag map[string]interface{}

// Result a single result produced by the analysis tool
type Result struct {
	RuleID       string         `json:"ruleId"`
	RuleIndex    int            `json:"ruleIndex"`
	Level        Level          `json:"level"`
	Message      *Message       `json:"message"`
	Locations    []*Location    `json:"locations,omitempty"`
	Suppressions []*Suppression `json:"suppressions,omitempty"`
	Fixes        []*Fix         `json:"fixes,omitempty"`
}

// Message the message of a result
type Message struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
}

// Fix a proposed fix for a result
type Fix struct {
	Description *Message `json:"description"`
}

// Location a location within an artifact
type Location struct {
	PhysicalLocation *PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation the physical location of a result
type PhysicalLocation struct {
	ArtifactLocation *ArtifactLocation `json:"artifactLocation"`
	Region           *Region           `json:"region,omitempty"`
}

// ArtifactLocation the location of an artifact
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region a region of an artifact
type Region struct {
	StartLine      int              `json:"startLine"`
	EndLine        int              `json:"endLine"`
	StartColumn    int              `json:"startColumn,omitempty"`
	EndColumn      int              `json:"endColumn,omitempty"`
	SourceLanguage string           `json:"sourceLanguage,omitempty"`
	Snippet        *ArtifactContent `json:"snippet,omitempty"`
}

// ArtifactContent the portion of an artifact's content
type ArtifactContent struct {
	Text string `json:"text"`
}

// Suppression records that a result was suppressed
type Suppression struct {
	Kind          string `json:"kind"`
	Justification string `json:"justification"`
}
