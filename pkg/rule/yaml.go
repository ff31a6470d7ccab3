package rule

// yamlUserAgentParser is the intermediate struct for one entry of user_agent_parsers.
// Replacement fields are pointers so an absent key stays distinguishable from ''.
type yamlUserAgentParser struct {
	Regex             *string `yaml:"regex"`
	FamilyReplacement *string `yaml:"family_replacement"`
	V1Replacement     *string `yaml:"v1_replacement"`
	V2Replacement     *string `yaml:"v2_replacement"`
	V3Replacement     *string `yaml:"v3_replacement"`
	V4Replacement     *string `yaml:"v4_replacement"`
}

type yamlOSParser struct {
	Regex           *string `yaml:"regex"`
	OSReplacement   *string `yaml:"os_replacement"`
	OSV1Replacement *string `yaml:"os_v1_replacement"`
	OSV2Replacement *string `yaml:"os_v2_replacement"`
	OSV3Replacement *string `yaml:"os_v3_replacement"`
	OSV4Replacement *string `yaml:"os_v4_replacement"`
}

type yamlDeviceParser struct {
	Regex             *string `yaml:"regex"`
	RegexFlag         string  `yaml:"regex_flag,omitempty"`
	DeviceReplacement *string `yaml:"device_replacement"`
	BrandReplacement  *string `yaml:"brand_replacement"`
	ModelReplacement  *string `yaml:"model_replacement"`
}

// yamlRegexesFile represents the top-level structure of a regexes.yaml file.
// Missing sections decode as empty lists.
type yamlRegexesFile struct {
	UserAgentParsers []yamlUserAgentParser `yaml:"user_agent_parsers"`
	OSParsers        []yamlOSParser        `yaml:"os_parsers"`
	DeviceParsers    []yamlDeviceParser    `yaml:"device_parsers"`
}

// yamlTestCase is one entry of a test_cases fixture file.
type yamlTestCase struct {
	UserAgentString string  `yaml:"user_agent_string"`
	Family          string  `yaml:"family"`
	Major           *string `yaml:"major"`
	Minor           *string `yaml:"minor"`
	Patch           *string `yaml:"patch"`
	PatchMinor      *string `yaml:"patch_minor"`
	Brand           *string `yaml:"brand"`
	Model           *string `yaml:"model"`
}

type yamlTestCasesFile struct {
	TestCases []yamlTestCase `yaml:"test_cases"`
}
