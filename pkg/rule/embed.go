package rule

import "embed"

// builtinRegexesFile is the name of the catalog inside builtinRulesFS.
const builtinRegexesFile = "regexes.yaml"

// builtinRulesFS embeds the builtin rule catalog.
//
//go:embed regexes.yaml
var builtinRulesFS embed.FS
