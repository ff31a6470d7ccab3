package main

import (
	"testing"
)

const galaxyNexusUA = "Mozilla/5.0 (Linux; Android 4.0.1; Galaxy Nexus Build/ITL41F) AppleWebKit 537.31 (KHTML, like Gecko) Chrome/26.0.1410.58 Mobile Safari/537.31"

const (
	testRulesPath = "../../pkg/rule/testdata/regexes.yaml"
	testUACases   = "../../pkg/rule/testdata/ua_tests.yaml"
)

// resetRootFlags restores the persistent flag variables after a test.
func resetRootFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		rulesPath = ""
		noPrefilter = false
		logLevel = "info"
		logFormat = "text"
	})
}
