// Package uaparser classifies raw user-agent strings.
//
// A Parser holds three ordered rule catalogs, one each for the user agent
// (browser or client), the operating system and the device. Each catalog is
// searched top to bottom and the first rule whose regular expression matches
// produces the record. When nothing matches the record's family is "Other".
//
// # Basic Usage
//
// Create a parser with the builtin catalog and parse a string:
//
//	parser, err := uaparser.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := parser.Parse("Mozilla/5.0 (Linux; Android 4.0.1; Galaxy Nexus Build/ITL41F) ...")
//	fmt.Println(client.UserAgent) // Chrome Mobile 26.0.1410.58
//	fmt.Println(client.OS)        // Android 4.0.1
//	fmt.Println(client.Device)    // Samsung Galaxy Nexus
//
// # Custom Catalogs
//
// Load a regexes.yaml file instead of the builtin catalog:
//
//	parser, err := uaparser.New(uaparser.WithRulesFile("/path/to/regexes.yaml"))
//
// A Parser is immutable after New and safe for concurrent use.
package uaparser

import (
	"fmt"
	"io"
	"time"

	"github.com/praetorian-inc/uaparser/pkg/matcher"
	"github.com/praetorian-inc/uaparser/pkg/rule"
	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/uaparser" without subpackages.
type (
	// Client aggregates the user agent, os and device records for one string.
	Client = types.Client

	// UserAgent identifies the browser or client software.
	UserAgent = types.UserAgent

	// OS identifies the operating system.
	OS = types.OS

	// Device identifies the hardware.
	Device = types.Device

	// Definitions is a loaded rule catalog.
	Definitions = types.Definitions
)

// DebugLogger receives progress messages while a parser is built.
type DebugLogger interface {
	Log(format string, args ...interface{})
}

// NoopLogger is a no-op logger
type NoopLogger struct{}

func (NoopLogger) Log(format string, args ...interface{}) {}

// Parser resolves user-agent strings against three rule catalogs.
type Parser struct {
	userAgents *matcher.Catalog[types.UserAgent]
	os         *matcher.Catalog[types.OS]
	devices    *matcher.Catalog[types.Device]
	defs       *types.Definitions
}

// parserConfig holds parser configuration.
type parserConfig struct {
	source       func() (*types.Definitions, error)
	sourceName   string
	prefilter    bool
	matchTimeout time.Duration
	logger       DebugLogger
}

// Option configures a Parser.
type Option func(*parserConfig)

// WithDefinitions uses an already loaded catalog.
// Of the rule source options, the last one given wins.
func WithDefinitions(defs *types.Definitions) Option {
	return func(c *parserConfig) {
		c.sourceName = "definitions"
		c.source = func() (*types.Definitions, error) {
			if err := rule.Validate(defs); err != nil {
				return nil, err
			}
			return defs, nil
		}
	}
}

// WithRulesFile loads the catalog from a regexes.yaml file.
func WithRulesFile(path string) Option {
	return func(c *parserConfig) {
		c.sourceName = path
		c.source = func() (*types.Definitions, error) {
			return rule.NewLoader().LoadFile(path)
		}
	}
}

// WithRulesReader loads the catalog from r.
func WithRulesReader(r io.Reader) Option {
	return func(c *parserConfig) {
		c.sourceName = "reader"
		c.source = func() (*types.Definitions, error) {
			return rule.NewLoader().LoadReader(r)
		}
	}
}

// WithPrefilter enables or disables keyword prefiltering.
// Prefiltering only skips rules that cannot match; results are identical either way.
// Default is enabled.
func WithPrefilter(enabled bool) Option {
	return func(c *parserConfig) {
		c.prefilter = enabled
	}
}

// WithMatchTimeout bounds the time a single rule may spend on one string.
// A rule that times out is treated as not matching. Zero means no limit.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *parserConfig) {
		c.matchTimeout = d
	}
}

// WithLogger sets the logger for construction progress.
func WithLogger(logger DebugLogger) Option {
	return func(c *parserConfig) {
		c.logger = logger
	}
}

// New creates a Parser with the given options.
//
// By default, the parser:
//   - Uses the builtin rule catalog
//   - Prefilters rules by required keyword
//   - Places no limit on match time
//
// Every pattern is compiled eagerly; the first invalid one aborts construction.
func New(opts ...Option) (*Parser, error) {
	config := &parserConfig{
		prefilter: true,
		logger:    NoopLogger{},
	}

	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = NoopLogger{}
	}

	if config.source == nil {
		config.sourceName = "builtin"
		config.source = LoadBuiltinRules
	}

	defs, err := config.source()
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	config.logger.Log("loaded %d user agent, %d os, %d device rules from %s",
		len(defs.UserAgents), len(defs.OS), len(defs.Devices), config.sourceName)

	return newParser(defs, config)
}

func newParser(defs *types.Definitions, config *parserConfig) (*Parser, error) {
	mopts := matcher.Options{
		Prefilter:    config.prefilter,
		MatchTimeout: config.matchTimeout,
	}

	userAgents, err := matcher.NewUserAgentCatalog(defs.UserAgents, mopts)
	if err != nil {
		return nil, fmt.Errorf("creating user agent catalog: %w", err)
	}
	oses, err := matcher.NewOSCatalog(defs.OS, mopts)
	if err != nil {
		return nil, fmt.Errorf("creating os catalog: %w", err)
	}
	devices, err := matcher.NewDeviceCatalog(defs.Devices, mopts)
	if err != nil {
		return nil, fmt.Errorf("creating device catalog: %w", err)
	}

	config.logger.Log("compiled catalogs (prefilter: user_agent=%t os=%t device=%t)",
		userAgents.Prefiltered(), oses.Prefiltered(), devices.Prefiltered())

	return &Parser{
		userAgents: userAgents,
		os:         oses,
		devices:    devices,
		defs:       defs,
	}, nil
}

// Parse classifies text with all three catalogs.
// It never fails; unmatched families are reported as "Other".
func (p *Parser) Parse(text string) Client {
	return Client{
		UserAgent: p.userAgents.Resolve(text),
		OS:        p.os.Resolve(text),
		Device:    p.devices.Resolve(text),
	}
}

// ParseUserAgent classifies only the browser or client software.
func (p *Parser) ParseUserAgent(text string) UserAgent {
	return p.userAgents.Resolve(text)
}

// ParseOS classifies only the operating system.
func (p *Parser) ParseOS(text string) OS {
	return p.os.Resolve(text)
}

// ParseDevice classifies only the device.
func (p *Parser) ParseDevice(text string) Device {
	return p.devices.Resolve(text)
}

// MatchedRule returns the index of the rule that decides kind for text,
// or -1 when the family default applies.
func (p *Parser) MatchedRule(kind types.Kind, text string) int {
	var index int
	switch kind {
	case types.KindUserAgent:
		_, index, _ = p.userAgents.Lookup(text)
	case types.KindOS:
		_, index, _ = p.os.Lookup(text)
	case types.KindDevice:
		_, index, _ = p.devices.Lookup(text)
	default:
		return -1
	}
	return index
}

// RuleCount returns the number of rules loaded across all three catalogs.
func (p *Parser) RuleCount() int {
	return p.userAgents.Len() + p.os.Len() + p.devices.Len()
}

// Definitions returns the catalog the parser was built from.
// Callers must not modify it.
func (p *Parser) Definitions() *Definitions {
	return p.defs
}

// LoadRulesFromFile loads a rule catalog from a regexes.yaml file.
// Use this with WithDefinitions to inspect or edit a catalog before parsing.
//
// Example:
//
//	defs, err := uaparser.LoadRulesFromFile("/path/to/regexes.yaml")
//	if err != nil {
//	    return err
//	}
//	parser, err := uaparser.New(uaparser.WithDefinitions(defs))
func LoadRulesFromFile(path string) (*Definitions, error) {
	return rule.NewLoader().LoadFile(path)
}

// LoadBuiltinRules returns the builtin rule catalog.
// Each call returns a fresh copy.
func LoadBuiltinRules() (*Definitions, error) {
	return rule.NewLoader().LoadBuiltin()
}
