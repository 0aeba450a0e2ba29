package config

import (
	"fmt"
	"regexp"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jakopako/cssfinder/finder"
	"github.com/jakopako/cssfinder/internal/fetch"
)

// A RuleSet holds allow and deny patterns for one candidate kind. A name
// is admissible if it matches no deny pattern and matches at least one
// allow pattern; an empty allow list allows everything.
type RuleSet struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// Config defines the overall structure of the finder configuration.
// Values will be taken from a config yml file or environment variables
// or both.
type Config struct {
	IDs     RuleSet `yaml:"ids"`
	Classes RuleSet `yaml:"classes"`
	Tags    RuleSet `yaml:"tags"`
	// attribute selectors stay disabled unless at least one allow
	// pattern is configured; the patterns match the attribute name
	Attrs RuleSet `yaml:"attrs"`

	SeedMinLength      int `yaml:"seed_min_length" env:"FINDER_SEED_MIN_LENGTH" env-default:"1"`
	OptimizedMinLength int `yaml:"optimized_min_length" env:"FINDER_OPTIMIZED_MIN_LENGTH" env-default:"2"`
	Threshold          int `yaml:"threshold" env:"FINDER_THRESHOLD" env-default:"1000"`
	MaxNumberOfTries   int `yaml:"max_number_of_tries" env:"FINDER_MAX_NUMBER_OF_TRIES" env-default:"10000"`

	Fetcher fetch.FetcherConfig `yaml:"fetcher"`
}

// NewConfig reads the configuration from the given file, with environment
// variables taking precedence over file values.
func NewConfig(configPath string) (*Config, error) {
	var config Config
	if err := cleanenv.ReadConfig(configPath, &config); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}
	return &config, nil
}

// DefaultConfig returns a configuration built from environment variables
// and defaults only.
func DefaultConfig() (*Config, error) {
	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

type matcher struct {
	allow []*regexp.Regexp
	deny  []*regexp.Regexp
}

func (rs RuleSet) compile() (*matcher, error) {
	m := &matcher{}
	for _, p := range rs.Allow {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("allow pattern %q: %w", p, err)
		}
		m.allow = append(m.allow, re)
	}
	for _, p := range rs.Deny {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("deny pattern %q: %w", p, err)
		}
		m.deny = append(m.deny, re)
	}
	return m, nil
}

func (m *matcher) match(name string) bool {
	for _, re := range m.deny {
		if re.MatchString(name) {
			return false
		}
	}
	if len(m.allow) == 0 {
		return true
	}
	for _, re := range m.allow {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// FinderOptions compiles the rule sets and budgets into finder options.
func (c *Config) FinderOptions() ([]finder.Option, error) {
	ids, err := c.IDs.compile()
	if err != nil {
		return nil, fmt.Errorf("ids: %w", err)
	}
	classes, err := c.Classes.compile()
	if err != nil {
		return nil, fmt.Errorf("classes: %w", err)
	}
	tags, err := c.Tags.compile()
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}

	opts := []finder.Option{
		finder.WithIDFilter(ids.match),
		finder.WithClassFilter(classes.match),
		finder.WithTagFilter(tags.match),
		finder.WithSeedMinLength(c.SeedMinLength),
		finder.WithOptimizedMinLength(c.OptimizedMinLength),
		finder.WithThreshold(c.Threshold),
		finder.WithMaxNumberOfTries(c.MaxNumberOfTries),
	}
	if len(c.Attrs.Allow) > 0 {
		attrs, err := c.Attrs.compile()
		if err != nil {
			return nil, fmt.Errorf("attrs: %w", err)
		}
		opts = append(opts, finder.WithAttrFilter(func(name, _ string) bool {
			return attrs.match(name)
		}))
	}
	return opts, nil
}
