// Package robots implements a parser and evaluator for the robots
// exclusion protocol: given the raw bytes of a robots.txt document and a
// crawler user-agent token, it decides whether a URL path may be
// fetched and what crawl delay applies.
//
// Parsing is one-shot, total (a malformed line is skipped, never an
// error) and happens entirely inside New; the returned Evaluator is
// immutable and safe for concurrent reads.
package robots

import (
	"strings"
	"time"

	"github.com/coreindex/crawlkit/internal/textscan"
)

// Kind identifies whether a Rule permits or forbids a path.
type Kind int

const (
	Allow Kind = iota
	Disallow
)

// Rule is a single Allow or Disallow directive, in the order it
// appeared inside the selected agent's group.
type Rule struct {
	Kind    Kind
	Pattern string
}

// Evaluator answers fetch-permission and crawl-delay questions for one
// robots.txt document and one crawler agent token.
type Evaluator struct {
	agentToken string

	userAgentFound        bool
	defaultUserAgentFound bool

	specificRules []Rule
	defaultRules  []Rule

	specificDelay    time.Duration
	specificDelaySet bool
	defaultDelay     time.Duration
	defaultDelaySet  bool

	sitemaps []string
}

// New parses document against agentToken. Parsing never fails: any line
// that doesn't fit the field:value grammar, or whose field isn't
// recognized, is dropped.
func New(document []byte, agentToken string) *Evaluator {
	e := &Evaluator{agentToken: agentToken}

	var (
		groupID       = -1
		bodyStarted   = false
		currentIsDef  = false
		currentIsSpec = false
		specificWin   = -1
		defaultWin    = -1
	)

	scanner := textscan.NewLineScanner(document)
	for scanner.Scan() {
		field, value, ok := splitFieldValue(scanner.Line())
		if !ok {
			continue
		}

		switch {
		case textscan.EqualFold(field, "user-agent"):
			if groupID == -1 || bodyStarted {
				groupID++
				bodyStarted = false
				currentIsDef = false
				currentIsSpec = false
			}
			if value == "*" {
				e.defaultUserAgentFound = true
				currentIsDef = true
				if defaultWin == -1 {
					defaultWin = groupID
				}
			} else if value != "" && textscan.HasPrefixFold(e.agentToken, value) {
				e.userAgentFound = true
				currentIsSpec = true
				if specificWin == -1 {
					specificWin = groupID
				}
			}

		case textscan.EqualFold(field, "allow"), textscan.EqualFold(field, "disallow"):
			if groupID == -1 {
				continue
			}
			bodyStarted = true
			if value == "" {
				continue
			}
			kind := Allow
			if textscan.EqualFold(field, "disallow") {
				kind = Disallow
			}
			r := Rule{Kind: kind, Pattern: value}
			if currentIsSpec && specificWin == groupID {
				e.specificRules = append(e.specificRules, r)
			}
			if currentIsDef && defaultWin == groupID {
				e.defaultRules = append(e.defaultRules, r)
			}

		case textscan.EqualFold(field, "crawl-delay"):
			if groupID == -1 {
				continue
			}
			bodyStarted = true
			d, ok := parseCrawlDelay(value)
			if !ok {
				continue
			}
			if currentIsSpec && specificWin == groupID && !e.specificDelaySet {
				e.specificDelay, e.specificDelaySet = d, true
			}
			if currentIsDef && defaultWin == groupID && !e.defaultDelaySet {
				e.defaultDelay, e.defaultDelaySet = d, true
			}

		case textscan.EqualFold(field, "sitemap"):
			if value != "" {
				e.sitemaps = append(e.sitemaps, value)
			}
		}
	}

	return e
}

// splitFieldValue strips the comment (if any) and ASCII whitespace
// around a single robots.txt line, then splits it on the first ':'.
// ok is false for blank lines and lines without a ':'.
func splitFieldValue(line []byte) (field, value string, ok bool) {
	s := string(line)
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		s = s[:idx]
	}
	s = textscan.TrimSpace(s)
	if s == "" {
		return "", "", false
	}
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", "", false
	}
	return textscan.TrimSpace(s[:idx]), textscan.TrimSpace(s[idx+1:]), true
}

// IsAllowed reports whether path may be fetched. Rules are consulted in
// document order; the first matching rule decides, first-match-wins
// (not Google's longest-match).
func (e *Evaluator) IsAllowed(path string) bool {
	rules := e.selectedRules()
	for _, r := range rules {
		if matchPattern(r.Pattern, path) {
			return r.Kind == Allow
		}
	}
	return true
}

func (e *Evaluator) selectedRules() []Rule {
	if e.userAgentFound {
		return e.specificRules
	}
	return e.defaultRules
}

// CrawlDelay returns the crawl delay for the selected agent group, or
// ok == false if none was set.
func (e *Evaluator) CrawlDelay() (d time.Duration, ok bool) {
	if e.specificDelaySet {
		return e.specificDelay, true
	}
	if e.defaultDelaySet {
		return e.defaultDelay, true
	}
	return 0, false
}

// Sitemaps returns every sitemap: value collected, verbatim and in
// document order, independent of user-agent grouping.
func (e *Evaluator) Sitemaps() []string {
	return e.sitemaps
}

// UserAgentFound reports whether any non-default user-agent line
// prefix-matched (case-insensitively) the configured agent token.
func (e *Evaluator) UserAgentFound() bool {
	return e.userAgentFound
}

// DefaultUserAgentFound reports whether a "user-agent: *" line appeared
// anywhere in the document.
func (e *Evaluator) DefaultUserAgentFound() bool {
	return e.defaultUserAgentFound
}

// RulesEmpty reports whether the selected specific group contributed no
// Allow/Disallow rules.
func (e *Evaluator) RulesEmpty() bool {
	return len(e.specificRules) == 0
}

// DefaultRulesEmpty reports whether the default group contributed no
// Allow/Disallow rules.
func (e *Evaluator) DefaultRulesEmpty() bool {
	return len(e.defaultRules) == 0
}
