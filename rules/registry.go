// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

import (
	"fmt"
	"sort"

	"github.com/mongoose700/embercheck/config"
	"github.com/mongoose700/embercheck/lint"
)

// All returns every rule with its default options, sorted by name.
func All() []lint.Rule {
	rules := []lint.Rule{
		NewComputedDependencies(),
		NewDuplicateKeys(),
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Name() < rules[j].Name()
	})
	return rules
}

// knownRuleNames is the set of names FromConfig accepts in rule settings.
func knownRuleNames() map[string]bool {
	names := make(map[string]bool)
	for _, r := range All() {
		names[r.Name()] = true
	}
	return names
}

// FromConfig builds the configured rule set: every registered rule,
// constructed with the options and severity the config assigns it.
//
// Rules the config switches off are excluded from the result. A config
// that names an unknown rule is rejected so typos fail loudly instead of
// silently linting with defaults.
func FromConfig(cfg *config.Config) ([]lint.ConfiguredRule, error) {
	if cfg == nil {
		return nil, fmt.Errorf("FromConfig: cfg must not be nil")
	}

	known := knownRuleNames()
	for name := range cfg.Rules {
		if !known[name] {
			return nil, fmt.Errorf("FromConfig: unknown rule %q", name)
		}
	}

	var configured []lint.ConfiguredRule
	for _, name := range sortedNames(known) {
		severity := lint.Severity(cfg.RuleSeverity(name))
		if severity == lint.SeverityOff {
			continue
		}
		rule, err := buildRule(name, cfg.Rules[name])
		if err != nil {
			return nil, fmt.Errorf("FromConfig: %w", err)
		}
		configured = append(configured, lint.ConfiguredRule{Rule: rule, Severity: severity})
	}
	return configured, nil
}

// buildRule constructs one rule with the options its config names.
func buildRule(name string, rc config.RuleConfig) (lint.Rule, error) {
	switch name {
	case RuleComputedDependencies:
		var opts []ComputedDependenciesOption
		if rc.AllowDynamicKeys != nil {
			opts = append(opts, WithAllowDynamicKeys(*rc.AllowDynamicKeys))
		}
		if rc.RequireServiceNames != nil {
			opts = append(opts, WithRequireServiceNames(*rc.RequireServiceNames))
		}
		return NewComputedDependencies(opts...), nil
	case RuleDuplicateKeys:
		if rc.AllowDynamicKeys != nil || rc.RequireServiceNames != nil {
			return nil, fmt.Errorf("rule %q does not accept options", name)
		}
		return NewDuplicateKeys(), nil
	default:
		return nil, fmt.Errorf("unknown rule %q", name)
	}
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
