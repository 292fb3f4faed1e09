package xmlopt

// Mappings holds the substitution tables the optimizer rewrites with.
// A tag mapped to "" is stripped entirely (open and close tags removed,
// inner content kept).
type Mappings struct {
	Tags          map[string]string
	Phrases       map[string]string
	Abbreviations map[string]string
}

// BuiltinMappings returns the default substitution tables.
func BuiltinMappings() Mappings {
	return Mappings{
		Tags: map[string]string{
			"instructions":           "task",
			"instruction":            "task",
			"primary_directive":      "",
			"primary_objective":      "",
			"constraints":            "",
			"constraint":             "",
			"must_include":           "must",
			"must_not_include":       "avoid",
			"avoid_patterns":         "avoid",
			"requirements":           "reqs",
			"requirement":            "req",
			"output_format":          "format",
			"output_requirements":    "format",
			"examples":               "ex",
			"example":                "ex",
			"validation_criteria":    "validate",
			"success_criteria":       "done",
			"context_information":    "context",
			"background_context":     "context",
			"implementation_details": "impl",
			"analysis_request":       "analyze",
			"workflow_definition":    "workflow",
			"step_description":       "step",
			"description":            "desc",
		},
		Phrases: map[string]string{
			"error handling":        "errors",
			"in order to":           "to",
			"please ensure that":    "ensure",
			"make sure that":        "ensure",
			"it is important to":    "",
			"you should":            "",
			"such as":               "like",
			"as well as":            "and",
			"in addition to":        "plus",
			"take into account":     "consider",
			"with respect to":       "for",
			"is responsible for":    "handles",
			"in the event that":     "if",
			"for the purpose of":    "for",
			"at this point in time": "now",
		},
		Abbreviations: map[string]string{
			"function":       "fn",
			"implementation": "impl",
			"configuration":  "config",
			"documentation":  "docs",
			"repository":     "repo",
			"directory":      "dir",
			"environment":    "env",
			"database":       "db",
			"application":    "app",
			"parameters":     "params",
			"variables":      "vars",
		},
	}
}

// Merge layers overlay mappings over base. Later overlays win on key
// collisions, matching pack precedence (builtin < personal < project).
func Merge(base Mappings, overlays ...Mappings) Mappings {
	merged := Mappings{
		Tags:          make(map[string]string, len(base.Tags)),
		Phrases:       make(map[string]string, len(base.Phrases)),
		Abbreviations: make(map[string]string, len(base.Abbreviations)),
	}
	for k, v := range base.Tags {
		merged.Tags[k] = v
	}
	for k, v := range base.Phrases {
		merged.Phrases[k] = v
	}
	for k, v := range base.Abbreviations {
		merged.Abbreviations[k] = v
	}
	for _, o := range overlays {
		for k, v := range o.Tags {
			merged.Tags[k] = v
		}
		for k, v := range o.Phrases {
			merged.Phrases[k] = v
		}
		for k, v := range o.Abbreviations {
			merged.Abbreviations[k] = v
		}
	}
	return merged
}

// ShortTags returns the set of tag names the optimizer rewrites to.
// Used by the validator and detector to recognize already-compact input.
func (m Mappings) ShortTags() map[string]bool {
	short := make(map[string]bool, len(m.Tags))
	for _, v := range m.Tags {
		if v != "" {
			short[v] = true
		}
	}
	return short
}
