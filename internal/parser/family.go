package parser

import (
	"regexp"
	"strings"
)

// Family identifies which marker pattern table applies to a model's output.
type Family int

const (
	FamilyDefault Family = iota
	FamilyLlama
	FamilyCodeLlama
	FamilyMistral
	FamilyDeepSeek
)

func (f Family) String() string {
	switch f {
	case FamilyLlama:
		return "llama"
	case FamilyCodeLlama:
		return "codellama"
	case FamilyMistral:
		return "mistral"
	case FamilyDeepSeek:
		return "deepseek"
	default:
		return "default"
	}
}

// DetectFamily resolves a model name to its family by ordered substring
// checks. Order matters: "codellama" contains "llama" but must not match the
// llama branch, hence the "code" exclusion there.
func DetectFamily(modelName string) Family {
	if modelName == "" {
		return FamilyDefault
	}

	name := strings.ToLower(modelName)

	switch {
	case strings.Contains(name, "llama") && !strings.Contains(name, "code"):
		return FamilyLlama
	case strings.Contains(name, "codellama") || strings.Contains(name, "code"):
		return FamilyCodeLlama
	case strings.Contains(name, "mistral"):
		return FamilyMistral
	case strings.Contains(name, "deepseek"):
		return FamilyDeepSeek
	default:
		return FamilyDefault
	}
}

// thoughtPattern is one compiled thought-marker rule. thoughtGroup selects the
// subexpression reported as thought content (0 = whole match). keepGroup, when
// non-zero, names a captured terminator that must survive removal; RE2 has no
// lookahead, so terminators that the source patterns only peeked at are
// captured and written back.
type thoughtPattern struct {
	re           *regexp.Regexp
	thoughtGroup int
	keepGroup    int
}

var familyThoughtPatterns = map[Family][]thoughtPattern{
	FamilyLlama: {
		{re: regexp.MustCompile(`(?is)<thinking>(.*?)</thinking>`), thoughtGroup: 1},
		{re: regexp.MustCompile(`(?is)\*thinking\*(.*?)\*/thinking\*`), thoughtGroup: 1},
		// No end-of-input alternative here: a trailing "Let me think" with no
		// blank line is unterminated and stays in the text.
		{re: regexp.MustCompile(`(?is)(Let me think.*?)(\n\n)`), thoughtGroup: 1, keepGroup: 2},
	},
	FamilyCodeLlama: {
		{re: regexp.MustCompile(`(?is)<reasoning>(.*?)</reasoning>`), thoughtGroup: 1},
		{re: regexp.MustCompile("(?is)```reasoning(.*?)```"), thoughtGroup: 1},
	},
	FamilyMistral: {
		{re: regexp.MustCompile(`(?is)<thoughts>(.*?)</thoughts>`), thoughtGroup: 1},
		{re: regexp.MustCompile(`(?is)<!--.*?-->`)},
	},
	FamilyDeepSeek: {
		{re: regexp.MustCompile(`(?is)<analyze>(.*?)</analyze>`), thoughtGroup: 1},
		{re: regexp.MustCompile(`(?is)Analysis:(.*?)(Solution:|Answer:|\z)`), thoughtGroup: 1, keepGroup: 2},
	},
	FamilyDefault: {
		{re: regexp.MustCompile(`(?is)<.*?thinking.*?>(.*?)</.*?>`), thoughtGroup: 1},
		{re: regexp.MustCompile(`(?is)<.*?thoughts.*?>(.*?)</.*?>`), thoughtGroup: 1},
		{re: regexp.MustCompile(`(?is)<.*?reasoning.*?>(.*?)</.*?>`), thoughtGroup: 1},
		{re: regexp.MustCompile(`(?is)\[thinking\](.*?)\[/thinking\]`), thoughtGroup: 1},
	},
}

func (f Family) thoughtPatterns() []thoughtPattern {
	if p, ok := familyThoughtPatterns[f]; ok {
		return p
	}
	return familyThoughtPatterns[FamilyDefault]
}

// streamMarkers returns the opening marker literals used by the streaming
// classifier for this family.
func (f Family) streamMarkers() []string {
	switch f {
	case FamilyCodeLlama:
		return []string{"<reasoning", "```reasoning"}
	case FamilyMistral:
		return []string{"<thoughts", "<!--"}
	case FamilyDeepSeek:
		return []string{"<analyze", "Analysis:"}
	default:
		return []string{"<thinking", "<thought", "<reasoning"}
	}
}
