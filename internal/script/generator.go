package script

import (
	"fmt"
	"regexp"
	"strings"

	"videoforge/internal/ideas"
)

// minOverrideLength is the trimmed length an operator-supplied script must
// exceed to be used verbatim. Shorter overrides are treated as accidental
// and the idea-derived generator runs instead.
const minOverrideLength = 30

const maxPromptSourceLength = 110

// Overrides carries the operator-supplied fields of the start request.
type Overrides struct {
	Script   string
	Title    string
	Keywords string
}

// Bundle is the composer output: the narration script, one image prompt per
// scene, and the publish metadata.
type Bundle struct {
	Script   string
	Prompts  []string
	Metadata BundleMetadata
}

type BundleMetadata struct {
	Title       string
	Keywords    []string
	Description string
}

// Composer turns an idea plus operator overrides into a script bundle.
// It is a pure function of its inputs and performs no I/O.
type Composer struct{}

func NewComposer() *Composer { return &Composer{} }

func (Composer) Compose(idea *ideas.Idea, ov Overrides) Bundle {
	narration := strings.TrimSpace(ov.Script)
	if len(narration) <= minOverrideLength {
		narration = buildScriptFromIdea(idea)
	}

	title := strings.TrimSpace(ov.Title)
	if title == "" {
		title = buildTitle(idea, narration)
	}

	return Bundle{
		Script:  narration,
		Prompts: derivePrompts(narration, idea),
		Metadata: BundleMetadata{
			Title:       title,
			Keywords:    deriveKeywords(ov.Keywords, idea, narration),
			Description: buildDescription(narration, idea),
		},
	}
}

const fallbackScript = `Welcome back to the channel! Today we're exploring a fresh idea in the AI automation space.

First, we'll break down why this topic matters right now and the opportunity it unlocks. Then we'll dive into the core narrative, unpacking real examples and actionable tactics you can copy immediately.

Stick around to the end for a practical blueprint you can apply as soon as this video ends.`

func buildScriptFromIdea(idea *ideas.Idea) string {
	if idea == nil {
		return fallbackScript
	}
	paragraphs := []string{
		fmt.Sprintf("Today we are diving into %s.", strings.ToLower(idea.Title)),
		fmt.Sprintf("In the opening moments, set the tone with a cinematic montage that illustrates the problem: %s. Blend fast-paced visuals with intentional pauses so viewers can absorb the stakes.", idea.Description),
		"Transition into the core story arc. Showcase how creators or operators can leverage this idea, walking through three clear steps. Emphasize the transformation from the current status quo into the future state unlocked by automation.",
		"Layer in emotional storytelling with a relatable example. Highlight the friction, the breakthrough moment, and the measurable outcome. Keep the pacing tight and intentional.",
		"Close with a call-to-action that empowers the audience to replicate the workflow today. Offer a concise recap and a teaser for the next episode to maintain retention.",
	}
	return strings.Join(paragraphs, "\n\n")
}

// derivePrompts builds one cinematic image prompt per non-empty script line,
// deduplicated in order.
func derivePrompts(narration string, idea *ideas.Idea) []string {
	theme := "futuristic storytelling"
	if idea != nil {
		theme = idea.Title
	}

	seen := make(map[string]bool)
	var prompts []string
	for _, line := range strings.Split(narration, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxPromptSourceLength {
			line = line[:maxPromptSourceLength]
		}
		prompt := fmt.Sprintf("cinematic digital art, 16:9, ultra-detailed, volumetric lighting, inspired by %s, depicting: %s", theme, line)
		if !seen[prompt] {
			seen[prompt] = true
			prompts = append(prompts, prompt)
		}
	}

	if len(prompts) < 4 && idea != nil {
		prompts = append(prompts, fmt.Sprintf("modern ui illustration, neon gradients, showcasing key steps of %s, kinetic typography, motion graphics", idea.Title))
	}
	return prompts
}

var nonLetterPattern = regexp.MustCompile(`[^a-zA-Z]+`)

func deriveKeywords(override string, idea *ideas.Idea, narration string) []string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return ideas.SplitTags(trimmed)
	}

	seen := make(map[string]bool)
	var keywords []string
	add := func(kw string) {
		if kw != "" && !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	if idea != nil {
		for _, tag := range idea.Tags {
			add(strings.ToLower(tag))
		}
		add(slugify(idea.Title))
	}

	words := nonLetterPattern.Split(narration, -1)
	count := 0
	for _, word := range words {
		if count >= 20 {
			break
		}
		if len(word) > 4 {
			add(strings.ToLower(word))
			count++
		}
	}

	if len(keywords) > 15 {
		keywords = keywords[:15]
	}
	return keywords
}

var sentenceEndPattern = regexp.MustCompile(`[.?!]`)

func buildTitle(idea *ideas.Idea, narration string) string {
	if idea != nil {
		return smartCase(idea.Title)
	}
	sentence := strings.TrimSpace(sentenceEndPattern.Split(narration, 2)[0])
	if sentence == "" {
		sentence = "AI Automation Workflow"
	}
	return smartCase(sentence)
}

func buildDescription(narration string, idea *ideas.Idea) string {
	intro := "In this session we execute a complete AI automation workflow from ideation to scheduling."
	if idea != nil {
		intro = fmt.Sprintf("In this episode we execute the %q automation workflow end-to-end. %s", idea.Title, idea.Description)
	}

	lines := []string{intro, ""}
	for i, segment := range strings.Split(narration, "\n\n") {
		lines = append(lines, fmt.Sprintf("Scene %d: %s", i+1, strings.TrimSpace(segment)))
	}
	lines = append(lines,
		"",
		"Subscribe for more AI automation breakdowns.",
		"Drop your next video idea in the comments.",
		"Download the workflow checklist linked below.",
	)
	return strings.Join(lines, "\n")
}

// smartCase lowercases the input and re-capitalizes the first letter of
// every word, including after hyphens and underscores.
func smartCase(input string) string {
	runes := []rune(strings.ToLower(input))
	capitalize := true
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-' || r == '_':
			capitalize = true
		case capitalize:
			if r >= 'a' && r <= 'z' {
				runes[i] = r - 'a' + 'A'
			}
			capitalize = false
		}
	}
	return strings.TrimSpace(string(runes))
}

var (
	slugPattern     = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrimPattern = regexp.MustCompile(`(^-|-$)`)
)

func slugify(input string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(input), "-")
	return slugTrimPattern.ReplaceAllString(slug, "")
}
