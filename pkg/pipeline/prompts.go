package pipeline

import (
	"fmt"
	"strings"

	"github.com/contentforge/contentforge/pkg/domain"
)

// strategyPrompt asks the model for a content plan. The response is free text
// with an embedded JSON object, recovered by llm.ExtractJSON.
func strategyPrompt(keyword string) string {
	var sb strings.Builder
	sb.WriteString("You are a content strategist for a technology blog.\n")
	sb.WriteString(fmt.Sprintf("Analyze the search keyword %q and produce a content plan.\n\n", keyword))
	sb.WriteString("Respond with a JSON object with exactly these fields:\n")
	sb.WriteString(`- "term": a reader-facing display title for the topic (not the raw keyword)` + "\n")
	sb.WriteString(`- "category": one broad category name` + "\n")
	sb.WriteString(`- "tags": array of 3-5 short lowercase tags` + "\n")
	sb.WriteString(`- "isPopular": true when the topic has mainstream appeal, false for niche topics` + "\n")
	sb.WriteString(`- "persona": the author voice to write in, one sentence` + "\n")
	sb.WriteString(`- "angle": the specific angle the article should take, one sentence` + "\n")
	return sb.String()
}

// draftPrompt asks the model for the full article body based on the strategy
func draftPrompt(keyword string, strat *domain.Strategy, date string) string {
	var sb strings.Builder
	sb.WriteString("You are a blog author writing a long-form article.\n\n")
	sb.WriteString(fmt.Sprintf("Topic: %s\n", strat.Term))
	sb.WriteString(fmt.Sprintf("Source keyword: %s\n", keyword))
	sb.WriteString(fmt.Sprintf("Category: %s\n", strat.Category))
	sb.WriteString(fmt.Sprintf("Author voice: %s\n", strat.Persona))
	sb.WriteString(fmt.Sprintf("Angle: %s\n", strat.Angle))
	sb.WriteString(fmt.Sprintf("Publish date: %s (write as if published on this date)\n\n", date))
	sb.WriteString("Respond with a JSON object with exactly these fields:\n")
	sb.WriteString(`- "summary": 2-3 paragraph overview in Markdown` + "\n")
	sb.WriteString(`- "deepDive": the main body, 6-10 paragraphs in Markdown with subheadings` + "\n")
	sb.WriteString(`- "importance": 1-2 paragraphs on why this matters now, in Markdown` + "\n")
	sb.WriteString(`- "prosCons": array of strings, each prefixed with "+ " or "- "` + "\n")
	sb.WriteString(`- "faq": array of {"question", "answer"} objects, 3-5 entries` + "\n\n")
	sb.WriteString("Escape newlines inside JSON string values properly.\n")
	return sb.String()
}

// rewritePrompt asks for a meaning-preserving rewrite of one long-form field.
// Structural and lexical variation is the point, it lowers similarity between
// the draft and the published text.
func rewritePrompt(field, text string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rewrite the following %s section of a blog article.\n", field))
	sb.WriteString("Preserve the meaning and all factual claims exactly.\n")
	sb.WriteString("Change the sentence structure, paragraph order where possible, and word choice.\n")
	sb.WriteString("Keep the Markdown formatting style. Respond with the rewritten text only, no preamble.\n\n")
	sb.WriteString(text)
	return sb.String()
}
