package insight

import (
	"fmt"
	"strings"
)

const (
	explainTemplate  = "Explain this fraud concept in simple terms: %s"
	articleTemplate  = "Summarize this article in 3 sentences explaining type, risk, and relevance:\n\n%s"
	compareTemplate  = "Compare these two fraud summaries:\nA: %s\nB: %s\nExplain what a similarity score of %.4f means."
	answerTemplate   = "Based on this fraud context:\n%s\n\nAnswer the following question clearly:\n%s"
	trendsTemplate   = "Analyze these month-by-month fraud frequency counts and explain trending risks, rising or falling patterns, and potential insights.\n\n%s"
	summaryTemplate  = "Summarize the following article in 2 to 4 plain sentences. Focus on the type of fraud, who is targeted and how to stay safe.\n\n%s"
	keywordsTemplate = "Extract up to %d short keywords or key phrases (one or two words each) that describe the fraud topics in the article below.\n" +
		"Respond with JSON only, in the form {\"keywords\": [\"...\"]}.\n\n%s"
)

func explainPrompt(text string) string {
	return fmt.Sprintf(explainTemplate, strings.TrimSpace(text))
}

func articlePrompt(summary string) string {
	return fmt.Sprintf(articleTemplate, summary)
}

func comparePrompt(a, b string, score float64) string {
	return fmt.Sprintf(compareTemplate, a, b, score)
}

func answerPrompt(grounding, question string) string {
	return fmt.Sprintf(answerTemplate, grounding, strings.TrimSpace(question))
}

func trendsPrompt(summary string) string {
	return fmt.Sprintf(trendsTemplate, summary)
}

func summaryPrompt(body string) string {
	return fmt.Sprintf(summaryTemplate, body)
}

func keywordsPrompt(body string, n int) string {
	return fmt.Sprintf(keywordsTemplate, n, body)
}
