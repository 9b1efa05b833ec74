package chat

import (
	"fmt"
	"strings"
)

const tutorInstructions = `You are a concise programming tutor inside a terminal app. A learner is solving a coding problem and may ask about the problem, their code, or the underlying concepts.

Instructions:
- Guide, don't solve. Explain ideas and point at the broken spot; never paste a full working solution.
- Keep answers short. A few sentences, or a small code fragment when a fragment says it better.
- When the learner's code is shown below, ground your answer in it. Refer to their actual variable names and line structure.
- Plain Markdown only. Fenced code blocks for code, no HTML.`

func buildTutorSystemPrompt(pc ProblemContext) string {
	var b strings.Builder

	b.WriteString(tutorInstructions)

	b.WriteString(fmt.Sprintf("\n\nProblem: %s\n", pc.Title))
	if pc.Statement != "" {
		b.WriteString(pc.Statement)
		b.WriteString("\n")
	}

	if strings.TrimSpace(pc.Code) != "" {
		b.WriteString(fmt.Sprintf("\nLearner's current code (%s):\n```%s\n%s\n```\n",
			pc.Language, pc.Language, strings.TrimRight(pc.Code, "\n")))
	}

	return b.String()
}

const hintSystemPrompt = `You are a programming tutor giving a single hint. The learner is stuck on a coding problem and wants a nudge, not the answer.

Instructions:
- The hint names the one thing blocking them right now. One or two sentences.
- The next step is a concrete action they can take immediately (e.g., "print the loop index before the swap").
- Never reveal the full solution or write the missing code for them.
- Confidence reflects how sure you are the hint addresses their actual blocker.`

func buildHintUserMessage(pc ProblemContext) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Problem: %s\n", pc.Title))
	if pc.Statement != "" {
		b.WriteString(pc.Statement)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nCurrent code (%s):\n", pc.Language))
	if strings.TrimSpace(pc.Code) == "" {
		b.WriteString("(empty, the learner has not started yet)\n")
	} else {
		b.WriteString(fmt.Sprintf("```%s\n%s\n```\n", pc.Language, strings.TrimRight(pc.Code, "\n")))
	}

	return b.String()
}
