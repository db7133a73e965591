package ai

import "fmt"

// schemaExample is embedded in the classifier prompt so the oracle replies
// with exactly the field names the adapter decodes.
const schemaExample = `{
  "type": "task | idea | note",
  "task": {
    "title": "",
    "details": "",
    "deadline": "YYYY-MM-DD or null",
    "tags": [],
    "estimated_minutes": null
  },
  "idea": {
    "title": "",
    "details": "",
    "tags": []
  },
  "note": {
    "title": "",
    "content": "",
    "tags": []
  }
}`

// classifierPrompt builds the classification instruction. Today's date is
// embedded so the oracle can resolve relative dates like "tomorrow".
func classifierPrompt(today string) string {
	return fmt.Sprintf(`You are an expert productivity assistant. Classify a single chat message as a task, idea, or note.

Today is %s. Use this date when interpreting relative dates like "tomorrow", "Sunday", "next week".

Rules:
- TASK = the user intends to do something: an action, a plan, a deadline. Examples: "I need to buy a present by Sunday", "Call mom tomorrow", "Finish homework this evening". The classic message "I buy present by Sunday" must ALWAYS be classified as a TASK.
- IDEA = a concept, inspiration, project or improvement that is not yet actionable.
- NOTE = information, observations or reminders without action intent (meeting notes, text dumps, etc.).
- Output STRICT JSON only. No markdown, no prose, no code fences.
- The JSON MUST follow this exact schema and field names:
%s
- Fill only the object matching "type"; the other two must be null.
- Deadlines use ISO format (YYYY-MM-DD) or null when unknown.
- Always give tasks and ideas a concise title; use [] when there are no tags.`, today, schemaExample)
}

// scorerPrompt is the fixed scoring rubric.
const scorerPrompt = `You analyze user tasks and assign importance and urgency.

Definitions:
- Importance = impact if completed (1 = trivial, 5 = critical)
- Urgency = time sensitivity or deadline pressure (1 = whenever, 5 = right now)

Return JSON ONLY:

{
  "importance": 1,
  "urgency": 1,
  "reason": "explain briefly the scores"
}`
