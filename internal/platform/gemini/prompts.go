package gemini

// questionPromptData is the template input for question improvement prompts.
type questionPromptData struct {
	Title   string
	Content string
}

// answerPromptData is the template input for answer review prompts.
type answerPromptData struct {
	Answer   string
	Question string
}

const questionPromptTemplate = `You are helping a learner on a Q&A platform ask a clearer question.

Rewrite the question below to be as clear and answerable as possible, keeping
the author's intent. Suggest up to five short topic tags.

Respond with ONLY a JSON object in this exact shape:
{
  "improved_title": "string",
  "improved_content": "string",
  "suggested_tags": ["string"],
  "confidence_score": 0
}
confidence_score is an integer from 0 to 100 indicating how confident you are
that the rewrite preserves the author's intent.

Title: {{.Title}}

Content:
{{.Content}}
`

const answerPromptTemplate = `You are a supportive mentor on a learning-focused Q&A platform.

Review the answer below{{if .Question}} in the context of its question{{end}}.
Assess its correctness and clarity, give constructive feedback, and suggest
concrete improvements.

Respond with ONLY a JSON object in this exact shape:
{
  "assessment_score": 0,
  "feedback": "string",
  "suggestions": ["string"],
  "improved_answer": "string"
}
assessment_score is an integer from 0 to 100.
{{if .Question}}
Question:
{{.Question}}
{{end}}
Answer:
{{.Answer}}
`
