// Package annotation defines the boundary to the AI collaborator that
// annotates questions and answers. The workflow engine never depends on it
// for correctness: every call is best-effort, runs after the core mutation
// committed, and an unavailable annotator simply leaves annotation fields
// empty.
package annotation

import "context"

// QuestionImprovement is the AI's best-effort suggestion for a clearer
// question.
type QuestionImprovement struct {
	ImprovedTitle   string   `json:"improved_title"`
	ImprovedContent string   `json:"improved_content"`
	SuggestedTags   []string `json:"suggested_tags"`
	Confidence      int      `json:"confidence_score"`
}

// AnswerFeedback is the AI's best-effort review of an answer.
type AnswerFeedback struct {
	Score          int      `json:"assessment_score"`
	Feedback       string   `json:"feedback"`
	Suggestions    []string `json:"suggestions"`
	ImprovedAnswer string   `json:"improved_answer"`
}

// Annotator is the port to the external AI text service. Implementations
// must respect context deadlines; callers always bound calls with a timeout
// and never hold database locks across them.
type Annotator interface {
	// ImproveQuestion suggests a clearer title, content and tags for a
	// question draft. Returns ErrUnavailable (or an error wrapping it) when
	// the service cannot produce a usable suggestion.
	ImproveQuestion(ctx context.Context, title, content string) (*QuestionImprovement, error)

	// ReviewAnswer provides feedback on an answer in the context of its
	// question. Returns ErrUnavailable (or an error wrapping it) when the
	// service cannot produce a usable review.
	ReviewAnswer(ctx context.Context, answerContent, questionContext string) (*AnswerFeedback, error)
}
