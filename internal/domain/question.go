package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Question validation errors
var (
	ErrQuestionIDEmpty        = errors.New("question ID cannot be empty")
	ErrQuestionAuthorEmpty    = errors.New("question author cannot be empty")
	ErrQuestionCommunityEmpty = errors.New("question community cannot be empty")
	ErrQuestionTitleEmpty     = errors.New("question title cannot be empty")
	ErrQuestionTitleTooLong   = errors.New("question title cannot exceed 200 characters")
	ErrQuestionContentEmpty   = errors.New("question content cannot be empty")
)

// QuestionAnnotation holds the advisory AI-generated fields of a question.
// All fields are best-effort: they are filled by a background task after the
// question is committed and stay empty when the AI collaborator is
// unavailable. Nothing in the workflow engine depends on them.
type QuestionAnnotation struct {
	ImprovedTitle   string   `json:"improved_title,omitempty"`
	ImprovedContent string   `json:"improved_content,omitempty"`
	SuggestedTags   []string `json:"suggested_tags,omitempty"`
}

// Question is a community-scoped question. A question owns its answers;
// ResolvedAnswerID is a weak reference into that collection, set when an
// answer is accepted.
type Question struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`

	IsResolved       bool       `json:"is_resolved"`
	ResolvedAnswerID *uuid.UUID `json:"resolved_answer_id,omitempty"`
	ViewCount        int        `json:"view_count"`

	Annotation QuestionAnnotation `json:"annotation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewQuestion creates an unresolved Question in the given community.
func NewQuestion(authorID, communityID uuid.UUID, title, content string, tags []string) (*Question, error) {
	if tags == nil {
		tags = []string{}
	}

	question := &Question{
		ID:          uuid.New(),
		CommunityID: communityID,
		AuthorID:    authorID,
		Title:       title,
		Content:     content,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	return question, nil
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}

	if q.AuthorID == uuid.Nil {
		return ErrQuestionAuthorEmpty
	}

	if q.CommunityID == uuid.Nil {
		return ErrQuestionCommunityEmpty
	}

	if q.Title == "" {
		return ErrQuestionTitleEmpty
	}

	if len(q.Title) > 200 {
		return ErrQuestionTitleTooLong
	}

	if q.Content == "" {
		return ErrQuestionContentEmpty
	}

	return nil
}

// Resolve marks the question as resolved by the given answer. Returns
// ErrAlreadyResolved if another answer was already accepted; re-opening a
// question is not supported.
func (q *Question) Resolve(answerID uuid.UUID) error {
	if q.IsResolved {
		return ErrAlreadyResolved
	}

	q.IsResolved = true
	q.ResolvedAnswerID = &answerID
	q.UpdatedAt = time.Now().UTC()
	return nil
}
