package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// VoteDirection is the direction of a vote on an answer.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is one of the two known values.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// Answer validation errors
var (
	ErrAnswerIDEmpty       = errors.New("answer ID cannot be empty")
	ErrAnswerQuestionEmpty = errors.New("answer question cannot be empty")
	ErrAnswerAuthorEmpty   = errors.New("answer author cannot be empty")
	ErrAnswerContentEmpty  = errors.New("answer content cannot be empty")
)

// AnswerAnnotation holds the advisory AI feedback on an answer. Like
// question annotations it is filled out-of-band after commit and may stay
// empty forever.
type AnswerAnnotation struct {
	Feedback        string   `json:"feedback,omitempty"`
	ImprovedContent string   `json:"improved_content,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// Answer is a response to a question with a self-reported confidence level.
// Upvotes and Downvotes are counts over the answer_votes join relation; a
// user appears in at most one of the two sets, which the vote operation
// enforces under a per-answer row lock.
type Answer struct {
	ID              uuid.UUID `json:"id"`
	QuestionID      uuid.UUID `json:"question_id"`
	AuthorID        uuid.UUID `json:"author_id"`
	Content         string    `json:"content"`
	ConfidenceLevel int       `json:"confidence_level"`

	IsAccepted     bool       `json:"is_accepted"`
	MentorVerified bool       `json:"mentor_verified"`
	VerifiedBy     *uuid.UUID `json:"verified_by,omitempty"`

	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`

	Annotation AnswerAnnotation `json:"annotation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAnswer creates an Answer with the given confidence level.
// Returns ErrInvalidConfidence if the level is outside [0, 100].
func NewAnswer(authorID, questionID uuid.UUID, content string, confidenceLevel int) (*Answer, error) {
	answer := &Answer{
		ID:              uuid.New(),
		QuestionID:      questionID,
		AuthorID:        authorID,
		Content:         content,
		ConfidenceLevel: confidenceLevel,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := answer.Validate(); err != nil {
		return nil, err
	}

	return answer, nil
}

// Validate checks if the Answer has valid data.
func (a *Answer) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAnswerIDEmpty
	}

	if a.QuestionID == uuid.Nil {
		return ErrAnswerQuestionEmpty
	}

	if a.AuthorID == uuid.Nil {
		return ErrAnswerAuthorEmpty
	}

	if a.Content == "" {
		return ErrAnswerContentEmpty
	}

	if a.ConfidenceLevel < 0 || a.ConfidenceLevel > 100 {
		return ErrInvalidConfidence
	}

	return nil
}

// VoteScore is the answer's net score: upvotes minus downvotes.
func (a *Answer) VoteScore() int {
	return a.Upvotes - a.Downvotes
}

// Verify records a mentor verification. Re-verification by another mentor
// overwrites the verifier (last writer wins) and is not an error; the first
// verification is what earns points, which the orchestrator checks via the
// returned flag.
func (a *Answer) Verify(mentorID uuid.UUID) (first bool) {
	first = !a.MentorVerified
	a.MentorVerified = true
	a.VerifiedBy = &mentorID
	a.UpdatedAt = time.Now().UTC()
	return first
}
