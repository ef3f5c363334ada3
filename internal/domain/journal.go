package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies the kind of point-earning activity a learning
// journal entry records.
type ActivityType string

const (
	ActivityQuestionAsked  ActivityType = "question_asked"
	ActivityAnswerGiven    ActivityType = "answer_given"
	ActivityAnswerAccepted ActivityType = "answer_accepted"
	ActivityMentorVerified ActivityType = "mentor_verified"
)

// Journal entry validation errors
var (
	ErrJournalIDEmpty         = errors.New("journal entry ID cannot be empty")
	ErrJournalUserEmpty       = errors.New("journal entry user cannot be empty")
	ErrJournalTitleEmpty      = errors.New("journal entry title cannot be empty")
	ErrInvalidActivityType    = errors.New("invalid activity type")
	ErrNegativePoints         = errors.New("points earned cannot be negative")
)

// JournalEntry is one append-only record in a user's learning journal. It is
// the audit trail for reputation: entries are never edited or deleted, and
// the user's running counters are incremented in the same transaction that
// appends the entry.
//
// RelatedQuestionID and RelatedAnswerID are weak references; deleting the
// content they point at nulls them but leaves the entry intact.
type JournalEntry struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`

	RelatedQuestionID *uuid.UUID `json:"related_question_id,omitempty"`
	RelatedAnswerID   *uuid.UUID `json:"related_answer_id,omitempty"`

	PointsEarned     int  `json:"points_earned"`
	ConfidenceBefore *int `json:"confidence_before,omitempty"`
	ConfidenceAfter  *int `json:"confidence_after,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewJournalEntry creates a journal entry for the given activity.
func NewJournalEntry(userID uuid.UUID, activity ActivityType, title, description string, points int) (*JournalEntry, error) {
	entry := &JournalEntry{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activity,
		Title:        title,
		Description:  description,
		PointsEarned: points,
		CreatedAt:    time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the JournalEntry has valid data.
func (e *JournalEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrJournalIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrJournalUserEmpty
	}

	if e.Title == "" {
		return ErrJournalTitleEmpty
	}

	switch e.ActivityType {
	case ActivityQuestionAsked, ActivityAnswerGiven, ActivityAnswerAccepted, ActivityMentorVerified:
	default:
		return ErrInvalidActivityType
	}

	if e.PointsEarned < 0 {
		return ErrNegativePoints
	}

	return nil
}
