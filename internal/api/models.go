package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// CreateCommunityRequest defines the payload for creating a community.
type CreateCommunityRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsPrivate   bool   `json:"is_private"`
}

// JoinByCodeRequest defines the payload for joining via invite code.
type JoinByCodeRequest struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

// JoinRequestRequest defines the payload for filing a join request.
type JoinRequestRequest struct {
	Message string `json:"message" validate:"max=500"`
}

// ReviewJoinRequest defines the payload for reviewing a join request.
type ReviewJoinRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// MentorRequest defines the payload for promoting or demoting a mentor.
type MentorRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// InviteRequest defines the payload for inviting a user by email.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AskQuestionRequest defines the payload for posting a question.
type AskQuestionRequest struct {
	Title   string   `json:"title"   validate:"required,min=1,max=200"`
	Content string   `json:"content" validate:"required,min=1"`
	Tags    []string `json:"tags"    validate:"omitempty,dive,min=1,max=50"`
}

// ImproveDraftRequest defines the payload for the draft improvement endpoint.
type ImproveDraftRequest struct {
	Title   string `json:"title"   validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1"`
}

// SubmitAnswerRequest defines the payload for answering a question.
type SubmitAnswerRequest struct {
	Content         string `json:"content"          validate:"required,min=1"`
	ConfidenceLevel int    `json:"confidence_level" validate:"gte=0,lte=100"`
}

// VoteRequest defines the payload for voting on an answer.
type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// VoteResponse reports the answer's score after the vote is applied.
type VoteResponse struct {
	AnswerID uuid.UUID `json:"answer_id"`
	Score    int       `json:"score"`
}
