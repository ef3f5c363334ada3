package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/events"
	"github.com/stackit/stackit-api/internal/store"
)

// Point awards per ledger event. This table is the authoritative business
// rule set for reputation.
const (
	PointsQuestionAsked  = 10
	PointsAnswerGiven    = 15
	PointsAnswerAccepted = 50
	PointsMentorVerified = 50
)

// EngagementService is the orchestrator of the engagement core. Each
// operation performs its content mutation, counter increments and journal
// append as one transaction; partial application is a correctness violation.
// Annotation events are emitted strictly after the transaction commits.
type EngagementService struct {
	db          *sql.DB
	users       store.UserStore
	communities store.CommunityStore
	questions   store.QuestionStore
	answers     store.AnswerStore
	journal     store.JournalStore
	emitter     events.EventEmitter
	logger      *slog.Logger
}

// NewEngagementService creates a new EngagementService. emitter may be nil
// when no annotator is configured; annotation is then skipped entirely.
func NewEngagementService(
	db *sql.DB,
	users store.UserStore,
	communities store.CommunityStore,
	questions store.QuestionStore,
	answers store.AnswerStore,
	journal store.JournalStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *EngagementService {
	if logger == nil {
		logger = slog.Default()
	}

	return &EngagementService{
		db:          db,
		users:       users,
		communities: communities,
		questions:   questions,
		answers:     answers,
		journal:     journal,
		emitter:     emitter,
		logger:      logger.With(slog.String("component", "engagement_service")),
	}
}

// AskQuestion creates a question in the community, bumps the community
// question counter, and awards the author question points — all atomically.
// The author must be a member of the community.
func (s *EngagementService) AskQuestion(ctx context.Context, authorID, communityID uuid.UUID, title, content string, tags []string) (*domain.Question, error) {
	isMember, err := s.communities.IsMember(ctx, communityID, authorID)
	if err != nil {
		return nil, wrapError("ask_question", "failed to check membership", err)
	}
	if !isMember {
		return nil, domain.ErrNotAMember
	}

	question, err := domain.NewQuestion(authorID, communityID, title, content, tags)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.questions.WithTx(tx).Create(ctx, question); err != nil {
			return err
		}
		if err := s.communities.WithTx(tx).IncrementQuestions(ctx, communityID); err != nil {
			return err
		}
		return s.award(ctx, tx, awardParams{
			userID:       authorID,
			activity:     domain.ActivityQuestionAsked,
			title:        "Asked: " + question.Title,
			description:  "Asked a question",
			points:       PointsQuestionAsked,
			questionID:   &question.ID,
			addQuestions: 1,
		})
	})
	if err != nil {
		return nil, wrapError("ask_question", "failed to create question", err)
	}

	s.logger.Info("question created",
		slog.String("question_id", question.ID.String()),
		slog.String("community_id", communityID.String()),
		slog.String("author_id", authorID.String()))

	s.emitAnnotationEvent(ctx, events.TaskTypeQuestionAnnotation, struct {
		QuestionID uuid.UUID `json:"question_id"`
	}{question.ID})

	return question, nil
}

// SubmitAnswer creates an answer with the author's self-reported confidence,
// bumps the community answer counter, and awards answer points recording the
// confidence in the journal — all atomically. The author must be a member of
// the question's community.
func (s *EngagementService) SubmitAnswer(ctx context.Context, authorID, questionID uuid.UUID, content string, confidenceLevel int) (*domain.Answer, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, wrapError("submit_answer", "failed to retrieve question", err)
	}

	isMember, err := s.communities.IsMember(ctx, question.CommunityID, authorID)
	if err != nil {
		return nil, wrapError("submit_answer", "failed to check membership", err)
	}
	if !isMember {
		return nil, domain.ErrNotAMember
	}

	answer, err := domain.NewAnswer(authorID, questionID, content, confidenceLevel)
	if err != nil {
		return nil, err
	}

	confidence := confidenceLevel
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.answers.WithTx(tx).Create(ctx, answer); err != nil {
			return err
		}
		if err := s.communities.WithTx(tx).IncrementAnswers(ctx, question.CommunityID); err != nil {
			return err
		}
		return s.award(ctx, tx, awardParams{
			userID:          authorID,
			activity:        domain.ActivityAnswerGiven,
			title:           "Answered: " + question.Title,
			description:     "Answered a question",
			points:          PointsAnswerGiven,
			questionID:      &question.ID,
			answerID:        &answer.ID,
			confidenceAfter: &confidence,
			addAnswers:      1,
		})
	})
	if err != nil {
		return nil, wrapError("submit_answer", "failed to create answer", err)
	}

	s.logger.Info("answer created",
		slog.String("answer_id", answer.ID.String()),
		slog.String("question_id", questionID.String()),
		slog.String("author_id", authorID.String()))

	s.emitAnnotationEvent(ctx, events.TaskTypeAnswerFeedback, struct {
		AnswerID uuid.UUID `json:"answer_id"`
	}{answer.ID})

	return answer, nil
}

// Vote records the user's vote on an answer and returns the resulting score
// (upvotes minus downvotes). Voting is a toggle over mutually exclusive
// sets: voting the opposite direction replaces the previous vote, voting the
// same direction twice retracts it. The answer row is locked for the
// duration, so concurrent votes serialize and a retried identical call is
// idempotent in its end state. Authors may not vote on their own answers.
func (s *EngagementService) Vote(ctx context.Context, answerID, userID uuid.UUID, direction domain.VoteDirection) (int, error) {
	if !direction.Valid() {
		return 0, domain.ErrInvalidVoteDirection
	}

	var score int
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answers.WithTx(tx)

		answer, err := txAnswers.GetForUpdate(ctx, answerID)
		if err != nil {
			return err
		}

		if answer.AuthorID == userID {
			return domain.ErrSelfVote
		}

		existing, err := txAnswers.GetVote(ctx, answerID, userID)
		if err != nil {
			return err
		}

		if existing != nil && existing.Direction == direction {
			// Same direction again retracts the vote.
			if err := txAnswers.DeleteVote(ctx, answerID, userID); err != nil {
				return err
			}
		} else {
			// New vote or direction switch; the upsert replaces any
			// opposite-direction row, keeping the sets disjoint.
			if err := txAnswers.UpsertVote(ctx, store.Vote{
				AnswerID:  answerID,
				UserID:    userID,
				Direction: direction,
			}); err != nil {
				return err
			}
		}

		up, down, err := txAnswers.CountVotes(ctx, answerID)
		if err != nil {
			return err
		}
		score = up - down
		return nil
	})
	if err != nil {
		return 0, wrapError("vote", "failed to record vote", err)
	}

	s.logger.Debug("vote recorded",
		slog.String("answer_id", answerID.String()),
		slog.String("user_id", userID.String()),
		slog.String("direction", string(direction)),
		slog.Int("score", score))
	return score, nil
}

// AcceptAnswer marks the answer as accepted and resolves its question. The
// actor must be the question author or a mentor of the community. Answer and
// question rows are both locked, so at most one answer per question is ever
// accepted; a second accept fails with ErrAlreadyResolved. The answer author
// is awarded acceptance points in the same transaction.
func (s *EngagementService) AcceptAnswer(ctx context.Context, answerID, actorID uuid.UUID) (*domain.Answer, error) {
	var answer *domain.Answer
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answers.WithTx(tx)
		txQuestions := s.questions.WithTx(tx)

		var err error
		answer, err = txAnswers.GetForUpdate(ctx, answerID)
		if err != nil {
			return err
		}

		question, err := txQuestions.GetForUpdate(ctx, answer.QuestionID)
		if err != nil {
			return err
		}

		if actorID != question.AuthorID {
			isMentor, err := s.communities.WithTx(tx).IsMentor(ctx, question.CommunityID, actorID)
			if err != nil {
				return err
			}
			if !isMentor {
				return domain.ErrForbidden
			}
		}

		if err := question.Resolve(answer.ID); err != nil {
			return err
		}

		answer.IsAccepted = true
		answer.UpdatedAt = time.Now().UTC()

		if err := txQuestions.UpdateResolution(ctx, question); err != nil {
			return err
		}
		if err := txAnswers.UpdateFlags(ctx, answer); err != nil {
			return err
		}

		return s.award(ctx, tx, awardParams{
			userID:      answer.AuthorID,
			activity:    domain.ActivityAnswerAccepted,
			title:       "Answer accepted: " + question.Title,
			description: "Answer was accepted by the question author",
			points:      PointsAnswerAccepted,
			questionID:  &question.ID,
			answerID:    &answer.ID,
		})
	})
	if err != nil {
		return nil, wrapError("accept_answer", "failed to accept answer", err)
	}

	s.logger.Info("answer accepted",
		slog.String("answer_id", answerID.String()),
		slog.String("actor_id", actorID.String()))
	return answer, nil
}

// VerifyAnswer records a mentor verification on the answer. The actor must
// hold the global mentor flag and mentor the answer's community.
// Re-verification by another mentor overwrites the verifier without error,
// but verification points are awarded only once, on the first verification.
func (s *EngagementService) VerifyAnswer(ctx context.Context, answerID, actorID uuid.UUID) (*domain.Answer, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, wrapError("verify_answer", "failed to retrieve actor", err)
	}
	if !actor.IsMentor {
		return nil, domain.ErrForbidden
	}

	var answer *domain.Answer
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answers.WithTx(tx)

		var err error
		answer, err = txAnswers.GetForUpdate(ctx, answerID)
		if err != nil {
			return err
		}

		question, err := s.questions.WithTx(tx).GetByID(ctx, answer.QuestionID)
		if err != nil {
			return err
		}

		isMentor, err := s.communities.WithTx(tx).IsMentor(ctx, question.CommunityID, actorID)
		if err != nil {
			return err
		}
		if !isMentor {
			return domain.ErrForbidden
		}

		first := answer.Verify(actorID)

		if err := txAnswers.UpdateFlags(ctx, answer); err != nil {
			return err
		}

		if !first {
			return nil
		}

		return s.award(ctx, tx, awardParams{
			userID:      answer.AuthorID,
			activity:    domain.ActivityMentorVerified,
			title:       "Answer verified: " + question.Title,
			description: "Answer was verified by a mentor",
			points:      PointsMentorVerified,
			questionID:  &question.ID,
			answerID:    &answer.ID,
		})
	})
	if err != nil {
		return nil, wrapError("verify_answer", "failed to verify answer", err)
	}

	s.logger.Info("answer verified",
		slog.String("answer_id", answerID.String()),
		slog.String("verifier_id", actorID.String()))
	return answer, nil
}

// GetQuestion retrieves a question and atomically bumps its view counter.
func (s *EngagementService) GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	if err := s.questions.IncrementViewCount(ctx, questionID); err != nil {
		return nil, wrapError("get_question", "failed to increment view count", err)
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, wrapError("get_question", "failed to retrieve question", err)
	}
	return question, nil
}

// ListQuestions returns a community's questions, newest first.
func (s *EngagementService) ListQuestions(ctx context.Context, communityID uuid.UUID, limit, offset int) ([]*domain.Question, error) {
	questions, err := s.questions.ListByCommunity(ctx, communityID, limit, offset)
	if err != nil {
		return nil, wrapError("list_questions", "failed to list questions", err)
	}
	return questions, nil
}

// ListAnswers returns a question's answers with their current vote counts.
func (s *EngagementService) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, wrapError("list_answers", "failed to list answers", err)
	}
	return answers, nil
}

// awardParams describes one reputation award: the journal entry to append
// and the counter increments that must land with it.
type awardParams struct {
	userID          uuid.UUID
	activity        domain.ActivityType
	title           string
	description     string
	points          int
	questionID      *uuid.UUID
	answerID        *uuid.UUID
	confidenceAfter *int
	addQuestions    int
	addAnswers      int
}

// award appends a journal entry and increments the user's running counters
// inside the caller's transaction. The journal is the audit trail; the
// counters are what the reputation score is derived from, so they must never
// diverge.
func (s *EngagementService) award(ctx context.Context, tx *sql.Tx, p awardParams) error {
	entry, err := domain.NewJournalEntry(p.userID, p.activity, p.title, p.description, p.points)
	if err != nil {
		return err
	}
	entry.RelatedQuestionID = p.questionID
	entry.RelatedAnswerID = p.answerID
	entry.ConfidenceAfter = p.confidenceAfter

	if err := s.journal.WithTx(tx).Append(ctx, entry); err != nil {
		return err
	}
	return s.users.WithTx(tx).AddLearningStats(ctx, p.userID, p.points, p.addQuestions, p.addAnswers)
}

// emitAnnotationEvent fires a post-commit annotation request. Emission
// failures are logged and swallowed: annotation is advisory and must never
// fail an already-committed operation.
func (s *EngagementService) emitAnnotationEvent(ctx context.Context, taskType string, payload any) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewTaskRequestEvent(taskType, payload)
	if err != nil {
		s.logger.Error("failed to create annotation event",
			slog.String("task_type", taskType),
			slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit annotation event",
			slog.String("task_type", taskType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}
