package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
	loadSql "github.com/siherrmann/medgraph/sql"
)

// FeedbackDBHandlerFunctions defines the interface for Feedback database operations.
type FeedbackDBHandlerFunctions interface {
	InsertFeedback(ctx context.Context, feedback *model.Feedback) error
	SelectFeedbackByQuery(ctx context.Context, queryID uuid.UUID) ([]*model.Feedback, error)
	SelectAllFeedback(ctx context.Context) ([]*model.Feedback, error)
}

// FeedbackDBHandler handles user feedback on processed queries
type FeedbackDBHandler struct {
	db *helper.Database
}

// NewFeedbackDBHandler creates a new feedback database handler.
// The queries table must exist, feedback references it.
func NewFeedbackDBHandler(db *helper.Database, force bool) (*FeedbackDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	feedbackDbHandler := &FeedbackDBHandler{
		db: db,
	}

	err := loadSql.LoadFeedbackSql(feedbackDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load feedback sql", err)
	}

	err = feedbackDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized FeedbackDBHandler")

	return feedbackDbHandler, nil
}

// CreateTable creates the 'feedback' table in the database.
// If the table already exists, it does not create it again.
func (h *FeedbackDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_feedback();`)
	if err != nil {
		return helper.NewError("init feedback", err)
	}

	h.db.Logger.Info("Checked/created table feedback")

	return nil
}

// InsertFeedback validates and inserts feedback
func (h *FeedbackDBHandler) InsertFeedback(ctx context.Context, feedback *model.Feedback) error {
	err := feedback.Validate()
	if err != nil {
		return helper.NewError("feedback validation", err)
	}
	if feedback.ID == uuid.Nil {
		feedback.ID = uuid.New()
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_feedback($1, $2, $3, $4, $5, $6)`,
		feedback.ID,
		feedback.QueryID,
		feedback.Rating,
		feedback.Thumbs,
		feedback.Correctness,
		feedback.Comment,
	)

	err = row.Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectFeedbackByQuery retrieves all feedback for one query, oldest first
func (h *FeedbackDBHandler) SelectFeedbackByQuery(ctx context.Context, queryID uuid.UUID) ([]*model.Feedback, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_feedback_by_query($1)`,
		queryID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// SelectAllFeedback retrieves all feedback, oldest first
func (h *FeedbackDBHandler) SelectAllFeedback(ctx context.Context) ([]*model.Feedback, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_feedback()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

func scanFeedback(rows *sql.Rows) ([]*model.Feedback, error) {
	feedback := []*model.Feedback{}
	for rows.Next() {
		f := &model.Feedback{}
		err := rows.Scan(
			&f.ID,
			&f.QueryID,
			&f.Rating,
			&f.Thumbs,
			&f.Correctness,
			&f.Comment,
			&f.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		feedback = append(feedback, f)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return feedback, nil
}
