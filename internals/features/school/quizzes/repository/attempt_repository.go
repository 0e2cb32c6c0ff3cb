package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
)

// FinalizeInput: semua yang ditulis pada transisi in_progress → submitted.
type FinalizeInput struct {
	AttemptID   uuid.UUID
	Answers     []qmodel.QuizAttemptAnswerModel
	Score       int
	TotalMarks  int
	Percentage  float64
	SubmittedAt time.Time
}

// AttemptRepository adalah sumber kebenaran untuk batas attempt & transisi submit.
type AttemptRepository interface {
	// Create: count-and-insert atomik. ErrAttemptLimit kalau count >= maxAttempts.
	Create(ctx context.Context, a *qmodel.QuizAttemptModel, maxAttempts *int) error
	Get(ctx context.Context, id uuid.UUID) (*qmodel.QuizAttemptModel, error)
	CountAttempts(ctx context.Context, quizID, studentID uuid.UUID) (int, error)
	// Finalize: conditional update (status masih in_progress) + insert answers.
	// ErrConflict kalau attempt sudah tidak in_progress.
	Finalize(ctx context.Context, in FinalizeInput) error
	Answers(ctx context.Context, attemptID uuid.UUID) ([]qmodel.QuizAttemptAnswerModel, error)
	// AnswersByAttempts: satu query untuk banyak attempt, dikelompokkan per attempt id.
	AnswersByAttempts(ctx context.Context, attemptIDs []uuid.UUID) (map[uuid.UUID][]qmodel.QuizAttemptAnswerModel, error)
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]qmodel.QuizAttemptModel, error)
	ListByQuizStudent(ctx context.Context, quizID, studentID uuid.UUID) ([]qmodel.QuizAttemptModel, error)
}

// status yang dihitung terhadap max_attempts (semua status)
var countedStatuses = []string{
	string(qmodel.QuizAttemptInProgress),
	string(qmodel.QuizAttemptSubmitted),
}

type gormAttemptRepository struct {
	db *gorm.DB
}

func NewGormAttemptRepository(db *gorm.DB) AttemptRepository {
	return &gormAttemptRepository{db: db}
}

func (r *gormAttemptRepository) Create(ctx context.Context, a *qmodel.QuizAttemptModel, maxAttempts *int) error {
	if a.QuizAttemptID == uuid.Nil {
		a.QuizAttemptID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialisasi start per (quiz, student); lock lepas otomatis saat commit/rollback
		if err := tx.Exec(
			`SELECT pg_advisory_xact_lock(hashtextextended(?, 0))`,
			a.QuizAttemptQuizID.String()+":"+a.QuizAttemptStudentID.String(),
		).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&qmodel.QuizAttemptModel{}).
			Where("quiz_attempt_quiz_id = ? AND quiz_attempt_student_id = ?", a.QuizAttemptQuizID, a.QuizAttemptStudentID).
			Where("quiz_attempt_status = ANY(?)", pq.Array(countedStatuses)).
			Count(&n).Error; err != nil {
			return err
		}
		if maxAttempts != nil && int(n) >= *maxAttempts {
			return ErrAttemptLimit
		}

		var lastNo int
		if err := tx.Model(&qmodel.QuizAttemptModel{}).
			Select("COALESCE(MAX(quiz_attempt_no), 0)").
			Where("quiz_attempt_quiz_id = ? AND quiz_attempt_student_id = ?", a.QuizAttemptQuizID, a.QuizAttemptStudentID).
			Scan(&lastNo).Error; err != nil {
			return err
		}
		a.QuizAttemptNo = lastNo + 1

		// unique (quiz, student, attempt_no) = backstop kalau lock dilewati
		return tx.Create(a).Error
	})
	return classify(err)
}

func (r *gormAttemptRepository) Get(ctx context.Context, id uuid.UUID) (*qmodel.QuizAttemptModel, error) {
	var m qmodel.QuizAttemptModel
	if err := r.db.WithContext(ctx).
		First(&m, "quiz_attempt_id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &m, nil
}

func (r *gormAttemptRepository) CountAttempts(ctx context.Context, quizID, studentID uuid.UUID) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&qmodel.QuizAttemptModel{}).
		Where("quiz_attempt_quiz_id = ? AND quiz_attempt_student_id = ?", quizID, studentID).
		Where("quiz_attempt_status = ANY(?)", pq.Array(countedStatuses)).
		Count(&n).Error; err != nil {
		return 0, classify(err)
	}
	return int(n), nil
}

func (r *gormAttemptRepository) Finalize(ctx context.Context, in FinalizeInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&qmodel.QuizAttemptModel{}).
			Where("quiz_attempt_id = ? AND quiz_attempt_status = ?", in.AttemptID, qmodel.QuizAttemptInProgress).
			Updates(map[string]any{
				"quiz_attempt_status":       qmodel.QuizAttemptSubmitted,
				"quiz_attempt_submitted_at": in.SubmittedAt,
				"quiz_attempt_score":        in.Score,
				"quiz_attempt_total_marks":  in.TotalMarks,
				"quiz_attempt_percentage":   in.Percentage,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		if len(in.Answers) == 0 {
			return nil
		}
		for i := range in.Answers {
			in.Answers[i].QuizAttemptAnswerAttemptID = in.AttemptID
		}
		return tx.CreateInBatches(&in.Answers, 100).Error
	})
	return classify(err)
}

func (r *gormAttemptRepository) Answers(ctx context.Context, attemptID uuid.UUID) ([]qmodel.QuizAttemptAnswerModel, error) {
	var out []qmodel.QuizAttemptAnswerModel
	if err := r.db.WithContext(ctx).
		Where("quiz_attempt_answer_attempt_id = ?", attemptID).
		Find(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *gormAttemptRepository) AnswersByAttempts(ctx context.Context, attemptIDs []uuid.UUID) (map[uuid.UUID][]qmodel.QuizAttemptAnswerModel, error) {
	out := make(map[uuid.UUID][]qmodel.QuizAttemptAnswerModel, len(attemptIDs))
	if len(attemptIDs) == 0 {
		return out, nil
	}

	var rows []qmodel.QuizAttemptAnswerModel
	if err := r.db.WithContext(ctx).
		Where("quiz_attempt_answer_attempt_id IN ?", attemptIDs).
		Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	for _, row := range rows {
		out[row.QuizAttemptAnswerAttemptID] = append(out[row.QuizAttemptAnswerAttemptID], row)
	}
	return out, nil
}

func (r *gormAttemptRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]qmodel.QuizAttemptModel, error) {
	var out []qmodel.QuizAttemptModel
	if err := r.db.WithContext(ctx).
		Where("quiz_attempt_quiz_id = ?", quizID).
		Order("quiz_attempt_started_at ASC, quiz_attempt_no ASC").
		Find(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *gormAttemptRepository) ListByQuizStudent(ctx context.Context, quizID, studentID uuid.UUID) ([]qmodel.QuizAttemptModel, error) {
	var out []qmodel.QuizAttemptModel
	if err := r.db.WithContext(ctx).
		Where("quiz_attempt_quiz_id = ? AND quiz_attempt_student_id = ?", quizID, studentID).
		Order("quiz_attempt_no ASC").
		Find(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// AutoMigrate bikin tabel quiz (dipakai saat AUTO_MIGRATE=true & di test).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&qmodel.QuizModel{},
		&qmodel.QuizQuestionModel{},
		&qmodel.QuizAttemptModel{},
		&qmodel.QuizAttemptAnswerModel{},
	)
}
