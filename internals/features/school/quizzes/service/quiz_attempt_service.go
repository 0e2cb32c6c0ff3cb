package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"pendidikanku_backend/internals/features/school/quizzes/events"
	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/repository"
	"pendidikanku_backend/internals/features/school/quizzes/scoring"
)

const (
	defaultFinalizeTimeout = 10 * time.Second
	publishTimeout         = 3 * time.Second
)

// AnswerInput: satu jawaban dari request submit.
type AnswerInput struct {
	QuestionID uuid.UUID
	Text       string
}

// AttemptDetail: bahan mentah untuk projector (dto).
// Questions sudah dalam urutan attempt.
type AttemptDetail struct {
	Quiz      qmodel.QuizModel
	Attempt   qmodel.QuizAttemptModel
	Questions []qmodel.QuizQuestionModel
	Answers   []qmodel.QuizAttemptAnswerModel
	Now       time.Time
}

type InstructorView struct {
	Quiz      qmodel.QuizModel
	Questions []qmodel.QuizQuestionModel
	// Attempts hanya berisi halaman yang diminta; Total = semua attempt quiz
	Attempts []AttemptDetail
	Total    int
	Now      time.Time
}

// PageWindow: Limit <= 0 berarti semua.
type PageWindow struct {
	Offset int
	Limit  int
}

func (w PageWindow) bounds(n int) (int, int) {
	lo := min(max(w.Offset, 0), n)
	if w.Limit <= 0 {
		return lo, n
	}
	return lo, lo + min(w.Limit, n-lo)
}

type QuizAttemptService struct {
	bank            *QuestionBank
	attempts        repository.AttemptRepository
	publisher       events.Publisher
	finalizeTimeout time.Duration
}

type Option func(*QuizAttemptService)

func WithPublisher(p events.Publisher) Option {
	return func(s *QuizAttemptService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithFinalizeTimeout(d time.Duration) Option {
	return func(s *QuizAttemptService) {
		if d > 0 {
			s.finalizeTimeout = d
		}
	}
}

func NewQuizAttemptService(bank *QuestionBank, attempts repository.AttemptRepository, opts ...Option) *QuizAttemptService {
	s := &QuizAttemptService{
		bank:            bank,
		attempts:        attempts,
		publisher:       events.NoopPublisher{},
		finalizeTimeout: defaultFinalizeTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// postgres simpan timestamptz sampai mikrodetik
func normalizeNow(now time.Time) time.Time {
	return now.UTC().Truncate(time.Microsecond)
}

/* =========================================================
   START
========================================================= */

func (s *QuizAttemptService) StartAttempt(ctx context.Context, quizID, studentID uuid.UUID, now time.Time) (*AttemptDetail, error) {
	now = normalizeNow(now)

	bundle, err := s.bank.QuestionsFor(ctx, quizID)
	if err != nil {
		return nil, err
	}
	quiz := bundle.Quiz
	if !quiz.QuizIsPublished {
		return nil, ErrQuizNotFound
	}
	if !quiz.IsOpenAt(now) {
		return nil, ErrQuizNotOpen
	}

	// pre-check murah; yang otoritatif tetap di repository.Create
	if quiz.QuizMaxAttempts != nil {
		n, err := s.attempts.CountAttempts(ctx, quizID, studentID)
		if err != nil {
			return nil, fromRepo(err, ErrQuizNotFound)
		}
		if n >= *quiz.QuizMaxAttempts {
			return nil, ErrAttemptLimitExceeded
		}
	}

	var attempt *qmodel.QuizAttemptModel
	for try := 0; try < 2; try++ {
		attempt = &qmodel.QuizAttemptModel{
			QuizAttemptID:           uuid.New(),
			QuizAttemptQuizID:       quizID,
			QuizAttemptStudentID:    studentID,
			QuizAttemptSchoolID:     quiz.QuizSchoolID,
			QuizAttemptStatus:       qmodel.QuizAttemptInProgress,
			QuizAttemptStartedAt:    now,
			QuizAttemptMustSubmitBy: quiz.DeadlineFor(now),
		}
		err = s.attempts.Create(ctx, attempt, quiz.QuizMaxAttempts)
		if errors.Is(err, repository.ErrConflict) && try == 0 {
			log.Printf("[QuizAttemptService] start race quiz=%s student=%s, retrying", quizID, studentID)
			continue
		}
		break
	}
	if err != nil {
		return nil, fromRepo(err, ErrQuizNotFound)
	}

	log.Printf("[QuizAttemptService] started attempt=%s quiz=%s student=%s no=%d",
		attempt.QuizAttemptID, quizID, studentID, attempt.QuizAttemptNo)

	s.publish(ctx, events.AttemptEvent{
		RoutingKey:   events.AttemptStartedRoutingKey,
		AttemptID:    attempt.QuizAttemptID,
		QuizID:       quizID,
		SchoolID:     quiz.QuizSchoolID,
		StudentID:    studentID,
		AttemptNo:    attempt.QuizAttemptNo,
		MustSubmitBy: attempt.QuizAttemptMustSubmitBy,
		OccurredAt:   now,
	})

	return &AttemptDetail{
		Quiz:      quiz,
		Attempt:   *attempt,
		Questions: s.bank.ShuffledFor(&quiz, bundle.Questions, attempt.QuizAttemptID),
		Now:       now,
	}, nil
}

/* =========================================================
   SUBMIT
========================================================= */

func (s *QuizAttemptService) SubmitAttempt(ctx context.Context, attemptID, studentID uuid.UUID, answers []AnswerInput, now time.Time) (*AttemptDetail, error) {
	now = normalizeNow(now)

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, fromRepo(err, ErrAttemptNotFound)
	}
	if attempt.QuizAttemptStudentID != studentID {
		return nil, ErrAttemptNotFound
	}
	if attempt.IsSubmitted() {
		return nil, ErrAttemptAlreadySubmitted
	}

	bundle, err := s.bank.QuestionsFor(ctx, attempt.QuizAttemptQuizID)
	if err != nil {
		return nil, err
	}

	// question_id dobel → yang terakhir menang; id asing diabaikan oleh Grade
	byQuestion := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Text
	}
	graded := scoring.Grade(attempt.QuizAttemptID, bundle.Questions, byQuestion)

	// grade-and-persist jalan sampai selesai walau client disconnect
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.finalizeTimeout)
	defer cancel()

	err = s.attempts.Finalize(fctx, repository.FinalizeInput{
		AttemptID:   attempt.QuizAttemptID,
		Answers:     graded.Answers,
		Score:       graded.Score,
		TotalMarks:  graded.TotalMarks,
		Percentage:  graded.Percentage,
		SubmittedAt: now,
	})
	switch {
	case errors.Is(err, repository.ErrConflict):
		return nil, ErrAttemptAlreadySubmitted
	case err != nil:
		return nil, fromRepo(err, ErrAttemptNotFound)
	}

	attempt.QuizAttemptStatus = qmodel.QuizAttemptSubmitted
	attempt.QuizAttemptSubmittedAt = &now
	attempt.QuizAttemptScore = &graded.Score
	attempt.QuizAttemptTotalMarks = &graded.TotalMarks
	attempt.QuizAttemptPercentage = &graded.Percentage

	log.Printf("[QuizAttemptService] submitted attempt=%s score=%d/%d late=%v",
		attempt.QuizAttemptID, graded.Score, graded.TotalMarks, attempt.IsLate())

	s.publish(fctx, events.AttemptEvent{
		RoutingKey:   events.AttemptSubmittedRoutingKey,
		AttemptID:    attempt.QuizAttemptID,
		QuizID:       attempt.QuizAttemptQuizID,
		SchoolID:     attempt.QuizAttemptSchoolID,
		StudentID:    studentID,
		AttemptNo:    attempt.QuizAttemptNo,
		MustSubmitBy: attempt.QuizAttemptMustSubmitBy,
		Score:        attempt.QuizAttemptScore,
		TotalMarks:   attempt.QuizAttemptTotalMarks,
		Percentage:   attempt.QuizAttemptPercentage,
		IsLate:       attempt.IsLate(),
		OccurredAt:   now,
	})

	return &AttemptDetail{
		Quiz:      bundle.Quiz,
		Attempt:   *attempt,
		Questions: s.bank.ShuffledFor(&bundle.Quiz, bundle.Questions, attempt.QuizAttemptID),
		Answers:   graded.Answers,
		Now:       now,
	}, nil
}

/* =========================================================
   READ
========================================================= */

// GetResult: student pemilik hanya setelah submit; staff sekolah kapan saja.
func (s *QuizAttemptService) GetResult(ctx context.Context, attemptID uuid.UUID, req Requester, now time.Time) (*AttemptDetail, error) {
	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, fromRepo(err, ErrAttemptNotFound)
	}

	ownStudent := attempt.QuizAttemptStudentID == req.StudentID
	staff := req.IsStaffOf(attempt.QuizAttemptSchoolID)
	switch {
	case staff:
	case ownStudent && attempt.IsSubmitted():
	case ownStudent:
		return nil, ErrResultNotAvailable
	default:
		return nil, ErrUnauthorized
	}

	return s.detail(ctx, attempt, now)
}

// ResumeAttempt: baca ulang lembar soal attempt yang masih berjalan.
func (s *QuizAttemptService) ResumeAttempt(ctx context.Context, attemptID, studentID uuid.UUID, now time.Time) (*AttemptDetail, error) {
	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, fromRepo(err, ErrAttemptNotFound)
	}
	if attempt.QuizAttemptStudentID != studentID {
		return nil, ErrAttemptNotFound
	}
	if attempt.IsSubmitted() {
		return nil, ErrAttemptAlreadySubmitted
	}

	bundle, err := s.bank.QuestionsFor(ctx, attempt.QuizAttemptQuizID)
	if err != nil {
		return nil, err
	}
	return &AttemptDetail{
		Quiz:      bundle.Quiz,
		Attempt:   *attempt,
		Questions: s.bank.ShuffledFor(&bundle.Quiz, bundle.Questions, attempt.QuizAttemptID),
		Now:       normalizeNow(now),
	}, nil
}

func (s *QuizAttemptService) ListMyAttempts(ctx context.Context, quizID, studentID uuid.UUID) ([]qmodel.QuizAttemptModel, error) {
	if _, err := s.bank.QuestionsFor(ctx, quizID); err != nil {
		return nil, err
	}
	list, err := s.attempts.ListByQuizStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, fromRepo(err, ErrQuizNotFound)
	}
	return list, nil
}

// GetInstructorView: attempt satu quiz (per halaman), detail per soal (staff saja).
func (s *QuizAttemptService) GetInstructorView(ctx context.Context, quizID uuid.UUID, req Requester, now time.Time, page PageWindow) (*InstructorView, error) {
	bundle, err := s.bank.QuestionsFor(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !req.IsStaffOf(bundle.Quiz.QuizSchoolID) {
		return nil, ErrUnauthorized
	}

	list, err := s.attempts.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fromRepo(err, ErrQuizNotFound)
	}
	total := len(list)
	lo, hi := page.bounds(total)
	list = list[lo:hi]

	submitted := make([]uuid.UUID, 0, len(list))
	for i := range list {
		if list[i].IsSubmitted() {
			submitted = append(submitted, list[i].QuizAttemptID)
		}
	}
	answers, err := s.attempts.AnswersByAttempts(ctx, submitted)
	if err != nil {
		return nil, fromRepo(err, ErrAttemptNotFound)
	}

	now = normalizeNow(now)
	view := &InstructorView{
		Quiz:      bundle.Quiz,
		Questions: bundle.Questions,
		Attempts:  make([]AttemptDetail, 0, len(list)),
		Total:     total,
		Now:       now,
	}
	for i := range list {
		view.Attempts = append(view.Attempts, AttemptDetail{
			Quiz:      bundle.Quiz,
			Attempt:   list[i],
			Questions: s.bank.ShuffledFor(&bundle.Quiz, bundle.Questions, list[i].QuizAttemptID),
			Answers:   answers[list[i].QuizAttemptID],
			Now:       now,
		})
	}
	return view, nil
}

func (s *QuizAttemptService) detail(ctx context.Context, attempt *qmodel.QuizAttemptModel, now time.Time) (*AttemptDetail, error) {
	bundle, err := s.bank.QuestionsFor(ctx, attempt.QuizAttemptQuizID)
	if err != nil {
		return nil, err
	}
	d := &AttemptDetail{
		Quiz:      bundle.Quiz,
		Attempt:   *attempt,
		Questions: s.bank.ShuffledFor(&bundle.Quiz, bundle.Questions, attempt.QuizAttemptID),
		Now:       normalizeNow(now),
	}
	if attempt.IsSubmitted() {
		if d.Answers, err = s.attempts.Answers(ctx, attempt.QuizAttemptID); err != nil {
			return nil, fromRepo(err, ErrAttemptNotFound)
		}
	}
	return d, nil
}

func (s *QuizAttemptService) publish(ctx context.Context, ev events.AttemptEvent) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, ev); err != nil {
		log.Printf("[QuizAttemptService] publish %s attempt=%s failed: %v", ev.RoutingKey, ev.AttemptID, err)
	}
}
