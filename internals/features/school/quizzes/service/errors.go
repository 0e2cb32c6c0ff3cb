package service

import (
	"errors"

	"pendidikanku_backend/internals/features/school/quizzes/repository"
)

type ErrorKind string

const (
	KindQuizNotFound            ErrorKind = "QUIZ_NOT_FOUND"
	KindQuizNotOpen             ErrorKind = "QUIZ_NOT_OPEN"
	KindInvalidQuiz             ErrorKind = "INVALID_QUIZ"
	KindAttemptLimitExceeded    ErrorKind = "ATTEMPT_LIMIT_EXCEEDED"
	KindAttemptNotFound         ErrorKind = "ATTEMPT_NOT_FOUND"
	KindAttemptAlreadySubmitted ErrorKind = "ATTEMPT_ALREADY_SUBMITTED"
	KindResultNotAvailable      ErrorKind = "RESULT_NOT_AVAILABLE"
	KindUnauthorized            ErrorKind = "UNAUTHORIZED"
	KindRepositoryConflict      ErrorKind = "REPOSITORY_CONFLICT"
	KindRepositoryUnavailable   ErrorKind = "REPOSITORY_UNAVAILABLE"
)

// AttemptError: error domain dengan kind yang bisa dibaca mesin.
// errors.Is membandingkan kind saja, jadi ErrX bisa dipakai sebagai sentinel.
type AttemptError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AttemptError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AttemptError) Unwrap() error { return e.Err }

func (e *AttemptError) Is(target error) bool {
	t, ok := target.(*AttemptError)
	return ok && t.Kind == e.Kind
}

var (
	ErrQuizNotFound            = &AttemptError{Kind: KindQuizNotFound, Message: "Quiz tidak ditemukan"}
	ErrQuizNotOpen             = &AttemptError{Kind: KindQuizNotOpen, Message: "Quiz tidak sedang dibuka"}
	ErrInvalidQuiz             = &AttemptError{Kind: KindInvalidQuiz, Message: "Data quiz tidak valid"}
	ErrAttemptLimitExceeded    = &AttemptError{Kind: KindAttemptLimitExceeded, Message: "Batas jumlah attempt sudah tercapai"}
	ErrAttemptNotFound         = &AttemptError{Kind: KindAttemptNotFound, Message: "Attempt tidak ditemukan"}
	ErrAttemptAlreadySubmitted = &AttemptError{Kind: KindAttemptAlreadySubmitted, Message: "Attempt sudah disubmit"}
	ErrResultNotAvailable      = &AttemptError{Kind: KindResultNotAvailable, Message: "Hasil belum tersedia sebelum attempt disubmit"}
	ErrUnauthorized            = &AttemptError{Kind: KindUnauthorized, Message: "Tidak punya akses ke resource ini"}
	ErrRepositoryConflict      = &AttemptError{Kind: KindRepositoryConflict, Message: "Terjadi konflik penyimpanan, silakan coba lagi"}
	ErrRepositoryUnavailable   = &AttemptError{Kind: KindRepositoryUnavailable, Message: "Storage sedang tidak tersedia, silakan coba lagi"}
)

func wrapErr(base *AttemptError, cause error) error {
	return &AttemptError{Kind: base.Kind, Message: base.Message, Err: cause}
}

func invalidQuiz(msg string) error {
	return &AttemptError{Kind: KindInvalidQuiz, Message: msg}
}

// KindOf mengambil kind dari error (kosong kalau bukan AttemptError).
func KindOf(err error) ErrorKind {
	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// fromRepo menerjemahkan sentinel repository ke error domain.
func fromRepo(err error, notFound *AttemptError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrAttemptLimit):
		return ErrAttemptLimitExceeded
	case errors.Is(err, repository.ErrConflict):
		return wrapErr(ErrRepositoryConflict, err)
	case errors.Is(err, repository.ErrUnavailable):
		return wrapErr(ErrRepositoryUnavailable, err)
	default:
		return err
	}
}
