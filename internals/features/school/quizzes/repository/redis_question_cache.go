package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// cachedQuizRepository: read-through cache bank soal di Redis.
// Quiz dianggap immutable setelah ada attempt, jadi TTL cukup sebagai invalidasi.
type cachedQuizRepository struct {
	inner QuizRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedQuizRepository(inner QuizRepository, rdb *redis.Client, ttl time.Duration) QuizRepository {
	if rdb == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cachedQuizRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func quizBundleKey(quizID uuid.UUID) string {
	return fmt.Sprintf("quiz:%s:bank", quizID)
}

func (r *cachedQuizRepository) GetBundle(ctx context.Context, quizID uuid.UUID) (*QuizBundle, error) {
	key := quizBundleKey(quizID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var b QuizBundle
		if uerr := sonic.Unmarshal(raw, &b); uerr == nil {
			return &b, nil
		}
		log.Printf("[QuizCache] corrupt entry key=%s, reload dari DB", key)
	case errors.Is(err, redis.Nil):
		// miss
	default:
		log.Printf("[QuizCache] GET error key=%s: %v", key, err)
	}

	b, err := r.inner.GetBundle(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if buf, merr := sonic.Marshal(b); merr == nil {
		if serr := r.rdb.Set(ctx, key, buf, r.ttl).Err(); serr != nil {
			log.Printf("[QuizCache] SET error key=%s: %v", key, serr)
		}
	}
	return b, nil
}

func (r *cachedQuizRepository) CreateBundle(ctx context.Context, b *QuizBundle) error {
	if err := r.inner.CreateBundle(ctx, b); err != nil {
		return err
	}
	// buang entry lama (kalau id dipakai ulang)
	if err := r.rdb.Del(ctx, quizBundleKey(b.Quiz.QuizID)).Err(); err != nil {
		log.Printf("[QuizCache] DEL error quiz_id=%s: %v", b.Quiz.QuizID, err)
	}
	return nil
}
