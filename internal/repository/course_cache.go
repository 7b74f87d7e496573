package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const courseListCacheKey = "courses:all"

// CourseBackend 课程存储, 由 CourseRepository 或内存实现提供
type CourseBackend interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// CachedCourseRepository 在 Redis 中缓存课程列表, 写操作后失效。
// Redis 不可用时直接读写底层存储。
type CachedCourseRepository struct {
	CourseBackend
	Redis *redis.Client
	TTL   time.Duration
}

func NewCachedCourseRepository(backend CourseBackend, rdb *redis.Client, ttl time.Duration) *CachedCourseRepository {
	return &CachedCourseRepository{CourseBackend: backend, Redis: rdb, TTL: ttl}
}

func (r *CachedCourseRepository) List(ctx context.Context) ([]model.Course, error) {
	if r.Redis == nil {
		return r.CourseBackend.List(ctx)
	}

	data, err := r.Redis.Get(ctx, courseListCacheKey).Bytes()
	if err == nil {
		var courses []model.Course
		if err := json.Unmarshal(data, &courses); err == nil {
			return courses, nil
		}
	} else if err != redis.Nil {
		logger.Log.Warn("Course cache read failed", zap.Error(err))
	}

	courses, err := r.CourseBackend.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(courses); err == nil {
		if err := r.Redis.Set(ctx, courseListCacheKey, data, r.TTL).Err(); err != nil {
			logger.Log.Warn("Course cache write failed", zap.Error(err))
		}
	}
	return courses, nil
}

func (r *CachedCourseRepository) Create(ctx context.Context, course *model.Course) error {
	if err := r.CourseBackend.Create(ctx, course); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedCourseRepository) Update(ctx context.Context, course *model.Course) error {
	if err := r.CourseBackend.Update(ctx, course); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedCourseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.CourseBackend.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedCourseRepository) invalidate(ctx context.Context) {
	if r.Redis == nil {
		return
	}
	if err := r.Redis.Del(ctx, courseListCacheKey).Err(); err != nil {
		logger.Log.Warn("Course cache invalidation failed", zap.Error(err))
	}
}
