package repository

import (
	"context"
	"encoding/json"
	"learnhub_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	popularPathsCacheKey  = "paths:popular"
	popularPathsCacheTTL  = 5 * time.Minute
	popularPathsCacheSize = 50
)

type LearningPathRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLearningPathRepository(db *gorm.DB, rdb *redis.Client) *LearningPathRepository {
	return &LearningPathRepository{DB: db, RDB: rdb}
}

func (r *LearningPathRepository) Create(path *model.LearningPath) error {
	return r.DB.Create(path).Error
}

// FindByID 加载完整聚合：有序课程列表 + 全部报名记录
func (r *LearningPathRepository) FindByID(id uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Enrollments").
		First(&path, id).Error
	return &path, err
}

// Save 持久化整个聚合，课程与报名记录一并落库
func (r *LearningPathRepository) Save(path *model.LearningPath) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(path).Error
}

func (r *LearningPathRepository) List(category, difficulty string, page, limit int) ([]model.LearningPath, int64, error) {
	var paths []model.LearningPath
	var total int64

	query := r.DB.Model(&model.LearningPath{}).
		Where("is_published = ? AND is_active = ?", true, true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&paths).Error
	return paths, total, err
}

// FindUserPaths 查询用户有有效报名的路径，按报名时间倒序。
// status: all / active / completed
func (r *LearningPathRepository) FindUserPaths(userID uint, status string) ([]model.LearningPath, error) {
	query := r.DB.Model(&model.LearningPath{}).
		Joins("JOIN enrollments ON enrollments.path_id = learning_paths.id").
		Where("enrollments.user_id = ? AND enrollments.is_active = ?", userID, true)

	switch status {
	case "active":
		query = query.Where("enrollments.completed_at IS NULL")
	case "completed":
		query = query.Where("enrollments.completed_at IS NOT NULL")
	}

	var paths []model.LearningPath
	err := query.
		Order("enrollments.enrolled_at desc").
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Enrollments", "user_id = ?", userID).
		Find(&paths).Error
	return paths, err
}

// FindPopular 查询热门路径：已发布且有效，按报名总数、平均评分倒序。
// Redis 始终缓存前 popularPathsCacheSize 条（5分钟），按请求的 limit 截取，
// 避免小 limit 的请求把缓存截短、后续大 limit 的请求拿不全。
func (r *LearningPathRepository) FindPopular(ctx context.Context, limit int) ([]model.LearningPath, error) {
	if paths, ok := r.popularFromCache(ctx); ok {
		return capPopular(paths, limit), nil
	}

	var paths []model.LearningPath
	err := r.DB.
		Where("is_published = ? AND is_active = ?", true, true).
		Order("total_enrollments desc, average_rating desc").
		Limit(popularPathsCacheSize).
		Find(&paths).Error
	if err != nil {
		return nil, err
	}

	r.cachePopular(ctx, paths)
	return capPopular(paths, limit), nil
}

func (r *LearningPathRepository) popularFromCache(ctx context.Context) ([]model.LearningPath, bool) {
	cached, err := r.RDB.Get(ctx, popularPathsCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var paths []model.LearningPath
	if err := json.Unmarshal(cached, &paths); err != nil {
		return nil, false
	}
	return paths, true
}

func (r *LearningPathRepository) cachePopular(ctx context.Context, paths []model.LearningPath) {
	if data, err := json.Marshal(paths); err == nil {
		r.RDB.Set(ctx, popularPathsCacheKey, data, popularPathsCacheTTL)
	}
}

func capPopular(paths []model.LearningPath, limit int) []model.LearningPath {
	if limit > 0 && len(paths) > limit {
		return paths[:limit]
	}
	return paths
}

// InvalidatePopularCache 报名数或评分变化后清掉热门缓存
func (r *LearningPathRepository) InvalidatePopularCache(ctx context.Context) {
	r.RDB.Del(ctx, popularPathsCacheKey)
}

func (r *LearningPathRepository) FindRating(pathID, userID uint) (*model.PathRating, error) {
	var rating model.PathRating
	err := r.DB.Where("path_id = ? AND user_id = ?", pathID, userID).First(&rating).Error
	return &rating, err
}

func (r *LearningPathRepository) CreateRating(rating *model.PathRating) error {
	return r.DB.Create(rating).Error
}
