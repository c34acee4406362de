package service

import (
	"context"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

type LearningPathService struct {
	PathRepo   *repository.LearningPathRepository
	CourseRepo *repository.CourseRepository
}

func NewLearningPathService(pathRepo *repository.LearningPathRepository, courseRepo *repository.CourseRepository) *LearningPathService {
	return &LearningPathService{
		PathRepo:   pathRepo,
		CourseRepo: courseRepo,
	}
}

// CreatePathInput 创建路径的入参，分类和难度在构造时校验
type CreatePathInput struct {
	Title          string
	Description    string
	Category       string
	Difficulty     string
	EstimatedHours int
	CourseIDs      []uint
}

func (s *LearningPathService) CreatePath(creatorID uint, input CreatePathInput) (*model.LearningPath, error) {
	category, err := model.NewPathCategory(input.Category)
	if err != nil {
		return nil, err
	}
	difficulty, err := model.NewPathDifficulty(input.Difficulty)
	if err != nil {
		return nil, err
	}

	path := &model.LearningPath{
		Title:          input.Title,
		Description:    input.Description,
		Category:       category,
		Difficulty:     difficulty,
		CreatorID:      creatorID,
		EstimatedHours: input.EstimatedHours,
		IsActive:       true,
	}

	for i, courseID := range input.CourseIDs {
		if _, err := s.CourseRepo.FindByID(courseID); err != nil {
			return nil, err
		}
		path.Courses = append(path.Courses, model.PathCourse{
			CourseID:   courseID,
			OrderIndex: i,
		})
	}

	if err := s.PathRepo.Create(path); err != nil {
		return nil, err
	}
	return path, nil
}

func (s *LearningPathService) GetPath(pathID uint) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindByID(pathID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrPathNotFound
	}
	return path, err
}

func (s *LearningPathService) ListPaths(category, difficulty string, page, limit int) ([]model.LearningPath, int64, error) {
	return s.PathRepo.List(category, difficulty, page, limit)
}

// UpdatePathInput 编辑路径的入参，nil 字段表示不修改
type UpdatePathInput struct {
	Title          *string
	Description    *string
	Category       *string
	Difficulty     *string
	EstimatedHours *int
}

// UpdatePath 编辑路径的基本信息，仅创建者或管理员可操作
func (s *LearningPathService) UpdatePath(pathID, actorID uint, isAdmin bool, input UpdatePathInput) (*model.LearningPath, error) {
	path, err := s.GetPath(pathID)
	if err != nil {
		return nil, err
	}
	if path.CreatorID != actorID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	if input.Category != nil {
		category, err := model.NewPathCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		path.Category = category
	}
	if input.Difficulty != nil {
		difficulty, err := model.NewPathDifficulty(*input.Difficulty)
		if err != nil {
			return nil, err
		}
		path.Difficulty = difficulty
	}
	if input.Title != nil {
		path.Title = *input.Title
	}
	if input.Description != nil {
		path.Description = *input.Description
	}
	if input.EstimatedHours != nil {
		path.EstimatedHours = *input.EstimatedHours
	}

	if err := s.PathRepo.Save(path); err != nil {
		return nil, err
	}
	return path, nil
}

// Publish 发布路径，使其出现在浏览和热门列表中
func (s *LearningPathService) Publish(pathID, actorID uint, isAdmin bool) error {
	path, err := s.GetPath(pathID)
	if err != nil {
		return err
	}
	if path.CreatorID != actorID && !isAdmin {
		return util.ErrPermissionDenied
	}
	path.IsPublished = true
	return s.PathRepo.Save(path)
}

// Deactivate 软下线路径，不做物理删除
func (s *LearningPathService) Deactivate(ctx context.Context, pathID, actorID uint, isAdmin bool) error {
	path, err := s.GetPath(pathID)
	if err != nil {
		return err
	}
	if path.CreatorID != actorID && !isAdmin {
		return util.ErrPermissionDenied
	}
	path.IsActive = false
	if err := s.PathRepo.Save(path); err != nil {
		return err
	}
	s.PathRepo.InvalidatePopularCache(ctx)
	return nil
}

// Enroll 报名（幂等）。首次报名计入 TotalEnrollments，
// 重新激活已失效的报名不重复计数。
func (s *LearningPathService) Enroll(ctx context.Context, pathID, userID uint) (*model.Enrollment, error) {
	path, err := s.GetPath(pathID)
	if err != nil {
		return nil, err
	}

	enrollment, firstTime := path.Enroll(userID, time.Now())
	if err := s.PathRepo.Save(path); err != nil {
		return nil, err
	}
	if firstTime {
		monitoring.EnrollmentCounter.Inc()
		s.PathRepo.InvalidatePopularCache(ctx)
	}
	return enrollment, nil
}

// ProgressUpdateResult 进度更新的结果，完成标记供上层触发经验奖励
type ProgressUpdateResult struct {
	Enrollment      *model.Enrollment `json:"enrollment"`
	CourseCompleted bool              `json:"courseCompleted"`
	PathCompleted   bool              `json:"pathCompleted"`
}

// UpdateProgress 更新某门课程的进度。校验失败时不产生任何修改。
func (s *LearningPathService) UpdateProgress(pathID, userID uint, courseIndex, progress int) (*ProgressUpdateResult, error) {
	path, err := s.GetPath(pathID)
	if err != nil {
		return nil, err
	}

	var courseWasCompleted, pathWasCompleted bool
	if courseIndex >= 0 && courseIndex < len(path.Courses) {
		courseWasCompleted = path.Courses[courseIndex].Completed
	}
	if e := path.EnrollmentFor(userID); e != nil {
		pathWasCompleted = e.CompletedAt != nil
	}

	if err := path.UpdateCourseProgress(userID, courseIndex, progress, time.Now()); err != nil {
		return nil, err
	}

	if err := s.PathRepo.Save(path); err != nil {
		return nil, err
	}

	enrollment := path.EnrollmentFor(userID)
	return &ProgressUpdateResult{
		Enrollment:      enrollment,
		CourseCompleted: !courseWasCompleted && path.Courses[courseIndex].Completed,
		PathCompleted:   !pathWasCompleted && enrollment.CompletedAt != nil,
	}, nil
}

// ComputeUserProgress 只读计算用户在路径上的总进度
func (s *LearningPathService) ComputeUserProgress(pathID, userID uint) (int, error) {
	path, err := s.GetPath(pathID)
	if err != nil {
		return 0, err
	}
	return path.UserProgress(userID), nil
}

// ListUserPaths 列出用户报名的路径，status: all / active / completed
func (s *LearningPathService) ListUserPaths(userID uint, status string) ([]model.LearningPath, error) {
	return s.PathRepo.FindUserPaths(userID, status)
}

// ListPopularPaths 按报名总数和平均评分列出热门路径
func (s *LearningPathService) ListPopularPaths(ctx context.Context, limit int) ([]model.LearningPath, error) {
	return s.PathRepo.FindPopular(ctx, limit)
}

// Rate 用户给路径评分（1-5），每人一次，更新平均分
func (s *LearningPathService) Rate(ctx context.Context, pathID, userID uint, rating int) (*model.LearningPath, error) {
	path, err := s.GetPath(pathID)
	if err != nil {
		return nil, err
	}
	if path.EnrollmentFor(userID) == nil {
		return nil, model.ErrNotEnrolled
	}

	if _, err := s.PathRepo.FindRating(pathID, userID); err == nil {
		return nil, util.ErrAlreadyRated
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err := path.ApplyRating(rating); err != nil {
		return nil, err
	}

	if err := s.PathRepo.CreateRating(&model.PathRating{
		PathID: pathID,
		UserID: userID,
		Rating: rating,
	}); err != nil {
		return nil, err
	}
	if err := s.PathRepo.Save(path); err != nil {
		return nil, err
	}
	s.PathRepo.InvalidatePopularCache(ctx)
	return path, nil
}
