package model

import (
	"math"
	"time"
)

type PathCategory string

const (
	CategoryProgramming PathCategory = "programming"
	CategoryDesign      PathCategory = "design"
	CategoryBusiness    PathCategory = "business"
	CategoryScience     PathCategory = "science"
	CategoryLanguage    PathCategory = "language"
	CategoryOther       PathCategory = "other"
)

type PathDifficulty string

const (
	DifficultyBeginner     PathDifficulty = "beginner"
	DifficultyIntermediate PathDifficulty = "intermediate"
	DifficultyAdvanced     PathDifficulty = "advanced"
)

// NewPathCategory 构造并校验路径分类
func NewPathCategory(s string) (PathCategory, error) {
	switch PathCategory(s) {
	case CategoryProgramming, CategoryDesign, CategoryBusiness, CategoryScience, CategoryLanguage, CategoryOther:
		return PathCategory(s), nil
	}
	return "", ErrInvalidCategory
}

// NewPathDifficulty 构造并校验难度等级
func NewPathDifficulty(s string) (PathDifficulty, error) {
	switch PathDifficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return PathDifficulty(s), nil
	}
	return "", ErrInvalidDifficulty
}

// NewProgressValue 校验进度值必须在 [0,100] 区间内
func NewProgressValue(v int) (int, error) {
	if v < 0 || v > 100 {
		return 0, ErrInvalidProgressRange
	}
	return v, nil
}

// LearningPath 学习路径聚合：有序课程列表 + 报名记录
// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Category         PathCategory   `gorm:"type:enum('programming','design','business','science','language','other');default:'other'" json:"category"`
	Difficulty       PathDifficulty `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficulty"`
	CreatorID        uint           `gorm:"index;type:bigint unsigned" json:"creatorId"`
	EstimatedHours   int            `gorm:"default:0" json:"estimatedHours"`
	IsPublished      bool           `gorm:"default:false" json:"isPublished"`
	IsActive         bool           `gorm:"default:true" json:"isActive"`
	TotalEnrollments int            `gorm:"default:0" json:"totalEnrollments"`
	AverageRating    float64        `gorm:"default:0" json:"averageRating"`
	TotalRatings     int            `gorm:"default:0" json:"totalRatings"`

	Courses     []PathCourse `gorm:"foreignKey:PathID" json:"courses"`
	Enrollments []Enrollment `gorm:"foreignKey:PathID" json:"enrolledUsers,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// PathCourse 路径内的课程引用，OrderIndex 决定学习顺序
// swagger:model PathCourse
type PathCourse struct {
	BaseModel
	PathID      uint       `gorm:"index;type:bigint unsigned;not null" json:"pathId"`
	CourseID    uint       `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	OrderIndex  int        `gorm:"not null" json:"orderIndex"`
	Progress    int        `gorm:"default:0" json:"progress"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (PathCourse) TableName() string {
	return "path_courses"
}

// Enrollment 单个用户在单条路径上的报名记录，每对 path+user 唯一
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	PathID             uint       `gorm:"uniqueIndex:idx_path_user;type:bigint unsigned;not null" json:"pathId"`
	UserID             uint       `gorm:"uniqueIndex:idx_path_user;type:bigint unsigned;not null" json:"userId"`
	EnrolledAt         time.Time  `gorm:"not null" json:"enrolledAt"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CurrentCourseIndex int        `gorm:"default:0" json:"currentCourseIndex"`
	Progress           int        `gorm:"default:0" json:"progress"`
	TimeSpentMinutes   int        `gorm:"default:0" json:"timeSpentMinutes"`
	IsActive           bool       `gorm:"default:true" json:"isActive"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// PathRating 用户对路径的评分，用于热门排序的平均分
type PathRating struct {
	BaseModel
	PathID uint `gorm:"uniqueIndex:idx_path_rater;type:bigint unsigned;not null" json:"pathId"`
	UserID uint `gorm:"uniqueIndex:idx_path_rater;type:bigint unsigned;not null" json:"userId"`
	Rating int  `gorm:"not null" json:"rating"`
}

func (PathRating) TableName() string {
	return "path_ratings"
}

// EnrollmentFor 返回指定用户的报名记录，未报名时返回 nil
func (p *LearningPath) EnrollmentFor(userID uint) *Enrollment {
	for i := range p.Enrollments {
		if p.Enrollments[i].UserID == userID {
			return &p.Enrollments[i]
		}
	}
	return nil
}

// Enroll 报名（幂等）。首次报名创建记录并计入 TotalEnrollments，
// 重新激活已失效的报名只重置报名时间，不重复计数。
func (p *LearningPath) Enroll(userID uint, now time.Time) (*Enrollment, bool) {
	if e := p.EnrollmentFor(userID); e != nil {
		if !e.IsActive {
			e.IsActive = true
			e.EnrolledAt = now
		}
		return e, false
	}

	p.Enrollments = append(p.Enrollments, Enrollment{
		PathID:     p.ID,
		UserID:     userID,
		EnrolledAt: now,
		IsActive:   true,
	})
	p.TotalEnrollments++
	return &p.Enrollments[len(p.Enrollments)-1], true
}

// UpdateCourseProgress 更新某门课程的进度并重算用户总进度。
// 校验全部通过前不做任何修改。
func (p *LearningPath) UpdateCourseProgress(userID uint, courseIndex, progress int, now time.Time) error {
	enrollment := p.EnrollmentFor(userID)
	if enrollment == nil {
		return ErrNotEnrolled
	}
	if courseIndex < 0 || courseIndex >= len(p.Courses) {
		return ErrInvalidCourseIndex
	}
	value, err := NewProgressValue(progress)
	if err != nil {
		return err
	}

	course := &p.Courses[courseIndex]
	course.Progress = value
	if value >= 100 && !course.Completed {
		course.Completed = true
		course.CompletedAt = &now
	}

	if enrollment.StartedAt == nil {
		enrollment.StartedAt = &now
	}
	enrollment.CurrentCourseIndex = courseIndex
	enrollment.Progress = p.meanCourseProgress()

	if p.allCoursesCompleted() && enrollment.CompletedAt == nil {
		enrollment.CompletedAt = &now
	}
	return nil
}

// UserProgress 计算用户总进度：未报名或路径无课程时为 0，
// 否则为各课程进度的四舍五入平均值。
func (p *LearningPath) UserProgress(userID uint) int {
	if p.EnrollmentFor(userID) == nil {
		return 0
	}
	return p.meanCourseProgress()
}

// CompletedCourseCount 已完成课程数（派生值，不落库）
func (p *LearningPath) CompletedCourseCount() int {
	count := 0
	for i := range p.Courses {
		if p.Courses[i].Completed {
			count++
		}
	}
	return count
}

// ActiveEnrollmentCount 当前有效报名数（派生值，不落库）
func (p *LearningPath) ActiveEnrollmentCount() int {
	count := 0
	for i := range p.Enrollments {
		if p.Enrollments[i].IsActive {
			count++
		}
	}
	return count
}

// ApplyRating 记入一次新评分并更新平均分
func (p *LearningPath) ApplyRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	total := p.AverageRating*float64(p.TotalRatings) + float64(rating)
	p.TotalRatings++
	p.AverageRating = total / float64(p.TotalRatings)
	return nil
}

func (p *LearningPath) meanCourseProgress() int {
	if len(p.Courses) == 0 {
		return 0
	}
	sum := 0
	for i := range p.Courses {
		sum += p.Courses[i].Progress
	}
	return int(math.Round(float64(sum) / float64(len(p.Courses))))
}

func (p *LearningPath) allCoursesCompleted() bool {
	if len(p.Courses) == 0 {
		return false
	}
	for i := range p.Courses {
		if !p.Courses[i].Completed {
			return false
		}
	}
	return true
}
