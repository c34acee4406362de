package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPath(courseCount int) *LearningPath {
	p := &LearningPath{
		Title:      "Go 后端进阶",
		Category:   CategoryProgramming,
		Difficulty: DifficultyIntermediate,
	}
	for i := 0; i < courseCount; i++ {
		p.Courses = append(p.Courses, PathCourse{CourseID: uint(i + 1), OrderIndex: i})
	}
	return p
}

func TestEnrollIsIdempotent(t *testing.T) {
	p := newTestPath(2)
	now := time.Now()

	e, first := p.Enroll(42, now)
	require.NotNil(t, e)
	assert.True(t, first)
	assert.Equal(t, 1, p.TotalEnrollments)
	assert.True(t, e.IsActive)

	again, first := p.Enroll(42, now.Add(time.Hour))
	assert.False(t, first)
	assert.Equal(t, 1, p.TotalEnrollments)
	assert.Len(t, p.Enrollments, 1)
	assert.Equal(t, e.UserID, again.UserID)
}

func TestEnrollReactivatesWithoutCounting(t *testing.T) {
	p := newTestPath(1)
	enrolledAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	p.Enroll(7, enrolledAt)
	p.Enrollments[0].IsActive = false

	later := enrolledAt.AddDate(0, 1, 0)
	e, first := p.Enroll(7, later)

	assert.False(t, first)
	assert.True(t, e.IsActive)
	assert.True(t, e.EnrolledAt.Equal(later))
	assert.Equal(t, 1, p.TotalEnrollments)
}

func TestUpdateCourseProgressValidationOrder(t *testing.T) {
	p := newTestPath(2)
	now := time.Now()

	// 未报名时无论参数多离谱都先报未报名
	err := p.UpdateCourseProgress(99, 5, 150, now)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	p.Enroll(99, now)

	err = p.UpdateCourseProgress(99, 2, 50, now)
	assert.ErrorIs(t, err, ErrInvalidCourseIndex)
	err = p.UpdateCourseProgress(99, -1, 50, now)
	assert.ErrorIs(t, err, ErrInvalidCourseIndex)

	err = p.UpdateCourseProgress(99, 0, 150, now)
	assert.ErrorIs(t, err, ErrInvalidProgressRange)

	// 校验失败不应产生任何修改
	assert.Equal(t, 0, p.Courses[0].Progress)
	assert.Equal(t, 0, p.Enrollments[0].Progress)
	assert.Nil(t, p.Enrollments[0].StartedAt)
}

func TestUpdateCourseProgressComputesRoundedMean(t *testing.T) {
	p := newTestPath(2)
	now := time.Now()
	p.Enroll(1, now)

	require.NoError(t, p.UpdateCourseProgress(1, 0, 75, now))

	e := p.EnrollmentFor(1)
	require.NotNil(t, e)
	// (75 + 0) / 2 = 37.5，四舍五入为 38
	assert.Equal(t, 38, e.Progress)
	assert.Equal(t, 0, e.CurrentCourseIndex)
	assert.NotNil(t, e.StartedAt)
	assert.Equal(t, 38, p.UserProgress(1))
}

func TestUserProgressEdgeCases(t *testing.T) {
	p := newTestPath(3)
	assert.Equal(t, 0, p.UserProgress(5), "未报名用户进度应为 0")

	empty := newTestPath(0)
	empty.Enroll(5, time.Now())
	assert.Equal(t, 0, empty.UserProgress(5), "无课程路径进度应为 0")
}

func TestCourseAndPathCompletion(t *testing.T) {
	p := newTestPath(2)
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.Local)
	p.Enroll(3, now)

	require.NoError(t, p.UpdateCourseProgress(3, 0, 100, now))
	assert.True(t, p.Courses[0].Completed)
	require.NotNil(t, p.Courses[0].CompletedAt)
	firstCompletedAt := *p.Courses[0].CompletedAt

	e := p.EnrollmentFor(3)
	assert.Nil(t, e.CompletedAt, "仍有未完成课程时路径不应标记完成")

	// 重复提交 100 不应改写完成时间
	later := now.Add(2 * time.Hour)
	require.NoError(t, p.UpdateCourseProgress(3, 0, 100, later))
	assert.True(t, p.Courses[0].CompletedAt.Equal(firstCompletedAt))

	require.NoError(t, p.UpdateCourseProgress(3, 1, 100, later))
	assert.Equal(t, 2, p.CompletedCourseCount())
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, 100, e.Progress)
}

func TestApplyRating(t *testing.T) {
	p := newTestPath(1)

	assert.ErrorIs(t, p.ApplyRating(0), ErrInvalidRating)
	assert.ErrorIs(t, p.ApplyRating(6), ErrInvalidRating)

	require.NoError(t, p.ApplyRating(4))
	require.NoError(t, p.ApplyRating(5))
	assert.Equal(t, 2, p.TotalRatings)
	assert.InDelta(t, 4.5, p.AverageRating, 1e-9)
}

func TestNewPathCategoryAndDifficulty(t *testing.T) {
	c, err := NewPathCategory("programming")
	require.NoError(t, err)
	assert.Equal(t, CategoryProgramming, c)

	_, err = NewPathCategory("cooking")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	d, err := NewPathDifficulty("advanced")
	require.NoError(t, err)
	assert.Equal(t, DifficultyAdvanced, d)

	_, err = NewPathDifficulty("expert")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}
