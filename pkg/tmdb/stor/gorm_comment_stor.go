package stor

import (
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
)

type GormCommentStor struct {
	db *gorm.DB
}

func NewGormCommentStor(db *gorm.DB) *GormCommentStor {
	return &GormCommentStor{db: db}
}

func (s *GormCommentStor) CreateComment(comment *tmmodel.Comment) (*tmmodel.Comment, error) {
	comment.Status = tmmodel.StatusPtr(tmmodel.CommentVisible)
	if err := s.db.Omit("User").Create(comment).Error; err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *GormCommentStor) GetCommentForPost(postID, commentID int) (*tmmodel.Comment, error) {
	var comment tmmodel.Comment
	err := s.db.Where("id = ? AND post_id = ?", commentID, postID).First(&comment).Error
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// CountChildren counts direct replies, including soft deleted ones.
func (s *GormCommentStor) CountChildren(commentID int) (int, error) {
	var count int64
	err := s.db.Model(&tmmodel.Comment{}).Where("parent_comment_id = ?", commentID).Count(&count).Error
	return int(count), err
}

func (s *GormCommentStor) UpdateCommentContent(commentID int, content string) error {
	return s.db.Model(&tmmodel.Comment{ID: commentID}).Update("content", content).Error
}

func (s *GormCommentStor) SoftDeleteComment(commentID int) error {
	return s.db.Model(&tmmodel.Comment{ID: commentID}).Update("status", tmmodel.CommentDeleted).Error
}

func (s *GormCommentStor) HardDeleteComment(commentID int) error {
	return s.db.Delete(&tmmodel.Comment{}, commentID).Error
}

// SoftDeleteCommentsForPost marks every comment on the post deleted and returns how
// many rows changed.
func (s *GormCommentStor) SoftDeleteCommentsForPost(postID int) (int, error) {
	result := s.db.Model(&tmmodel.Comment{}).
		Where("post_id = ?", postID).
		Where("status IS NULL OR status <> ?", tmmodel.CommentDeleted).
		Update("status", tmmodel.CommentDeleted)
	return int(result.RowsAffected), result.Error
}

// ListVisibleCommentsForPost returns the non-deleted comments of a post in creation
// order. Rows with a NULL status predate the status column and count as visible.
func (s *GormCommentStor) ListVisibleCommentsForPost(postID int) ([]tmmodel.Comment, error) {
	var comments []tmmodel.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Where("status IS NULL OR status <> ?", tmmodel.CommentDeleted).
		Order("created_at, id").
		Find(&comments).Error
	return comments, err
}
