package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPostStor struct {
	db *gorm.DB
}

func NewGormPostStor(db *gorm.DB) *GormPostStor {
	return &GormPostStor{db: db}
}

// CreatePost inserts post and links it to post.Skills. The skills must already exist.
func (s *GormPostStor) CreatePost(post *tmmodel.Post) (*tmmodel.Post, error) {
	var err error

	if post.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if err := s.db.Omit("User", "Team", "Skills.*").Create(post).Error; err != nil {
		return nil, translateDuplicate(err)
	}

	return post, nil
}

func (s *GormPostStor) GetPostByID(postID int) (*tmmodel.Post, error) {
	var post tmmodel.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

func (s *GormPostStor) GetPostWithDetails(postID int) (*tmmodel.Post, error) {
	var post tmmodel.Post
	err := s.db.Preload("User").
		Preload("Team").
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("skills.id") }).
		First(&post, postID).Error
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// ListPostsForUser returns posts the user wrote or left a visible comment on, newest
// first.
func (s *GormPostStor) ListPostsForUser(userID, limit int) ([]tmmodel.Post, error) {
	commented := s.db.Model(&tmmodel.Comment{}).
		Select("post_id").
		Where("user_id = ?", userID).
		Where("status IS NULL OR status <> ?", tmmodel.CommentDeleted)

	var posts []tmmodel.Post
	err := s.db.Preload("Team").
		Where("user_id = ? OR id IN (?)", userID, commented).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (s *GormPostStor) UpdatePost(postID int, updates map[string]interface{}) error {
	return s.db.Model(&tmmodel.Post{ID: postID}).Omit(clause.Associations).Updates(updates).Error
}

func (s *GormPostStor) ClearSkills(post *tmmodel.Post) error {
	return s.db.Model(post).Association("Skills").Clear()
}

func (s *GormPostStor) DeletePost(postID int) error {
	return s.db.Delete(&tmmodel.Post{}, postID).Error
}
