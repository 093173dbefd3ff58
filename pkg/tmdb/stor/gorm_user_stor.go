package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
)

type GormUserStor struct {
	db *gorm.DB
}

func NewGormUserStor(db *gorm.DB) *GormUserStor {
	return &GormUserStor{db: db}
}

func (s *GormUserStor) CreateUser(user *tmmodel.User) (*tmmodel.User, error) {
	var err error

	if user.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, translateDuplicate(err)
	}

	return user, nil
}

func (s *GormUserStor) GetUserByID(userID int) (*tmmodel.User, error) {
	var user tmmodel.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByNetID(netID string) (*tmmodel.User, error) {
	var user tmmodel.User
	if err := s.db.Where("netid = ?", netID).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
