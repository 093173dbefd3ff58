package tmdb

import (
	"github.com/pkg/errors"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in creation order.
func Models() []interface{} {
	return []interface{}{
		&tmmodel.User{},
		&tmmodel.Term{},
		&tmmodel.Course{},
		&tmmodel.Section{},
		&tmmodel.Skill{},
		&tmmodel.Team{},
		&tmmodel.TeamMember{},
		&tmmodel.Post{},
		&tmmodel.MatchRequest{},
		&tmmodel.Comment{},
	}
}

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "running migrations")
	}

	return nil
}
