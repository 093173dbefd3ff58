package stor

import (
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
)

type GormMatchRequestStor struct {
	db *gorm.DB
}

func NewGormMatchRequestStor(db *gorm.DB) *GormMatchRequestStor {
	return &GormMatchRequestStor{db: db}
}

// CreateMatchRequest inserts a pending request. A second pending request for the same
// user, team and post fails with ErrDuplicateKey.
func (s *GormMatchRequestStor) CreateMatchRequest(request *tmmodel.MatchRequest) (*tmmodel.MatchRequest, error) {
	request.Status = tmmodel.MatchRequestPending
	request.PendingKey = tmmodel.PendingKeyFor(request.FromUserID, request.ToTeamID, request.PostID)

	if err := s.db.Omit("FromUser", "Team", "Post").Create(request).Error; err != nil {
		return nil, translateDuplicate(err)
	}

	return request, nil
}

func (s *GormMatchRequestStor) GetMatchRequestByID(requestID int) (*tmmodel.MatchRequest, error) {
	var request tmmodel.MatchRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

// FindBlockingMatchRequest returns the latest request for the triple that has not been
// withdrawn. Any such request stops the same user from asking again.
func (s *GormMatchRequestStor) FindBlockingMatchRequest(fromUserID, teamID, postID int) (*tmmodel.MatchRequest, error) {
	var request tmmodel.MatchRequest
	err := s.db.Where("from_user_id = ? AND to_team_id = ? AND post_id = ?", fromUserID, teamID, postID).
		Where("status <> ?", tmmodel.MatchRequestWithdrawn).
		Order("id DESC").
		First(&request).Error
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// TransitionMatchRequest moves a request from one status to another. The update only
// applies while the row is still in status from; otherwise ErrStaleState is returned.
// A non-nil message replaces the stored message in the same statement.
func (s *GormMatchRequestStor) TransitionMatchRequest(requestID int, from, to tmmodel.MatchRequestStatus, message *string) error {
	updates := map[string]interface{}{"status": to}
	if to.IsTerminal() {
		updates["pending_key"] = nil
	}
	if message != nil {
		updates["message"] = *message
	}

	result := s.db.Model(&tmmodel.MatchRequest{}).
		Where("id = ? AND status = ?", requestID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrStaleState
	}

	return nil
}

func (s *GormMatchRequestStor) WithdrawPendingForPost(postID int) ([]tmmodel.MatchRequest, error) {
	return s.withdrawPendingWhere("post_id = ?", postID)
}

func (s *GormMatchRequestStor) WithdrawPendingForTeam(teamID int) ([]tmmodel.MatchRequest, error) {
	return s.withdrawPendingWhere("to_team_id = ?", teamID)
}

// withdrawPendingWhere withdraws every pending request matching the condition and returns
// them as they were before the update.
func (s *GormMatchRequestStor) withdrawPendingWhere(cond string, arg int) ([]tmmodel.MatchRequest, error) {
	var requests []tmmodel.MatchRequest
	err := s.db.Where(cond, arg).
		Where("status = ?", tmmodel.MatchRequestPending).
		Order("id").
		Find(&requests).Error
	if err != nil || len(requests) == 0 {
		return nil, err
	}

	ids := make([]int, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}

	err = s.db.Model(&tmmodel.MatchRequest{}).
		Where("id IN ? AND status = ?", ids, tmmodel.MatchRequestPending).
		Updates(map[string]interface{}{
			"status":      tmmodel.MatchRequestWithdrawn,
			"pending_key": nil,
		}).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (s *GormMatchRequestStor) ListSentMatchRequests(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	q := s.db.Where("from_user_id = ?", userID)
	return s.listMatchRequests(q, status)
}

// ListReceivedMatchRequests lists requests made to posts authored by userID. Requests to
// posts that have since been deleted are not included.
func (s *GormMatchRequestStor) ListReceivedMatchRequests(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	authored := s.db.Model(&tmmodel.Post{}).Select("id").Where("user_id = ?", userID)
	q := s.db.Where("post_id IN (?)", authored)
	return s.listMatchRequests(q, status)
}

func (s *GormMatchRequestStor) listMatchRequests(q *gorm.DB, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []tmmodel.MatchRequest
	err := q.Preload("FromUser").
		Preload("Team").
		Preload("Post").
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

func (s *GormMatchRequestStor) CountMatchRequestsForPost(postID int) (int, error) {
	var count int64
	err := s.db.Model(&tmmodel.MatchRequest{}).Where("post_id = ?", postID).Count(&count).Error
	return int(count), err
}
