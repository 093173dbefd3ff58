package matching

import (
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

// MatchRequests is the request state machine:
//
//	pending -> accepted | rejected | withdrawn
//
// Terminal states never change again, except that a rejection may annotate the
// message at the moment of rejecting.
type MatchRequests struct {
	*core
	teams *TeamRegistry
}

type AcceptResult struct {
	RequestID   int                `json:"request_id"`
	Status      string             `json:"status"`
	MemberAdded bool               `json:"user_added_to_team"`
	TeamID      int                `json:"team_id"`
	TeamStatus  tmmodel.TeamStatus `json:"team_status"`
}

// Create asks to join the team behind postID. There is no capacity check here; a
// full team is only refused when the request is accepted.
func (m *MatchRequests) Create(postID, fromUserID int, message string) (*tmmodel.MatchRequest, error) {
	post, err := m.reader().PostStor.GetPostByID(postID)
	if err != nil {
		return nil, lookupErr(err, "post", postID)
	}

	var request *tmmodel.MatchRequest
	err = m.withTeamTx(post.TeamID, func(stors *stor.Stors) error {
		// The post may have been deleted while waiting for the lock.
		post, err := stors.PostStor.GetPostByID(postID)
		if err != nil {
			return lookupErr(err, "post", postID)
		}

		if _, err := stors.UserStor.GetUserByID(fromUserID); err != nil {
			return lookupErr(err, "user", fromUserID)
		}

		if post.UserID == fromUserID {
			return tmerr.New(tmerr.KindSelfRequest, "cannot send a join request to your own post")
		}

		isMember, err := stors.TeamStor.IsMember(post.TeamID, fromUserID)
		switch {
		case err != nil:
			return tmerr.Internal(err, "checking membership of team %d", post.TeamID)
		case isMember:
			return tmerr.New(tmerr.KindAlreadyMember, "user %d is already a member of team %d", fromUserID, post.TeamID)
		}

		existing, err := stors.MatchRequestStor.FindBlockingMatchRequest(fromUserID, post.TeamID, postID)
		switch {
		case err == nil:
			return tmerr.New(tmerr.KindDuplicateRequest, "a %s request already exists for this post", existing.Status)
		case !stor.IsNotFound(err):
			return tmerr.Internal(err, "checking existing requests")
		}

		request, err = stors.MatchRequestStor.CreateMatchRequest(&tmmodel.MatchRequest{
			FromUserID: fromUserID,
			ToTeamID:   post.TeamID,
			PostID:     postID,
			Message:    message,
		})
		switch {
		case errors.Is(err, stor.ErrDuplicateKey):
			return tmerr.New(tmerr.KindDuplicateRequest, "a pending request already exists for this post")
		case err != nil:
			return tmerr.Internal(err, "creating request")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger().WithFields(log.Fields{"request_id": request.ID, "post_id": postID, "team_id": request.ToTeamID}).
		Info("join request created")
	m.publish([]notify.Event{{
		Type:      notify.EventRequestCreated,
		UserID:    post.UserID,
		RequestID: request.ID,
		PostID:    postID,
		TeamID:    request.ToTeamID,
		Status:    string(request.Status),
	}})

	return request, nil
}

// respond runs fn for a pending request after checking that actingUserID wrote the
// post it was made to. fn runs under the team lock inside the transaction.
func (m *MatchRequests) respond(requestID, actingUserID int, fn func(stors *stor.Stors, request *tmmodel.MatchRequest) error) (*tmmodel.MatchRequest, error) {
	request, err := m.reader().MatchRequestStor.GetMatchRequestByID(requestID)
	if err != nil {
		return nil, lookupErr(err, "request", requestID)
	}

	err = m.withTeamTx(request.ToTeamID, func(stors *stor.Stors) error {
		request, err = stors.MatchRequestStor.GetMatchRequestByID(requestID)
		if err != nil {
			return lookupErr(err, "request", requestID)
		}

		post, err := stors.PostStor.GetPostByID(request.PostID)
		if err != nil {
			if stor.IsNotFound(err) {
				return tmerr.NotFound("request %d not found", requestID)
			}
			return tmerr.Internal(err, "loading post %d", request.PostID)
		}

		if post.UserID != actingUserID {
			return tmerr.Unauthorized("only the author of post %d can respond to request %d", post.ID, requestID)
		}

		if request.Status != tmmodel.MatchRequestPending {
			return tmerr.InvalidState("Request already %s", request.Status)
		}

		return fn(stors, request)
	})

	return request, err
}

// Accept adds the requester to the team and marks the request accepted. Both commit
// together. Accepting into a team that is already at its target size fails and leaves
// the request pending.
func (m *MatchRequests) Accept(requestID, actingUserID int) (*AcceptResult, error) {
	result := &AcceptResult{RequestID: requestID}

	request, err := m.respond(requestID, actingUserID, func(stors *stor.Stors, request *tmmodel.MatchRequest) error {
		team, err := stors.TeamStor.GetTeamByIDForUpdate(request.ToTeamID)
		if err != nil {
			return lookupErr(err, "team", request.ToTeamID)
		}

		if result.MemberAdded, err = m.teams.addMember(stors, team, request.FromUserID, tmmodel.MemberRoleMember); err != nil {
			return err
		}

		if err := transition(stors, request, tmmodel.MatchRequestAccepted, nil); err != nil {
			return err
		}

		result.TeamID = team.ID
		result.TeamStatus = team.Status
		result.Status = string(tmmodel.MatchRequestAccepted)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger().WithFields(log.Fields{"request_id": requestID, "team_id": result.TeamID, "team_status": result.TeamStatus}).
		Info("join request accepted")
	m.publish([]notify.Event{requestEvent(notify.EventRequestAccepted, request)})

	return result, nil
}

// Reject marks the request rejected. A non-empty reason is appended to the
// requester's message.
func (m *MatchRequests) Reject(requestID, actingUserID int, reason string) (*tmmodel.MatchRequest, error) {
	request, err := m.respond(requestID, actingUserID, func(stors *stor.Stors, request *tmmodel.MatchRequest) error {
		return transition(stors, request, tmmodel.MatchRequestRejected, annotateRejection(request.Message, reason))
	})
	if err != nil {
		return nil, err
	}

	logger().WithField("request_id", requestID).Info("join request rejected")
	m.publish([]notify.Event{requestEvent(notify.EventRequestRejected, request)})

	return request, nil
}

// Withdraw lets the requester take back their own pending request.
func (m *MatchRequests) Withdraw(requestID, actingUserID int) (*tmmodel.MatchRequest, error) {
	request, err := m.reader().MatchRequestStor.GetMatchRequestByID(requestID)
	if err != nil {
		return nil, lookupErr(err, "request", requestID)
	}

	err = m.withTeamTx(request.ToTeamID, func(stors *stor.Stors) error {
		request, err = stors.MatchRequestStor.GetMatchRequestByID(requestID)
		if err != nil {
			return lookupErr(err, "request", requestID)
		}

		if request.FromUserID != actingUserID {
			return tmerr.Unauthorized("only the requester can withdraw request %d", requestID)
		}

		if request.Status != tmmodel.MatchRequestPending {
			return tmerr.InvalidState("Request already %s", request.Status)
		}

		return transition(stors, request, tmmodel.MatchRequestWithdrawn, nil)
	})
	if err != nil {
		return nil, err
	}

	logger().WithField("request_id", requestID).Info("join request withdrawn")
	return request, nil
}

// WithdrawAllPendingForTeam withdraws every pending request to the team and returns
// how many changed.
func (m *MatchRequests) WithdrawAllPendingForTeam(teamID int) (int, error) {
	var withdrawn []tmmodel.MatchRequest
	err := m.withTeamTx(teamID, func(stors *stor.Stors) error {
		var err error
		withdrawn, err = withdrawAllPendingForTeam(stors, teamID)
		return err
	})
	if err != nil {
		return 0, err
	}

	m.publish(withdrawnEvents(withdrawn))
	return len(withdrawn), nil
}

func withdrawAllPendingForTeam(stors *stor.Stors, teamID int) ([]tmmodel.MatchRequest, error) {
	withdrawn, err := stors.MatchRequestStor.WithdrawPendingForTeam(teamID)
	if err != nil {
		return nil, tmerr.Internal(err, "withdrawing requests for team %d", teamID)
	}

	return withdrawn, nil
}

func (m *MatchRequests) ListSent(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	if err := checkStatusFilter(status); err != nil {
		return nil, err
	}

	requests, err := m.reader().MatchRequestStor.ListSentMatchRequests(userID, status)
	if err != nil {
		return nil, tmerr.Internal(err, "listing requests sent by user %d", userID)
	}

	return requests, nil
}

func (m *MatchRequests) ListReceived(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	if err := checkStatusFilter(status); err != nil {
		return nil, err
	}

	requests, err := m.reader().MatchRequestStor.ListReceivedMatchRequests(userID, status)
	if err != nil {
		return nil, tmerr.Internal(err, "listing requests received by user %d", userID)
	}

	return requests, nil
}

func checkStatusFilter(status tmmodel.MatchRequestStatus) error {
	if status != "" && !status.Valid() {
		return tmerr.Validation("unknown request status %q", status)
	}

	return nil
}

// transition moves request out of pending and updates the copy in memory.
func transition(stors *stor.Stors, request *tmmodel.MatchRequest, to tmmodel.MatchRequestStatus, message *string) error {
	err := stors.MatchRequestStor.TransitionMatchRequest(request.ID, tmmodel.MatchRequestPending, to, message)
	switch {
	case errors.Is(err, stor.ErrStaleState):
		return tmerr.InvalidState("request %d is no longer pending", request.ID)
	case err != nil:
		return tmerr.Internal(err, "updating request %d", request.ID)
	}

	request.Status = to
	request.PendingKey = nil
	if message != nil {
		request.Message = *message
	}

	return nil
}

// annotateRejection returns the message to store for a rejection, or nil to keep the
// original message.
func annotateRejection(message, reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}

	annotated := "[Rejection reason: " + reason + "]"
	if message != "" {
		annotated = message + "\n\n" + annotated
	}

	return &annotated
}

func requestEvent(eventType notify.EventType, request *tmmodel.MatchRequest) notify.Event {
	return notify.Event{
		Type:      eventType,
		UserID:    request.FromUserID,
		RequestID: request.ID,
		PostID:    request.PostID,
		TeamID:    request.ToTeamID,
		Status:    string(request.Status),
	}
}

func withdrawnEvents(requests []tmmodel.MatchRequest) []notify.Event {
	events := make([]notify.Event, 0, len(requests))
	for i := range requests {
		requests[i].Status = tmmodel.MatchRequestWithdrawn
		events = append(events, requestEvent(notify.EventRequestWithdrawn, &requests[i]))
	}

	return events
}
