package matching

import (
	"github.com/apex/log"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

// DeletionOrchestrator removes a post and whatever of its team should go with it.
type DeletionOrchestrator struct {
	*core
}

type DeleteResult struct {
	PostID      int  `json:"post_id"`
	TeamID      int  `json:"team_id"`
	TeamDeleted bool `json:"team_deleted"`
	Withdrawn   int  `json:"withdrawn_requests"`
}

// DeletePost deletes a post in one transaction:
//
//  1. only the author may delete it
//  2. its comments are soft deleted
//  3. pending requests on it are withdrawn
//  4. its skill tags are removed
//  5. the post row is deleted
//  6. a team with no member besides the owner is deleted with its memberships,
//     otherwise the team stays and its remaining pending requests are withdrawn
func (d *DeletionOrchestrator) DeletePost(postID, actingUserID int) (*DeleteResult, error) {
	post, err := d.reader().PostStor.GetPostByID(postID)
	if err != nil {
		return nil, lookupErr(err, "post", postID)
	}

	result := &DeleteResult{PostID: postID, TeamID: post.TeamID}
	var withdrawn []tmmodel.MatchRequest

	// Team lock first, then the post lock; comment writers only ever take the post lock.
	err = d.teamLocks.WithLock(post.TeamID, func() error {
		return d.withPostTx(postID, func(stors *stor.Stors) error {
			post, err := stors.PostStor.GetPostByID(postID)
			if err != nil {
				return lookupErr(err, "post", postID)
			}

			if post.UserID != actingUserID {
				return tmerr.Unauthorized("only the author can delete post %d", postID)
			}

			team, err := stors.TeamStor.GetTeamByIDForUpdate(post.TeamID)
			if err != nil {
				return lookupErr(err, "team", post.TeamID)
			}

			memberCount, err := stors.TeamStor.CountMembers(team.ID)
			if err != nil {
				return tmerr.Internal(err, "counting members of team %d", team.ID)
			}

			if _, err := stors.CommentStor.SoftDeleteCommentsForPost(postID); err != nil {
				return tmerr.Internal(err, "deleting comments of post %d", postID)
			}

			onPost, err := stors.MatchRequestStor.WithdrawPendingForPost(postID)
			if err != nil {
				return tmerr.Internal(err, "withdrawing requests for post %d", postID)
			}
			withdrawn = append(withdrawn, onPost...)

			if err := stors.PostStor.ClearSkills(post); err != nil {
				return tmerr.Internal(err, "removing skills of post %d", postID)
			}

			if err := stors.PostStor.DeletePost(postID); err != nil {
				return tmerr.Internal(err, "deleting post %d", postID)
			}

			onTeam, err := withdrawAllPendingForTeam(stors, team.ID)
			if err != nil {
				return err
			}
			withdrawn = append(withdrawn, onTeam...)

			if memberCount <= 1 {
				if err := deleteTeam(stors, team.ID); err != nil {
					return err
				}
				result.TeamDeleted = true
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	result.Withdrawn = len(withdrawn)
	logger().WithFields(log.Fields{
		"post_id":      postID,
		"team_id":      result.TeamID,
		"team_deleted": result.TeamDeleted,
		"withdrawn":    result.Withdrawn,
	}).Info("post deleted")
	d.publish(withdrawnEvents(withdrawn))

	return result, nil
}
