package matching

import (
	"github.com/apex/log"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

type DeleteType string

const (
	DeleteSoft DeleteType = "soft"
	DeleteHard DeleteType = "hard"
)

// CommentTree manages the threaded discussion on each post. A comment with replies is
// only ever soft deleted so the replies keep a valid parent.
type CommentTree struct {
	*core
}

func (t *CommentTree) Create(postID, userID int, content string, parentID *int) (*tmmodel.Comment, error) {
	content, err := requireText("comment", content, MaxCommentLen)
	if err != nil {
		return nil, err
	}

	var comment *tmmodel.Comment
	err = t.withPostTx(postID, func(stors *stor.Stors) error {
		if _, err := stors.PostStor.GetPostByID(postID); err != nil {
			return lookupErr(err, "post", postID)
		}

		user, err := stors.UserStor.GetUserByID(userID)
		if err != nil {
			return lookupErr(err, "user", userID)
		}

		if parentID != nil {
			parent, err := stors.CommentStor.GetCommentForPost(postID, *parentID)
			switch {
			case stor.IsNotFound(err):
				return tmerr.NotFound("parent comment %d not found on post %d", *parentID, postID)
			case err != nil:
				return tmerr.Internal(err, "loading parent comment %d", *parentID)
			case parent.IsDeleted():
				return tmerr.InvalidState("cannot reply to deleted comment %d", *parentID)
			}
		}

		comment, err = stors.CommentStor.CreateComment(&tmmodel.Comment{
			PostID:          postID,
			UserID:          userID,
			ParentCommentID: parentID,
			Content:         content,
		})
		if err != nil {
			return tmerr.Internal(err, "creating comment")
		}

		comment.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger().WithFields(log.Fields{"post_id": postID, "comment_id": comment.ID}).Debug("comment created")
	return comment, nil
}

// loadOwnComment loads a comment of the post and checks userID wrote it.
func loadOwnComment(stors *stor.Stors, postID, commentID, userID int) (*tmmodel.Comment, error) {
	comment, err := stors.CommentStor.GetCommentForPost(postID, commentID)
	if err != nil {
		return nil, lookupErr(err, "comment", commentID)
	}

	if comment.UserID != userID {
		return nil, tmerr.Unauthorized("only the author can change comment %d", commentID)
	}

	return comment, nil
}

func (t *CommentTree) Update(postID, commentID, userID int, content string) (*tmmodel.Comment, error) {
	content, err := requireText("comment", content, MaxCommentLen)
	if err != nil {
		return nil, err
	}

	var comment *tmmodel.Comment
	err = t.withPostTx(postID, func(stors *stor.Stors) error {
		comment, err = loadOwnComment(stors, postID, commentID, userID)
		if err != nil {
			return err
		}

		if comment.IsDeleted() {
			return tmerr.InvalidState("cannot edit deleted comment %d", commentID)
		}

		if err := stors.CommentStor.UpdateCommentContent(commentID, content); err != nil {
			return tmerr.Internal(err, "updating comment %d", commentID)
		}

		comment.Content = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes a comment. Comments with replies are soft deleted; leaf comments are
// removed outright.
func (t *CommentTree) Delete(postID, commentID, userID int) (DeleteType, error) {
	var deleteType DeleteType
	err := t.withPostTx(postID, func(stors *stor.Stors) error {
		comment, err := loadOwnComment(stors, postID, commentID, userID)
		if err != nil {
			return err
		}

		if comment.IsDeleted() {
			return tmerr.InvalidState("comment %d already deleted", commentID)
		}

		children, err := stors.CommentStor.CountChildren(commentID)
		if err != nil {
			return tmerr.Internal(err, "counting replies to comment %d", commentID)
		}

		if children > 0 {
			deleteType = DeleteSoft
			return tmerr.Internal(stors.CommentStor.SoftDeleteComment(commentID), "deleting comment %d", commentID)
		}

		deleteType = DeleteHard
		return tmerr.Internal(stors.CommentStor.HardDeleteComment(commentID), "deleting comment %d", commentID)
	})
	if err != nil {
		return "", err
	}

	logger().WithFields(log.Fields{"post_id": postID, "comment_id": commentID, "delete_type": deleteType}).Debug("comment deleted")
	return deleteType, nil
}

// ListForPost returns the visible comments of a post ordered by creation.
func (t *CommentTree) ListForPost(postID int) ([]tmmodel.Comment, error) {
	var comments []tmmodel.Comment
	err := t.inTx(func(stors *stor.Stors) error {
		if _, err := stors.PostStor.GetPostByID(postID); err != nil {
			return lookupErr(err, "post", postID)
		}

		var err error
		comments, err = stors.CommentStor.ListVisibleCommentsForPost(postID)
		return tmerr.Internal(err, "listing comments for post %d", postID)
	})

	return comments, err
}
