package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/matching"
)

type CommentsController struct {
	comments *matching.CommentTree
}

func NewCommentsController(svc *matching.Service) *CommentsController {
	return &CommentsController{comments: svc.Comments}
}

func (c *CommentsController) ListComments(ctx echo.Context) error {
	postID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	comments, err := c.comments.ListForPost(postID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, comments)
}

func (c *CommentsController) CreateComment(ctx echo.Context) error {
	var req struct {
		UserID          int    `json:"user_id"`
		Content         string `json:"content"`
		ParentCommentID *int   `json:"parent_comment_id"`
	}

	postID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	userID, err := actingUserID(ctx, req.UserID)
	if err != nil {
		return err
	}

	comment, err := c.comments.Create(postID, userID, req.Content, req.ParentCommentID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusCreated, comment)
}

func (c *CommentsController) UpdateComment(ctx echo.Context) error {
	var req struct {
		UserID  int    `json:"user_id"`
		Content string `json:"content"`
	}

	postID, commentID, err := postAndComment(ctx)
	if err != nil {
		return err
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	userID, err := actingUserID(ctx, req.UserID)
	if err != nil {
		return err
	}

	comment, err := c.comments.Update(postID, commentID, userID, req.Content)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, comment)
}

func (c *CommentsController) DeleteComment(ctx echo.Context) error {
	postID, commentID, err := postAndComment(ctx)
	if err != nil {
		return err
	}

	userID, err := actingUserID(ctx, 0)
	if err != nil {
		return err
	}

	deleteType, err := c.comments.Delete(postID, commentID, userID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"comment_id":  commentID,
		"delete_type": deleteType,
	})
}

func postAndComment(ctx echo.Context) (int, int, error) {
	postID, err := intParam(ctx, "id")
	if err != nil {
		return 0, 0, err
	}

	commentID, err := intParam(ctx, "comment_id")
	return postID, commentID, err
}
