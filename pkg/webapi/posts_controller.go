package webapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/matching"
)

type PostsController struct {
	posts    *matching.PostRegistry
	deletion *matching.DeletionOrchestrator
}

func NewPostsController(svc *matching.Service) *PostsController {
	return &PostsController{posts: svc.Posts, deletion: svc.Deletion}
}

func (c *PostsController) CreatePost(ctx echo.Context) error {
	var req struct {
		UserID     int      `json:"user_id"`
		CourseID   string   `json:"course_id"`
		SectionID  *string  `json:"section_id"`
		TeamName   string   `json:"team_name"`
		TargetSize int      `json:"target_size"`
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		Skills     []string `json:"skills"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	userID, err := actingUserID(ctx, req.UserID)
	if err != nil {
		return err
	}

	post, err := c.posts.CreatePost(matching.NewPost{
		UserID:     userID,
		CourseID:   req.CourseID,
		SectionID:  req.SectionID,
		TeamName:   req.TeamName,
		TargetSize: req.TargetSize,
		Title:      req.Title,
		Content:    req.Content,
		Skills:     req.Skills,
	})
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusCreated, post)
}

func (c *PostsController) GetPost(ctx echo.Context) error {
	postID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	post, err := c.posts.GetPost(postID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, post)
}

func (c *PostsController) UpdatePost(ctx echo.Context) error {
	var req struct {
		UserID  int     `json:"user_id"`
		Title   *string `json:"title"`
		Content *string `json:"content"`
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

	post, err := c.posts.UpdatePost(postID, userID, matching.PostPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, post)
}

func (c *PostsController) DeletePost(ctx echo.Context) error {
	postID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	userID, err := actingUserID(ctx, 0)
	if err != nil {
		return err
	}

	result, err := c.deletion.DeletePost(postID, userID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, result)
}

// ListUserPosts lists the posts a user wrote or commented on. ?limit= caps the count.
func (c *PostsController) ListUserPosts(ctx echo.Context) error {
	userID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	limit := 0
	if l := ctx.QueryParam("limit"); l != "" {
		if limit, err = strconv.Atoi(l); err != nil {
			return badRequest("invalid limit '%s'", l)
		}
	}

	posts, err := c.posts.PostsForUser(userID, limit)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, posts)
}
