// Package client is a Go client for the teamup HTTP API.
package client

import (
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/teamup-uiuc/teamup/pkg/matching"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
)

type Client struct {
	baseURL string
	r       *resty.Client
}

// New returns a client for the server at baseURL, e.g. http://localhost:8000. Calls
// that act for a user need a client from As.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		r:       resty.New().SetBaseURL(baseURL).SetHeader("Accept", "application/json"),
	}
}

// As returns a client that acts on behalf of userID.
func (c *Client) As(userID int) *Client {
	client := New(c.baseURL)
	client.r.SetHeader("X-User-ID", strconv.Itoa(userID))
	return client
}

type CreatePostRequest struct {
	CourseID   string   `json:"course_id"`
	SectionID  *string  `json:"section_id,omitempty"`
	TeamName   string   `json:"team_name"`
	TargetSize int      `json:"target_size"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Skills     []string `json:"skills,omitempty"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (c *Client) CreatePost(req CreatePostRequest) (*tmmodel.Post, error) {
	var post tmmodel.Post
	if err := c.call(c.r.R().SetBody(req).SetResult(&post).Post("/api/posts")); err != nil {
		return nil, err
	}

	return &post, nil
}

func (c *Client) GetPost(postID int) (*matching.PostDetail, error) {
	var detail matching.PostDetail
	if err := c.call(c.r.R().SetResult(&detail).Get(postPath(postID))); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (c *Client) UpdatePost(postID int, req UpdatePostRequest) (*tmmodel.Post, error) {
	var post tmmodel.Post
	if err := c.call(c.r.R().SetBody(req).SetResult(&post).Put(postPath(postID))); err != nil {
		return nil, err
	}

	return &post, nil
}

func (c *Client) DeletePost(postID int) (*matching.DeleteResult, error) {
	var result matching.DeleteResult
	if err := c.call(c.r.R().SetResult(&result).Delete(postPath(postID))); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) CreateRequest(postID int, message string) (*tmmodel.MatchRequest, error) {
	body := map[string]interface{}{"post_id": postID, "message": message}
	return c.requestCall(c.r.R().SetBody(body), resty.MethodPost, "/api/requests")
}

func (c *Client) AcceptRequest(requestID int) (*matching.AcceptResult, error) {
	var result matching.AcceptResult
	if err := c.call(c.r.R().SetResult(&result).Put(requestPath(requestID, "accept"))); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) RejectRequest(requestID int, reason string) (*tmmodel.MatchRequest, error) {
	body := map[string]string{"rejection_reason": reason}
	return c.requestCall(c.r.R().SetBody(body), resty.MethodPut, requestPath(requestID, "reject"))
}

func (c *Client) WithdrawRequest(requestID int) (*tmmodel.MatchRequest, error) {
	return c.requestCall(c.r.R(), resty.MethodPut, requestPath(requestID, "withdraw"))
}

func (c *Client) requestCall(req *resty.Request, method, path string) (*tmmodel.MatchRequest, error) {
	var request tmmodel.MatchRequest
	if err := c.call(req.SetResult(&request).Execute(method, path)); err != nil {
		return nil, err
	}

	return &request, nil
}

// ListSentRequests lists requests userID made. An empty status lists all of them.
func (c *Client) ListSentRequests(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	return c.listRequests(userPath(userID, "match-requests"), status)
}

func (c *Client) ListReceivedRequests(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	return c.listRequests(userPath(userID, "received-requests"), status)
}

func (c *Client) listRequests(path string, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error) {
	var requests []tmmodel.MatchRequest
	req := c.r.R().SetResult(&requests)
	if status != "" {
		req.SetQueryParam("status", string(status))
	}

	if err := c.call(req.Get(path)); err != nil {
		return nil, err
	}

	return requests, nil
}

func (c *Client) ListComments(postID int) ([]tmmodel.Comment, error) {
	var comments []tmmodel.Comment
	if err := c.call(c.r.R().SetResult(&comments).Get(commentsPath(postID))); err != nil {
		return nil, err
	}

	return comments, nil
}

func (c *Client) CreateComment(postID int, content string, parentID *int) (*tmmodel.Comment, error) {
	var comment tmmodel.Comment
	body := map[string]interface{}{"content": content, "parent_comment_id": parentID}
	if err := c.call(c.r.R().SetBody(body).SetResult(&comment).Post(commentsPath(postID))); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (c *Client) DeleteComment(postID, commentID int) (matching.DeleteType, error) {
	var result struct {
		DeleteType matching.DeleteType `json:"delete_type"`
	}

	path := commentsPath(postID) + "/" + strconv.Itoa(commentID)
	if err := c.call(c.r.R().SetResult(&result).Delete(path)); err != nil {
		return "", err
	}

	return result.DeleteType, nil
}

func (c *Client) GetTeam(teamID int) (*tmmodel.Team, error) {
	var team tmmodel.Team
	if err := c.call(c.r.R().SetResult(&team).Get("/api/teams/" + strconv.Itoa(teamID))); err != nil {
		return nil, err
	}

	return &team, nil
}

func (c *Client) RemoveMember(teamID, userID int) error {
	return c.call(c.r.R().Delete("/api/teams/" + strconv.Itoa(teamID) + "/members/" + strconv.Itoa(userID)))
}

func (c *Client) Health() error {
	return c.call(c.r.R().Get("/api/health"))
}

// call turns a transport failure or a non 2xx response into an error.
func (c *Client) call(resp *resty.Response, err error) error {
	if err != nil {
		return errors.Wrap(err, "teamup api")
	}

	if resp.IsError() {
		return toAPIError(resp)
	}

	return nil
}

func postPath(postID int) string {
	return "/api/posts/" + strconv.Itoa(postID)
}

func requestPath(requestID int, action string) string {
	return "/api/requests/" + strconv.Itoa(requestID) + "/" + action
}

func userPath(userID int, resource string) string {
	return "/api/users/" + strconv.Itoa(userID) + "/" + resource
}

func commentsPath(postID int) string {
	return postPath(postID) + "/comments"
}
