package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/matching"
)

type RequestsController struct {
	requests *matching.MatchRequests
}

func NewRequestsController(svc *matching.Service) *RequestsController {
	return &RequestsController{requests: svc.Requests}
}

func (c *RequestsController) CreateRequest(ctx echo.Context) error {
	var req struct {
		PostID     int    `json:"post_id"`
		FromUserID int    `json:"from_user_id"`
		Message    string `json:"message"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	userID, err := actingUserID(ctx, req.FromUserID)
	if err != nil {
		return err
	}

	request, err := c.requests.Create(req.PostID, userID, req.Message)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusCreated, request)
}

func (c *RequestsController) AcceptRequest(ctx echo.Context) error {
	requestID, userID, err := requestAndActor(ctx)
	if err != nil {
		return err
	}

	result, err := c.requests.Accept(requestID, userID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *RequestsController) RejectRequest(ctx echo.Context) error {
	var req struct {
		RejectionReason string `json:"rejection_reason"`
	}

	requestID, userID, err := requestAndActor(ctx)
	if err != nil {
		return err
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	request, err := c.requests.Reject(requestID, userID, req.RejectionReason)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, request)
}

func (c *RequestsController) WithdrawRequest(ctx echo.Context) error {
	requestID, userID, err := requestAndActor(ctx)
	if err != nil {
		return err
	}

	request, err := c.requests.Withdraw(requestID, userID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, request)
}

func (c *RequestsController) ListSent(ctx echo.Context) error {
	userID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	requests, err := c.requests.ListSent(userID, statusFilter(ctx))
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, requests)
}

func (c *RequestsController) ListReceived(ctx echo.Context) error {
	userID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	requests, err := c.requests.ListReceived(userID, statusFilter(ctx))
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, requests)
}

// requestAndActor reads the request id and the acting user. The user scoped routes
// (/users/:id/requests/:request_id) name both in the path; otherwise the user comes from
// the ActingUser middleware.
func requestAndActor(ctx echo.Context) (int, int, error) {
	if ctx.Param("request_id") != "" {
		requestID, err := intParam(ctx, "request_id")
		if err != nil {
			return 0, 0, err
		}

		userID, err := intParam(ctx, "id")
		return requestID, userID, err
	}

	requestID, err := intParam(ctx, "id")
	if err != nil {
		return 0, 0, err
	}

	userID, err := actingUserID(ctx, 0)
	return requestID, userID, err
}
