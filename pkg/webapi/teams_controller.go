package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/matching"
)

type TeamsController struct {
	teams *matching.TeamRegistry
}

func NewTeamsController(svc *matching.Service) *TeamsController {
	return &TeamsController{teams: svc.Teams}
}

func (c *TeamsController) GetTeam(ctx echo.Context) error {
	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	team, err := c.teams.GetTeam(teamID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamsController) RemoveMember(ctx echo.Context) error {
	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	userID, err := intParam(ctx, "user_id")
	if err != nil {
		return err
	}

	actingID, err := actingUserID(ctx, 0)
	if err != nil {
		return err
	}

	if err := c.teams.RemoveMember(teamID, userID, actingID); err != nil {
		return apiError(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *TeamsController) ListUserTeams(ctx echo.Context) error {
	userID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	teams, err := c.teams.TeamsForUser(userID)
	if err != nil {
		return apiError(err)
	}

	return ctx.JSON(http.StatusOK, teams)
}
