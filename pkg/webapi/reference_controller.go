package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

// ReferenceController serves the read-only catalog: terms, sections and skills.
type ReferenceController struct {
	refStor stor.ReferenceStor
}

func NewReferenceController(refStor stor.ReferenceStor) *ReferenceController {
	return &ReferenceController{refStor: refStor}
}

func (c *ReferenceController) ListTerms(ctx echo.Context) error {
	terms, err := c.refStor.ListTerms()
	if err != nil {
		return apiError(tmerr.Internal(err, "listing terms"))
	}

	return ctx.JSON(http.StatusOK, terms)
}

func (c *ReferenceController) ListSections(ctx echo.Context) error {
	courseID := ctx.Param("id")
	if _, err := c.refStor.GetCourseByID(courseID); err != nil {
		if stor.IsNotFound(err) {
			return apiError(tmerr.NotFound("course %s not found", courseID))
		}
		return apiError(tmerr.Internal(err, "loading course %s", courseID))
	}

	sections, err := c.refStor.ListSectionsForCourse(courseID)
	if err != nil {
		return apiError(tmerr.Internal(err, "listing sections for %s", courseID))
	}

	return ctx.JSON(http.StatusOK, sections)
}

func (c *ReferenceController) ListSkills(ctx echo.Context) error {
	skills, err := c.refStor.ListSkills()
	if err != nil {
		return apiError(tmerr.Internal(err, "listing skills"))
	}

	return ctx.JSON(http.StatusOK, skills)
}
