package handlers

import (
	"strconv"

	"salonbook/models"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// parsePage reads page and perPage (or per) from the query string.
func parsePage(c *gin.Context) (models.PageRequest, error) {
	req := models.PageRequest{Page: 1, PerPage: models.DefaultPerPage}
	var issues []utils.Issue

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			issues = append(issues, utils.Issue{Path: []string{"page"}, Code: "too_small", Message: "page must be a positive integer"})
		} else {
			req.Page = n
		}
	}

	raw := c.Query("perPage")
	if raw == "" {
		raw = c.Query("per")
	}
	if raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n < 1:
			issues = append(issues, utils.Issue{Path: []string{"perPage"}, Code: "too_small", Message: "perPage must be a positive integer"})
		case n > models.MaxPerPage:
			issues = append(issues, utils.Issue{Path: []string{"perPage"}, Code: "too_big", Message: "perPage must be at most " + strconv.Itoa(models.MaxPerPage)})
		default:
			req.PerPage = n
		}
	}

	if len(issues) > 0 {
		return req, utils.NewValidationError("Invalid pagination", issues)
	}
	return req, nil
}

// pageKeyParams are the cache key parameters of a paginated list.
func pageKeyParams(c *gin.Context, org string) map[string]string {
	page, _ := parsePage(c)
	return map[string]string{
		"org":  org,
		"page": strconv.Itoa(page.Page),
		"per":  strconv.Itoa(page.PerPage),
	}
}
