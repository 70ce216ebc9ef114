package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	"github.com/ManuelReschke/PixelPress/internal/pkg/publishing"
)

// MainController renders the public listing pages
type MainController struct {
	publishing *publishing.Service
}

func NewMainController(s *Services) *MainController {
	return &MainController{publishing: s.Publishing}
}

// HandleIndex shows the feed, optionally filtered by ?category=, with the
// featured posts of the week on the first page.
func (mc *MainController) HandleIndex(c *fiber.Ctx) error {
	ctx := c.UserContext()
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	page, err := mc.publishing.Feed(ctx, category, queryPage(c))
	if err != nil {
		return err
	}
	values := fiber.Map{
		"Feed":     page,
		"Category": category,
	}
	if page.Number == 1 && category == "" {
		featured, err := mc.publishing.Featured(ctx)
		if err != nil {
			return err
		}
		values["Featured"] = featured
	}
	return render(c, "index", "Home", values)
}

func (mc *MainController) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	page, err := mc.publishing.Search(c.UserContext(), query, queryPage(c))
	if err != nil {
		return err
	}
	return render(c, "search", "Search", fiber.Map{
		"Query":   query,
		"Results": page,
	})
}

// HandleDocsAPI points to the swagger ui of the current api version.
func (mc *MainController) HandleDocsAPI(c *fiber.Ctx) error {
	return c.Redirect(constants.APIDocsRoute, fiber.StatusFound)
}
