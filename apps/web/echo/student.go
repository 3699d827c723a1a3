package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core/checklist"
	"github.com/flightcheck/backend/core/qr"
	"github.com/flightcheck/backend/core/user"
	"github.com/flightcheck/backend/core/video"
)

type studentPages struct {
	deps ServerDeps
}

func registerStudentPages(app *echo.Echo, session echo.MiddlewareFunc, deps ServerDeps) {
	pages := studentPages{deps: deps}

	g := app.Group("/dashboard", session, requireRoles(user.RoleStudent))
	g.GET("", pages.dashboard)
	g.GET("/qr.png", pages.qrImage)
}

// boardData loads a user's board with actor names attached and the
// playable-video map keyed by item id.
func boardData(ctx echo.Context, deps ServerDeps, userID string) ([]checklist.StepView, map[string]string, error) {
	reqCtx := ctx.Request().Context()

	board, err := deps.ChecklistSvc.Board(reqCtx, userID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading board")
	}
	names, err := deps.UserSvc.DisplayNames(reqCtx, checklist.ActorIDs(board))
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading actor names")
	}
	checklist.AttachActors(board, names)

	embeds := make(map[string]string)
	for _, step := range board {
		for _, cat := range step.Categories {
			for _, item := range cat.Items {
				if item.VideoURL.Valid {
					if u, ok := video.EmbedURL(item.VideoURL.String); ok {
						embeds[item.ID] = u
					}
				}
			}
		}
	}
	return board, embeds, nil
}

func (p *studentPages) dashboard(ctx echo.Context) error {
	prof, _ := getContextProfile(ctx)

	board, embeds, err := boardData(ctx, p.deps, prof.UserID)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "dashboard", echo.Map{
		"Title":     "My progress",
		"Profile":   prof,
		"Board":     board,
		"Embeds":    embeds,
		"QRPayload": qr.StudentURL(p.deps.Conf.BaseURL, prof.UserID),
	})
}

func (p *studentPages) qrImage(ctx echo.Context) error {
	prof, _ := getContextProfile(ctx)

	png, err := qr.PNG(qr.StudentURL(p.deps.Conf.BaseURL, prof.UserID), 256)
	if err != nil {
		return errors.Wrap(err, "rendering QR image")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}
