package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/common/config"
)

const teamContextKey = "team_id"

// TeamHeader carries the caller's team in header mode
const TeamHeader = "X-Team-ID"

// TeamResolver extracts the owning team from a request
type TeamResolver interface {
	Resolve(c echo.Context) (string, error)
}

// HeaderResolver reads the team from the X-Team-ID header
type HeaderResolver struct{}

func (HeaderResolver) Resolve(c echo.Context) (string, error) {
	team := c.Request().Header.Get(TeamHeader)
	if team == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing "+TeamHeader+" header")
	}
	return team, nil
}

// StaticResolver serves every request under one configured team
type StaticResolver struct {
	TeamID string
}

func (r StaticResolver) Resolve(c echo.Context) (string, error) {
	return r.TeamID, nil
}

// FromConfig picks the resolver the identity config names
func FromConfig(cfg config.IdentityConfig) TeamResolver {
	if cfg.Mode == "static" {
		return StaticResolver{TeamID: cfg.StaticTeamID}
	}
	return HeaderResolver{}
}

// TeamContext resolves the team once per request and stores it on the
// echo context for handlers to read via GetTeamID.
func TeamContext(resolver TeamResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			team, err := resolver.Resolve(c)
			if err != nil {
				return err
			}
			c.Set(teamContextKey, team)
			return next(c)
		}
	}
}

// GetTeamID returns the team stored by TeamContext, empty when absent
func GetTeamID(c echo.Context) string {
	team, _ := c.Get(teamContextKey).(string)
	return team
}
