package http

import "github.com/labstack/echo/v4"

// Handler is anything that can mount its routes on the Echo instance. The
// server only needs registration; dispatch stays with Echo.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
