package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	app "github.com/mohammadpnp/mollie-import/internal/application/billing"
	httpecho "github.com/mohammadpnp/mollie-import/internal/interfaces/http/echo"
)

func NewHTTPServer(importer app.ImportFromCSV, lister app.ListSubscriptions) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("1M"))

	importHandler := httpecho.NewImportHandler(importer)
	subscriptionHandler := httpecho.NewSubscriptionHandler(lister)
	httpecho.RegisterRoutes(server, importHandler, subscriptionHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}
