package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, subscriptionHandler *SubscriptionHandler) {
	server.POST("/api/v1/imports", importHandler.RunImport)
	server.GET("/api/v1/subscriptions", subscriptionHandler.ListSubscriptions)
}
