package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/mollie-import/internal/application/billing"
)

type SubscriptionHandler struct {
	useCase app.ListSubscriptions
}

func NewSubscriptionHandler(useCase app.ListSubscriptions) *SubscriptionHandler {
	return &SubscriptionHandler{useCase: useCase}
}

func (h *SubscriptionHandler) ListSubscriptions(c echo.Context) error {
	out, err := h.useCase.Execute(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, apiResponse{Error: &errorBody{
			Code:    "provider_error",
			Message: "failed to fetch subscriptions from the provider",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
