package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cargoexpress/cargoexpress/domain"
)

func (h *Handler) orderParams(c echo.Context) (domain.OrderKind, int64, bool) {
	var kind domain.OrderKind
	switch c.Param("kind") {
	case string(domain.KindShipping):
		kind = domain.KindShipping
	case string(domain.KindPurchase):
		kind = domain.KindPurchase
	default:
		return "", 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return kind, id, true
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
