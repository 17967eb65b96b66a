package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/skydata/skydata-api/internal/core/domain"
)

// DatosHandler returns the whole station collection.
func DatosHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fc, err := deps.Datos.Execute(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fc)
	}
}

// DatoByIDHandler returns the station whose properties.id equals :id.
// A missing station is answered here; every other failure goes to the
// error handler.
func DatoByIDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		feature, err := deps.Datos.ExecuteByID(c.UserContext(), id)
		if err != nil {
			var de *domain.Error
			if errors.Is(err, domain.ErrNotFound) && errors.As(err, &de) {
				return errNotFound(c, de.Message)
			}
			return err
		}
		return c.JSON(feature)
	}
}
