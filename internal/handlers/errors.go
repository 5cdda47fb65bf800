package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medbooking-server/internal/booking"
	"medbooking-server/internal/utils"
)

// respondBookingError translates a booking error into a stable status code
// plus machine-readable code for the client.
func respondBookingError(c *gin.Context, err error) {
	kind := booking.ErrKind(err)
	switch kind {
	case booking.KindValidation:
		utils.ErrorWithCode(c, http.StatusBadRequest, string(kind), err.Error())
	case booking.KindNotFound:
		utils.ErrorWithCode(c, http.StatusNotFound, string(kind), err.Error())
	case booking.KindForbidden:
		utils.ErrorWithCode(c, http.StatusForbidden, string(kind), err.Error())
	case booking.KindConflict, booking.KindAlreadyRated:
		utils.ErrorWithCode(c, http.StatusConflict, string(kind), err.Error())
	case booking.KindInvalidState:
		utils.ErrorWithCode(c, http.StatusUnprocessableEntity, string(kind), err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
