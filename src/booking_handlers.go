package main

import (
	"log"
	"net/http"
	"rbs/src/db"
	"rbs/src/services"
	"rbs/src/types"
	"rbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// resolveCustomerID picks the tenant from the request body or query, or falls
// back to the caller's default tenant (owner > admin > member precedence).
func resolveCustomerID(ctx *gin.Context, svc *services.ReservationService, explicit *string) (*uuid.UUID, bool) {
	userId := ctx.GetUint("id")
	if explicit != nil && *explicit != "" {
		cid, err := uuid.Parse(*explicit)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
			return nil, false
		}
		return &cid, true
	}
	customer, err := svc.Tenancy().GetCustomerForUser(db.GetDb(), userId)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
		return nil, false
	}
	if customer == nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "no customer for user"})
		return nil, false
	}
	return &customer.ID, true
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			startTime, err := utils.ParseRequestTime(body.StartTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			endTime, err := utils.ParseRequestTime(body.EndTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			svc := services.NewReservationService(db.GetDb())
			customerId, ok := resolveCustomerID(ctx, svc, body.Customer)
			if !ok {
				return
			}
			booking, err := svc.CreateBooking(&services.BookingParams{
				UserID:     ctx.GetUint("id"),
				CustomerID: *customerId,
				ResourceID: body.ResourceID,
				StartTime:  startTime,
				EndTime:    endTime,
			})
			if err != nil {
				log.Printf("Could not create booking: %s\n", err.Error())
				status := statusForError(err)
				message := "Error while processing request"
				switch status {
				case http.StatusBadRequest:
					message = err.Error()
				case http.StatusForbidden:
					message = "Not authorized"
				case http.StatusNotFound:
					message = "Resource not found"
				case http.StatusConflict:
					message = "Interval is not available"
				}
				ctx.JSON(status, gin.H{"error": message})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			var query struct {
				Customer *string `form:"customer" binding:"omitempty,uuid"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			svc := services.NewReservationService(db.GetDb())
			customerId, ok := resolveCustomerID(ctx, svc, query.Customer)
			if !ok {
				return
			}
			bookings, err := svc.GetUserBookings(ctx.GetUint("id"), *customerId)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			svc := services.NewReservationService(db.GetDb())
			booking, err := svc.GetBooking(params.ID, ctx.GetUint("id"))
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": "Booking not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			svc := services.NewReservationService(db.GetDb())
			ok, err := svc.CancelBooking(params.ID, ctx.GetUint("id"))
			if err != nil {
				log.Printf("Could not cancel booking [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": "Error while processing request"})
				return
			}
			if !ok {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
