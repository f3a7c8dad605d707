package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/services"
	"rbs/src/types"
	"rbs/src/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const freeSlotsCacheTTL = 30 * time.Second

func resourceHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/resources", func(ctx *gin.Context) {
			var body types.CreateResourceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var customerId *uuid.UUID
			if body.Customer != nil {
				cid, err := uuid.Parse(*body.Customer)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
					return
				}
				customerId = &cid
			}
			svc := services.NewReservationService(db.GetDb())
			resource, err := svc.CreateResource(ctx.GetUint("id"), customerId, &body)
			if err != nil {
				log.Printf("Error creating resource: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": resource.ID, "data": resource})
		}).
		GET("/resources", func(ctx *gin.Context) {
			var query struct {
				types.ListRequestQuery
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
			resources, err := svc.GetResourcesForCustomer(ctx.GetUint("id"), customerId, query.Skip, query.Limit)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": resources, "count": len(resources)})
		}).
		GET("/resources/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			svc := services.NewReservationService(db.GetDb())
			resource, err := svc.GetResource(params.ID, ctx.GetUint("id"))
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": "Resource not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": resource})
		}).
		PUT("/resources/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateResourceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			svc := services.NewReservationService(db.GetDb())
			resource, err := svc.UpdateResource(params.ID, ctx.GetUint("id"), &body)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": resource})
		}).
		DELETE("/resources/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			svc := services.NewReservationService(db.GetDb())
			ok, err := svc.DeleteResource(params.ID, ctx.GetUint("id"))
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": "Error while processing request"})
				return
			}
			if !ok {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/resources/:id/free-slots", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.FreeSlotsRequestQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			start, err := utils.ParseRequestTime(query.Start)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			end, err := utils.ParseRequestTime(query.End)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			// Advisory result, safe to cache briefly; CreateBooking
			// re-validates against live rows.
			cacheKey := fmt.Sprintf("freeslots:%d:%d:%d:%d", params.ID, start.Unix(), end.Unix(), query.SlotSeconds)
			rd := lib.GetRedisClient()
			if rd != nil {
				if cached, err := rd.Get(context.Background(), cacheKey).Result(); err == nil {
					var slots []services.Interval
					if err := json.Unmarshal([]byte(cached), &slots); err == nil {
						ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
						return
					}
				}
			}

			svc := services.NewReservationService(db.GetDb())
			slots, err := svc.GetFreeSlots(params.ID, ctx.GetUint("id"), services.SlotParams{
				WindowStart:  start,
				WindowEnd:    end,
				SlotDuration: time.Duration(query.SlotSeconds) * time.Second,
				ClampPast:    true,
			})
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": "Error while processing request"})
				return
			}
			if rd != nil {
				if payload, err := json.Marshal(slots); err == nil {
					if err := rd.SetEx(context.Background(), cacheKey, string(payload), freeSlotsCacheTTL).Err(); err != nil {
						log.Printf("Error caching value [%s]: %s\n", cacheKey, err.Error())
					}
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		})
	return g
}
