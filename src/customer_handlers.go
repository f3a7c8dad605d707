package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/repositories"
	"rbs/src/services"
	"rbs/src/types"
	"rbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func customerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/customers", func(ctx *gin.Context) {
			var body types.CreateCustomerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			id, err := utils.CreateNewCustomer(&body, userId)
			if err != nil {
				log.Printf("Error creating customer: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rd := lib.GetRedisClient()
			if rd != nil {
				rd.Del(context.Background(), fmt.Sprintf("%d:active:customer", userId))
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		GET("/customers/active", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			rd := lib.GetRedisClient()
			cacheKey := fmt.Sprintf("%d:active:customer", userId)
			if rd != nil {
				if val, err := rd.Get(context.Background(), cacheKey).Result(); err == nil {
					var cached map[string]any
					if err := json.Unmarshal([]byte(val), &cached); err == nil {
						ctx.JSON(http.StatusOK, gin.H{"active": cached})
						return
					}
				}
			}
			svc := services.NewReservationService(db.GetDb())
			customer, err := svc.Tenancy().GetCustomerForUser(db.GetDb(), userId)
			if err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			if customer == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "No customer for user"})
				return
			}
			if rd != nil {
				if payload, err := json.Marshal(customer); err == nil {
					if err := rd.Set(context.Background(), cacheKey, string(payload), 0).Err(); err != nil {
						log.Printf("Error update cache: %s\n", err.Error())
					}
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"active": customer})
		}).
		POST("/customers/:id/admins", func(ctx *gin.Context) {
			customerRoleHandler(ctx, "admin")
		}).
		POST("/customers/:id/members", func(ctx *gin.Context) {
			customerRoleHandler(ctx, "member")
		})
	return g
}

// customerRoleHandler attaches a user to a tenant's role set. Only an owner
// or admin of the tenant may grant roles.
func customerRoleHandler(ctx *gin.Context, role string) {
	var params struct {
		ID string `uri:"id" binding:"required,uuid"`
	}
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}
	customerId, err := uuid.Parse(params.ID)
	if err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}
	var body types.CustomerRoleRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gdb := db.GetDb()
	svc := services.NewReservationService(gdb)
	allowed, err := svc.Tenancy().IsAdminOrOwner(gdb, ctx.GetUint("id"), customerId)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
		return
	}
	if !allowed {
		ctx.Status(http.StatusForbidden)
		return
	}

	customers := repositories.NewCustomerRepository()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if role == "admin" {
			return customers.AddAdmin(tx, body.UserID, customerId)
		}
		return customers.AddMember(tx, body.UserID, customerId)
	})
	if err != nil {
		log.Printf("Could not grant %s on customer [%s]: %s\n", role, customerId, err.Error())
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Error while processing request"})
		return
	}
	ctx.Status(http.StatusCreated)
}
