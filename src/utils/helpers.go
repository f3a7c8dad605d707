package utils

import (
	"log"
	"rbs/src/config"
	"rbs/src/db"
	"rbs/src/models"
	"rbs/src/repositories"
	"rbs/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ParseRequestTime(value string) (time.Time, error) {
	return time.Parse(config.TIME_PARSE_FORMAT, value)
}

// CreateNewCustomer creates a tenant with its creator attached as owner,
// admin and member, so the creator immediately passes every role gate.
func CreateNewCustomer(body *types.CreateCustomerRequestBody, ownerID uint) (*uuid.UUID, error) {
	customers := repositories.NewCustomerRepository()
	var customerId uuid.UUID
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		customer := models.Customer{
			Name:    body.Name,
			OwnerID: ownerID,
		}
		if err := customers.Create(tx, &customer); err != nil {
			return err
		}
		if err := customers.AddAdmin(tx, ownerID, customer.ID); err != nil {
			return err
		}
		if err := customers.AddMember(tx, ownerID, customer.ID); err != nil {
			return err
		}
		customerId = customer.ID
		return nil
	})
	if err != nil {
		log.Printf("Error while creating Customer: %s\n", err.Error())
		return nil, err
	}
	return &customerId, nil
}
