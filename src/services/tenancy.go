package services

import (
	"rbs/src/models"
	"rbs/src/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRole int

const (
	ROLE_NONE TenantRole = iota
	ROLE_MEMBER
	ROLE_ADMIN
	ROLE_OWNER
)

// TenancyService answers who may act for which customer. Read-side only.
type TenancyService struct {
	customers repositories.CustomerRepository
}

func NewTenancyService(customers repositories.CustomerRepository) *TenancyService {
	return &TenancyService{customers: customers}
}

// roleLookup resolves the first customer a user holds the given role for.
// The declared order of lookups is the precedence contract: owner beats
// admin beats member.
type roleLookup struct {
	role   TenantRole
	lookup func(tx *gorm.DB, userID uint) (*uuid.UUID, error)
}

func (s *TenancyService) lookups() []roleLookup {
	return []roleLookup{
		{ROLE_OWNER, func(tx *gorm.DB, userID uint) (*uuid.UUID, error) {
			customer, err := s.customers.FirstOwnedBy(tx, userID)
			if err != nil || customer == nil {
				return nil, err
			}
			return &customer.ID, nil
		}},
		{ROLE_ADMIN, func(tx *gorm.DB, userID uint) (*uuid.UUID, error) {
			admin, err := s.customers.FirstAdminFor(tx, userID)
			if err != nil || admin == nil {
				return nil, err
			}
			return &admin.CustomerID, nil
		}},
		{ROLE_MEMBER, func(tx *gorm.DB, userID uint) (*uuid.UUID, error) {
			member, err := s.customers.FirstMemberFor(tx, userID)
			if err != nil || member == nil {
				return nil, err
			}
			return &member.CustomerID, nil
		}},
	}
}

// ResolveRole returns the strongest role the user holds on the customer.
func (s *TenancyService) ResolveRole(tx *gorm.DB, userID uint, customerID uuid.UUID) (TenantRole, error) {
	owned, err := s.customers.GetOwned(tx, userID, customerID)
	if err != nil {
		return ROLE_NONE, err
	}
	if owned != nil {
		return ROLE_OWNER, nil
	}
	admin, err := s.customers.GetAdmin(tx, userID, customerID)
	if err != nil {
		return ROLE_NONE, err
	}
	if admin != nil {
		return ROLE_ADMIN, nil
	}
	member, err := s.customers.GetMember(tx, userID, customerID)
	if err != nil {
		return ROLE_NONE, err
	}
	if member != nil {
		return ROLE_MEMBER, nil
	}
	return ROLE_NONE, nil
}

func (s *TenancyService) IsAdminOrOwner(tx *gorm.DB, userID uint, customerID uuid.UUID) (bool, error) {
	role, err := s.ResolveRole(tx, userID, customerID)
	if err != nil {
		return false, err
	}
	return role >= ROLE_ADMIN, nil
}

func (s *TenancyService) IsMemberOrAdminOrOwner(tx *gorm.DB, userID uint, customerID uuid.UUID) (bool, error) {
	role, err := s.ResolveRole(tx, userID, customerID)
	if err != nil {
		return false, err
	}
	return role >= ROLE_MEMBER, nil
}

// GetCustomerForUser resolves a user's default tenant, first match wins in
// precedence order. Returns nil when the user has no tenant association.
func (s *TenancyService) GetCustomerForUser(tx *gorm.DB, userID uint) (*models.Customer, error) {
	for _, l := range s.lookups() {
		id, err := l.lookup(tx, userID)
		if err != nil {
			return nil, err
		}
		if id == nil {
			continue
		}
		return s.customers.GetByID(tx, *id)
	}
	return nil, nil
}
