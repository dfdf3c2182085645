package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/hub"
)

// Company is a hub-scoped customer account. Payment state lives here:
// substantive application routes stay gated until the company's
// subscription payment has completed.
type Company struct {
	ID               uuid.UUID
	HubID            hub.ID
	Name             string
	PaymentCompleted bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// PaymentState describes whether a company's subscription payment has
// completed.
type PaymentState bool

const (
	PaymentIncomplete PaymentState = false
	PaymentComplete   PaymentState = true
)
