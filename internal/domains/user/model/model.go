package model

import "storeloft/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID               = "id"
	FieldEmail            = "email"
	FieldFullName         = "full_name"
	FieldPhone            = "phone"
	FieldRole             = "role"
	FieldStripeCustomerID = "stripe_customer_id"
	FieldStripeAccountID  = "stripe_account_id"
	FieldActive           = "active"
)

// User is keyed by the Firebase uid. The role tag decides which Stripe
// reference is meaningful: renters carry a customer id they are
// invoiced against, lenders a connected account id payouts go to.
type User struct {
	ID               string  `db:"id"`
	Email            string  `db:"email"`
	FullName         *string `db:"full_name"`
	Phone            *string `db:"phone"`
	Role             string  `db:"role"`
	StripeCustomerID *string `db:"stripe_customer_id"`
	StripeAccountID  *string `db:"stripe_account_id"`
	Active           bool    `db:"active"`
	model.Metadata
}
