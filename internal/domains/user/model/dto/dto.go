package dto

import (
	"storeloft/internal/domains/user/model"
	"storeloft/shared"
	"storeloft/shared/constant"
	gDto "storeloft/shared/dto"
	gModel "storeloft/shared/model"
	"storeloft/shared/timezone"
)

type RegisterUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,max=20"`
	Role     string  `json:"role"                validate:"omitempty,oneof=renter lender"`
}

// ToModel builds the profile row for a verified identity. The uid and
// email come from the ID token, never from the request body.
func (r *RegisterUserRequest) ToModel(uid, email string) model.User {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleRenter
	}

	return model.User{
		ID:       uid,
		Email:    email,
		FullName: r.FullName,
		Phone:    r.Phone,
		Role:     role,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  uid,
			ModifiedBy: uid,
		},
	}
}

type UpdateUserRequest struct {
	FullName         *string `db:"full_name"          json:"full_name,omitempty"          validate:"omitempty,max=100"`
	Phone            *string `db:"phone"              json:"phone,omitempty"              validate:"omitempty,max=20"`
	Role             *string `db:"role"               json:"role,omitempty"               validate:"omitempty,oneof=renter lender"`
	StripeCustomerID *string `db:"stripe_customer_id" json:"stripe_customer_id,omitempty" validate:"omitempty,max=100"`
	StripeAccountID  *string `db:"stripe_account_id"  json:"stripe_account_id,omitempty"  validate:"omitempty,max=100"`
	Active           *bool   `db:"active"             json:"active,omitempty"`
}

type UserResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	FullName         *string `json:"full_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Role             string  `json:"role"`
	StripeCustomerID *string `json:"stripe_customer_id,omitempty"`
	StripeAccountID  *string `json:"stripe_account_id,omitempty"`
	Active           bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Role = model.Role
	r.StripeCustomerID = model.StripeCustomerID
	r.StripeAccountID = model.StripeAccountID
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
