package dto

import (
	"mime/multipart"

	"storeloft/internal/domains/location/model"
	"storeloft/shared"
	gDto "storeloft/shared/dto"
	gModel "storeloft/shared/model"
	"storeloft/shared/timezone"

	"github.com/google/uuid"
)

type CreateLocationRequest struct {
	Name        string                `json:"name"          validate:"required,max=100"`
	Address     string                `json:"address"       validate:"required,max=255"`
	SizeSqm     float64               `json:"size_sqm"      validate:"omitempty,gt=0"`
	PricePerDay int64                 `json:"price_per_day" validate:"required,gt=0"`
	Image       *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
	Active      *bool                 `json:"active"        validate:"omitempty"`
}

func (c *CreateLocationRequest) ToModel(user string, imageURL string) model.Location {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Location{
		ID:          uuid.NewString(),
		OwnerID:     user,
		Name:        c.Name,
		Address:     c.Address,
		SizeSqm:     c.SizeSqm,
		PricePerDay: c.PricePerDay,
		Image:       imageURL,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateLocationRequest struct {
	Name        string                `db:"name"          json:"name"          validate:"omitempty,max=100"`
	Address     string                `db:"address"       json:"address"       validate:"omitempty,max=255"`
	SizeSqm     *float64              `db:"size_sqm"      json:"size_sqm"      validate:"omitempty,gt=0"`
	PricePerDay *int64                `db:"price_per_day" json:"price_per_day" validate:"omitempty,gt=0"`
	Image       *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
	Active      *bool                 `db:"active"        json:"active"        validate:"omitempty"`
}

type LocationResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	SizeSqm     float64 `json:"size_sqm"`
	PricePerDay int64   `json:"price_per_day"`
	Image       string  `json:"image"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *LocationResponse) FromModel(model model.Location) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Name = model.Name
	r.Address = model.Address
	r.SizeSqm = model.SizeSqm
	r.PricePerDay = model.PricePerDay
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetLocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetLocationsResponse) FromModels(models []model.Location, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Locations = make([]LocationResponse, len(models))
	for i, mod := range models {
		r.Locations[i].FromModel(mod)
	}
}
