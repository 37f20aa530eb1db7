package validation

import (
	"strings"

	"eventdesk/internal/models"
)

// ContactInput is the POST /contact payload.
type ContactInput struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Email     string `json:"email" validate:"required,email,max=320"`
	Phone     string `json:"phone" validate:"omitempty,max=40"`
	Company   string `json:"company" validate:"omitempty,max=200"`
	Subject   string `json:"subject" validate:"omitempty,max=200"`
	Message   string `json:"message" validate:"required,min=10,max=2000"`
	EventDate string `json:"eventDate" validate:"omitempty,datetime=2006-01-02"`
}

// Normalize trims every field so length bounds apply to the visible text.
func (in *ContactInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	in.EventDate = strings.TrimSpace(in.EventDate)
}

// ToModel converts the payload to a store row. Empty optionals become NULLs.
func (in *ContactInput) ToModel(userID *string) *models.ContactRequest {
	return &models.ContactRequest{
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     optional(in.Phone),
		Company:   optional(in.Company),
		Subject:   optional(in.Subject),
		Message:   in.Message,
		EventDate: optional(in.EventDate),
	}
}

// QuoteInput is the POST /quote payload.
type QuoteInput struct {
	Name          string   `json:"name" validate:"required,min=2,max=120"`
	Email         string   `json:"email" validate:"required,email,max=320"`
	Phone         string   `json:"phone" validate:"omitempty,max=40"`
	EventType     string   `json:"eventType" validate:"required,min=2,max=120"`
	EventDate     string   `json:"eventDate" validate:"omitempty,datetime=2006-01-02"`
	EventLocation string   `json:"eventLocation" validate:"omitempty,max=300"`
	GuestCount    *int64   `json:"guestCount" validate:"omitempty,gte=1,lte=100000"`
	Budget        *float64 `json:"budget" validate:"omitempty,gte=0,lte=100000000"`
	ServiceID     string   `json:"serviceId" validate:"omitempty,uuid"`
	Message       string   `json:"message" validate:"omitempty,max=2000"`
}

func (in *QuoteInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.EventType = strings.TrimSpace(in.EventType)
	in.EventDate = strings.TrimSpace(in.EventDate)
	in.EventLocation = strings.TrimSpace(in.EventLocation)
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	in.Message = strings.TrimSpace(in.Message)
}

func (in *QuoteInput) ToModel(userID *string) *models.QuoteRequest {
	return &models.QuoteRequest{
		UserID:        userID,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         optional(in.Phone),
		EventType:     in.EventType,
		EventDate:     optional(in.EventDate),
		EventLocation: optional(in.EventLocation),
		GuestCount:    in.GuestCount,
		Budget:        in.Budget,
		ServiceID:     optional(in.ServiceID),
		Message:       optional(in.Message),
	}
}

// RegisterInput is the POST /auth/register payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,strongpwd"`
}

func (in *RegisterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// LoginInput is the POST /auth/login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// StatusUpdateInput is the admin PATCH payload for a request.
type StatusUpdateInput struct {
	Status string `json:"status" validate:"required,oneof=new in_review approved scheduled done rejected"`
}

// SettingsInput is the admin PUT /settings payload.
type SettingsInput struct {
	BrandName        string `json:"brandName" validate:"required,min=1,max=200"`
	ContactPhone     string `json:"contactPhone" validate:"omitempty,max=40"`
	ContactEmail     string `json:"contactEmail" validate:"omitempty,email,max=320"`
	ContactInstagram string `json:"contactInstagram" validate:"omitempty,max=200"`
	ContactLinkedin  string `json:"contactLinkedin" validate:"omitempty,max=200"`
}

func (in *SettingsInput) Normalize() {
	in.BrandName = strings.TrimSpace(in.BrandName)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	in.ContactInstagram = strings.TrimSpace(in.ContactInstagram)
	in.ContactLinkedin = strings.TrimSpace(in.ContactLinkedin)
}

func (in *SettingsInput) ToModel() *models.SiteSettings {
	return &models.SiteSettings{
		BrandName:        in.BrandName,
		ContactPhone:     in.ContactPhone,
		ContactEmail:     in.ContactEmail,
		ContactInstagram: in.ContactInstagram,
		ContactLinkedin:  in.ContactLinkedin,
	}
}

// EventInput is the admin create/update payload for a portfolio event.
type EventInput struct {
	Title         string `json:"title" validate:"required,min=2,max=200"`
	Slug          string `json:"slug" validate:"required,min=2,max=200"`
	Description   string `json:"description" validate:"omitempty,max=5000"`
	Category      string `json:"category" validate:"omitempty,max=100"`
	EventDate     string `json:"eventDate" validate:"omitempty,datetime=2006-01-02"`
	Location      string `json:"location" validate:"omitempty,max=300"`
	CoverImageURL string `json:"coverImageUrl" validate:"omitempty,url,max=2000"`
	IsPublished   bool   `json:"isPublished"`
}

func (in *EventInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.EventDate = strings.TrimSpace(in.EventDate)
	in.Location = strings.TrimSpace(in.Location)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
}

func (in *EventInput) ToModel() *models.Event {
	return &models.Event{
		Title:         in.Title,
		Slug:          in.Slug,
		Description:   optional(in.Description),
		Category:      optional(in.Category),
		EventDate:     optional(in.EventDate),
		Location:      optional(in.Location),
		CoverImageURL: in.CoverImageURL,
		IsPublished:   in.IsPublished,
	}
}

// ServiceInput is the admin create/update payload for a catalog service.
type ServiceInput struct {
	Name        string   `json:"name" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	PriceFrom   *float64 `json:"priceFrom" validate:"omitempty,gte=0"`
	IsActive    bool     `json:"isActive"`
	SortOrder   int64    `json:"sortOrder" validate:"gte=0"`
}

func (in *ServiceInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *ServiceInput) ToModel() *models.Service {
	return &models.Service{
		Name:        in.Name,
		Description: optional(in.Description),
		PriceFrom:   in.PriceFrom,
		IsActive:    in.IsActive,
		SortOrder:   in.SortOrder,
	}
}

// RoleUpdateInput is the admin PATCH payload for a user.
type RoleUpdateInput struct {
	Role string `json:"role" validate:"required,oneof=customer admin"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
