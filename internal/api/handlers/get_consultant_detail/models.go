package get_consultant_detail

import (
	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/integrations/profileservice"
	catalogModels "github.com/m04kA/consult-booking/internal/service/catalog/models"
	getConsultantDetail "github.com/m04kA/consult-booking/internal/usecase/get_consultant_detail"
)

// ProfileResponse публичный профиль
type ProfileResponse struct {
	Bio           string   `json:"bio,omitempty"`
	PhotoURL      string   `json:"photoUrl,omitempty"`
	LicenseNumber string   `json:"licenseNumber,omitempty"`
	Languages     []string `json:"languages,omitempty"`
}

// DayResponse слоты одной даты
type DayResponse struct {
	Date  string                  `json:"date"`
	Slots []handlers.SlotResponse `json:"slots"`
}

// ConsultantDetailResponse HTTP response model
type ConsultantDetailResponse struct {
	ID              int64                           `json:"id"`
	DisplayName     string                          `json:"displayName"`
	Timezone        string                          `json:"timezone"`
	Locale          string                          `json:"locale"`
	Profile         *ProfileResponse                `json:"profile,omitempty"`
	ProfileDegraded bool                            `json:"profileDegraded"`
	Services        []catalogModels.ServiceResponse `json:"services"`
	ViewerTimezone  string                          `json:"viewerTimezone"`
	DurationMinutes int                             `json:"durationMinutes,omitempty"`
	Days            []DayResponse                   `json:"days,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getConsultantDetail.Response) *ConsultantDetailResponse {
	result := &ConsultantDetailResponse{
		ID:              resp.Consultant.ID,
		DisplayName:     resp.Consultant.DisplayName,
		Timezone:        resp.Consultant.Timezone,
		Locale:          resp.Consultant.Locale,
		Profile:         fromProfile(resp.Profile),
		ProfileDegraded: resp.ProfileDegraded,
		Services:        resp.Services,
		ViewerTimezone:  resp.ViewerTimezone,
		DurationMinutes: resp.DurationMinutes,
	}

	// Имя из профиля приоритетнее имени из онбординга
	if resp.Profile != nil && resp.Profile.DisplayName != "" {
		result.DisplayName = resp.Profile.DisplayName
	}

	for _, d := range resp.Days {
		result.Days = append(result.Days, DayResponse{
			Date:  d.Date.String(),
			Slots: handlers.FromDomainSlots(d.Slots),
		})
	}

	return result
}

func fromProfile(p *profileservice.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		Bio:           p.Bio,
		PhotoURL:      p.PhotoURL,
		LicenseNumber: p.LicenseNumber,
		Languages:     p.Languages,
	}
}
