package profileservice

// Profile публичные поля профиля консультанта
type Profile struct {
	ConsultantID  int64    `json:"consultant_id"`
	DisplayName   string   `json:"display_name"`
	Bio           string   `json:"bio"`
	PhotoURL      string   `json:"photo_url"`
	LicenseNumber string   `json:"license_number"`
	Languages     []string `json:"languages"`
}
