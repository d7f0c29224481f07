package domain

import "time"

// Portador bracelet wearer (portadores table).
type Portador struct {
	Record
	AdminID             string     `json:"admin_id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	BirthDate           string     `json:"birth_date"`     // YYYY-MM-DD
	SexBiological       string     `json:"sex_biological"` // male | female | other
	Nationality         string     `json:"nationality"`
	PrimaryLanguage     string     `json:"primary_language"`
	SecondaryLanguage   *string    `json:"secondary_language,omitempty"`
	LifebandStatus      string     `json:"lifeband_status"` // active | suspended | lost
	PhotoURL            *string    `json:"photo_url,omitempty"`
	QRToken             string     `json:"qr_token"` // unique, immutable once issued
	NFCUID              *string    `json:"nfc_uid,omitempty"`
	PublicAccessEnabled bool       `json:"public_access_enabled"`
	PublicPDFURL        *string    `json:"public_pdf_url,omitempty"`
	PublicPDFUpdatedAt  *time.Time `json:"public_pdf_updated_at,omitempty"`
}

const (
	LifebandStatusActive    = "active"
	LifebandStatusSuspended = "suspended"
	LifebandStatusLost      = "lost"
)

func ValidLifebandStatus(s string) bool {
	switch s {
	case LifebandStatusActive, LifebandStatusSuspended, LifebandStatusLost:
		return true
	}
	return false
}

func ValidSex(s string) bool {
	switch s {
	case "male", "female", "other":
		return true
	}
	return false
}
