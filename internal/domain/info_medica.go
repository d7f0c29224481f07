package domain

// InfoMedica medical record header, 1:1 with portador (portador_id unique).
type InfoMedica struct {
	Record
	PortadorID     string  `json:"portador_id"`
	BloodType      string  `json:"blood_type"`
	InsuranceType  *string `json:"insurance_type,omitempty"`
	InsurerContact *string `json:"insurer_contact,omitempty"`
}
