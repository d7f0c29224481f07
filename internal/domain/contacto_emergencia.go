package domain

// ContactoEmergencia emergency contact; priority 1 = primary, 2 = secondary.
type ContactoEmergencia struct {
	Record
	PortadorID string `json:"portador_id"`
	FullName   string `json:"full_name"`
	Relation   string `json:"relation"`
	Phone      string `json:"phone"`
	Priority   int    `json:"priority"`
}

const (
	PriorityPrimary   = 1
	PrioritySecondary = 2
)

func ValidPriority(p int) bool {
	return p == PriorityPrimary || p == PrioritySecondary
}
