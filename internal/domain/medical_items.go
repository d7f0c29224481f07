package domain

// Item fields shared by every InfoMedica child record.
type Item struct {
	Record
	InfoMedicaID string `json:"infomedica_id"`
}

// Parent gives generic code access to the infomedica_id link.
func (i *Item) Parent() *Item { return i }

type Alergia struct {
	Item
	Allergy   string `json:"allergy"`
	Treatment string `json:"treatment"`
}

type CondicionMedica struct {
	Item
	Condition string `json:"condition"`
	Treatment string `json:"treatment"`
}

type MedicamentoPermanente struct {
	Item
	Medication string `json:"medication"`
	Dose       string `json:"dose"`
	Recurrence string `json:"recurrence"`
}

type HistorialQuirurgico struct {
	Item
	Description string `json:"description"`
	Date        string `json:"date"`
}

type ContactoMedico struct {
	Item
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
}

type AntecedentesMedicos struct {
	Item
	Entry string `json:"record"`
	Date  string `json:"date"`
}

type DispositivosImplantados struct {
	Item
	Device      string `json:"device"`
	ImplantedAt string `json:"implanted_at"`
}

type CondicionPsicologica struct {
	Item
	Condition string `json:"condition"`
}

type CrisisSensibilidad struct {
	Item
	Trigger         string `json:"trigger"`
	Behavior        string `json:"behavior"`
	Recommendations string `json:"recommendations"`
}

type ApoyoEmocional struct {
	Item
	FullName string `json:"full_name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}
