package repository

import "lifeband-data/internal/domain"

const (
	orderNewest   = "created_at.desc"
	orderPriority = "priority.asc"
)

type column struct {
	name string
	// cast applied in SELECT lists (uuid and date columns read back as text)
	cast string
	// nullable columns keep their stored value when an upsert omits them
	nullable bool
}

type table struct {
	name      string // remote table
	key       string // local storage key
	prefix    string // local id prefix
	parent    string // list filter column
	order     string
	columns   []column
	immutable []string
}

func (t table) writable(patch Patch) Patch {
	out := make(Patch, len(patch))
	for k, v := range patch {
		if t.hasColumn(k) && !t.isImmutable(k) {
			out[k] = v
		}
	}
	return out
}

func (t table) hasColumn(name string) bool {
	for _, c := range t.columns {
		if c.name == name {
			return true
		}
	}
	return false
}

func (t table) isImmutable(name string) bool {
	for _, c := range t.immutable {
		if c == name {
			return true
		}
	}
	return false
}

func col(name string) column { return column{name: name} }
func uuidCol(name string) column { return column{name: name, cast: "text"} }
func dateCol(name string) column { return column{name: name, cast: "text"} }
func optCol(name string) column { return column{name: name, nullable: true} }

func itemTable(name, prefix string, cols ...column) table {
	return table{
		name:    name,
		key:     "lifeband_" + name,
		prefix:  prefix,
		parent:  "infomedica_id",
		order:   orderNewest,
		columns: append([]column{uuidCol("infomedica_id")}, cols...),
	}
}

// fieldsFunc returns pointers to the data fields of a row in column order.
type fieldsFunc[T any] func(*T) []any

// ========== Entity tables ==========

var adminsTable = table{
	name:   "admins",
	key:    "lifeband_admins",
	prefix: "admin",
	order:  orderNewest,
	columns: []column{
		col("first_name"), col("last_name"), col("email"),
		optCol("email_verified_at"), col("password_hash"), col("status"),
		optCol("last_login_at"), col("country"), optCol("phone"),
		col("language"), optCol("last_password_change_at"),
	},
}

func adminFields(a *domain.Admin) []any {
	return []any{
		&a.FirstName, &a.LastName, &a.Email,
		&a.EmailVerifiedAt, &a.PasswordHash, &a.Status,
		&a.LastLoginAt, &a.Country, &a.Phone,
		&a.Language, &a.LastPasswordChangeAt,
	}
}

var portadoresTable = table{
	name:   "portadores",
	key:    "lifeband_portadores",
	prefix: "portador",
	parent: "admin_id",
	order:  orderNewest,
	columns: []column{
		uuidCol("admin_id"), col("first_name"), col("last_name"),
		dateCol("birth_date"), col("sex_biological"), col("nationality"),
		col("primary_language"), optCol("secondary_language"), col("lifeband_status"),
		optCol("photo_url"), col("qr_token"), optCol("nfc_uid"),
		col("public_access_enabled"), optCol("public_pdf_url"), optCol("public_pdf_updated_at"),
	},
	immutable: []string{"qr_token"},
}

func portadorFields(p *domain.Portador) []any {
	return []any{
		&p.AdminID, &p.FirstName, &p.LastName,
		&p.BirthDate, &p.SexBiological, &p.Nationality,
		&p.PrimaryLanguage, &p.SecondaryLanguage, &p.LifebandStatus,
		&p.PhotoURL, &p.QRToken, &p.NFCUID,
		&p.PublicAccessEnabled, &p.PublicPDFURL, &p.PublicPDFUpdatedAt,
	}
}

var infoMedicaTable = table{
	name:   "info_medica",
	key:    "lifeband_info_medica",
	prefix: "infomedica",
	parent: "portador_id",
	order:  orderNewest,
	columns: []column{
		uuidCol("portador_id"), col("blood_type"),
		optCol("insurance_type"), optCol("insurer_contact"),
	},
}

func infoMedicaFields(im *domain.InfoMedica) []any {
	return []any{&im.PortadorID, &im.BloodType, &im.InsuranceType, &im.InsurerContact}
}

var contactosTable = table{
	name:   "contactos_emergencia",
	key:    "lifeband_contactos_emergencia",
	prefix: "contacto",
	parent: "portador_id",
	order:  orderPriority,
	columns: []column{
		uuidCol("portador_id"), col("full_name"), col("relation"),
		col("phone"), col("priority"),
	},
}

func contactoFields(c *domain.ContactoEmergencia) []any {
	return []any{&c.PortadorID, &c.FullName, &c.Relation, &c.Phone, &c.Priority}
}

var subscriptionsTable = table{
	name:   "subscriptions_portador",
	key:    "lifeband_subscriptions",
	prefix: "subscription",
	parent: "admin_id",
	order:  orderNewest,
	columns: []column{
		uuidCol("admin_id"), uuidCol("portador_id"), col("plan"), col("status"),
		optCol("provider_customer_id"), optCol("provider_subscription_id"),
		dateCol("start_date"), dateCol("end_date"), col("auto_renew"),
	},
}

func subscriptionFields(s *domain.SubscriptionPortador) []any {
	return []any{
		&s.AdminID, &s.PortadorID, &s.Plan, &s.Status,
		&s.ProviderCustomerID, &s.ProviderSubscriptionID,
		&s.StartDate, &s.EndDate, &s.AutoRenew,
	}
}

// ========== InfoMedica sub-record tables ==========

var (
	alergiasTable                = itemTable("alergias", "alergia", col("allergy"), col("treatment"))
	condicionesMedicasTable      = itemTable("condiciones_medicas", "condicion", col("condition"), col("treatment"))
	medicamentosTable            = itemTable("medicamentos_permanentes", "medicamento", col("medication"), col("dose"), col("recurrence"))
	historialQuirurgicoTable     = itemTable("historial_quirurgico", "cirugia", col("description"), dateCol("date"))
	contactosMedicosTable        = itemTable("contactos_medicos", "contactomedico", col("full_name"), col("specialty"), col("phone"))
	antecedentesTable            = itemTable("antecedentes_medicos", "antecedente", col("record"), dateCol("date"))
	dispositivosTable            = itemTable("dispositivos_implantados", "dispositivo", col("device"), dateCol("implanted_at"))
	condicionesPsicologicasTable = itemTable("condiciones_psicologicas", "psico", col("condition"))
	crisisTable                  = itemTable("crisis_sensibilidades", "crisis", col("trigger"), col("behavior"), col("recommendations"))
	apoyoEmocionalTable          = itemTable("apoyo_emocional", "apoyo", col("full_name"), col("relation"), col("phone"))
)

func alergiaFields(v *domain.Alergia) []any {
	return []any{&v.InfoMedicaID, &v.Allergy, &v.Treatment}
}

func condicionMedicaFields(v *domain.CondicionMedica) []any {
	return []any{&v.InfoMedicaID, &v.Condition, &v.Treatment}
}

func medicamentoFields(v *domain.MedicamentoPermanente) []any {
	return []any{&v.InfoMedicaID, &v.Medication, &v.Dose, &v.Recurrence}
}

func historialQuirurgicoFields(v *domain.HistorialQuirurgico) []any {
	return []any{&v.InfoMedicaID, &v.Description, &v.Date}
}

func contactoMedicoFields(v *domain.ContactoMedico) []any {
	return []any{&v.InfoMedicaID, &v.FullName, &v.Specialty, &v.Phone}
}

func antecedentesFields(v *domain.AntecedentesMedicos) []any {
	return []any{&v.InfoMedicaID, &v.Entry, &v.Date}
}

func dispositivosFields(v *domain.DispositivosImplantados) []any {
	return []any{&v.InfoMedicaID, &v.Device, &v.ImplantedAt}
}

func condicionPsicologicaFields(v *domain.CondicionPsicologica) []any {
	return []any{&v.InfoMedicaID, &v.Condition}
}

func crisisFields(v *domain.CrisisSensibilidad) []any {
	return []any{&v.InfoMedicaID, &v.Trigger, &v.Behavior, &v.Recommendations}
}

func apoyoEmocionalFields(v *domain.ApoyoEmocional) []any {
	return []any{&v.InfoMedicaID, &v.FullName, &v.Relation, &v.Phone}
}
