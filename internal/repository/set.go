package repository

import (
	"database/sql"

	"go.uber.org/zap"

	"lifeband-data/internal/collection"
	"lifeband-data/internal/domain"
	"lifeband-data/internal/supabase"
)

const (
	ModeLocal    = "local"
	ModeRest     = "rest"
	ModePostgres = "postgres"
)

// Set every repository of one backend.
type Set struct {
	Mode string

	Admins        AdminsRepository
	Portadores    PortadoresRepository
	InfoMedica    InfoMedicaRepository
	Contactos     ContactosRepository
	Subscriptions SubscriptionsRepository

	Alergias                MedicalItemsRepository[domain.Alergia]
	CondicionesMedicas      MedicalItemsRepository[domain.CondicionMedica]
	MedicamentosPermanentes MedicalItemsRepository[domain.MedicamentoPermanente]
	HistorialQuirurgico     MedicalItemsRepository[domain.HistorialQuirurgico]
	ContactosMedicos        MedicalItemsRepository[domain.ContactoMedico]
	AntecedentesMedicos     MedicalItemsRepository[domain.AntecedentesMedicos]
	DispositivosImplantados MedicalItemsRepository[domain.DispositivosImplantados]
	CondicionesPsicologicas MedicalItemsRepository[domain.CondicionPsicologica]
	CrisisSensibilidades    MedicalItemsRepository[domain.CrisisSensibilidad]
	ApoyoEmocional          MedicalItemsRepository[domain.ApoyoEmocional]
}

func NewLocalSet(s collection.Storage, logger *zap.Logger) *Set {
	return &Set{
		Mode:          ModeLocal,
		Admins:        NewLocalAdminsRepository(s, logger),
		Portadores:    NewLocalPortadoresRepository(s, logger),
		InfoMedica:    NewLocalInfoMedicaRepository(s, logger),
		Contactos:     NewLocalContactosRepository(s, logger),
		Subscriptions: NewLocalSubscriptionsRepository(s, logger),

		Alergias:                newLocalItemsRepository[domain.Alergia](s, alergiasTable, logger),
		CondicionesMedicas:      newLocalItemsRepository[domain.CondicionMedica](s, condicionesMedicasTable, logger),
		MedicamentosPermanentes: newLocalItemsRepository[domain.MedicamentoPermanente](s, medicamentosTable, logger),
		HistorialQuirurgico:     newLocalItemsRepository[domain.HistorialQuirurgico](s, historialQuirurgicoTable, logger),
		ContactosMedicos:        newLocalItemsRepository[domain.ContactoMedico](s, contactosMedicosTable, logger),
		AntecedentesMedicos:     newLocalItemsRepository[domain.AntecedentesMedicos](s, antecedentesTable, logger),
		DispositivosImplantados: newLocalItemsRepository[domain.DispositivosImplantados](s, dispositivosTable, logger),
		CondicionesPsicologicas: newLocalItemsRepository[domain.CondicionPsicologica](s, condicionesPsicologicasTable, logger),
		CrisisSensibilidades:    newLocalItemsRepository[domain.CrisisSensibilidad](s, crisisTable, logger),
		ApoyoEmocional:          newLocalItemsRepository[domain.ApoyoEmocional](s, apoyoEmocionalTable, logger),
	}
}

func NewRestSet(c *supabase.Client, logger *zap.Logger) *Set {
	return &Set{
		Mode:          ModeRest,
		Admins:        NewRestAdminsRepository(c, logger),
		Portadores:    NewRestPortadoresRepository(c, logger),
		InfoMedica:    NewRestInfoMedicaRepository(c, logger),
		Contactos:     NewRestContactosRepository(c, logger),
		Subscriptions: NewRestSubscriptionsRepository(c, logger),

		Alergias:                newRestItemsRepository[domain.Alergia](c, alergiasTable, logger),
		CondicionesMedicas:      newRestItemsRepository[domain.CondicionMedica](c, condicionesMedicasTable, logger),
		MedicamentosPermanentes: newRestItemsRepository[domain.MedicamentoPermanente](c, medicamentosTable, logger),
		HistorialQuirurgico:     newRestItemsRepository[domain.HistorialQuirurgico](c, historialQuirurgicoTable, logger),
		ContactosMedicos:        newRestItemsRepository[domain.ContactoMedico](c, contactosMedicosTable, logger),
		AntecedentesMedicos:     newRestItemsRepository[domain.AntecedentesMedicos](c, antecedentesTable, logger),
		DispositivosImplantados: newRestItemsRepository[domain.DispositivosImplantados](c, dispositivosTable, logger),
		CondicionesPsicologicas: newRestItemsRepository[domain.CondicionPsicologica](c, condicionesPsicologicasTable, logger),
		CrisisSensibilidades:    newRestItemsRepository[domain.CrisisSensibilidad](c, crisisTable, logger),
		ApoyoEmocional:          newRestItemsRepository[domain.ApoyoEmocional](c, apoyoEmocionalTable, logger),
	}
}

func NewPostgresSet(db *sql.DB, logger *zap.Logger) *Set {
	return &Set{
		Mode:          ModePostgres,
		Admins:        NewPostgresAdminsRepository(db, logger),
		Portadores:    NewPostgresPortadoresRepository(db, logger),
		InfoMedica:    NewPostgresInfoMedicaRepository(db, logger),
		Contactos:     NewPostgresContactosRepository(db, logger),
		Subscriptions: NewPostgresSubscriptionsRepository(db, logger),

		Alergias:                newPostgresItemsRepository[domain.Alergia](db, alergiasTable, alergiaFields, logger),
		CondicionesMedicas:      newPostgresItemsRepository[domain.CondicionMedica](db, condicionesMedicasTable, condicionMedicaFields, logger),
		MedicamentosPermanentes: newPostgresItemsRepository[domain.MedicamentoPermanente](db, medicamentosTable, medicamentoFields, logger),
		HistorialQuirurgico:     newPostgresItemsRepository[domain.HistorialQuirurgico](db, historialQuirurgicoTable, historialQuirurgicoFields, logger),
		ContactosMedicos:        newPostgresItemsRepository[domain.ContactoMedico](db, contactosMedicosTable, contactoMedicoFields, logger),
		AntecedentesMedicos:     newPostgresItemsRepository[domain.AntecedentesMedicos](db, antecedentesTable, antecedentesFields, logger),
		DispositivosImplantados: newPostgresItemsRepository[domain.DispositivosImplantados](db, dispositivosTable, dispositivosFields, logger),
		CondicionesPsicologicas: newPostgresItemsRepository[domain.CondicionPsicologica](db, condicionesPsicologicasTable, condicionPsicologicaFields, logger),
		CrisisSensibilidades:    newPostgresItemsRepository[domain.CrisisSensibilidad](db, crisisTable, crisisFields, logger),
		ApoyoEmocional:          newPostgresItemsRepository[domain.ApoyoEmocional](db, apoyoEmocionalTable, apoyoEmocionalFields, logger),
	}
}

// Backends candidates for Select.
type Backends struct {
	DB         *sql.DB // direct connection, preferred when set
	Remote     *supabase.Client
	Configured bool // remote backend configured
	Local      collection.Storage
}

// Select picks the backend once: Postgres, then the hosted backend when
// configured, else local storage. The unselected backends are never touched.
func Select(b Backends, logger *zap.Logger) *Set {
	switch {
	case b.DB != nil:
		return NewPostgresSet(b.DB, logger)
	case b.Configured && b.Remote != nil:
		return NewRestSet(b.Remote, logger)
	default:
		return NewLocalSet(b.Local, logger)
	}
}
