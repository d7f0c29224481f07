package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/functions"
	"lifeband-data/internal/repository"
)

const qrTokenAttempts = 3

// PortadorService portador lifecycle: wizard creation, profile assembly,
// public URL and PDF.
type PortadorService interface {
	ListPortadores(ctx context.Context, adminID string) ([]*domain.Portador, error)
	// CreateProfile submits the creation wizard in one call.
	CreateProfile(ctx context.Context, adminID string, req CreatePortadorRequest) (*Profile, error)
	GetPortador(ctx context.Context, adminID, portadorID string) (*domain.Portador, error)
	UpdatePortador(ctx context.Context, adminID, portadorID string, patch repository.Patch) (*domain.Portador, error)
	DeletePortador(ctx context.Context, adminID, portadorID string) error
	GetProfile(ctx context.Context, adminID, portadorID string) (*Profile, error)
	PublicURL(p *domain.Portador) string
	TriggerPDF(ctx context.Context, adminID, portadorID string) (*PDFResponse, error)
}

// ============================================
// Request/Response DTOs
// ============================================

type ContactInput struct {
	FullName string `json:"full_name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
	Priority int    `json:"priority"`
}

type SupportInput struct {
	FullName string `json:"full_name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// CreatePortadorRequest the four wizard steps.
type CreatePortadorRequest struct {
	// identity
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	BirthDate         string `json:"birth_date"`
	SexBiological     string `json:"sex_biological"`
	Nationality       string `json:"nationality"`
	PrimaryLanguage   string `json:"primary_language"`
	SecondaryLanguage string `json:"secondary_language"`
	PhotoURL          string `json:"photo_url"`

	// critical medical
	BloodType            string   `json:"blood_type"`
	InsuranceType        string   `json:"insurance_type"`
	InsurerContact       string   `json:"insurer_contact"`
	Allergies            []string `json:"allergies"`
	MedicalConditions    []string `json:"medical_conditions"`
	PermanentMedications []string `json:"permanent_medications"`

	EmergencyContacts []ContactInput `json:"emergency_contacts"`

	// psychological
	PsychologicalConditions string         `json:"psychological_conditions"`
	CrisisTriggers          string         `json:"crisis_triggers"`
	CrisisBehavior          string         `json:"crisis_behavior"`
	CrisisRecommendations   string         `json:"crisis_recommendations"`
	EmotionalSupport        []SupportInput `json:"emotional_support"`
}

// Profile a portador with everything attached to it.
type Profile struct {
	Portador     *domain.Portador             `json:"portador"`
	PublicURL    string                       `json:"public_url"`
	InfoMedica   *domain.InfoMedica           `json:"info_medica"`
	Contactos    []*domain.ContactoEmergencia `json:"contactos_emergencia"`
	Subscription *domain.SubscriptionPortador `json:"subscription"`

	Alergias                []*domain.Alergia                 `json:"alergias"`
	CondicionesMedicas      []*domain.CondicionMedica         `json:"condiciones_medicas"`
	MedicamentosPermanentes []*domain.MedicamentoPermanente   `json:"medicamentos_permanentes"`
	HistorialQuirurgico     []*domain.HistorialQuirurgico     `json:"historial_quirurgico"`
	ContactosMedicos        []*domain.ContactoMedico          `json:"contactos_medicos"`
	AntecedentesMedicos     []*domain.AntecedentesMedicos     `json:"antecedentes_medicos"`
	DispositivosImplantados []*domain.DispositivosImplantados `json:"dispositivos_implantados"`
	CondicionesPsicologicas []*domain.CondicionPsicologica    `json:"condiciones_psicologicas"`
	CrisisSensibilidades    []*domain.CrisisSensibilidad      `json:"crisis_sensibilidades"`
	ApoyoEmocional          []*domain.ApoyoEmocional          `json:"apoyo_emocional"`
}

type PDFResponse struct {
	Portador *domain.Portador `json:"portador"`
	URL      string           `json:"url"`
}

// ============================================
// Implementation
// ============================================

type portadorService struct {
	repos      *repository.Set
	own        owner
	pdf        functions.PDFGenerator
	publicHost string
	now        func() time.Time
	logger     *zap.Logger
}

func NewPortadorService(repos *repository.Set, pdf functions.PDFGenerator, publicHost string, logger *zap.Logger) PortadorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = functions.Unavailable{}
	}
	return &portadorService{
		repos:      repos,
		own:        owner{portadores: repos.Portadores, infoMedica: repos.InfoMedica},
		pdf:        pdf,
		publicHost: publicHost,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *portadorService) ListPortadores(ctx context.Context, adminID string) ([]*domain.Portador, error) {
	return s.repos.Portadores.ListPortadores(ctx, adminID)
}

func (s *portadorService) GetPortador(ctx context.Context, adminID, portadorID string) (*domain.Portador, error) {
	return s.own.portador(ctx, adminID, portadorID)
}

func (s *portadorService) PublicURL(p *domain.Portador) string {
	return "https://" + s.publicHost + "/p/" + p.QRToken
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func validDate(v string) bool {
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// newQRToken 32 hex chars, checked against existing tokens.
func (s *portadorService) newQRToken(ctx context.Context) (string, error) {
	for i := 0; i < qrTokenAttempts; i++ {
		token := strings.ReplaceAll(uuid.NewString(), "-", "")
		_, err := s.repos.Portadores.GetPortadorByQRToken(ctx, token)
		if errors.Is(err, repository.ErrNotFound) {
			return token, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("qr token: %w", ErrConflict)
}

func (s *portadorService) CreateProfile(ctx context.Context, adminID string, req CreatePortadorRequest) (*Profile, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	if req.FirstName == "" || req.LastName == "" || req.BirthDate == "" {
		return nil, invalid("first_name, last_name and birth_date are required")
	}
	if !validDate(req.BirthDate) {
		return nil, invalid("birth_date must be YYYY-MM-DD")
	}
	if req.SexBiological == "" {
		req.SexBiological = "male"
	}
	if !domain.ValidSex(req.SexBiological) {
		return nil, invalid("sex_biological must be male, female or other")
	}
	for _, c := range req.EmergencyContacts {
		if c.Priority != 0 && !domain.ValidPriority(c.Priority) {
			return nil, invalid("contact priority must be 1 or 2")
		}
	}

	token, err := s.newQRToken(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repos.Portadores.CreatePortador(ctx, &domain.Portador{
		AdminID:             adminID,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		BirthDate:           req.BirthDate,
		SexBiological:       req.SexBiological,
		Nationality:         req.Nationality,
		PrimaryLanguage:     req.PrimaryLanguage,
		SecondaryLanguage:   optional(req.SecondaryLanguage),
		LifebandStatus:      domain.LifebandStatusActive,
		PhotoURL:            optional(req.PhotoURL),
		QRToken:             token,
		PublicAccessEnabled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create portador: %w", err)
	}
	s.logger.Info("portador created", zap.String("portador_id", p.ID), zap.String("admin_id", adminID))

	if err := s.saveMedical(ctx, p.ID, req); err != nil {
		return nil, err
	}

	for i, c := range req.EmergencyContacts {
		if strings.TrimSpace(c.FullName) == "" || strings.TrimSpace(c.Phone) == "" {
			continue
		}
		priority := c.Priority
		if priority == 0 {
			priority = domain.PrioritySecondary
			if i == 0 {
				priority = domain.PriorityPrimary
			}
		}
		_, err := s.repos.Contactos.CreateContacto(ctx, &domain.ContactoEmergencia{
			PortadorID: p.ID,
			FullName:   strings.TrimSpace(c.FullName),
			Relation:   c.Relation,
			Phone:      strings.TrimSpace(c.Phone),
			Priority:   priority,
		})
		if err != nil {
			return nil, fmt.Errorf("create contacto: %w", err)
		}
	}

	return s.GetProfile(ctx, adminID, p.ID)
}

func (r CreatePortadorRequest) hasMedical() bool {
	return r.BloodType != "" || r.InsuranceType != "" || r.InsurerContact != "" ||
		len(nonBlank(r.Allergies)) > 0 || len(nonBlank(r.MedicalConditions)) > 0 ||
		len(nonBlank(r.PermanentMedications)) > 0 || strings.TrimSpace(r.PsychologicalConditions) != "" ||
		r.hasCrisis() || len(r.EmotionalSupport) > 0
}

func (r CreatePortadorRequest) hasCrisis() bool {
	return strings.TrimSpace(r.CrisisTriggers) != "" || strings.TrimSpace(r.CrisisBehavior) != "" ||
		strings.TrimSpace(r.CrisisRecommendations) != ""
}

// saveMedical writes InfoMedica and the wizard's sub-records, when any were given.
func (s *portadorService) saveMedical(ctx context.Context, portadorID string, req CreatePortadorRequest) error {
	if !req.hasMedical() {
		return nil
	}
	im, err := s.repos.InfoMedica.UpsertInfoMedica(ctx, &domain.InfoMedica{
		PortadorID:     portadorID,
		BloodType:      req.BloodType,
		InsuranceType:  optional(req.InsuranceType),
		InsurerContact: optional(req.InsurerContact),
	})
	if err != nil {
		return fmt.Errorf("save info medica: %w", err)
	}
	item := domain.Item{InfoMedicaID: im.ID}

	for _, v := range nonBlank(req.Allergies) {
		if _, err := s.repos.Alergias.Create(ctx, &domain.Alergia{Item: item, Allergy: v}); err != nil {
			return fmt.Errorf("create alergia: %w", err)
		}
	}
	for _, v := range nonBlank(req.MedicalConditions) {
		if _, err := s.repos.CondicionesMedicas.Create(ctx, &domain.CondicionMedica{Item: item, Condition: v}); err != nil {
			return fmt.Errorf("create condicion medica: %w", err)
		}
	}
	for _, v := range nonBlank(req.PermanentMedications) {
		if _, err := s.repos.MedicamentosPermanentes.Create(ctx, &domain.MedicamentoPermanente{Item: item, Medication: v}); err != nil {
			return fmt.Errorf("create medicamento: %w", err)
		}
	}
	if v := strings.TrimSpace(req.PsychologicalConditions); v != "" {
		if _, err := s.repos.CondicionesPsicologicas.Create(ctx, &domain.CondicionPsicologica{Item: item, Condition: v}); err != nil {
			return fmt.Errorf("create condicion psicologica: %w", err)
		}
	}
	if req.hasCrisis() {
		_, err := s.repos.CrisisSensibilidades.Create(ctx, &domain.CrisisSensibilidad{
			Item:            item,
			Trigger:         strings.TrimSpace(req.CrisisTriggers),
			Behavior:        strings.TrimSpace(req.CrisisBehavior),
			Recommendations: strings.TrimSpace(req.CrisisRecommendations),
		})
		if err != nil {
			return fmt.Errorf("create crisis: %w", err)
		}
	}
	for _, v := range req.EmotionalSupport {
		if strings.TrimSpace(v.FullName) == "" || strings.TrimSpace(v.Phone) == "" {
			continue
		}
		_, err := s.repos.ApoyoEmocional.Create(ctx, &domain.ApoyoEmocional{
			Item:     item,
			FullName: strings.TrimSpace(v.FullName),
			Relation: v.Relation,
			Phone:    strings.TrimSpace(v.Phone),
		})
		if err != nil {
			return fmt.Errorf("create apoyo emocional: %w", err)
		}
	}
	return nil
}

func (s *portadorService) UpdatePortador(ctx context.Context, adminID, portadorID string, patch repository.Patch) (*domain.Portador, error) {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return nil, err
	}
	if _, ok := patch["qr_token"]; ok {
		return nil, invalid("qr_token cannot be changed")
	}
	if _, ok := patch["admin_id"]; ok {
		return nil, invalid("admin_id cannot be changed")
	}
	if v, ok := patch["lifeband_status"]; ok {
		if str, _ := v.(string); !domain.ValidLifebandStatus(str) {
			return nil, invalid("lifeband_status must be active, suspended or lost")
		}
	}
	if v, ok := patch["sex_biological"]; ok {
		if str, _ := v.(string); !domain.ValidSex(str) {
			return nil, invalid("sex_biological must be male, female or other")
		}
	}
	if v, ok := patch["birth_date"]; ok {
		if str, _ := v.(string); !validDate(str) {
			return nil, invalid("birth_date must be YYYY-MM-DD")
		}
	}

	p, err := s.repos.Portadores.UpdatePortador(ctx, portadorID, patch)
	if err != nil {
		return nil, patchError(err)
	}
	if p == nil {
		return nil, notFound("portador", portadorID)
	}
	return p, nil
}

// DeletePortador removes the portador row only; attached records stay.
func (s *portadorService) DeletePortador(ctx context.Context, adminID, portadorID string) error {
	if _, err := s.own.portador(ctx, adminID, portadorID); err != nil {
		return err
	}
	if err := s.repos.Portadores.DeletePortador(ctx, portadorID); err != nil {
		return err
	}
	s.logger.Info("portador deleted", zap.String("portador_id", portadorID))
	return nil
}

func (s *portadorService) GetProfile(ctx context.Context, adminID, portadorID string) (*Profile, error) {
	p, err := s.own.portador(ctx, adminID, portadorID)
	if err != nil {
		return nil, err
	}
	prof := &Profile{Portador: p, PublicURL: s.PublicURL(p)}

	if prof.Contactos, err = s.repos.Contactos.ListContactos(ctx, p.ID); err != nil {
		return nil, err
	}
	if prof.Subscription, err = s.repos.Subscriptions.GetSubscriptionByPortador(ctx, p.ID); err != nil {
		return nil, err
	}
	if prof.InfoMedica, err = s.repos.InfoMedica.GetInfoMedica(ctx, p.ID); err != nil {
		return nil, err
	}

	imID := ""
	if prof.InfoMedica != nil {
		imID = prof.InfoMedica.ID
	}
	if err := s.loadItems(ctx, imID, prof); err != nil {
		return nil, err
	}
	return prof, nil
}

func listItems[T any](ctx context.Context, repo repository.MedicalItemsRepository[T], infoMedicaID string, out *[]*T) error {
	if infoMedicaID == "" {
		*out = []*T{}
		return nil
	}
	items, err := repo.List(ctx, infoMedicaID)
	if err != nil {
		return err
	}
	*out = items
	return nil
}

func (s *portadorService) loadItems(ctx context.Context, imID string, prof *Profile) error {
	r := s.repos
	for _, load := range []func() error{
		func() error { return listItems(ctx, r.Alergias, imID, &prof.Alergias) },
		func() error { return listItems(ctx, r.CondicionesMedicas, imID, &prof.CondicionesMedicas) },
		func() error { return listItems(ctx, r.MedicamentosPermanentes, imID, &prof.MedicamentosPermanentes) },
		func() error { return listItems(ctx, r.HistorialQuirurgico, imID, &prof.HistorialQuirurgico) },
		func() error { return listItems(ctx, r.ContactosMedicos, imID, &prof.ContactosMedicos) },
		func() error { return listItems(ctx, r.AntecedentesMedicos, imID, &prof.AntecedentesMedicos) },
		func() error { return listItems(ctx, r.DispositivosImplantados, imID, &prof.DispositivosImplantados) },
		func() error { return listItems(ctx, r.CondicionesPsicologicas, imID, &prof.CondicionesPsicologicas) },
		func() error { return listItems(ctx, r.CrisisSensibilidades, imID, &prof.CrisisSensibilidades) },
		func() error { return listItems(ctx, r.ApoyoEmocional, imID, &prof.ApoyoEmocional) },
	} {
		if err := load(); err != nil {
			return err
		}
	}
	return nil
}

func (s *portadorService) TriggerPDF(ctx context.Context, adminID, portadorID string) (*PDFResponse, error) {
	p, err := s.own.portador(ctx, adminID, portadorID)
	if err != nil {
		return nil, err
	}
	res, err := s.pdf.GeneratePDF(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if res.URL == "" {
		return &PDFResponse{Portador: p}, nil
	}

	updated, err := s.repos.Portadores.UpdatePortador(ctx, p.ID, repository.Patch{
		"public_pdf_url":        res.URL,
		"public_pdf_updated_at": s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, notFound("portador", p.ID)
	}
	return &PDFResponse{Portador: updated, URL: res.URL}, nil
}
