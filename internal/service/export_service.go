package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	sheetProfile  = "Portador"
	sheetContacts = "Contactos"
	sheetMedical  = "Medico"
)

var (
	profileHeader = []string{"Campo", "Valor"}
	contactHeader = []string{"Prioridad", "Nombre", "Relación", "Teléfono"}
	medicalHeader = []string{"Tipo", "Detalle", "Complemento", "Fecha"}
)

// ExportService spreadsheet export of a portador profile.
type ExportService interface {
	ExportProfile(ctx context.Context, adminID, portadorID string) ([]byte, error)
}

type exportService struct {
	portadores PortadorService
	logger     *zap.Logger
}

func NewExportService(portadores PortadorService, logger *zap.Logger) ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &exportService{portadores: portadores, logger: logger}
}

func (s *exportService) ExportProfile(ctx context.Context, adminID, portadorID string) ([]byte, error) {
	prof, err := s.portadores.GetProfile(ctx, adminID, portadorID)
	if err != nil {
		return nil, err
	}
	return GenerateProfileWorkbook(prof)
}

// GenerateProfileWorkbook renders prof as an xlsx workbook with identity,
// contact and medical sheets.
func GenerateProfileWorkbook(prof *Profile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FDE2E2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetProfile); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSheet(f, sheetProfile, profileHeader, profileRows(prof), []float64{24, 48}, headerStyle); err != nil {
		return nil, err
	}

	for _, sheet := range []string{sheetContacts, sheetMedical} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}
	if err := writeSheet(f, sheetContacts, contactHeader, contactRows(prof), []float64{12, 30, 20, 20}, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSheet(f, sheetMedical, medicalHeader, medicalRows(prof), []float64{26, 36, 36, 14}, headerStyle); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, widths []float64, headerStyle int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, sheet, err)
		}
	}
	return nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func profileRows(prof *Profile) [][]any {
	p := prof.Portador
	rows := [][]any{
		{"Nombre", p.FirstName + " " + p.LastName},
		{"Fecha de nacimiento", p.BirthDate},
		{"Sexo biológico", p.SexBiological},
		{"Nacionalidad", p.Nationality},
		{"Idioma principal", p.PrimaryLanguage},
		{"Idioma secundario", deref(p.SecondaryLanguage)},
		{"Estado Lifeband", p.LifebandStatus},
		{"Acceso público", yesNo(p.PublicAccessEnabled)},
		{"URL pública", prof.PublicURL},
	}
	if prof.InfoMedica != nil {
		rows = append(rows,
			[]any{"Grupo sanguíneo", prof.InfoMedica.BloodType},
			[]any{"Previsión", deref(prof.InfoMedica.InsuranceType)},
			[]any{"Contacto aseguradora", deref(prof.InfoMedica.InsurerContact)},
		)
	}
	if prof.Subscription != nil {
		rows = append(rows,
			[]any{"Suscripción", prof.Subscription.Status},
			[]any{"Vigencia", prof.Subscription.StartDate + " / " + prof.Subscription.EndDate},
		)
	}
	rows = append(rows, []any{"Exportado", time.Now().UTC().Format(time.RFC3339)})
	return rows
}

func contactRows(prof *Profile) [][]any {
	rows := make([][]any, 0, len(prof.Contactos))
	for _, c := range prof.Contactos {
		rows = append(rows, []any{c.Priority, c.FullName, c.Relation, c.Phone})
	}
	return rows
}

func medicalRows(prof *Profile) [][]any {
	var rows [][]any
	add := func(kind, detail, extra, date string) {
		rows = append(rows, []any{kind, detail, extra, date})
	}
	for _, v := range prof.Alergias {
		add("Alergia", v.Allergy, v.Treatment, "")
	}
	for _, v := range prof.CondicionesMedicas {
		add("Condición médica", v.Condition, v.Treatment, "")
	}
	for _, v := range prof.MedicamentosPermanentes {
		add("Medicamento permanente", v.Medication, v.Dose+" "+v.Recurrence, "")
	}
	for _, v := range prof.HistorialQuirurgico {
		add("Cirugía", v.Description, "", v.Date)
	}
	for _, v := range prof.ContactosMedicos {
		add("Contacto médico", v.FullName, v.Specialty+" "+v.Phone, "")
	}
	for _, v := range prof.AntecedentesMedicos {
		add("Antecedente", v.Entry, "", v.Date)
	}
	for _, v := range prof.DispositivosImplantados {
		add("Dispositivo implantado", v.Device, "", v.ImplantedAt)
	}
	for _, v := range prof.CondicionesPsicologicas {
		add("Condición psicológica", v.Condition, "", "")
	}
	for _, v := range prof.CrisisSensibilidades {
		add("Crisis", v.Trigger, v.Behavior+" / "+v.Recommendations, "")
	}
	for _, v := range prof.ApoyoEmocional {
		add("Apoyo emocional", v.FullName, v.Relation+" "+v.Phone, "")
	}
	return rows
}
