package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportProfile(t *testing.T) {
	env := setupLocalEnv(t)
	ctx := context.Background()
	prof, err := env.portadores.CreateProfile(ctx, "admin_1", wizardRequest())
	require.NoError(t, err)

	svc := NewExportService(env.portadores, zap.NewNop())
	data, err := svc.ExportProfile(ctx, "admin_1", prof.Portador.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetProfile, sheetContacts, sheetMedical}, f.GetSheetList())

	name, err := f.GetCellValue(sheetProfile, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana Diaz", name)

	header, err := f.GetCellValue(sheetContacts, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Nombre", header)
	contact, err := f.GetCellValue(sheetContacts, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Luis Diaz", contact)

	rows, err := f.GetRows(sheetMedical)
	require.NoError(t, err)
	// header, 2 allergies, condition, medication, psychological, crisis, support
	assert.Len(t, rows, 8)

	_, err = svc.ExportProfile(ctx, "admin_2", prof.Portador.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
