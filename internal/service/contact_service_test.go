package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeband-data/internal/repository"
)

func TestContactService(t *testing.T) {
	env := setupLocalEnv(t)
	ctx := context.Background()
	p := env.createPortador(t, "admin_1")

	secondary, err := env.contacts.CreateContacto(ctx, "admin_1", p.ID, ContactInput{FullName: "Marta Rojas", Phone: "+56922222222", Priority: 2})
	require.NoError(t, err)
	primary, err := env.contacts.CreateContacto(ctx, "admin_1", p.ID, ContactInput{FullName: " Luis Diaz ", Phone: "+56911111111", Priority: 1})
	require.NoError(t, err)
	assert.Equal(t, "Luis Diaz", primary.FullName)

	list, err := env.contacts.ListContactos(ctx, "admin_1", p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, primary.ID, list[0].ID)
	assert.Equal(t, secondary.ID, list[1].ID)

	updated, err := env.contacts.UpdateContacto(ctx, "admin_1", p.ID, secondary.ID, repository.Patch{"phone": "+56999999999", "priority": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, "+56999999999", updated.Phone)
	assert.Equal(t, 1, updated.Priority)

	require.NoError(t, env.contacts.DeleteContacto(ctx, "admin_1", p.ID, primary.ID))
	list, err = env.contacts.ListContactos(ctx, "admin_1", p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContactService_Validation(t *testing.T) {
	env := setupLocalEnv(t)
	ctx := context.Background()
	p := env.createPortador(t, "admin_1")

	_, err := env.contacts.CreateContacto(ctx, "admin_1", p.ID, ContactInput{FullName: "Luis", Priority: 1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.contacts.CreateContacto(ctx, "admin_1", p.ID, ContactInput{FullName: "Luis", Phone: "1", Priority: 3})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.contacts.CreateContacto(ctx, "admin_2", p.ID, ContactInput{FullName: "Luis", Phone: "1", Priority: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	c, err := env.contacts.CreateContacto(ctx, "admin_1", p.ID, ContactInput{FullName: "Luis", Phone: "1", Priority: 1})
	require.NoError(t, err)
	_, err = env.contacts.UpdateContacto(ctx, "admin_1", p.ID, c.ID, repository.Patch{"priority": 1.5})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.contacts.UpdateContacto(ctx, "admin_1", p.ID, c.ID, repository.Patch{"portador_id": "portador_x"})
	assert.ErrorIs(t, err, ErrValidation)

	other := env.createPortador(t, "admin_1")
	_, err = env.contacts.UpdateContacto(ctx, "admin_1", other.ID, c.ID, repository.Patch{"phone": "2"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIntValue(t *testing.T) {
	n, ok := intValue(2)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	n, ok = intValue(float64(1))
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	_, ok = intValue(1.5)
	assert.False(t, ok)
	_, ok = intValue("1")
	assert.False(t, ok)
}
