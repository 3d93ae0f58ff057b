package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/application/usecase"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
)

type fakeClienteRepo struct {
	clientes map[string]*entity.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: map[string]*entity.Cliente{}}
}

func (r *fakeClienteRepo) Create(c *entity.Cliente) error { r.clientes[c.RUT] = c; return nil }
func (r *fakeClienteRepo) Update(c *entity.Cliente) error { r.clientes[c.RUT] = c; return nil }
func (r *fakeClienteRepo) GetByRUT(rut string) (*entity.Cliente, error) {
	c, ok := r.clientes[rut]
	if !ok {
		return nil, nil
	}
	return c, nil
}
func (r *fakeClienteRepo) List(limit, offset int) ([]*entity.Cliente, error) {
	var out []*entity.Cliente
	for _, c := range r.clientes {
		out = append(out, c)
	}
	return out, nil
}

// El RUT se almacena en forma canónica sin importar el formato de entrada.
func TestCreate_CanonicalizaElRUT(t *testing.T) {
	repo := newFakeClienteRepo()
	uc := usecase.NewClienteUseCase(repo)

	out, err := uc.Create(dto.CreateClienteRequest{RUT: "12.345.678-5", Nombre: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "12345678-5", out.RUT)
	assert.Equal(t, "12.345.678-5", out.RUTFormateado)
	assert.Contains(t, repo.clientes, "12345678-5")
}

func TestCreate_DVIncorrectoEsValidacion(t *testing.T) {
	uc := usecase.NewClienteUseCase(newFakeClienteRepo())

	_, err := uc.Create(dto.CreateClienteRequest{RUT: "12345678-4", Nombre: "ACME"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_RUTDuplicado(t *testing.T) {
	repo := newFakeClienteRepo()
	uc := usecase.NewClienteUseCase(repo)

	_, err := uc.Create(dto.CreateClienteRequest{RUT: "12345678-5", Nombre: "ACME"})
	require.NoError(t, err)

	// Mismo RUT con otro formato de entrada sigue siendo duplicado.
	_, err = uc.Create(dto.CreateClienteRequest{RUT: "12.345.678-5", Nombre: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// La búsqueda distingue RUT malformado (validación) de RUT válido sin cliente
// (no encontrado).
func TestGetByRUT_Errores(t *testing.T) {
	uc := usecase.NewClienteUseCase(newFakeClienteRepo())

	_, err := uc.GetByRUT("no-es-un-rut")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByRUT("12345678-5")
	assert.ErrorIs(t, err, domain.ErrClienteNotFound)
}

func TestGetByRUT_AceptaFormatosEquivalentes(t *testing.T) {
	repo := newFakeClienteRepo()
	uc := usecase.NewClienteUseCase(repo)
	_, err := uc.Create(dto.CreateClienteRequest{RUT: "12345678-5", Nombre: "ACME"})
	require.NoError(t, err)

	for _, entrada := range []string{"12345678-5", "12.345.678-5", "123456785"} {
		out, err := uc.GetByRUT(entrada)
		require.NoError(t, err, "entrada %q", entrada)
		assert.Equal(t, "ACME", out.Nombre)
	}
}

func TestUpdate_SoloCamposPresentes(t *testing.T) {
	repo := newFakeClienteRepo()
	uc := usecase.NewClienteUseCase(repo)
	_, err := uc.Create(dto.CreateClienteRequest{RUT: "12345678-5", Nombre: "ACME", Giro: "Seguridad"})
	require.NoError(t, err)

	nombre := "ACME SpA"
	out, err := uc.Update("12345678-5", dto.UpdateClienteRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "ACME SpA", out.Nombre)
	assert.Equal(t, "Seguridad", out.Giro, "los campos ausentes no se tocan")
}
