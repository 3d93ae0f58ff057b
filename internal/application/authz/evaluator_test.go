package authz_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
)

func sesionCon(roles ...string) authz.Session {
	return authz.Session{
		UserID:    "u-1",
		Roles:     roles,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Can — unión sobre los roles asignados
// ──────────────────────────────────────────────────────────────────────────────

func TestCan_OwnerPuedeAprobar(t *testing.T) {
	e := authz.NewEvaluator()
	assert.True(t, e.Can(sesionCon(entity.RolOwner), authz.AccionCotizacionAprobar))
}

func TestCan_ComercialNoPuedeAprobar(t *testing.T) {
	e := authz.NewEvaluator()
	assert.False(t, e.Can(sesionCon(entity.RolComercial), authz.AccionCotizacionAprobar),
		"Comercial no está autorizado a aprobar")
}

func TestCan_UnionDeRoles(t *testing.T) {
	// Un usuario con Consulta + Gerencial hereda lo que autoriza cada rol.
	e := authz.NewEvaluator()
	s := sesionCon(entity.RolConsulta, entity.RolGerencial)

	assert.True(t, e.Can(s, authz.AccionCotizacionAprobar), "aporta Gerencial")
	assert.True(t, e.Can(s, authz.AccionConsultar), "aporta Consulta")
}

func TestCan_SinRolesNoPuedeNada(t *testing.T) {
	e := authz.NewEvaluator()
	assert.False(t, e.Can(sesionCon(), authz.AccionConsultar))
}

func TestCan_AccionDesconocidaEsDenegada(t *testing.T) {
	e := authz.NewEvaluator()
	assert.False(t, e.Can(sesionCon(entity.RolOwner), authz.Action("inexistente")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Expiración — timestamp explícito comparado al momento de la consulta
// ──────────────────────────────────────────────────────────────────────────────

func TestCan_SesionExpiradaNoPuedeNada(t *testing.T) {
	e := authz.NewEvaluator()
	s := authz.Session{
		UserID:    "u-1",
		Roles:     []string{entity.RolOwner},
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	assert.True(t, s.Expirada())
	assert.False(t, e.Can(s, authz.AccionConsultar), "sesión expirada no autoriza nada")
	assert.False(t, e.HasRole(s, entity.RolOwner))
}

func TestSesion_SinExpiracionNoVence(t *testing.T) {
	s := authz.Session{UserID: "u-1", Roles: []string{entity.RolOwner}}
	assert.False(t, s.Expirada())
}

// ──────────────────────────────────────────────────────────────────────────────
// CanAny / CanAll / HasRole
// ──────────────────────────────────────────────────────────────────────────────

func TestCanAny(t *testing.T) {
	e := authz.NewEvaluator()
	s := sesionCon(entity.RolOperaciones)

	assert.True(t, e.CanAny(s, authz.AccionCotizacionAprobar, authz.AccionCotizacionCambiarEstado),
		"Operaciones puede cambiar estado aunque no aprobar")
	assert.False(t, e.CanAny(s, authz.AccionCotizacionAprobar, authz.AccionContratoCrear))
}

func TestCanAll(t *testing.T) {
	e := authz.NewEvaluator()

	assert.True(t, e.CanAll(sesionCon(entity.RolOwner),
		authz.AccionCotizacionAprobar, authz.AccionContratoCrear, authz.AccionAsistente))
	assert.False(t, e.CanAll(sesionCon(entity.RolComercial),
		authz.AccionContratoCrear, authz.AccionCotizacionAprobar))
}

func TestHasRole_NombreExacto(t *testing.T) {
	e := authz.NewEvaluator()
	s := sesionCon(entity.RolGerencial)

	assert.True(t, e.HasRole(s, entity.RolGerencial))
	assert.False(t, e.HasRole(s, entity.RolOwner))
	assert.False(t, e.HasRole(s, "gerencial/teamleader"), "la comparación es exacta, sin normalizar")
}
