package cotizacion_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contratos-api/internal/application/authz"
	appcot "github.com/jhoicas/contratos-api/internal/application/cotizacion"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeCotizacionRepo struct {
	cotizaciones map[string]*entity.Cotizacion
	items        map[string][]*entity.CotizacionItem
	historial    map[string][]*entity.CambioEstado
	seq          int

	failCambiarEstado   error
	failReemplazarItems error

	// antesDeCambiarEstado corre justo antes de aplicar el cambio; simula a
	// otro actor escribiendo entre la lectura del motor y la escritura.
	antesDeCambiarEstado func()
}

var _ repository.CotizacionRepository = (*fakeCotizacionRepo)(nil)

func newFakeCotizacionRepo() *fakeCotizacionRepo {
	return &fakeCotizacionRepo{
		cotizaciones: map[string]*entity.Cotizacion{},
		items:        map[string][]*entity.CotizacionItem{},
		historial:    map[string][]*entity.CambioEstado{},
	}
}

func (r *fakeCotizacionRepo) Create(cot *entity.Cotizacion) error {
	r.seq++
	cot.Codigo = fmt.Sprintf("COT-2025-%08d", r.seq)
	cot.Version = 1
	copia := *cot
	r.cotizaciones[cot.ID] = &copia
	return nil
}

func (r *fakeCotizacionRepo) GetByID(id string) (*entity.Cotizacion, error) {
	cot, ok := r.cotizaciones[id]
	if !ok {
		return nil, nil
	}
	copia := *cot
	return &copia, nil
}

func (r *fakeCotizacionRepo) ListByContrato(contratoID string) ([]*entity.Cotizacion, error) {
	var out []*entity.Cotizacion
	for _, c := range r.cotizaciones {
		if c.ContratoID == contratoID {
			copia := *c
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeCotizacionRepo) ListVersiones(codigo string) ([]*entity.Cotizacion, error) {
	var out []*entity.Cotizacion
	for _, c := range r.cotizaciones {
		if c.Codigo == codigo {
			copia := *c
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeCotizacionRepo) CrearVersion(cotizacionID string) (*entity.Cotizacion, error) {
	anterior, ok := r.cotizaciones[cotizacionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	anterior.Estado = entity.EstadoReemplazada
	nueva := &entity.Cotizacion{
		ID:            cotizacionID + "-v" + fmt.Sprint(anterior.Version+1),
		ContratoID:    anterior.ContratoID,
		Codigo:        anterior.Codigo,
		Version:       anterior.Version + 1,
		Estado:        entity.EstadoBorrador,
		VigenciaDesde: anterior.VigenciaDesde,
		VigenciaHasta: anterior.VigenciaHasta,
		CreatedAt:     time.Now(),
	}
	r.cotizaciones[nueva.ID] = nueva
	copia := *nueva
	return &copia, nil
}

func (r *fakeCotizacionRepo) GetItems(cotizacionID string) ([]*entity.CotizacionItem, error) {
	return r.items[cotizacionID], nil
}

func (r *fakeCotizacionRepo) ReemplazarItems(cotizacionID string, items []*entity.CotizacionItem) error {
	if r.failReemplazarItems != nil {
		return r.failReemplazarItems
	}
	copias := make([]*entity.CotizacionItem, len(items))
	for i, item := range items {
		c := *item
		copias[i] = &c
	}
	r.items[cotizacionID] = copias
	return nil
}

func (r *fakeCotizacionRepo) CambiarEstado(cambio *entity.CambioEstado) error {
	if r.failCambiarEstado != nil {
		return r.failCambiarEstado
	}
	if r.antesDeCambiarEstado != nil {
		r.antesDeCambiarEstado()
	}
	cot, ok := r.cotizaciones[cambio.CotizacionID]
	if !ok {
		return domain.ErrNotFound
	}
	// Misma precondición que el adaptador real: el estado de origen leído por
	// el actor debe seguir siendo el almacenado.
	if cot.Estado != cambio.EstadoOrigen {
		return domain.ErrConflict
	}
	cot.Estado = cambio.EstadoDestino
	r.historial[cambio.CotizacionID] = append(r.historial[cambio.CotizacionID], cambio)
	return nil
}

func (r *fakeCotizacionRepo) GetHistorial(cotizacionID string) ([]*entity.CambioEstado, error) {
	return r.historial[cotizacionID], nil
}

// fakeTransicionRepo implementa el catálogo de transiciones con la tabla que
// usa la aplicación: 3 = aprobar, 4 = rechazar, 5 = volver a borrador.
type fakeTransicionRepo struct{}

var _ repository.TransicionRepository = (*fakeTransicionRepo)(nil)

func (fakeTransicionRepo) ListByEstado(estado string) ([]entity.Transicion, error) {
	catalogo := map[string][]entity.Transicion{
		entity.EstadoBorrador: {
			{ID: 1, EstadoDestino: entity.EstadoEnRevision},
			{ID: 2, EstadoDestino: entity.EstadoAnulada, RequiereComentario: true},
		},
		entity.EstadoEnRevision: {
			{ID: appcot.TransicionAprobar, EstadoDestino: entity.EstadoAprobada},
			{ID: appcot.TransicionRechazar, EstadoDestino: entity.EstadoAnulada, RequiereMotivoRechazo: true},
			{ID: appcot.TransicionVolverBorrador, EstadoDestino: entity.EstadoBorrador},
		},
		entity.EstadoAprobada: {
			{ID: 6, EstadoDestino: entity.EstadoVigente},
			{ID: 7, EstadoDestino: entity.EstadoCancelada, RequiereComentario: true},
		},
		entity.EstadoVigente: {
			{ID: 8, EstadoDestino: entity.EstadoDeBaja, RequiereComentario: true},
			{ID: 9, EstadoDestino: entity.EstadoCancelada},
		},
	}
	return catalogo[estado], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func sesion(roles ...string) authz.Session {
	return authz.Session{UserID: "u-1", Roles: roles, ExpiresAt: time.Now().Add(time.Hour)}
}

func nuevoMotor(t *testing.T) (*appcot.Engine, *fakeCotizacionRepo) {
	t.Helper()
	repo := newFakeCotizacionRepo()
	engine := appcot.NewEngine(repo, fakeTransicionRepo{}, authz.NewEvaluator())
	return engine, repo
}

func cotizacionEnEstado(t *testing.T, repo *fakeCotizacionRepo, estado string) string {
	t.Helper()
	id := "cot-" + estado
	repo.cotizaciones[id] = &entity.Cotizacion{
		ID:         id,
		ContratoID: "con-1",
		Codigo:     "COT-2025-00000099",
		Version:    1,
		Estado:     estado,
	}
	return id
}

func itemValido() *entity.CotizacionItem {
	return &entity.CotizacionItem{
		ServicioID:     "srv-1",
		Cantidad:       decimal.NewFromInt(2),
		PrecioUnitario: decimal.NewFromInt(100),
		MonedaID:       "CLP",
		Periodicidad:   entity.PeriodicidadMensual,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones disponibles
// ──────────────────────────────────────────────────────────────────────────────

func TestTransicionesDisponibles_EstadosTerminalesNoOfrecenNada(t *testing.T) {
	engine, repo := nuevoMotor(t)
	terminales := []string{
		entity.EstadoReemplazada, entity.EstadoAnulada,
		entity.EstadoCancelada, entity.EstadoDeBaja,
	}
	for _, estado := range terminales {
		id := cotizacionEnEstado(t, repo, estado)
		disponibles, err := engine.TransicionesDisponibles(sesion(entity.RolOwner), id)
		require.NoError(t, err, "estado %s", estado)
		assert.Empty(t, disponibles, "estado terminal %s no debe ofrecer transiciones", estado)
	}
}

func TestTransicionesDisponibles_FiltroPorRolEnRevision(t *testing.T) {
	// Las transiciones 3, 4 y 5 solo se ofrecen si los roles de la sesión
	// intersectan {Owner, Gerencial/TeamLeader}.
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoEnRevision)

	casos := []struct {
		nombre    string
		roles     []string
		esperadas bool
	}{
		{"Owner", []string{entity.RolOwner}, true},
		{"Gerencial", []string{entity.RolGerencial}, true},
		{"Comercial+Owner", []string{entity.RolComercial, entity.RolOwner}, true},
		{"Comercial", []string{entity.RolComercial}, false},
		{"Operaciones", []string{entity.RolOperaciones}, false},
		{"Comercial+Consulta", []string{entity.RolComercial, entity.RolConsulta}, false},
		{"sin roles", nil, false},
	}
	for _, c := range casos {
		disponibles, err := engine.TransicionesDisponibles(sesion(c.roles...), id)
		require.NoError(t, err, c.nombre)

		ids := map[int]bool{}
		for _, tr := range disponibles {
			ids[tr.ID] = true
		}
		for _, restringida := range []int{appcot.TransicionAprobar, appcot.TransicionRechazar, appcot.TransicionVolverBorrador} {
			assert.Equal(t, c.esperadas, ids[restringida],
				"%s: transición %d ofrecida=%v", c.nombre, restringida, c.esperadas)
		}
	}
}

func TestTransicionesDisponibles_NoRestringidasSeOfrecenACualquierRol(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoBorrador)

	disponibles, err := engine.TransicionesDisponibles(sesion(entity.RolConsulta), id)
	require.NoError(t, err)
	assert.Len(t, disponibles, 2, "las transiciones del catálogo sin restricción se ofrecen a cualquier rol")
}

func TestTransicionesDisponibles_SesionExpirada(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoBorrador)

	ses := authz.Session{UserID: "u-1", Roles: []string{entity.RolOwner}, ExpiresAt: time.Now().Add(-time.Minute)}
	_, err := engine.TransicionesDisponibles(ses, id)
	assert.ErrorIs(t, err, domain.ErrSesionExpirada)
}

func TestTransicionesDisponibles_CotizacionInexistente(t *testing.T) {
	engine, _ := nuevoMotor(t)
	_, err := engine.TransicionesDisponibles(sesion(entity.RolOwner), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// CambiarEstado
// ──────────────────────────────────────────────────────────────────────────────

func TestCambiarEstado_TransicionSimple(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoBorrador)

	cot, err := engine.CambiarEstado(sesion(entity.RolComercial), id, 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoEnRevision, cot.Estado)

	// El cambio queda registrado con su auditoría, origen incluido.
	hist, _ := repo.GetHistorial(id)
	require.Len(t, hist, 1)
	assert.Equal(t, 1, hist[0].TransicionID)
	assert.Equal(t, entity.EstadoBorrador, hist[0].EstadoOrigen)
	assert.Equal(t, "u-1", hist[0].UsuarioID)
}

func TestCambiarEstado_ActorConcurrenteProvocaConflicto(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoBorrador)

	// Otro actor mueve la cotización entre la lectura del motor y la
	// escritura: la precondición de estado de origen detecta la carrera y la
	// transición tardía no pisa la ajena.
	repo.antesDeCambiarEstado = func() {
		repo.cotizaciones[id].Estado = entity.EstadoEnRevision
	}
	_, err := engine.CambiarEstado(sesion(entity.RolComercial), id, 1, "", "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	cot, _ := repo.GetByID(id)
	assert.Equal(t, entity.EstadoEnRevision, cot.Estado, "prevalece la escritura del primer actor")
	hist, _ := repo.GetHistorial(id)
	assert.Empty(t, hist, "la transición rechazada no deja auditoría")
}

func TestCambiarEstado_ComentarioObligatorioEnBlanco(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoBorrador)

	// La transición 2 (anular) exige comentario; en blanco falla localmente
	// sin tocar la persistencia.
	_, err := engine.CambiarEstado(sesion(entity.RolComercial), id, 2, "   ", "")
	assert.ErrorIs(t, err, domain.ErrComentarioRequerido)

	cot, _ := repo.GetByID(id)
	assert.Equal(t, entity.EstadoBorrador, cot.Estado, "el estado no debe cambiar")
	hist, _ := repo.GetHistorial(id)
	assert.Empty(t, hist, "no debe registrarse ningún cambio")
}

func TestCambiarEstado_MotivoRechazoObligatorio(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoEnRevision)

	_, err := engine.CambiarEstado(sesion(entity.RolGerencial), id, appcot.TransicionRechazar, "", "")
	assert.ErrorIs(t, err, domain.ErrMotivoRequerido)

	cot, err := engine.CambiarEstado(sesion(entity.RolGerencial), id, appcot.TransicionRechazar, "", "precios desactualizados")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAnulada, cot.Estado)
}

func TestCambiarEstado_TransicionRestringidaSinRol(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoEnRevision)

	// Comercial no ve la transición 3 en su conjunto disponible: aunque el
	// catálogo la ofrezca, para esta sesión es inválida.
	_, err := engine.CambiarEstado(sesion(entity.RolComercial), id, appcot.TransicionAprobar, "", "")
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestCambiarEstado_EstadoTerminalNoAdmiteCambios(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoAnulada)

	_, err := engine.CambiarEstado(sesion(entity.RolOwner), id, 1, "", "")
	assert.ErrorIs(t, err, domain.ErrEstadoTerminal)
}

func TestCambiarEstado_FalloRemotoDejaEstadoIntacto(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoBorrador)
	repo.failCambiarEstado = errors.New("db caída")

	_, err := engine.CambiarEstado(sesion(entity.RolComercial), id, 1, "", "")
	require.Error(t, err)

	cot, _ := repo.GetByID(id)
	assert.Equal(t, entity.EstadoBorrador, cot.Estado,
		"tras un fallo remoto no debe retenerse ninguna actualización optimista")
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear y versionado
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_AsignaCodigoYVersionUno(t *testing.T) {
	engine, _ := nuevoMotor(t)
	desde := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(1, 0, 0)

	cot, err := engine.Crear(sesion(entity.RolComercial), "con-1", desde, hasta, "nota")
	require.NoError(t, err)
	assert.Regexp(t, `^COT-\d{4}-\d{8}$`, cot.Codigo)
	assert.Equal(t, 1, cot.Version)
	assert.Equal(t, entity.EstadoBorrador, cot.Estado)
	assert.Equal(t, "u-1", cot.CreadaPor)
}

func TestCrear_FechaFinAnteriorAInicio(t *testing.T) {
	engine, _ := nuevoMotor(t)
	desde := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := engine.Crear(sesion(entity.RolComercial), "con-1", desde, desde.AddDate(0, -1, 0), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrear_SinPermiso(t *testing.T) {
	engine, _ := nuevoMotor(t)
	_, err := engine.Crear(sesion(entity.RolConsulta), "con-1", time.Now(), time.Now().AddDate(1, 0, 0), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestNuevaVersion_ProtocoloCompleto(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoVigente)
	require.NoError(t, repo.ReemplazarItems(id, []*entity.CotizacionItem{itemValido()}))
	itemsAnteriores, _ := repo.GetItems(id)

	editado := itemValido()
	editado.PrecioUnitario = decimal.NewFromInt(150)
	nueva, err := engine.NuevaVersion(sesion(entity.RolComercial), id, []*entity.CotizacionItem{itemValido(), editado})
	require.NoError(t, err)

	// La versión nueva comparte código, incrementa versión y parte en BORRADOR.
	assert.Equal(t, "COT-2025-00000099", nueva.Codigo)
	assert.Equal(t, 2, nueva.Version)
	assert.Equal(t, entity.EstadoBorrador, nueva.Estado)

	// La anterior queda REEMPLAZADA y su lista de ítems intacta.
	anterior, _ := repo.GetByID(id)
	assert.Equal(t, entity.EstadoReemplazada, anterior.Estado)
	itemsDespues, _ := repo.GetItems(id)
	assert.Equal(t, itemsAnteriores, itemsDespues, "los ítems de la versión anterior no se tocan")

	// La nueva recibe la lista completa renumerada 1..N.
	itemsNueva, _ := repo.GetItems(nueva.ID)
	require.Len(t, itemsNueva, 2)
	assert.Equal(t, 1, itemsNueva[0].Numero)
	assert.Equal(t, 2, itemsNueva[1].Numero)
	assert.Equal(t, nueva.ID, itemsNueva[0].CotizacionID)
}

func TestNuevaVersion_FalloEnItemsDejaVersionVaciaRecuperable(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoVigente)
	repo.failReemplazarItems = errors.New("timeout")

	_, err := engine.NuevaVersion(sesion(entity.RolComercial), id, []*entity.CotizacionItem{itemValido()})
	require.Error(t, err)

	// La versión nueva existe en BORRADOR sin ítems: estado visible y
	// recuperable reenviando, sin rollback compensatorio.
	versiones, _ := repo.ListVersiones("COT-2025-00000099")
	assert.Len(t, versiones, 2)
	for _, v := range versiones {
		if v.Version == 2 {
			items, _ := repo.GetItems(v.ID)
			assert.Empty(t, items, "la versión nueva queda sin ítems hasta reenviar")
		}
	}
}

func TestNuevaVersion_SinPermiso(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoVigente)

	_, err := engine.NuevaVersion(sesion(entity.RolConsulta), id, []*entity.CotizacionItem{itemValido()})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEnviarItems_ValidaEstructura(t *testing.T) {
	engine, repo := nuevoMotor(t)
	id := cotizacionEnEstado(t, repo, entity.EstadoBorrador)

	sinServicio := itemValido()
	sinServicio.ServicioID = ""
	assert.ErrorIs(t, engine.EnviarItems(id, []*entity.CotizacionItem{sinServicio}), domain.ErrInvalidInput)

	cantidadCero := itemValido()
	cantidadCero.Cantidad = decimal.Zero
	assert.ErrorIs(t, engine.EnviarItems(id, []*entity.CotizacionItem{cantidadCero}), domain.ErrInvalidInput)

	precioNegativo := itemValido()
	precioNegativo.PrecioUnitario = decimal.NewFromInt(-1)
	assert.ErrorIs(t, engine.EnviarItems(id, []*entity.CotizacionItem{precioNegativo}), domain.ErrInvalidInput)
}

// La lista de una versión ya enviada es historial: la escritura al por mayor
// solo se admite en BORRADOR, lo demás pasa por el protocolo de versionado.
func TestEnviarItems_SoloVersionEnBorrador(t *testing.T) {
	engine, repo := nuevoMotor(t)

	// Una versión reemplazada conserva su lista intacta aunque alguien intente
	// reescribirla en el lugar.
	id := cotizacionEnEstado(t, repo, entity.EstadoReemplazada)
	require.NoError(t, repo.ReemplazarItems(id, []*entity.CotizacionItem{itemValido()}))

	alterado := itemValido()
	alterado.PrecioUnitario = decimal.NewFromInt(999999)
	err := engine.EnviarItems(id, []*entity.CotizacionItem{alterado})
	assert.ErrorIs(t, err, domain.ErrEstadoTerminal)

	items, _ := repo.GetItems(id)
	require.Len(t, items, 1)
	assert.True(t, items[0].PrecioUnitario.Equal(decimal.NewFromInt(100)),
		"la lista de la versión reemplazada no se altera en el lugar")

	// Los estados no terminales posteriores al borrador tampoco la admiten.
	for _, estado := range []string{entity.EstadoEnRevision, entity.EstadoAprobada, entity.EstadoVigente} {
		id := cotizacionEnEstado(t, repo, estado)
		err := engine.EnviarItems(id, []*entity.CotizacionItem{itemValido()})
		assert.ErrorIs(t, err, domain.ErrConflict, "estado %s", estado)
	}

	assert.ErrorIs(t, engine.EnviarItems("no-existe", []*entity.CotizacionItem{itemValido()}), domain.ErrNotFound)
}
