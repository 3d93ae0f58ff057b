package asistente_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contratos-api/internal/application/asistente"
	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/application/cotizacion"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[string]*entity.Cliente
}

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

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

type fakeContratoRepo struct {
	contratos      map[string]*entity.Contrato
	failCreate     error
	ultimosFiltros repository.ContratoFiltros
}

var _ repository.ContratoRepository = (*fakeContratoRepo)(nil)

func (r *fakeContratoRepo) Create(c *entity.Contrato) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	copia := *c
	r.contratos[c.ID] = &copia
	return nil
}

func (r *fakeContratoRepo) GetByID(id string) (*entity.Contrato, error) {
	c, ok := r.contratos[id]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (r *fakeContratoRepo) List(filtros repository.ContratoFiltros) ([]*entity.Contrato, error) {
	r.ultimosFiltros = filtros
	var out []*entity.Contrato
	for _, c := range r.contratos {
		if filtros.ClienteRUT != "" && c.ClienteRUT != filtros.ClienteRUT {
			continue
		}
		if filtros.SoloVigentes && !c.Vigente(time.Now()) {
			continue
		}
		copia := *c
		out = append(out, &copia)
	}
	return out, nil
}

type fakeServicioRepo struct {
	proveedores map[string][]*entity.Proveedor
}

var _ repository.ServicioRepository = (*fakeServicioRepo)(nil)

func (r *fakeServicioRepo) List() ([]*entity.Servicio, error)           { return nil, nil }
func (r *fakeServicioRepo) GetByID(id string) (*entity.Servicio, error) { return nil, nil }
func (r *fakeServicioRepo) ProveedoresPorServicio(servicioID string) ([]*entity.Proveedor, error) {
	return r.proveedores[servicioID], nil
}

type fakeMonedaRepo struct {
	monedas map[string]*entity.Moneda
}

var _ repository.MonedaRepository = (*fakeMonedaRepo)(nil)

func (r *fakeMonedaRepo) List() ([]*entity.Moneda, error) { return nil, nil }
func (r *fakeMonedaRepo) GetByID(id string) (*entity.Moneda, error) {
	m, ok := r.monedas[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

// fakeCotizacionRepo implementa lo que el asistente ejercita: crear con código
// asignado y reemplazo de ítems al por mayor.
type fakeCotizacionRepo struct {
	cotizaciones map[string]*entity.Cotizacion
	items        map[string][]*entity.CotizacionItem
	seq          int

	failReemplazarItems error
}

var _ repository.CotizacionRepository = (*fakeCotizacionRepo)(nil)

func (r *fakeCotizacionRepo) Create(cot *entity.Cotizacion) error {
	r.seq++
	cot.Codigo = fmt.Sprintf("COT-2025-%08d", r.seq)
	cot.Version = 1
	copia := *cot
	r.cotizaciones[cot.ID] = &copia
	return nil
}

func (r *fakeCotizacionRepo) GetByID(id string) (*entity.Cotizacion, error) {
	c, ok := r.cotizaciones[id]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (r *fakeCotizacionRepo) ListByContrato(string) ([]*entity.Cotizacion, error) { return nil, nil }
func (r *fakeCotizacionRepo) ListVersiones(string) ([]*entity.Cotizacion, error)  { return nil, nil }
func (r *fakeCotizacionRepo) CrearVersion(string) (*entity.Cotizacion, error) {
	return nil, errors.New("no usado en estas pruebas")
}

func (r *fakeCotizacionRepo) GetItems(cotizacionID string) ([]*entity.CotizacionItem, error) {
	return r.items[cotizacionID], nil
}

func (r *fakeCotizacionRepo) ReemplazarItems(cotizacionID string, items []*entity.CotizacionItem) error {
	if r.failReemplazarItems != nil {
		return r.failReemplazarItems
	}
	r.items[cotizacionID] = items
	return nil
}

func (r *fakeCotizacionRepo) CambiarEstado(*entity.CambioEstado) error { return nil }
func (r *fakeCotizacionRepo) GetHistorial(string) ([]*entity.CambioEstado, error) {
	return nil, nil
}

type fakeTransicionRepo struct{}

var _ repository.TransicionRepository = (*fakeTransicionRepo)(nil)

func (fakeTransicionRepo) ListByEstado(string) ([]entity.Transicion, error) { return nil, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type banco struct {
	orq       *asistente.Orquestador
	clientes  *fakeClienteRepo
	contratos *fakeContratoRepo
	cots      *fakeCotizacionRepo
}

func nuevoBanco() *banco {
	clientes := &fakeClienteRepo{clientes: map[string]*entity.Cliente{}}
	contratos := &fakeContratoRepo{contratos: map[string]*entity.Contrato{}}
	servicios := &fakeServicioRepo{proveedores: map[string][]*entity.Proveedor{}}
	monedas := &fakeMonedaRepo{monedas: map[string]*entity.Moneda{
		"CLP": {ID: "CLP", Nombre: "Peso chileno", Simbolo: "$", Decimales: 0},
		"UF":  {ID: "UF", Nombre: "Unidad de fomento", Simbolo: "UF", Decimales: 2},
	}}
	cots := &fakeCotizacionRepo{
		cotizaciones: map[string]*entity.Cotizacion{},
		items:        map[string][]*entity.CotizacionItem{},
	}
	permisos := authz.NewEvaluator()
	motor := cotizacion.NewEngine(cots, fakeTransicionRepo{}, permisos)
	orq := asistente.NewOrquestador(clientes, contratos, servicios, monedas, motor, permisos)
	return &banco{orq: orq, clientes: clientes, contratos: contratos, cots: cots}
}

func sesionComercial() authz.Session {
	return authz.Session{UserID: "u-1", Roles: []string{entity.RolComercial}}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func itemCompleto() asistente.ItemBorrador {
	return asistente.ItemBorrador{
		ServicioID:     "srv-guardia",
		Cantidad:       d("2"),
		PrecioUnitario: d("100"),
		MonedaID:       "CLP",
		Periodicidad:   entity.PeriodicidadMensual,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Puertas de avance
// ──────────────────────────────────────────────────────────────────────────────

func TestIniciar_RequierePermiso(t *testing.T) {
	b := nuevoBanco()
	_, err := b.orq.Iniciar(authz.Session{UserID: "u-9", Roles: []string{entity.RolConsulta}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAvanzar_Paso1SinRamaElegidaBloquea(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	_, err := b.orq.Iniciar(ses)
	require.NoError(t, err)

	_, err = b.orq.Avanzar(ses.UserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = b.orq.SeleccionarTipo(ses, asistente.ContratoNuevo)
	require.NoError(t, err)
	bor, err := b.orq.Obtener(ses.UserID)
	require.NoError(t, err)
	assert.Equal(t, asistente.PasoDatosContrato, bor.Paso)
}

// La puerta del paso 4 cambia en el instante en que cambian los datos: con un
// ítem completo se puede avanzar, quitándolo vuelve a bloquear.
func TestAvanzar_PuertaItemsEsMonotona(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	bor := borradorEnPasoItems(t, b, ses)

	_, err := b.orq.Avanzar(ses.UserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin ítems no se avanza")

	bor, err = b.orq.AgregarItem(ses.UserID, itemCompleto())
	require.NoError(t, err)
	assert.True(t, bor.PasoValido(asistente.PasoItems))

	bor, err = b.orq.QuitarItem(ses.UserID, 0)
	require.NoError(t, err)
	assert.False(t, bor.PasoValido(asistente.PasoItems))
	_, err = b.orq.Avanzar(ses.UserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAvanzar_ItemIncompletoBloquea(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnPasoItems(t, b, ses)

	incompleto := itemCompleto()
	incompleto.PrecioUnitario = decimal.Zero
	_, err := b.orq.AgregarItem(ses.UserID, incompleto)
	require.NoError(t, err)

	_, err = b.orq.Avanzar(ses.UserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetroceder_ConservaLoIngresado(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnPasoItems(t, b, ses)
	_, err := b.orq.AgregarItem(ses.UserID, itemCompleto())
	require.NoError(t, err)

	bor, err := b.orq.Retroceder(ses.UserID)
	require.NoError(t, err)
	assert.Equal(t, asistente.PasoVentana, bor.Paso)
	assert.Len(t, bor.Items, 1, "retroceder no borra los ítems")

	bor, err = b.orq.Retroceder(ses.UserID)
	require.NoError(t, err)
	assert.Equal(t, asistente.PasoDatosContrato, bor.Paso)
	assert.NotEmpty(t, bor.Nuevo.ClienteRUT, "retroceder no borra el cliente resuelto")
}

func TestReiniciar_DescartaElBorrador(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	_, err := b.orq.Iniciar(ses)
	require.NoError(t, err)

	b.orq.Reiniciar(ses.UserID)
	_, err = b.orq.Obtener(ses.UserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de cliente y ventana por defecto
// ──────────────────────────────────────────────────────────────────────────────

func TestResolverCliente_RUTMalformadoEsValidacion(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	_, err := b.orq.Iniciar(ses)
	require.NoError(t, err)

	_, err = b.orq.ResolverCliente(ses.UserID, "12345678-4")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dígito verificador incorrecto")
}

func TestResolverCliente_ValidoSinClienteEsRecuperable(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	_, err := b.orq.Iniciar(ses)
	require.NoError(t, err)
	_, err = b.orq.SeleccionarTipo(ses, asistente.ContratoNuevo)
	require.NoError(t, err)

	_, err = b.orq.ResolverCliente(ses.UserID, "12.345.678-5")
	assert.ErrorIs(t, err, domain.ErrClienteNotFound)

	// El error no invalida el borrador: registrado el cliente, el mismo RUT
	// resuelve.
	require.NoError(t, b.clientes.Create(&entity.Cliente{RUT: "12345678-5", Nombre: "ACME"}))
	cliente, err := b.orq.ResolverCliente(ses.UserID, "12.345.678-5")
	require.NoError(t, err)
	assert.Equal(t, "ACME", cliente.Nombre)
}

// La búsqueda de la rama existente siempre se limita a contratos vigentes,
// con o sin filtros; incluir vencidos exige pedirlo de forma explícita.
func TestBuscarContratos_VigentesAunConFiltros(t *testing.T) {
	b := nuevoBanco()

	_, err := b.orq.BuscarContratos(repository.ContratoFiltros{ClienteRUT: "12.345.678-5"}, false)
	require.NoError(t, err)
	assert.True(t, b.contratos.ultimosFiltros.SoloVigentes, "el filtro por RUT no levanta el límite de vigencia")
	assert.Equal(t, "12345678-5", b.contratos.ultimosFiltros.ClienteRUT, "el RUT viaja en forma canónica")

	_, err = b.orq.BuscarContratos(repository.ContratoFiltros{NombreCliente: "ACME"}, false)
	require.NoError(t, err)
	assert.True(t, b.contratos.ultimosFiltros.SoloVigentes)

	_, err = b.orq.BuscarContratos(repository.ContratoFiltros{}, true)
	require.NoError(t, err)
	assert.False(t, b.contratos.ultimosFiltros.SoloVigentes)
}

func TestAvanzar_VentanaTomaDefectosDelContrato(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	bor := borradorEnPasoVentana(t, b, ses)

	assert.Equal(t, bor.ContratoDesde, bor.VigenciaDesde)
	assert.Equal(t, bor.ContratoHasta, bor.VigenciaHasta)
	assert.Equal(t, asistente.NotaPorDefecto, bor.Nota)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmar_ContratoNuevoCreaEnOrden(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnResumen(t, b, ses)

	res, err := b.orq.Confirmar(ses)
	require.NoError(t, err)

	contrato, err := b.contratos.GetByID(res.ContratoID)
	require.NoError(t, err)
	require.NotNil(t, contrato)
	assert.Equal(t, "12345678-5", contrato.ClienteRUT)

	cot, err := b.cots.GetByID(res.CotizacionID)
	require.NoError(t, err)
	require.NotNil(t, cot)
	assert.Equal(t, entity.EstadoBorrador, cot.Estado)
	assert.Equal(t, 1, cot.Version)
	assert.Regexp(t, `^COT-\d{4}-\d{8}$`, res.Codigo)

	items := b.cots.items[res.CotizacionID]
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Numero)

	// Confirmado, el borrador se descarta.
	_, err = b.orq.Obtener(ses.UserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmar_FallaDeItemsAbortaYConservaBorrador(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnResumen(t, b, ses)
	b.cots.failReemplazarItems = errors.New("timeout remoto")

	_, err := b.orq.Confirmar(ses)
	require.Error(t, err)

	// El contrato y la cotización ya creados no se revierten; la cotización
	// queda en BORRADOR sin ítems.
	assert.Len(t, b.contratos.contratos, 1)
	assert.Len(t, b.cots.cotizaciones, 1)
	for id := range b.cots.cotizaciones {
		assert.Empty(t, b.cots.items[id])
	}

	// El borrador sigue vivo para reintentar.
	bor, err := b.orq.Obtener(ses.UserID)
	require.NoError(t, err)
	assert.Equal(t, asistente.PasoResumen, bor.Paso)

	b.cots.failReemplazarItems = nil
	_, err = b.orq.Confirmar(ses)
	assert.NoError(t, err)
}

func TestConfirmar_FallaDeContratoNoCreaCotizacion(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnResumen(t, b, ses)
	b.contratos.failCreate = errors.New("violación de unicidad")

	_, err := b.orq.Confirmar(ses)
	require.Error(t, err)
	assert.Empty(t, b.cots.cotizaciones, "la secuencia aborta en el primer fallo")
}

func TestConfirmar_FueraDelResumenEsInvalido(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnPasoItems(t, b, ses)

	_, err := b.orq.Confirmar(ses)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems y resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestActualizarItem_CambioDeServicioDescartaProveedor(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnPasoItems(t, b, ses)

	item := itemCompleto()
	item.ProveedorID = "prov-1"
	_, err := b.orq.AgregarItem(ses.UserID, item)
	require.NoError(t, err)

	item.ServicioID = "srv-aseo"
	bor, err := b.orq.ActualizarItem(ses.UserID, 0, item)
	require.NoError(t, err)
	assert.Empty(t, bor.Items[0].ProveedorID)

	// Sin cambio de servicio, el proveedor se conserva.
	item = bor.Items[0]
	item.ProveedorID = "prov-2"
	bor, err = b.orq.ActualizarItem(ses.UserID, 0, item)
	require.NoError(t, err)
	assert.Equal(t, "prov-2", bor.Items[0].ProveedorID)
}

// La copia que entrega el orquestador no comparte los mapas de atributos con
// el borrador almacenado: mutarla no altera el estado interno.
func TestObtener_LaCopiaNoComparteAtributos(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnPasoItems(t, b, ses)

	item := itemCompleto()
	item.Atributos = map[string]any{"turno": "diurno"}
	_, err := b.orq.AgregarItem(ses.UserID, item)
	require.NoError(t, err)

	bor, err := b.orq.Obtener(ses.UserID)
	require.NoError(t, err)
	bor.Items[0].Atributos["turno"] = "nocturno"

	otra, err := b.orq.Obtener(ses.UserID)
	require.NoError(t, err)
	assert.Equal(t, "diurno", otra.Items[0].Atributos["turno"])
}

func TestGenerarResumen_TotalesPorMoneda(t *testing.T) {
	b := nuevoBanco()
	ses := sesionComercial()
	borradorEnPasoItems(t, b, ses)

	_, err := b.orq.AgregarItem(ses.UserID, itemCompleto())
	require.NoError(t, err)
	enUF := itemCompleto()
	enUF.MonedaID = "UF"
	enUF.Cantidad = d("1")
	enUF.PrecioUnitario = d("3.5")
	_, err = b.orq.AgregarItem(ses.UserID, enUF)
	require.NoError(t, err)

	res, err := b.orq.GenerarResumen(ses.UserID)
	require.NoError(t, err)
	require.Len(t, res.Lineas, 2)
	assert.True(t, res.Lineas[0].Subtotal.Equal(d("200")))
	assert.True(t, res.Lineas[1].Subtotal.Equal(d("3.5")))
	assert.Len(t, res.TotalesPorMon, 2, "los totales no cruzan monedas")
	assert.Equal(t, "$ 200", res.TotalesPorMon["CLP"])
	assert.Equal(t, "UF 3,50", res.TotalesPorMon["UF"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de armado de borradores
// ──────────────────────────────────────────────────────────────────────────────

// borradorEnPasoVentana deja un borrador de contrato nuevo recién entrado al
// paso 3 (con los valores por defecto aplicados).
func borradorEnPasoVentana(t *testing.T, b *banco, ses authz.Session) *asistente.Borrador {
	t.Helper()
	require.NoError(t, b.clientes.Create(&entity.Cliente{RUT: "12345678-5", Nombre: "ACME"}))

	_, err := b.orq.Iniciar(ses)
	require.NoError(t, err)
	_, err = b.orq.SeleccionarTipo(ses, asistente.ContratoNuevo)
	require.NoError(t, err)
	_, err = b.orq.ResolverCliente(ses.UserID, "12345678-5")
	require.NoError(t, err)

	inicio := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	_, err = b.orq.DefinirContratoNuevo(ses.UserID, entity.TipoCodigoSAP, "SAP-900", inicio, fin)
	require.NoError(t, err)

	bor, err := b.orq.Avanzar(ses.UserID)
	require.NoError(t, err)
	require.Equal(t, asistente.PasoVentana, bor.Paso)
	return bor
}

// borradorEnPasoItems avanza el borrador hasta el paso 4, sin ítems.
func borradorEnPasoItems(t *testing.T, b *banco, ses authz.Session) *asistente.Borrador {
	t.Helper()
	borradorEnPasoVentana(t, b, ses)
	bor, err := b.orq.Avanzar(ses.UserID)
	require.NoError(t, err)
	require.Equal(t, asistente.PasoItems, bor.Paso)
	return bor
}

// borradorEnResumen deja el borrador en el paso 5 con un ítem completo
// (cantidad 2, precio 100).
func borradorEnResumen(t *testing.T, b *banco, ses authz.Session) *asistente.Borrador {
	t.Helper()
	borradorEnPasoItems(t, b, ses)
	_, err := b.orq.AgregarItem(ses.UserID, itemCompleto())
	require.NoError(t, err)
	bor, err := b.orq.Avanzar(ses.UserID)
	require.NoError(t, err)
	require.Equal(t, asistente.PasoResumen, bor.Paso)
	return bor
}
