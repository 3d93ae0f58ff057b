// Package asistente implementa el asistente de creación guiada: cinco pasos
// ordenados que acumulan un borrador transitorio (contrato nuevo o existente,
// ventana de vigencia, ítems multi-moneda) y lo confirman como una secuencia
// de operaciones contra el motor de cotizaciones.
package asistente

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/application/cotizacion"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
	"github.com/jhoicas/contratos-api/pkg/rut"
)

// Orquestador administra los borradores del asistente: exactamente uno por
// usuario, en memoria, descartado al confirmar o reiniciar.
type Orquestador struct {
	mu         sync.Mutex
	borradores map[string]*Borrador

	clienteRepo  repository.ClienteRepository
	contratoRepo repository.ContratoRepository
	servicioRepo repository.ServicioRepository
	monedaRepo   repository.MonedaRepository
	motor        *cotizacion.Engine
	permisos     *authz.Evaluator
}

// NewOrquestador construye el orquestador.
func NewOrquestador(
	clienteRepo repository.ClienteRepository,
	contratoRepo repository.ContratoRepository,
	servicioRepo repository.ServicioRepository,
	monedaRepo repository.MonedaRepository,
	motor *cotizacion.Engine,
	permisos *authz.Evaluator,
) *Orquestador {
	return &Orquestador{
		borradores:   map[string]*Borrador{},
		clienteRepo:  clienteRepo,
		contratoRepo: contratoRepo,
		servicioRepo: servicioRepo,
		monedaRepo:   monedaRepo,
		motor:        motor,
		permisos:     permisos,
	}
}

// Iniciar crea un borrador vacío en el paso 1 para el usuario. Si ya había
// uno en curso, lo reemplaza: el orquestador mantiene un solo borrador por
// usuario.
func (o *Orquestador) Iniciar(ses authz.Session) (*Borrador, error) {
	if !o.permisos.Can(ses, authz.AccionAsistente) {
		return nil, domain.ErrForbidden
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	b := &Borrador{Paso: PasoTipoOperacion}
	o.borradores[ses.UserID] = b
	return snapshot(b), nil
}

// Obtener retorna el borrador en curso del usuario.
func (o *Orquestador) Obtener(userID string) (*Borrador, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	return snapshot(b), nil
}

// Reiniciar descarta el borrador en curso.
func (o *Orquestador) Reiniciar(userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.borradores, userID)
}

// SeleccionarTipo fija la rama del paso 1 y avanza al paso 2. Elegir rama es
// siempre válido; la rama de contrato nuevo exige además permiso para crear
// contratos.
func (o *Orquestador) SeleccionarTipo(ses authz.Session, tipo TipoOperacion) (*Borrador, error) {
	if tipo != ContratoNuevo && tipo != ContratoExistente {
		return nil, domain.ErrInvalidInput
	}
	if tipo == ContratoNuevo && !o.permisos.Can(ses, authz.AccionContratoCrear) {
		return nil, domain.ErrForbidden
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(ses.UserID)
	if err != nil {
		return nil, err
	}
	b.Tipo = tipo
	b.Paso = PasoDatosContrato
	return snapshot(b), nil
}

// ResolverCliente busca el cliente por RUT (coincidencia exacta) para la rama
// de contrato nuevo. Un RUT malformado es error de validación; un RUT válido
// sin cliente retorna ErrClienteNotFound, un error local y recuperable que no
// invalida el resto del borrador.
func (o *Orquestador) ResolverCliente(userID, rutCliente string) (*entity.Cliente, error) {
	if !rut.Validate(rutCliente) {
		return nil, domain.ErrInvalidInput
	}
	canonico := rut.Clean(rutCliente)
	cliente, err := o.clienteRepo.GetByRUT(canonico)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrClienteNotFound
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	b.Nuevo.ClienteRUT = cliente.RUT
	b.Nuevo.ClienteNombre = cliente.Nombre
	return cliente, nil
}

// DefinirContratoNuevo registra el espacio de código, el código y las fechas
// del contrato a crear. La fecha de término no puede preceder a la de inicio.
func (o *Orquestador) DefinirContratoNuevo(userID, tipoCodigo, codigo string, inicio, fin time.Time) (*Borrador, error) {
	if !entity.TipoCodigoValido(tipoCodigo) || strings.TrimSpace(codigo) == "" {
		return nil, domain.ErrInvalidInput
	}
	if inicio.IsZero() || fin.IsZero() || fin.Before(inicio) {
		return nil, domain.ErrInvalidInput
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	if b.Tipo != ContratoNuevo {
		return nil, domain.ErrInvalidInput
	}
	b.Nuevo.TipoCodigo = tipoCodigo
	b.Nuevo.Codigo = strings.TrimSpace(codigo)
	b.Nuevo.FechaInicio = inicio
	b.Nuevo.FechaFin = fin
	b.ContratoDesde = inicio
	b.ContratoHasta = fin
	return snapshot(b), nil
}

// BuscarContratos busca contratos para la rama existente. La búsqueda del
// asistente se limita a contratos vigentes, con o sin filtros de RUT o nombre;
// incluirVencidos levanta ese límite de forma explícita.
func (o *Orquestador) BuscarContratos(filtros repository.ContratoFiltros, incluirVencidos bool) ([]*entity.Contrato, error) {
	filtros.SoloVigentes = !incluirVencidos
	if filtros.ClienteRUT != "" {
		filtros.ClienteRUT = rut.Clean(filtros.ClienteRUT)
	}
	return o.contratoRepo.List(filtros)
}

// SeleccionarContrato fija el contrato de la rama existente (exactamente uno).
func (o *Orquestador) SeleccionarContrato(userID, contratoID string) (*Borrador, error) {
	contrato, err := o.contratoRepo.GetByID(contratoID)
	if err != nil {
		return nil, err
	}
	if contrato == nil {
		return nil, domain.ErrNotFound
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	if b.Tipo != ContratoExistente {
		return nil, domain.ErrInvalidInput
	}
	b.ContratoID = contrato.ID
	b.ContratoDesde = contrato.FechaInicio
	b.ContratoHasta = contrato.FechaFin
	return snapshot(b), nil
}

// DefinirVentana registra la ventana de vigencia de la cotización y la nota.
// Las fechas son editables respecto del contrato (por ejemplo para modelar un
// período de gracia), pero el término no puede preceder al inicio.
func (o *Orquestador) DefinirVentana(userID string, desde, hasta time.Time, nota string) (*Borrador, error) {
	if !desde.IsZero() && !hasta.IsZero() && hasta.Before(desde) {
		return nil, domain.ErrInvalidInput
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	b.VigenciaDesde = desde
	b.VigenciaHasta = hasta
	b.Nota = nota
	return snapshot(b), nil
}

// AgregarItem agrega una línea al borrador. La línea puede quedar incompleta
// mientras se edita; la puerta del paso 4 la exigirá completa para avanzar.
func (o *Orquestador) AgregarItem(userID string, item ItemBorrador) (*Borrador, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	b.Items = append(b.Items, item)
	return snapshot(b), nil
}

// ActualizarItem reemplaza la línea en la posición dada. Si cambió el
// servicio, la selección de proveedor se descarta: la lista de proveedores
// depende del servicio y debe recargarse.
func (o *Orquestador) ActualizarItem(userID string, indice int, item ItemBorrador) (*Borrador, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	if indice < 0 || indice >= len(b.Items) {
		return nil, domain.ErrInvalidInput
	}
	if b.Items[indice].ServicioID != item.ServicioID {
		item.ProveedorID = ""
	}
	b.Items[indice] = item
	return snapshot(b), nil
}

// QuitarItem elimina la línea en la posición dada.
func (o *Orquestador) QuitarItem(userID string, indice int) (*Borrador, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	if indice < 0 || indice >= len(b.Items) {
		return nil, domain.ErrInvalidInput
	}
	b.Items = append(b.Items[:indice], b.Items[indice+1:]...)
	return snapshot(b), nil
}

// ProveedoresDisponibles retorna los proveedores habilitados para un servicio
// (la lista se recarga cada vez que cambia la selección de servicio).
func (o *Orquestador) ProveedoresDisponibles(servicioID string) ([]*entity.Proveedor, error) {
	return o.servicioRepo.ProveedoresPorServicio(servicioID)
}

// Avanzar pasa al paso siguiente si la puerta del paso actual lo permite.
// Al entrar al paso 3, la ventana de vigencia y la nota toman sus valores por
// defecto (fechas del contrato y frase fija) si aún no fueron ingresadas.
func (o *Orquestador) Avanzar(userID string) (*Borrador, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	if b.Paso >= PasoResumen {
		return nil, domain.ErrInvalidInput
	}
	if !b.PasoValido(b.Paso) {
		return nil, domain.ErrInvalidInput
	}
	b.Paso++
	if b.Paso == PasoVentana {
		if b.VigenciaDesde.IsZero() {
			b.VigenciaDesde = b.ContratoDesde
		}
		if b.VigenciaHasta.IsZero() {
			b.VigenciaHasta = b.ContratoHasta
		}
		if b.Nota == "" {
			b.Nota = NotaPorDefecto
		}
	}
	return snapshot(b), nil
}

// Retroceder vuelve al paso anterior. Siempre está permitido y no borra lo ya
// ingresado en el paso que se abandona ni en el que se reingresa.
func (o *Orquestador) Retroceder(userID string) (*Borrador, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, err := o.borrador(userID)
	if err != nil {
		return nil, err
	}
	if b.Paso > PasoTipoOperacion {
		b.Paso--
	}
	return snapshot(b), nil
}

// Resultado de una confirmación exitosa.
type Resultado struct {
	ContratoID   string
	CotizacionID string
	Codigo       string
	Version      int
}

// Confirmar ejecuta la secuencia de creación en orden: contrato (crear o
// reutilizar), cotización e ítems al por mayor. Ante el primer fallo la
// secuencia se aborta y el error se retorna; los pasos ya comprometidos en la
// persistencia no se revierten (una cotización puede quedar en BORRADOR sin
// ítems) y el borrador se conserva para reintentar. Solo una confirmación a
// la vez por borrador.
func (o *Orquestador) Confirmar(ses authz.Session) (*Resultado, error) {
	o.mu.Lock()
	b, err := o.borrador(ses.UserID)
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	if b.Paso != PasoResumen {
		o.mu.Unlock()
		return nil, domain.ErrInvalidInput
	}
	for _, p := range []Paso{PasoTipoOperacion, PasoDatosContrato, PasoVentana, PasoItems} {
		if !b.PasoValido(p) {
			o.mu.Unlock()
			return nil, domain.ErrInvalidInput
		}
	}
	if b.confirmando {
		o.mu.Unlock()
		return nil, domain.ErrConflict
	}
	b.confirmando = true
	borrador := snapshot(b)
	o.mu.Unlock()

	resultado, err := o.ejecutarConfirmacion(ses, borrador)

	o.mu.Lock()
	defer o.mu.Unlock()
	if actual, ok := o.borradores[ses.UserID]; ok {
		actual.confirmando = false
	}
	if err != nil {
		return nil, err
	}
	delete(o.borradores, ses.UserID)
	return resultado, nil
}

// ejecutarConfirmacion corre la secuencia remota fuera del lock. No hay llave
// de idempotencia: reintentar tras un fallo parcial puede duplicar contrato o
// cotización (limitación conocida del protocolo de confirmación).
func (o *Orquestador) ejecutarConfirmacion(ses authz.Session, b *Borrador) (*Resultado, error) {
	contratoID := b.ContratoID
	if b.Tipo == ContratoNuevo {
		contrato := &entity.Contrato{
			ID:          uuid.New().String(),
			ClienteRUT:  b.Nuevo.ClienteRUT,
			TipoCodigo:  b.Nuevo.TipoCodigo,
			Codigo:      b.Nuevo.Codigo,
			FechaInicio: b.Nuevo.FechaInicio,
			FechaFin:    b.Nuevo.FechaFin,
			CreatedAt:   time.Now(),
		}
		if err := o.contratoRepo.Create(contrato); err != nil {
			return nil, err
		}
		contratoID = contrato.ID
	}

	cot, err := o.motor.Crear(ses, contratoID, b.VigenciaDesde, b.VigenciaHasta, b.Nota)
	if err != nil {
		return nil, err
	}

	items := make([]*entity.CotizacionItem, len(b.Items))
	for i, item := range b.Items {
		items[i] = &entity.CotizacionItem{
			ServicioID:     item.ServicioID,
			ProveedorID:    item.ProveedorID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			MonedaID:       item.MonedaID,
			Periodicidad:   item.Periodicidad,
			FacturarDesde:  item.FacturarDesde,
			FacturarHasta:  item.FacturarHasta,
			Atributos:      item.Atributos,
			Nota:           item.Nota,
		}
	}
	if err := o.motor.EnviarItems(cot.ID, items); err != nil {
		return nil, err
	}

	return &Resultado{
		ContratoID:   contratoID,
		CotizacionID: cot.ID,
		Codigo:       cot.Codigo,
		Version:      cot.Version,
	}, nil
}

// borrador retorna el borrador del usuario; debe llamarse con el lock tomado.
func (o *Orquestador) borrador(userID string) (*Borrador, error) {
	b, ok := o.borradores[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// snapshot copia el borrador para entregarlo fuera del lock. Los atributos de
// cada línea se copian en profundidad: la copia no comparte mapas con el
// borrador almacenado.
func snapshot(b *Borrador) *Borrador {
	copia := *b
	copia.Items = make([]ItemBorrador, len(b.Items))
	copy(copia.Items, b.Items)
	for i := range copia.Items {
		if b.Items[i].Atributos == nil {
			continue
		}
		atributos := make(map[string]any, len(b.Items[i].Atributos))
		for k, v := range b.Items[i].Atributos {
			atributos[k] = v
		}
		copia.Items[i].Atributos = atributos
	}
	return &copia
}
