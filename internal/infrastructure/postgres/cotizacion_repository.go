package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// Asegura que CotizacionRepo implementa repository.CotizacionRepository.
var _ repository.CotizacionRepository = (*CotizacionRepo)(nil)

// CotizacionRepo implementación del puerto CotizacionRepository sobre
// PostgreSQL. Las operaciones del protocolo de versionado (crear versión,
// reemplazar ítems, cambiar estado) corren cada una en su propia transacción;
// recibe el pool y no un Querier porque necesita abrirlas.
type CotizacionRepo struct {
	pool *pgxpool.Pool
}

// NewCotizacionRepository construye el adaptador de persistencia de cotizaciones.
func NewCotizacionRepository(pool *pgxpool.Pool) *CotizacionRepo {
	return &CotizacionRepo{pool: pool}
}

const cotizacionColumns = `id, contrato_id, codigo, version, estado, vigencia_desde, vigencia_hasta, nota, creada_por, created_at`

// Create persiste una cotización nueva (versión 1, BORRADOR) y completa
// Codigo y Version. El correlativo del código sale de una secuencia de la
// base: único, creciente y nunca reutilizado aunque la transacción falle.
func (r *CotizacionRepo) Create(cot *entity.Cotizacion) error {
	ctx := context.Background()
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('cotizaciones_codigo_seq')`).Scan(&n); err != nil {
		return fmt.Errorf("siguiente correlativo: %w", err)
	}
	cot.Codigo = fmt.Sprintf("COT-%d-%08d", time.Now().Year(), n)
	cot.Version = 1

	query := `
		INSERT INTO cotizaciones (` + cotizacionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		cot.ID, cot.ContratoID, cot.Codigo, cot.Version, cot.Estado,
		cot.VigenciaDesde, cot.VigenciaHasta, cot.Nota, cot.CreadaPor, cot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cotizacion: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *CotizacionRepo) GetByID(id string) (*entity.Cotizacion, error) {
	query := `SELECT ` + cotizacionColumns + ` FROM cotizaciones WHERE id = $1`
	cot, err := scanCotizacion(r.pool.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotizacion: %w", err)
	}
	return cot, nil
}

// ListByContrato lista las cotizaciones de un contrato, más recientes primero.
func (r *CotizacionRepo) ListByContrato(contratoID string) ([]*entity.Cotizacion, error) {
	query := `SELECT ` + cotizacionColumns + `
		FROM cotizaciones WHERE contrato_id = $1
		ORDER BY codigo, version DESC`
	return r.queryCotizaciones(query, contratoID)
}

// ListVersiones retorna todas las versiones de un código, ascendente. Todas
// se conservan: el detalle de una versión reemplazada sigue consultable.
func (r *CotizacionRepo) ListVersiones(codigo string) ([]*entity.Cotizacion, error) {
	query := `SELECT ` + cotizacionColumns + `
		FROM cotizaciones WHERE codigo = $1
		ORDER BY version`
	return r.queryCotizaciones(query, codigo)
}

// CrearVersion crea la versión siguiente del mismo código (BORRADOR, sin
// ítems) y marca la actual como REEMPLAZADA, en una sola transacción. La fila
// de la versión anterior y sus ítems no se tocan.
func (r *CotizacionRepo) CrearVersion(cotizacionID string) (*entity.Cotizacion, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + cotizacionColumns + ` FROM cotizaciones WHERE id = $1 FOR UPDATE`
	anterior, err := scanCotizacion(tx.QueryRow(ctx, query, cotizacionID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get cotizacion: %w", err)
	}

	nueva := &entity.Cotizacion{
		ID:            uuid.New().String(),
		ContratoID:    anterior.ContratoID,
		Codigo:        anterior.Codigo,
		Version:       anterior.Version + 1,
		Estado:        entity.EstadoBorrador,
		VigenciaDesde: anterior.VigenciaDesde,
		VigenciaHasta: anterior.VigenciaHasta,
		Nota:          anterior.Nota,
		CreadaPor:     anterior.CreadaPor,
		CreatedAt:     time.Now(),
	}
	insert := `
		INSERT INTO cotizaciones (` + cotizacionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := tx.Exec(ctx, insert,
		nueva.ID, nueva.ContratoID, nueva.Codigo, nueva.Version, nueva.Estado,
		nueva.VigenciaDesde, nueva.VigenciaHasta, nueva.Nota, nueva.CreadaPor, nueva.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert version: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE cotizaciones SET estado = $2 WHERE id = $1`,
		anterior.ID, entity.EstadoReemplazada,
	); err != nil {
		return nil, fmt.Errorf("marcar reemplazada: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return nueva, nil
}

// GetItems retorna los ítems de la versión, por número ascendente.
func (r *CotizacionRepo) GetItems(cotizacionID string) ([]*entity.CotizacionItem, error) {
	query := `
		SELECT id, cotizacion_id, numero, servicio_id, proveedor_id, cantidad,
		       precio_unitario, moneda_id, periodicidad, facturar_desde,
		       facturar_hasta, atributos, nota, created_at
		FROM cotizacion_items WHERE cotizacion_id = $1 ORDER BY numero`
	rows, err := r.pool.Query(context.Background(), query, cotizacionID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()

	var list []*entity.CotizacionItem
	for rows.Next() {
		var it entity.CotizacionItem
		if err := rows.Scan(
			&it.ID, &it.CotizacionID, &it.Numero, &it.ServicioID, &it.ProveedorID,
			&it.Cantidad, &it.PrecioUnitario, &it.MonedaID, &it.Periodicidad,
			&it.FacturarDesde, &it.FacturarHasta, &it.Atributos, &it.Nota, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ReemplazarItems escribe la lista completa de ítems de la versión (borrado +
// inserción) en una sola transacción. No hay diff: la lista anterior se
// descarta al por mayor.
func (r *CotizacionRepo) ReemplazarItems(cotizacionID string, items []*entity.CotizacionItem) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM cotizacion_items WHERE cotizacion_id = $1`, cotizacionID,
	); err != nil {
		return fmt.Errorf("borrar items: %w", err)
	}
	insert := `
		INSERT INTO cotizacion_items (id, cotizacion_id, numero, servicio_id, proveedor_id,
			cantidad, precio_unitario, moneda_id, periodicidad, facturar_desde,
			facturar_hasta, atributos, nota, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for _, it := range items {
		if _, err := tx.Exec(ctx, insert,
			it.ID, it.CotizacionID, it.Numero, it.ServicioID, it.ProveedorID,
			it.Cantidad, it.PrecioUnitario, it.MonedaID, it.Periodicidad,
			it.FacturarDesde, it.FacturarHasta, it.Atributos, it.Nota, it.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert item %d: %w", it.Numero, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CambiarEstado actualiza el estado de la cotización y registra el cambio con
// su auditoría (quién, cuándo, comentario, motivo) en la misma transacción.
// El update exige el estado de origen como precondición: si otro actor ya
// movió la cotización desde que el llamador la leyó, no afecta ninguna fila y
// la transición falla con ErrConflict en vez de pisar la ajena.
func (r *CotizacionRepo) CambiarEstado(cambio *entity.CambioEstado) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmd, err := tx.Exec(ctx,
		`UPDATE cotizaciones SET estado = $2 WHERE id = $1 AND estado = $3`,
		cambio.CotizacionID, cambio.EstadoDestino, cambio.EstadoOrigen,
	)
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var existe bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM cotizaciones WHERE id = $1)`,
			cambio.CotizacionID,
		).Scan(&existe); err != nil {
			return fmt.Errorf("verificar cotizacion: %w", err)
		}
		if !existe {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO cambios_estado (id, cotizacion_id, transicion_id, estado_origen,
			estado_destino, comentario, motivo_rechazo, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		cambio.ID, cambio.CotizacionID, cambio.TransicionID, cambio.EstadoOrigen,
		cambio.EstadoDestino, cambio.Comentario, cambio.MotivoRechazo,
		cambio.UsuarioID, cambio.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert cambio de estado: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetHistorial retorna los cambios de estado registrados, más antiguos primero.
func (r *CotizacionRepo) GetHistorial(cotizacionID string) ([]*entity.CambioEstado, error) {
	query := `
		SELECT id, cotizacion_id, transicion_id, estado_origen, estado_destino,
		       comentario, motivo_rechazo, usuario_id, created_at
		FROM cambios_estado WHERE cotizacion_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(context.Background(), query, cotizacionID)
	if err != nil {
		return nil, fmt.Errorf("get historial: %w", err)
	}
	defer rows.Close()

	var list []*entity.CambioEstado
	for rows.Next() {
		var c entity.CambioEstado
		if err := rows.Scan(
			&c.ID, &c.CotizacionID, &c.TransicionID, &c.EstadoOrigen, &c.EstadoDestino,
			&c.Comentario, &c.MotivoRechazo, &c.UsuarioID, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cambio: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CotizacionRepo) queryCotizaciones(query string, args ...any) ([]*entity.Cotizacion, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cotizaciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.Cotizacion
	for rows.Next() {
		cot, err := scanCotizacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cotizacion: %w", err)
		}
		list = append(list, cot)
	}
	return list, rows.Err()
}

func scanCotizacion(row pgx.Row) (*entity.Cotizacion, error) {
	var c entity.Cotizacion
	err := row.Scan(
		&c.ID, &c.ContratoID, &c.Codigo, &c.Version, &c.Estado,
		&c.VigenciaDesde, &c.VigenciaHasta, &c.Nota, &c.CreadaPor, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
