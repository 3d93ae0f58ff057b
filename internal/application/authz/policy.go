package authz

import "github.com/jhoicas/contratos-api/internal/domain/entity"

// Action es una acción nombrada de la aplicación sujeta a autorización.
type Action string

// Acciones de la aplicación.
const (
	AccionConsultar                Action = "consultar"
	AccionClienteCrear             Action = "cliente:crear"
	AccionClienteEditar            Action = "cliente:editar"
	AccionContratoCrear            Action = "contrato:crear"
	AccionCotizacionCrear          Action = "cotizacion:crear"
	AccionCotizacionVersionar      Action = "cotizacion:versionar"
	AccionCotizacionCambiarEstado  Action = "cotizacion:cambiar-estado"
	AccionCotizacionAprobar        Action = "cotizacion:aprobar"
	AccionCotizacionRechazar       Action = "cotizacion:rechazar"
	AccionCotizacionVolverBorrador Action = "cotizacion:volver-borrador"
	AccionAsistente                Action = "asistente"
)

// politica es la tabla estática acción -> roles autorizados. Es configuración
// de solo lectura: no se deriva de datos de usuario ni se muta en runtime.
// El permiso efectivo de un usuario es la unión sobre sus roles asignados.
//
// Las acciones de revisión (aprobar, rechazar, volver a borrador) quedan
// restringidas a Owner y Gerencial/TeamLeader; el resto de las transiciones
// las gobierna solo el catálogo.
var politica = map[Action][]string{
	AccionConsultar: {
		entity.RolOwner, entity.RolGerencial, entity.RolComercial,
		entity.RolOperaciones, entity.RolConsulta,
	},
	AccionClienteCrear:  {entity.RolOwner, entity.RolGerencial, entity.RolComercial},
	AccionClienteEditar: {entity.RolOwner, entity.RolGerencial, entity.RolComercial},
	AccionContratoCrear: {entity.RolOwner, entity.RolGerencial, entity.RolComercial},
	AccionCotizacionCrear: {
		entity.RolOwner, entity.RolGerencial, entity.RolComercial,
	},
	AccionCotizacionVersionar: {
		entity.RolOwner, entity.RolGerencial, entity.RolComercial,
	},
	AccionCotizacionCambiarEstado: {
		entity.RolOwner, entity.RolGerencial, entity.RolComercial, entity.RolOperaciones,
	},
	AccionCotizacionAprobar:        {entity.RolOwner, entity.RolGerencial},
	AccionCotizacionRechazar:       {entity.RolOwner, entity.RolGerencial},
	AccionCotizacionVolverBorrador: {entity.RolOwner, entity.RolGerencial},
	AccionAsistente: {
		entity.RolOwner, entity.RolGerencial, entity.RolComercial,
	},
}
