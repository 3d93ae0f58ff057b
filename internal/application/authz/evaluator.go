// Package authz centraliza la evaluación de permisos. Los llamadores deben
// consultar estos predicados y nunca comparar nombres de rol directamente.
package authz

import "time"

// Session es el contexto de identidad explícito de una petición: usuario,
// roles asignados y expiración como timestamp comparado al momento de cada
// consulta (no hay estado de sesión ambiente ni timers).
type Session struct {
	UserID    string
	Roles     []string
	ExpiresAt time.Time
}

// Expirada indica si la sesión venció. Una sesión sin expiración (zero) no
// vence.
func (s Session) Expirada() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Evaluator evalúa acciones contra la tabla estática de política.
type Evaluator struct {
	politica map[Action][]string
}

// NewEvaluator construye el evaluador con la tabla de política de la
// aplicación.
func NewEvaluator() *Evaluator {
	return &Evaluator{politica: politica}
}

// Can indica si la sesión puede ejecutar la acción: algún rol asignado figura
// en la lista de roles autorizados. Una sesión expirada no puede nada.
func (e *Evaluator) Can(s Session, accion Action) bool {
	if s.Expirada() {
		return false
	}
	autorizados, ok := e.politica[accion]
	if !ok {
		return false
	}
	for _, rol := range s.Roles {
		for _, a := range autorizados {
			if rol == a {
				return true
			}
		}
	}
	return false
}

// CanAny indica si la sesión puede ejecutar al menos una de las acciones.
func (e *Evaluator) CanAny(s Session, acciones ...Action) bool {
	for _, a := range acciones {
		if e.Can(s, a) {
			return true
		}
	}
	return false
}

// CanAll indica si la sesión puede ejecutar todas las acciones.
func (e *Evaluator) CanAll(s Session, acciones ...Action) bool {
	for _, a := range acciones {
		if !e.Can(s, a) {
			return false
		}
	}
	return true
}

// HasRole indica si la sesión tiene exactamente ese nombre de rol asignado.
func (e *Evaluator) HasRole(s Session, rol string) bool {
	if s.Expirada() {
		return false
	}
	for _, r := range s.Roles {
		if r == rol {
			return true
		}
	}
	return false
}
