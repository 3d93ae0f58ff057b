package repository

import "github.com/jhoicas/contratos-api/internal/domain/entity"

// TransicionRepository es el catálogo de transiciones: la autoridad externa
// que enumera qué cambios de estado son legales para un estado dado. El motor
// de ciclo de vida no reconstruye este catálogo, solo lo consulta y filtra.
type TransicionRepository interface {
	// ListByEstado retorna las transiciones ofrecibles desde el estado.
	// Para estados terminales el conjunto es vacío.
	ListByEstado(estado string) ([]entity.Transicion, error)
}
