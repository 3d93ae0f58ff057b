package usecase

import (
	"time"

	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
	"github.com/jhoicas/contratos-api/pkg/rut"
)

// ClienteUseCase aplica reglas de negocio para clientes (casos de uso).
type ClienteUseCase struct {
	repo repository.ClienteRepository
}

// NewClienteUseCase construye el caso de uso con el puerto de persistencia.
func NewClienteUseCase(repo repository.ClienteRepository) *ClienteUseCase {
	return &ClienteUseCase{repo: repo}
}

// Create crea un cliente. El RUT se valida con su dígito verificador y se
// almacena en forma canónica; devuelve domain.ErrDuplicate si ya existe.
func (uc *ClienteUseCase) Create(in dto.CreateClienteRequest) (*dto.ClienteResponse, error) {
	if !rut.Validate(in.RUT) {
		return nil, domain.ErrInvalidInput
	}
	canonico := rut.Clean(in.RUT)
	existing, _ := uc.repo.GetByRUT(canonico)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cliente := &entity.Cliente{
		RUT:       canonico,
		Nombre:    in.Nombre,
		Giro:      in.Giro,
		Email:     in.Email,
		Telefono:  in.Telefono,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(cliente); err != nil {
		return nil, err
	}
	return toClienteResponse(cliente), nil
}

// GetByRUT busca un cliente por RUT (coincidencia exacta en forma canónica).
// Un RUT malformado es error de validación, no un "no encontrado".
func (uc *ClienteUseCase) GetByRUT(rutCliente string) (*dto.ClienteResponse, error) {
	if !rut.Validate(rutCliente) {
		return nil, domain.ErrInvalidInput
	}
	cliente, err := uc.repo.GetByRUT(rut.Clean(rutCliente))
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrClienteNotFound
	}
	return toClienteResponse(cliente), nil
}

// List lista clientes con paginación.
func (uc *ClienteUseCase) List(limit, offset int) (*dto.ClienteListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClienteResponse(c))
	}
	return &dto.ClienteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza los campos presentes del cliente. El RUT es la llave y no
// se modifica.
func (uc *ClienteUseCase) Update(rutCliente string, in dto.UpdateClienteRequest) (*dto.ClienteResponse, error) {
	if !rut.Validate(rutCliente) {
		return nil, domain.ErrInvalidInput
	}
	cliente, err := uc.repo.GetByRUT(rut.Clean(rutCliente))
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrClienteNotFound
	}
	if in.Nombre != nil {
		cliente.Nombre = *in.Nombre
	}
	if in.Giro != nil {
		cliente.Giro = *in.Giro
	}
	if in.Email != nil {
		cliente.Email = *in.Email
	}
	if in.Telefono != nil {
		cliente.Telefono = *in.Telefono
	}
	cliente.UpdatedAt = time.Now()
	if err := uc.repo.Update(cliente); err != nil {
		return nil, err
	}
	return toClienteResponse(cliente), nil
}

func toClienteResponse(c *entity.Cliente) *dto.ClienteResponse {
	if c == nil {
		return nil
	}
	return &dto.ClienteResponse{
		RUT:           c.RUT,
		RUTFormateado: rut.Format(c.RUT),
		Nombre:        c.Nombre,
		Giro:          c.Giro,
		Email:         c.Email,
		Telefono:      c.Telefono,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
