package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
	"github.com/jhoicas/contratos-api/pkg/rut"
)

// ContratoUseCase aplica reglas de negocio para contratos (casos de uso).
type ContratoUseCase struct {
	repo        repository.ContratoRepository
	clienteRepo repository.ClienteRepository
}

// NewContratoUseCase construye el caso de uso con sus puertos de persistencia.
func NewContratoUseCase(repo repository.ContratoRepository, clienteRepo repository.ClienteRepository) *ContratoUseCase {
	return &ContratoUseCase{repo: repo, clienteRepo: clienteRepo}
}

// Create crea un contrato para un cliente existente. El tipo de código debe
// pertenecer a uno de los tres espacios fijos y la fecha de término no puede
// preceder a la de inicio.
func (uc *ContratoUseCase) Create(in dto.CreateContratoRequest) (*dto.ContratoResponse, error) {
	if !rut.Validate(in.ClienteRUT) {
		return nil, domain.ErrInvalidInput
	}
	if !entity.TipoCodigoValido(in.TipoCodigo) || strings.TrimSpace(in.Codigo) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FechaFin.Before(in.FechaInicio) {
		return nil, domain.ErrInvalidInput
	}
	canonico := rut.Clean(in.ClienteRUT)
	cliente, err := uc.clienteRepo.GetByRUT(canonico)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrClienteNotFound
	}
	contrato := &entity.Contrato{
		ID:          uuid.New().String(),
		ClienteRUT:  canonico,
		TipoCodigo:  in.TipoCodigo,
		Codigo:      strings.TrimSpace(in.Codigo),
		FechaInicio: in.FechaInicio,
		FechaFin:    in.FechaFin,
		Nota:        in.Nota,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(contrato); err != nil {
		return nil, err
	}
	return toContratoResponse(contrato), nil
}

// GetByID obtiene un contrato por ID.
func (uc *ContratoUseCase) GetByID(id string) (*dto.ContratoResponse, error) {
	contrato, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contrato == nil {
		return nil, domain.ErrNotFound
	}
	return toContratoResponse(contrato), nil
}

// List busca contratos por RUT o nombre de cliente, con paginación.
func (uc *ContratoUseCase) List(in dto.ListContratosRequest) (*dto.ContratoListResponse, error) {
	in.DefaultPage()
	filtros := repository.ContratoFiltros{
		NombreCliente: in.NombreCliente,
		SoloVigentes:  in.SoloVigentes,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.ClienteRUT != "" {
		filtros.ClienteRUT = rut.Clean(in.ClienteRUT)
	}
	list, err := uc.repo.List(filtros)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContratoResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toContratoResponse(c))
	}
	return &dto.ContratoListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toContratoResponse(c *entity.Contrato) *dto.ContratoResponse {
	if c == nil {
		return nil
	}
	return &dto.ContratoResponse{
		ID:          c.ID,
		ClienteRUT:  c.ClienteRUT,
		TipoCodigo:  c.TipoCodigo,
		Codigo:      c.Codigo,
		FechaInicio: c.FechaInicio,
		FechaFin:    c.FechaFin,
		Vigente:     c.Vigente(time.Now()),
		Nota:        c.Nota,
		CreatedAt:   c.CreatedAt,
	}
}
