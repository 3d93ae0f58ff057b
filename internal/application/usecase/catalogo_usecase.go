package usecase

import (
	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// CatalogoUseCase expone los catálogos de solo lectura que alimentan el
// asistente: servicios, proveedores por servicio y monedas.
type CatalogoUseCase struct {
	servicioRepo repository.ServicioRepository
	monedaRepo   repository.MonedaRepository
}

// NewCatalogoUseCase construye el caso de uso de catálogos.
func NewCatalogoUseCase(servicioRepo repository.ServicioRepository, monedaRepo repository.MonedaRepository) *CatalogoUseCase {
	return &CatalogoUseCase{servicioRepo: servicioRepo, monedaRepo: monedaRepo}
}

// Servicios lista el catálogo de servicios.
func (uc *CatalogoUseCase) Servicios() ([]dto.ServicioResponse, error) {
	list, err := uc.servicioRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServicioResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ServicioResponse{
			ID:        s.ID,
			FamiliaID: s.FamiliaID,
			Nombre:    s.Nombre,
			Activo:    s.Activo,
		})
	}
	return out, nil
}

// Proveedores lista los proveedores habilitados para un servicio. La lista
// depende del servicio: el cliente debe recargarla al cambiar la selección.
func (uc *CatalogoUseCase) Proveedores(servicioID string) ([]dto.ProveedorResponse, error) {
	servicio, err := uc.servicioRepo.GetByID(servicioID)
	if err != nil {
		return nil, err
	}
	if servicio == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.servicioRepo.ProveedoresPorServicio(servicioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProveedorResponse{ID: p.ID, Nombre: p.Nombre, RUT: p.RUT})
	}
	return out, nil
}

// Monedas lista el catálogo de monedas de cotización.
func (uc *CatalogoUseCase) Monedas() ([]dto.MonedaResponse, error) {
	list, err := uc.monedaRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.MonedaResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MonedaResponse{
			ID:        m.ID,
			Nombre:    m.Nombre,
			Simbolo:   m.Simbolo,
			Decimales: m.Decimales,
		})
	}
	return out, nil
}
