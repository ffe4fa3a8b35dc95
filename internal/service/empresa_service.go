package service

import (
	"context"
	"fmt"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"

	"github.com/google/uuid"
)

// EmpresaService manages the client-company registry.
type EmpresaService interface {
	Crear(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.EmpresaResponse, error)
	Listar(ctx context.Context, filter dto.EmpresaFilter) (*dto.EmpresaListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type empresaService struct {
	repo repository.EmpresaRepository
}

func NewEmpresaService(repo repository.EmpresaRepository) EmpresaService {
	return &empresaService{repo: repo}
}

func (s *empresaService) Crear(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error) {
	// RUT is opaque here; only uniqueness is enforced.
	if _, err := s.repo.FindByRUT(ctx, req.RUT); err == nil {
		return nil, fmt.Errorf("ya existe una empresa con RUT %s", req.RUT)
	}

	e := &model.Empresa{
		RazonSocial: req.RazonSocial,
		RUT:         req.RUT,
		Giro:        req.Giro,
		Email:       req.Email,
		Telefono:    req.Telefono,
		Direccion:   req.Direccion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return empresaToResponse(e), nil
}

func (s *empresaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.EmpresaResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return empresaToResponse(e), nil
}

func (s *empresaService) Listar(ctx context.Context, filter dto.EmpresaFilter) (*dto.EmpresaListResponse, error) {
	empresas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmpresaResponse, 0, len(empresas))
	for i := range empresas {
		items = append(items, *empresaToResponse(&empresas[i]))
	}
	return &dto.EmpresaListResponse{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *empresaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RazonSocial != nil {
		e.RazonSocial = *req.RazonSocial
	}
	if req.Giro != nil {
		e.Giro = req.Giro
	}
	if req.Email != nil {
		e.Email = req.Email
	}
	if req.Telefono != nil {
		e.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		e.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return empresaToResponse(e), nil
}

func (s *empresaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func empresaToResponse(e *model.Empresa) *dto.EmpresaResponse {
	return &dto.EmpresaResponse{
		ID:          e.ID.String(),
		RazonSocial: e.RazonSocial,
		RUT:         e.RUT,
		Giro:        e.Giro,
		Email:       e.Email,
		Telefono:    e.Telefono,
		Direccion:   e.Direccion,
		Activo:      e.Activo,
	}
}
