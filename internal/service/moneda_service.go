package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"
)

// MonedaService manages the currency catalog.
type MonedaService interface {
	Crear(ctx context.Context, req dto.CrearMonedaRequest) (*dto.MonedaResponse, error)
	Listar(ctx context.Context) ([]dto.MonedaResponse, error)
}

type monedaService struct {
	repo repository.MonedaRepository
}

func NewMonedaService(repo repository.MonedaRepository) MonedaService {
	return &monedaService{repo: repo}
}

func (s *monedaService) Crear(ctx context.Context, req dto.CrearMonedaRequest) (*dto.MonedaResponse, error) {
	codigo := strings.ToUpper(req.Codigo)
	if _, err := s.repo.FindByCodigo(ctx, codigo); err == nil {
		return nil, fmt.Errorf("ya existe una moneda con codigo %s", codigo)
	}

	decimales := 2
	if req.Decimales != nil {
		decimales = *req.Decimales
	}
	m := &model.Moneda{
		Codigo:    codigo,
		Nombre:    req.Nombre,
		Simbolo:   req.Simbolo,
		Decimales: decimales,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return monedaToResponse(m), nil
}

func (s *monedaService) Listar(ctx context.Context) ([]dto.MonedaResponse, error) {
	monedas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MonedaResponse, 0, len(monedas))
	for i := range monedas {
		resp = append(resp, *monedaToResponse(&monedas[i]))
	}
	return resp, nil
}

func monedaToResponse(m *model.Moneda) *dto.MonedaResponse {
	return &dto.MonedaResponse{
		ID:        m.ID.String(),
		Codigo:    m.Codigo,
		Nombre:    m.Nombre,
		Simbolo:   m.Simbolo,
		Decimales: m.Decimales,
	}
}
