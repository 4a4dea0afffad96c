package customers

import (
	"context"
	"fmt"

	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

// SyncReport resumen de una sincronización masiva.
type SyncReport struct {
	Entities  int `json:"entities"`
	Upserts   int `json:"upserts"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Conflicts int `json:"conflicts"`
}

func (r *SyncReport) add(res *UpsertResult) {
	r.Upserts++
	if res.Created {
		r.Created++
	} else {
		r.Updated++
	}
	if res.ConflictID != "" {
		r.Conflicts++
	}
}

// SyncAll upsert del contacto primario de cada unidad y pallet, y del secundario solo si
// tiene nombre, email o teléfono. Se procesa en el orden recibido: primero unidades, luego pallets.
// Ante un error de almacenamiento se detiene y devuelve el reporte parcial.
func (s *Service) SyncAll(ctx context.Context, units, pallets []*entity.RentalEntity) (*SyncReport, error) {
	report := &SyncReport{}
	for _, group := range [][]*entity.RentalEntity{units, pallets} {
		for _, e := range group {
			if e == nil {
				continue
			}
			if err := s.syncEntity(ctx, e, report); err != nil {
				return report, err
			}
		}
	}

	s.log.Info().
		Int("entities", report.Entities).
		Int("upserts", report.Upserts).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("conflicts", report.Conflicts).
		Msg("sincronización de clientes finalizada")
	return report, nil
}

func (s *Service) syncEntity(ctx context.Context, e *entity.RentalEntity, report *SyncReport) error {
	report.Entities++

	res, err := s.UpsertFromEntity(ctx, e, entity.ContactRolePrimary)
	if err != nil {
		return fmt.Errorf("sync %s %d primary: %w", e.Type, e.ID, err)
	}
	report.add(res)

	if !e.Secondary.HasIdentity() {
		return nil
	}
	res, err = s.UpsertFromEntity(ctx, e, entity.ContactRoleSecondary)
	if err != nil {
		return fmt.Errorf("sync %s %d secondary: %w", e.Type, e.ID, err)
	}
	report.add(res)
	return nil
}

// SyncJob carga unidades y pallets de sus repositorios y ejecuta SyncAll.
type SyncJob struct {
	units   repository.RentalEntityRepository
	pallets repository.RentalEntityRepository
	svc     *Service
}

// NewSyncJob construye el job. pallets puede ser nil si la instalación no maneja pallets.
func NewSyncJob(units, pallets repository.RentalEntityRepository, svc *Service) *SyncJob {
	return &SyncJob{units: units, pallets: pallets, svc: svc}
}

// Run ejecuta una sincronización completa.
func (j *SyncJob) Run(ctx context.Context) (*SyncReport, error) {
	var units, pallets []*entity.RentalEntity
	var err error
	if j.units != nil {
		if units, err = j.units.ListAll(ctx); err != nil {
			return nil, fmt.Errorf("listar unidades: %w", err)
		}
	}
	if j.pallets != nil {
		if pallets, err = j.pallets.ListAll(ctx); err != nil {
			return nil, fmt.Errorf("listar pallets: %w", err)
		}
	}
	return j.svc.SyncAll(ctx, units, pallets)
}
