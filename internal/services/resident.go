package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/normalization"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type ResidentService interface {
	Create(ctx context.Context, resident *types.Resident) (*types.Resident, error)
	Update(ctx context.Context, resident *types.Resident) (*types.Resident, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Resident, error)
	List(ctx context.Context, params repos.ListParams) ([]*types.Resident, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type residentService struct {
	db           *gorm.DB
	log          *logger.Logger
	residentRepo repos.ResidentRepo
}

func NewResidentService(db *gorm.DB, log *logger.Logger, residentRepo repos.ResidentRepo) ResidentService {
	return &residentService{
		db:           db,
		log:          log.With("service", "ResidentService"),
		residentRepo: residentRepo,
	}
}

func (rs *residentService) Create(ctx context.Context, resident *types.Resident) (*types.Resident, error) {
	normalizeResidentFields(resident)
	if resident.FirstName == "" || resident.LastName == "" {
		return nil, fmt.Errorf("a first and last name are required")
	}
	resident.ID = uuid.New()
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := rs.residentRepo.Create(ctx, tx, []*types.Resident{resident})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create resident: %w", err)
	}
	return resident, nil
}

func (rs *residentService) Update(ctx context.Context, resident *types.Resident) (*types.Resident, error) {
	normalizeResidentFields(resident)
	existing, err := rs.Get(ctx, resident.ID)
	if err != nil {
		return nil, err
	}
	resident.CreatedAt = existing.CreatedAt
	if err := rs.residentRepo.Update(ctx, nil, resident); err != nil {
		return nil, fmt.Errorf("failed to update resident: %w", err)
	}
	return resident, nil
}

func (rs *residentService) Get(ctx context.Context, id uuid.UUID) (*types.Resident, error) {
	found, err := rs.residentRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resident: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (rs *residentService) List(ctx context.Context, params repos.ListParams) ([]*types.Resident, int64, error) {
	return rs.residentRepo.List(ctx, nil, params)
}

func (rs *residentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := rs.Get(ctx, id); err != nil {
		return err
	}
	return rs.residentRepo.Delete(ctx, nil, id)
}

func normalizeResidentFields(resident *types.Resident) {
	resident.FirstName = normalization.TrimInput(resident.FirstName)
	resident.LastName = normalization.TrimInput(resident.LastName)
	resident.MiddleName = normalization.TrimInput(resident.MiddleName)
	resident.Sex = normalization.ParseInputString(resident.Sex)
	resident.Address = normalization.TrimInput(resident.Address)
	resident.ContactNo = normalization.TrimInput(resident.ContactNo)
}
