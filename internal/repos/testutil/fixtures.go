package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      types.RoleStaff,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedResident(tb testing.TB, ctx context.Context, tx *gorm.DB, lastName string) *types.Resident {
	tb.Helper()
	r := &types.Resident{
		ID:        uuid.New(),
		FirstName: "Maria",
		LastName:  lastName,
		Address:   "Purok 1",
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resident: %v", err)
	}
	return r
}

func SeedOrdinance(tb testing.TB, ctx context.Context, tx *gorm.DB, number string, parentID *uuid.UUID, amendment, repeal bool) *types.Ordinance {
	tb.Helper()
	o := &types.Ordinance{
		ID:          uuid.New(),
		Number:      number,
		Title:       "ordinance " + number,
		ParentID:    parentID,
		IsAmendment: amendment,
		IsRepeal:    repeal,
		Status:      types.OrdinanceStatusActive,
		FileRefs:    datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed ordinance: %v", err)
	}
	return o
}

func SeedPregnancy(tb testing.TB, ctx context.Context, tx *gorm.DB, residentID uuid.UUID, status string) *types.Pregnancy {
	tb.Helper()
	p := &types.Pregnancy{
		ID:           uuid.New(),
		ResidentID:   residentID,
		Status:       status,
		RegisteredAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed pregnancy: %v", err)
	}
	return p
}

func SeedMaternalRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, pregnancyID uuid.UUID, recordType string, checkup time.Time) *types.MaternalRecord {
	tb.Helper()
	m := &types.MaternalRecord{
		ID:          uuid.New(),
		PregnancyID: pregnancyID,
		RecordType:  recordType,
		CheckupDate: checkup,
		VitalSigns:  datatypes.JSON([]byte("{}")),
		CreatedAt:   checkup,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed maternal record: %v", err)
	}
	return m
}

func SeedMedicineItem(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, stock int) *types.MedicineItem {
	tb.Helper()
	i := &types.MedicineItem{
		ID:            uuid.New(),
		Name:          name,
		Categories:    datatypes.JSON([]byte(`["analgesic"]`)),
		Unit:          "tablet",
		StockQuantity: stock,
	}
	if err := tx.WithContext(ctx).Create(i).Error; err != nil {
		tb.Fatalf("seed medicine item: %v", err)
	}
	return i
}

func SeedSummonCase(tb testing.TB, ctx context.Context, tx *gorm.DB, caseNumber string) *types.SummonCase {
	tb.Helper()
	c := &types.SummonCase{
		ID:           uuid.New(),
		CaseNumber:   caseNumber,
		Nature:       "boundary dispute",
		Complainants: datatypes.JSON([]byte(`["Juan Dela Cruz"]`)),
		Respondents:  datatypes.JSON([]byte(`["Pedro Santos"]`)),
		Status:       types.SummonCaseFiled,
		FiledAt:      time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed summon case: %v", err)
	}
	return c
}

func SeedTreasuryAlbum(tb testing.TB, ctx context.Context, tx *gorm.DB, kind string) *types.TreasuryAlbum {
	tb.Helper()
	a := &types.TreasuryAlbum{
		ID:     uuid.New(),
		Title:  "album",
		Kind:   kind,
		Period: "2025-Q1",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed treasury album: %v", err)
	}
	return a
}
