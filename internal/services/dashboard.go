package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
)

// DashboardCounts is the landing-page summary across every module.
type DashboardCounts struct {
	Residents        int64 `json:"residents"`
	Ordinances       int64 `json:"ordinances"`
	MeetingMinutes   int64 `json:"meeting_minutes"`
	Pregnancies      int64 `json:"pregnancies"`
	MedicineItems    int64 `json:"medicine_items"`
	MedicineRequests int64 `json:"medicine_requests"`
	SummonCases      int64 `json:"summon_cases"`
	TreasuryAlbums   int64 `json:"treasury_albums"`
}

type DashboardService interface {
	Counts(ctx context.Context) (*DashboardCounts, error)
}

type dashboardService struct {
	log           *logger.Logger
	residentRepo  repos.ResidentRepo
	ordinanceRepo repos.OrdinanceRepo
	minutesRepo   repos.MeetingMinutesRepo
	pregnancyRepo repos.PregnancyRepo
	itemRepo      repos.MedicineItemRepo
	requestRepo   repos.MedicineRequestRepo
	caseRepo      repos.SummonCaseRepo
	treasuryRepo  repos.TreasuryRepo
}

func NewDashboardService(
	log *logger.Logger,
	residentRepo repos.ResidentRepo,
	ordinanceRepo repos.OrdinanceRepo,
	minutesRepo repos.MeetingMinutesRepo,
	pregnancyRepo repos.PregnancyRepo,
	itemRepo repos.MedicineItemRepo,
	requestRepo repos.MedicineRequestRepo,
	caseRepo repos.SummonCaseRepo,
	treasuryRepo repos.TreasuryRepo,
) DashboardService {
	return &dashboardService{
		log:           log.With("service", "DashboardService"),
		residentRepo:  residentRepo,
		ordinanceRepo: ordinanceRepo,
		minutesRepo:   minutesRepo,
		pregnancyRepo: pregnancyRepo,
		itemRepo:      itemRepo,
		requestRepo:   requestRepo,
		caseRepo:      caseRepo,
		treasuryRepo:  treasuryRepo,
	}
}

// Counts fans the per-module count queries out in parallel; any single
// failure fails the whole summary.
func (ds *dashboardService) Counts(ctx context.Context) (*DashboardCounts, error) {
	var counts DashboardCounts
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := ds.residentRepo.Count(gctx, nil)
		counts.Residents = n
		return err
	})
	g.Go(func() error {
		n, err := ds.ordinanceRepo.Count(gctx, nil)
		counts.Ordinances = n
		return err
	})
	g.Go(func() error {
		n, err := ds.minutesRepo.Count(gctx, nil)
		counts.MeetingMinutes = n
		return err
	})
	g.Go(func() error {
		n, err := ds.pregnancyRepo.Count(gctx, nil)
		counts.Pregnancies = n
		return err
	})
	g.Go(func() error {
		n, err := ds.itemRepo.Count(gctx, nil)
		counts.MedicineItems = n
		return err
	})
	g.Go(func() error {
		n, err := ds.requestRepo.Count(gctx, nil)
		counts.MedicineRequests = n
		return err
	})
	g.Go(func() error {
		n, err := ds.caseRepo.Count(gctx, nil)
		counts.SummonCases = n
		return err
	})
	g.Go(func() error {
		n, err := ds.treasuryRepo.CountAlbums(gctx, nil)
		counts.TreasuryAlbums = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather dashboard counts: %w", err)
	}
	return &counts, nil
}
