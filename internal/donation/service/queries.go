package service

import (
	"context"
	"errors"
	"sort"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/sentinel"
	"donorlink/pkg/requestcontext"
)

const (
	cacheHit    = "hit"
	cacheMiss   = "miss"
	cacheError  = "error"
	cacheBypass = "bypass"
)

// DonationHistory returns the donor's ledger entries, newest first.
func (s *Service) DonationHistory(ctx context.Context, donorID id.DonorID) ([]*models.LedgerEntry, error) {
	if _, err := s.stores.Donors.FindProfile(ctx, donorID); err != nil {
		return nil, translateStoreError(err, "donor not found", "failed to load donor")
	}
	entries, err := s.stores.Ledger.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation history")
	}
	sortNewestFirst(entries)
	return entries, nil
}

// DonorEligibility reports whether the donor may give now and from when.
func (s *Service) DonorEligibility(ctx context.Context, donorID id.DonorID) (*models.Eligibility, error) {
	profile, err := s.stores.Donors.FindProfile(ctx, donorID)
	if err != nil {
		return nil, translateStoreError(err, "donor not found", "failed to load donor")
	}
	eligibility := profile.Donor.Eligibility(requestcontext.Now(ctx).UTC())
	return &eligibility, nil
}

// DonorStats summarizes the donor's ledger. Results are served from the stats
// cache when one is configured, keyed by the donor's committed total so a
// donation always retires the previous entry. CanDonateNow is evaluated at
// request time.
func (s *Service) DonorStats(ctx context.Context, donorID id.DonorID) (*models.DonorStats, error) {
	now := requestcontext.Now(ctx).UTC()

	profile, err := s.stores.Donors.FindProfile(ctx, donorID)
	if err != nil {
		return nil, translateStoreError(err, "donor not found", "failed to load donor")
	}
	version := profile.Donor.TotalDonations

	if stats := s.cachedStats(ctx, donorID, version); stats != nil {
		stats.CanDonateNow = models.IsEligibleNow(stats.CanDonateAfter, now)
		return stats, nil
	}

	entries, err := s.stores.Ledger.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation history")
	}

	stats := &models.DonorStats{
		DonorID:          donorID,
		BloodType:        profile.BloodType,
		LastDonationDate: profile.Donor.LastDonationDate,
		CanDonateAfter:   profile.Donor.CanDonateAfter,
		CanDonateNow:     profile.Donor.CanDonate(now),
	}
	for _, e := range entries {
		if e.Status != models.LedgerStatusCompleted {
			continue
		}
		stats.TotalDonations++
		if e.DonationDate.UTC().Year() == now.Year() {
			stats.DonationsThisYear++
		}
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats, version); err != nil && !errors.Is(err, sentinel.ErrUnavailable) {
			s.logger.WarnContext(ctx, "failed to cache donor stats", "donor_id", donorID.String(), "error", err)
		}
	}
	return stats, nil
}

func (s *Service) cachedStats(ctx context.Context, donorID id.DonorID, version int) *models.DonorStats {
	if s.statsCache == nil {
		return nil
	}
	stats, err := s.statsCache.Get(ctx, donorID, version)
	switch {
	case err == nil:
		s.countCacheLookup(cacheHit)
		return stats
	case errors.Is(err, sentinel.ErrNotFound):
		s.countCacheLookup(cacheMiss)
	case errors.Is(err, sentinel.ErrUnavailable):
		s.countCacheLookup(cacheBypass)
	default:
		s.countCacheLookup(cacheError)
		s.logger.WarnContext(ctx, "donor stats cache unavailable", "donor_id", donorID.String(), "error", err)
	}
	return nil
}

func (s *Service) countCacheLookup(result string) {
	if s.metrics != nil {
		s.metrics.IncrementCacheLookup(result)
	}
}

// AvailableDonors lists donors who may give now. When receiverType is set the
// list is restricted to blood types compatible with it.
func (s *Service) AvailableDonors(ctx context.Context, receiverType string) ([]*models.AvailableDonor, error) {
	var types []models.BloodType
	if receiverType != "" {
		bt, ok := models.ParseBloodType(receiverType)
		if !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid receiver blood type")
		}
		types = models.CompatibleDonorTypes(bt)
	}
	donors, err := s.stores.Donors.ListAvailable(ctx, types, requestcontext.Now(ctx).UTC())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list available donors")
	}
	return donors, nil
}

// CheckCompatibility answers the blood compatibility table for two types.
func (s *Service) CheckCompatibility(donorType, receiverType string) (*models.CompatibilityResult, error) {
	donor, ok := models.ParseBloodType(donorType)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid donor blood type")
	}
	receiver, ok := models.ParseBloodType(receiverType)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid receiver blood type")
	}
	return &models.CompatibilityResult{
		Donor:      donor,
		Receiver:   receiver,
		Compatible: models.IsCompatible(donor, receiver),
	}, nil
}

func sortNewestFirst(entries []*models.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DonationDate.Equal(entries[j].DonationDate) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].DonationDate.After(entries[j].DonationDate)
	})
}
