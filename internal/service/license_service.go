package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"licentra/internal/authz"
	"licentra/internal/cache"
	apperrors "licentra/internal/errors"
	"licentra/internal/model"
	"licentra/internal/repository"
)

const (
	// IntegrityHashUnavailable is the sentinel surfaced when a license
	// carries no integrity hash.
	IntegrityHashUnavailable = "unavailable"

	verifyCacheKeyPrefix = "verify:"
	numberGenAttempts    = 5
)

// VerificationResult is the public view returned by a license lookup. For
// a miss only IsValid and LicenseNumber are populated, so callers cannot
// tell a malformed number from an absent one.
type VerificationResult struct {
	IsValid       bool   `json:"isValid"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseType   string `json:"licenseType,omitempty"`
	Status        string `json:"status,omitempty"`
	BusinessName  string `json:"businessName,omitempty"`
	IssueDate     string `json:"issueDate,omitempty"`
	ExpiryDate    string `json:"expiryDate,omitempty"`
	IntegrityHash string `json:"integrityHash,omitempty"`
}

// LicenseService handles license issuance, administration, and public
// verification.
type LicenseService interface {
	Issue(ctx context.Context, p authz.Principal, applicationID uuid.UUID) (*model.License, error)
	Verify(ctx context.Context, number string) (*VerificationResult, error)
	Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.License, error)
	ListOwn(ctx context.Context, p authz.Principal) ([]model.License, error)
	SetStatus(ctx context.Context, p authz.Principal, id uuid.UUID, status model.LicenseStatus) (*model.License, error)
}

type licenseService struct {
	licenseRepo repository.LicenseRepository
	appRepo     repository.ApplicationRepository
	cache       *cache.Client
	validity    time.Duration
	cacheTTL    time.Duration
	now         func() time.Time
}

// NewLicenseService creates a new license service. validity is how long
// issued licenses remain valid; cacheTTL bounds how stale a cached
// verification row may be.
func NewLicenseService(licenseRepo repository.LicenseRepository, appRepo repository.ApplicationRepository, cacheClient *cache.Client, validity, cacheTTL time.Duration) LicenseService {
	return &licenseService{
		licenseRepo: licenseRepo,
		appRepo:     appRepo,
		cache:       cacheClient,
		validity:    validity,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// Issue creates a license from an approved application. Admin only. The
// unique index on application_id guarantees at most one license per
// application even under concurrent issuance.
func (s *licenseService) Issue(ctx context.Context, p authz.Principal, applicationID uuid.UUID) (*model.License, error) {
	decision := authz.Decide(p, authz.TableLicenses, authz.OpInsert, authz.Row{})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}

	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	if app.Status != model.ApplicationStatusApproved {
		return nil, apperrors.ErrApplicationNotApproved
	}

	if _, err := s.licenseRepo.FindByApplicationID(ctx, applicationID); err == nil {
		return nil, apperrors.ErrLicenseAlreadyIssued
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	issueDate := s.now().UTC()
	expiryDate := issueDate.Add(s.validity)

	// Retry on number collisions; the unique index is the arbiter.
	var license *model.License
	for attempt := 0; attempt < numberGenAttempts; attempt++ {
		number, err := generateLicenseNumber(issueDate)
		if err != nil {
			return nil, fmt.Errorf("generate license number: %w", err)
		}
		license = &model.License{
			LicenseNumber: number,
			LicenseType:   app.LicenseType,
			BusinessName:  app.BusinessName,
			IssueDate:     issueDate,
			ExpiryDate:    expiryDate,
			Status:        model.LicenseStatusActive,
			IntegrityHash: computeIntegrityHash(number, app.LicenseType, app.BusinessName, issueDate, expiryDate),
			OwnerID:       app.OwnerID,
			ApplicationID: app.ID,
		}
		err = s.licenseRepo.Create(ctx, license)
		if err == nil {
			return license, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Could be the number or a concurrent issuance for the same
			// application; disambiguate after the retries run out.
			continue
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	// Every attempt hit a unique index. If a license now exists for the
	// application someone else won the race; otherwise the number space
	// ran dry and the caller should retry later.
	if _, err := s.licenseRepo.FindByApplicationID(ctx, applicationID); err == nil {
		return nil, apperrors.ErrLicenseAlreadyIssued
	}
	return nil, fmt.Errorf("%w: license number generation exhausted after %d attempts", apperrors.ErrStoreOperation, numberGenAttempts)
}

// Verify looks up a license by number as the anonymous principal and
// returns the redacted public view with recomputed validity. A miss of any
// kind yields a uniform invalid result echoing only the queried number.
func (s *licenseService) Verify(ctx context.Context, number string) (*VerificationResult, error) {
	decision := authz.Decide(authz.Anonymous(), authz.TableLicenses, authz.OpSelect, authz.Row{})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}

	license, err := s.lookupPublic(ctx, number, decision.Columns)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificationResult{IsValid: false, LicenseNumber: number}, nil
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	now := s.now().UTC()
	hash := license.IntegrityHash
	if hash == "" {
		hash = IntegrityHashUnavailable
	}
	return &VerificationResult{
		IsValid:       license.ValidAt(now),
		LicenseNumber: license.LicenseNumber,
		LicenseType:   license.LicenseType,
		Status:        string(license.EffectiveStatus(now)),
		BusinessName:  license.BusinessName,
		IssueDate:     license.IssueDate.Format("2006-01-02"),
		ExpiryDate:    license.ExpiryDate.Format("2006-01-02"),
		IntegrityHash: hash,
	}, nil
}

// lookupPublic fetches the projected row, going through the short-TTL
// cache. Validity is always recomputed at request time, so the cache only
// amortizes the store read.
func (s *licenseService) lookupPublic(ctx context.Context, number string, columns []string) (*model.License, error) {
	key := verifyCacheKeyPrefix + number
	var cached model.License
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	license, err := s.licenseRepo.FindByNumberProjected(ctx, number, columns)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, key, license, s.cacheTTL)
	return license, nil
}

// Get returns one license if the caller may read it in full.
func (s *licenseService) Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.License, error) {
	license, err := s.licenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	decision := authz.Decide(p, authz.TableLicenses, authz.OpSelect, authz.Row{OwnerID: license.OwnerID})
	if !decision.Allowed || decision.Columns != nil {
		// Full-row reads are reserved for the owner and admins.
		return nil, apperrors.ErrLicenseNotFound
	}
	return license, nil
}

// ListOwn lists the caller's own licenses.
func (s *licenseService) ListOwn(ctx context.Context, p authz.Principal) ([]model.License, error) {
	if !p.Authenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}
	licenses, err := s.licenseRepo.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return licenses, nil
}

// SetStatus suspends, reinstates, or revokes a license. Admin only.
func (s *licenseService) SetStatus(ctx context.Context, p authz.Principal, id uuid.UUID, status model.LicenseStatus) (*model.License, error) {
	decision := authz.Decide(p, authz.TableLicenses, authz.OpUpdate, authz.Row{})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}

	switch status {
	case model.LicenseStatusActive, model.LicenseStatusSuspended, model.LicenseStatusRevoked:
	default:
		return nil, apperrors.ErrInvalidStatusTransition
	}

	license, err := s.licenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	if err := s.licenseRepo.UpdateStatus(ctx, license.ID, status); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	// Drop any cached public view so verification reflects the change.
	_ = s.cache.Delete(ctx, verifyCacheKeyPrefix+license.LicenseNumber)

	license.Status = status
	return license, nil
}

// generateLicenseNumber produces a LIC-<year>-<5 digits> number from a
// cryptographic source.
func generateLicenseNumber(issueDate time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LIC-%d-%05d", issueDate.Year(), n.Int64()), nil
}

// computeIntegrityHash hashes the canonical public fields of the license.
// The hash attests that the displayed fields match what was issued; it is
// not independently verifiable by this system.
func computeIntegrityHash(number, licenseType, businessName string, issueDate, expiryDate time.Time) string {
	canonical := strings.Join([]string{
		number,
		licenseType,
		businessName,
		issueDate.UTC().Format(time.RFC3339),
		expiryDate.UTC().Format(time.RFC3339),
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
