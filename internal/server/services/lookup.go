package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/server/config"
	"github.com/cesworks/fieldcheck/internal/server/models"
	"github.com/cesworks/fieldcheck/internal/server/repositories/repomanager"
	"github.com/cesworks/fieldcheck/internal/token"
)

var employeeRef = regexp.MustCompile(`^(\d{3,}|[^@\s]+@[^@\s]+\.[^@\s]+)$`)

// LookupService answers the read-only registry questions: QR resolution and
// employee verification.
type LookupService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	verify config.VerifyConfig
}

func NewLookupService(db *sql.DB, rm repomanager.RepositoryManager, verify config.VerifyConfig) *LookupService {
	return &LookupService{db: db, rm: rm, verify: verify}
}

func (s *LookupService) ResolveQR(ctx context.Context, code string) (*models.Unit, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", common.ErrValidation)
	}
	return s.rm.Units(s.db).GetByQR(ctx, code)
}

// VerifyEmployee checks the roster and mints the short-lived verified token
// the client's workflow gate honors once.
func (s *LookupService) VerifyEmployee(ctx context.Context, ref string) (*models.Employee, string, error) {
	if !employeeRef.MatchString(ref) {
		return nil, "", fmt.Errorf("%w: enter an employee number (3+ digits) or a work email", common.ErrValidation)
	}

	emp, err := s.rm.Employees(s.db).GetByRef(ctx, ref)
	if err != nil {
		return nil, "", err
	}

	verified := ""
	if s.verify.Secret != "" {
		verified, err = token.Mint(s.verify.Secret, emp.EmployeeID, s.verify.TokenTTL)
		if err != nil {
			return nil, "", fmt.Errorf("mint verified token: %w", err)
		}
	}
	return emp, verified, nil
}
