package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LeaveService struct {
	tx     database.TxManager
	ledger *Ledger
	leave.BalanceRepository
	user.UserRepository

	defaultAnnual decimal.Decimal
	defaultComp   decimal.Decimal
	now           func() time.Time
}

func NewLeaveService(tx database.TxManager, ledger *Ledger, balanceRepository leave.BalanceRepository, userRepository user.UserRepository, defaultAnnual, defaultComp decimal.Decimal) *LeaveService {
	return &LeaveService{
		tx:                tx,
		ledger:            ledger,
		BalanceRepository: balanceRepository,
		UserRepository:    userRepository,
		defaultAnnual:     defaultAnnual,
		defaultComp:       defaultComp,
		now:               time.Now,
	}
}

// BulkInitialize implements leave.LeaveService.
func (s *LeaveService) BulkInitialize(ctx context.Context, actor user.Actor, req leave.BulkInitializeRequest) (leave.BulkInitializeResponse, error) {
	if !actor.IsAdmin() {
		return leave.BulkInitializeResponse{}, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return leave.BulkInitializeResponse{}, err
	}

	annual, comp := req.Totals(s.defaultAnnual, s.defaultComp)
	return s.initializeAll(ctx, req.Year, annual, comp, req.Overwrite)
}

// RolloverYear implements leave.LeaveService.
func (s *LeaveService) RolloverYear(ctx context.Context, year int) (leave.BulkInitializeResponse, error) {
	return s.initializeAll(ctx, year, s.defaultAnnual, s.defaultComp, false)
}

// initializeAll gives every user a balance row per pool for year. Each user
// is handled in its own transaction; one failure does not stop the rest.
func (s *LeaveService) initializeAll(ctx context.Context, year int, annual, comp decimal.Decimal, overwrite bool) (leave.BulkInitializeResponse, error) {
	users, err := s.UserRepository.ListAll(ctx)
	if err != nil {
		return leave.BulkInitializeResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := leave.BulkInitializeResponse{
		Year:        year,
		ByLeaveType: make(map[string]leave.TypeCounts, len(leave.LeaveTypes)),
		Failures:    make([]leave.UserFailure, 0),
	}
	for _, lt := range leave.LeaveTypes {
		resp.ByLeaveType[string(lt)] = leave.TypeCounts{}
	}

	totals := map[leave.LeaveType]decimal.Decimal{
		leave.LeaveTypeAnnual:       annual,
		leave.LeaveTypeCompensatory: comp,
	}

	for _, u := range users {
		counts := make(map[leave.LeaveType]leave.TypeCounts, len(leave.LeaveTypes))

		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			result, err := s.ledger.Initialize(ctx, u.ID, year, annual, comp)
			if err != nil {
				return err
			}
			for _, lt := range leave.LeaveTypes {
				c := counts[lt]
				switch {
				case result.Created[lt]:
					c.Created++
				case overwrite:
					if _, err := s.ledger.SetTotal(ctx, leave.Key{UserID: u.ID, Year: year, LeaveType: lt}, totals[lt]); err != nil {
						return err
					}
					c.Updated++
				default:
					c.Skipped++
				}
				counts[lt] = c
			}
			return nil
		})

		if err != nil {
			slog.Warn("Failed to initialize leave balances", "user_id", u.ID, "year", year, "error", err)
			resp.UsersFailed++
			resp.Failures = append(resp.Failures, leave.UserFailure{UserID: u.ID, Error: err.Error()})
			for _, lt := range leave.LeaveTypes {
				c := resp.ByLeaveType[string(lt)]
				c.Failed++
				resp.ByLeaveType[string(lt)] = c
			}
			continue
		}

		resp.UsersSucceeded++
		for lt, c := range counts {
			total := resp.ByLeaveType[string(lt)]
			total.Created += c.Created
			total.Updated += c.Updated
			total.Skipped += c.Skipped
			resp.ByLeaveType[string(lt)] = total
		}
	}

	slog.Info("Initialized leave balances",
		"year", year,
		"users_succeeded", resp.UsersSucceeded,
		"users_failed", resp.UsersFailed,
		"overwrite", overwrite,
	)

	return resp, nil
}

// SetTotal implements leave.LeaveService.
func (s *LeaveService) SetTotal(ctx context.Context, actor user.Actor, req leave.SetTotalRequest) (leave.BalanceResponse, error) {
	if !actor.IsAdmin() {
		return leave.BalanceResponse{}, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return leave.BalanceResponse{}, err
	}

	key := leave.Key{UserID: req.UserID, Year: req.Year, LeaveType: leave.LeaveType(req.LeaveType)}
	total := decimal.NewFromFloat(req.Total)

	var updated leave.Balance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.ledger.SetTotal(ctx, key, total)
		return err
	})
	var belowUsed *leave.TotalBelowUsedError
	if errors.As(err, &belowUsed) {
		return leave.BalanceResponse{}, validator.ValidationErrors{{
			Field:   "total",
			Message: fmt.Sprintf("total must not be less than the %s days already used", belowUsed.Used),
		}}
	}
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	slog.Info("Set leave total", "user_id", key.UserID, "year", key.Year, "leave_type", key.LeaveType, "total", total.String())
	return leave.NewBalanceResponse(updated), nil
}

// GetUserBalances implements leave.LeaveService.
func (s *LeaveService) GetUserBalances(ctx context.Context, actor user.Actor, userID string, year int) ([]leave.BalanceResponse, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if year == 0 {
		year = s.now().Year()
	}

	target, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(target) {
		return nil, user.ErrForbidden
	}

	balances, err := s.BalanceRepository.ListByUserYear(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return leave.NewBalanceResponses(balances), nil
}

// ListBalances implements leave.LeaveService.
func (s *LeaveService) ListBalances(ctx context.Context, actor user.Actor, year int) ([]leave.BalanceResponse, error) {
	if !actor.IsManager() {
		return nil, user.ErrManagerAccessRequired
	}
	if year == 0 {
		year = s.now().Year()
	}

	balances, err := s.BalanceRepository.ListByYear(ctx, year, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return leave.NewBalanceResponses(balances), nil
}
