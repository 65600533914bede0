package service

import (
	"fmt"
	"strings"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"
	"gang-admin-api/internal/ws"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const walletOverviewLimit = 50

type GangWalletService interface {
	Balance() (int64, error)
	Overview() (*WalletOverview, error)
	Post(actor Actor, req *PostWalletRequest) (*model.GangTransaction, error)
}

type PostWalletRequest struct {
	Type        model.GangTransactionType `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Amount      int64                     `json:"amount" validate:"gt=0"`
	Description string                    `json:"description" validate:"required"`
}

type WalletOverview struct {
	Balance      int64                       `json:"balance"`
	Transactions []model.GangTransactionView `json:"transactions"`
}

type gangWalletService struct {
	repo     repository.GangWalletRepository
	txRunner repository.TxRunner
	audit    ActionLogService
	wsHub    *ws.Hub
	now      func() time.Time
}

func NewGangWalletService(repo repository.GangWalletRepository, txRunner repository.TxRunner, audit ActionLogService, hub *ws.Hub) GangWalletService {
	return &gangWalletService{
		repo:     repo,
		txRunner: txRunner,
		audit:    audit,
		wsHub:    hub,
		now:      time.Now,
	}
}

// Balance is the materialized wallet balance.
func (s *gangWalletService) Balance() (int64, error) {
	return s.repo.CurrentBalance(nil)
}

func (s *gangWalletService) Overview() (*WalletOverview, error) {
	balance, err := s.repo.CurrentBalance(nil)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Recent(walletOverviewLimit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.GangTransactionView{}
	}
	return &WalletOverview{Balance: balance, Transactions: rows}, nil
}

// Post appends one ledger row. balance_before is read from the locked wallet
// row, so concurrent posts chain regardless of created_at ordering.
func (s *gangWalletService) Post(actor Actor, req *PostWalletRequest) (*model.GangTransaction, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validate(req); err != nil {
		return nil, err
	}

	var row *model.GangTransaction
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		wallet, err := s.repo.Lock(tx)
		if err != nil {
			return err
		}
		before := wallet.Balance
		after := model.NextBalance(before, req.Type, req.Amount)
		if after < 0 {
			return fmt.Errorf("%w: balance %d, expense %d", ErrInsufficientFunds, before, req.Amount)
		}

		now := s.now()
		row = &model.GangTransaction{
			Type:          req.Type,
			Amount:        req.Amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   req.Description,
			CreatedByID:   actor.ID,
			CreatedAt:     now,
		}
		if err := s.repo.Append(tx, row); err != nil {
			return err
		}
		if err := s.repo.SetBalance(tx, after, now); err != nil {
			return err
		}

		return s.audit.Record(tx, actor.ID, model.ActionGangWalletTransaction,
			fmt.Sprintf("%s %d: %s (balance %d -> %d)", req.Type, req.Amount, req.Description, before, after),
			map[string]interface{}{
				"transaction_id": row.ID.String(),
				"type":           string(req.Type),
				"amount":         req.Amount,
				"balance_before": before,
				"balance_after":  after,
			})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"actor":  actor.ID,
			"type":   req.Type,
			"amount": req.Amount,
			"error":  err.Error(),
		}).Warn("gang wallet post rejected")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"actor":          actor.ID,
		"type":           row.Type,
		"amount":         row.Amount,
		"balance_before": row.BalanceBefore,
		"balance_after":  row.BalanceAfter,
	}).Info("gang wallet transaction")
	s.wsHub.Publish(ws.EventWalletUpdate, strings.ToLower(string(row.Type)),
		fmt.Sprintf("%s posted %s %d", actor.Name, row.Type, row.Amount),
		map[string]interface{}{"balance": row.BalanceAfter, "transaction": row})
	return row, nil
}
