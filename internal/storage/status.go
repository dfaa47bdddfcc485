package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// Guard errors for the status state machine.
var (
	ErrCandidateHired       = errors.New("candidate is hired")
	ErrCandidateBlacklisted = errors.New("candidate is blacklisted")
	ErrInvalidStatus        = errors.New("invalid candidate status")
)

// The three workflow flags admit exactly three reachable composite states:
// available, not available, hired (implies not blacklisted, not available)
// and blacklisted (implies not hired, not available). Concurrent conflicting
// transitions on the same id resolve last-write-wins; there is no optimistic
// locking around the read-modify-write.

func (s *Store) statusFlags(ctx context.Context, id int64) (hired, blacklist bool, err error) {
	var row struct {
		Hired     bool `db:"hired"`
		Blacklist bool `db:"blacklist"`
	}
	err = s.sess.
		Select("hired", "blacklist").
		From("candidates").
		Where("id = ?", id).
		LoadOneContext(ctx, &row)
	if err == dbr.ErrNotFound {
		return false, false, ErrNotFound
	}
	if err != nil {
		return false, false, fmt.Errorf("load status flags for %d: %w", id, err)
	}
	return row.Hired, row.Blacklist, nil
}

// MarkHired sets the hired flag. Hiring clears the blacklist and moves the
// candidate to Not Available; it is allowed from any state. Un-hiring only
// clears the flag.
func (s *Store) MarkHired(ctx context.Context, id int64, hired bool, userID string) error {
	set := map[string]interface{}{
		"hired":           hired,
		"last_updated_by": userID,
		"last_updated":    time.Now(),
	}
	if hired {
		set["blacklist"] = false
		set["candidate_status"] = StatusNotAvailable
	}

	result, err := s.sess.
		Update("candidates").
		SetMap(set).
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("mark hired %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	s.logger.Info("candidate hired flag updated",
		zap.Int64("candidate_id", id),
		zap.Bool("hired", hired),
		zap.String("user_id", userID),
	)
	return nil
}

// SetBlacklist toggles the blacklist flag. Enabling also moves the candidate
// to Not Available and clears the hired flag; disabling touches nothing
// else. Rejected while the candidate is hired.
func (s *Store) SetBlacklist(ctx context.Context, id int64, blacklisted bool, userID string) error {
	hired, _, err := s.statusFlags(ctx, id)
	if err != nil {
		return err
	}
	if hired {
		return ErrCandidateHired
	}

	set := map[string]interface{}{
		"blacklist":       blacklisted,
		"last_updated_by": userID,
		"last_updated":    time.Now(),
	}
	if blacklisted {
		set["candidate_status"] = StatusNotAvailable
		set["hired"] = false
	}

	result, err := s.sess.
		Update("candidates").
		SetMap(set).
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("set blacklist %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	s.logger.Info("candidate blacklist updated",
		zap.Int64("candidate_id", id),
		zap.Bool("blacklisted", blacklisted),
		zap.String("user_id", userID),
	)
	return nil
}

// SetAvailability flips candidate_status between Available and Not
// Available. Rejected while the candidate is blacklisted or hired.
func (s *Store) SetAvailability(ctx context.Context, id int64, status string, userID string) error {
	if status != StatusAvailable && status != StatusNotAvailable {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	hired, blacklisted, err := s.statusFlags(ctx, id)
	if err != nil {
		return err
	}
	if hired {
		return ErrCandidateHired
	}
	if blacklisted {
		return ErrCandidateBlacklisted
	}

	result, err := s.sess.
		Update("candidates").
		SetMap(map[string]interface{}{
			"candidate_status": status,
			"last_updated_by":  userID,
			"last_updated":     time.Now(),
		}).
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("set availability %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	s.logger.Info("candidate availability updated",
		zap.Int64("candidate_id", id),
		zap.String("status", status),
		zap.String("user_id", userID),
	)
	return nil
}
