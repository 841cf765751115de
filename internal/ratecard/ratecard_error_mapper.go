package ratecard

import (
	"errors"
	"strings"

	ratecarderrors "go-fleetpay/internal/ratecard/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueEffectiveConstraint = "uq_rate_schedule_effective"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueEffectiveConstraint {
			return ratecarderrors.ErrRateEffectiveDateAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEffectiveConstraint) {
		return ratecarderrors.ErrRateEffectiveDateAlreadyExists
	}

	return err
}
