package usecase

import (
	"errors"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase/errs"
)

var (
	ErrInvalidInput        = errs.ErrInvalidInput
	ErrNotFound            = errs.ErrNotFound
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPrecondition        = errors.New("precondition failed")
	ErrNotEnoughTeams      = errors.New("not enough unassigned teams")
	ErrNameMismatch        = errors.New("verification name mismatch")
	ErrAlreadyVerified     = errors.New("user already verified")
	ErrExternalUnavailable = errors.New("external service unavailable")
	ErrStorageUnavailable  = errs.ErrStorageUnavailable
)
