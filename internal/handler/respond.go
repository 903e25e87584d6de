package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harsh-n409/bhookie-pos-system/internal/draft"
	"github.com/Harsh-n409/bhookie-pos-system/internal/offer"
	"github.com/Harsh-n409/bhookie-pos-system/internal/payment"
	"github.com/Harsh-n409/bhookie-pos-system/internal/refund"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode JSON response", zap.Error(err))
	}
}

// decodeJSON reads the request body into v and runs struct validation.
// It writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationMessage(err)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Namespace() + " failed " + fe.Tag() + " validation"
	}
	return err.Error()
}

type shortfallResponse struct {
	Error      string              `json:"error"`
	Shortfalls []service.Shortfall `json:"shortfalls"`
}

var badRequestErrors = []error{
	draft.ErrEmptyOrder,
	draft.ErrInvalidQuantity,
	draft.ErrOfferLineFixed,
	draft.ErrInvalidOrderType,
	draft.ErrInvalidUpgrade,
	offer.ErrNoMembers,
	offer.ErrInvalidBundle,
	payment.ErrNoTenders,
	payment.ErrNothingDue,
	payment.ErrInvalidMethod,
	payment.ErrInvalidAmount,
	payment.ErrCardAmountMismatch,
	payment.ErrEmployeeExactCash,
	payment.ErrOverTendered,
	payment.ErrUnderpaid,
	refund.ErrNothingToRefund,
	refund.ErrExceedsRemaining,
	refund.ErrUnknownEntry,
	refund.ErrNegativeQuantity,
	service.ErrInvalidPhone,
	service.ErrInvalidName,
}

var notFoundErrors = []error{
	draft.ErrNotFound,
	draft.ErrLineNotFound,
	offer.ErrNotApplied,
	service.ErrItemNotFound,
	service.ErrOfferNotFound,
	service.ErrCustomerNotFound,
	service.ErrEmployeeNotFound,
	service.ErrOrderNotFound,
	service.ErrPendingOrderNotFound,
}

var conflictErrors = []error{
	draft.ErrInvalidState,
	draft.ErrBusy,
	offer.ErrAlreadyApplied,
	refund.ErrAlreadyRefunded,
	service.ErrCustomerExists,
	service.ErrEmployeeNotClockedIn,
	service.ErrPendingOrderExpired,
	service.ErrPendingOrderCompleted,
	service.ErrNoCashierSession,
	service.ErrInsufficientPoints,
	service.ErrInsufficientCredits,
	service.ErrOrderSequenceFull,
	service.ErrNotSignedIn,
	service.ErrTillAlreadyOpen,
	service.ErrTillNotOpen,
	service.ErrTillStillOpen,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps a service error to its HTTP response. Anything not
// recognized is logged and reported as an internal error.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var shortfall *service.StockShortfallError
	if errors.As(err, &shortfall) {
		writeJSON(w, http.StatusConflict, shortfallResponse{Error: "insufficient stock", Shortfalls: shortfall.Shortfalls})
		return
	}

	switch {
	case isAny(err, badRequestErrors):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case isAny(err, notFoundErrors):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isAny(err, conflictErrors):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	default:
		var integrity *service.DataIntegrityError
		if errors.As(err, &integrity) {
			logger.Error("data integrity violation", zap.String("resource", integrity.Resource), zap.String("key", integrity.Key))
		} else {
			logger.Error("request failed", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
