package controllers

import (
	"net/http"

	"github.com/beezio/beezio-backend/api/responses"
	"github.com/beezio/beezio-backend/api/validators"
	"github.com/beezio/beezio-backend/internal/ledger"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/logger"
)

func AffiliateEarnings(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		affiliateID, err := validators.ParseURLUUID(r, "affiliateID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.EarningsForAffiliate(ctx, affiliateID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// IntentEarnings returns the payout rows one sale produced.
func IntentEarnings(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		intentID, err := validators.ParseURLUUID(r, "intentID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.EarningsForCheckoutIntent(ctx, intentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func ReferrerEarnings(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		referrerID, err := validators.ParseURLUUID(r, "referrerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.EarningsForReferrer(ctx, referrerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
