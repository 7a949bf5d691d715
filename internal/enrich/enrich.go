// Package enrich implements the two-stage Apollo enrichment pipeline:
// identity match on a LinkedIn URL, then an optional credit-consuming
// mobile unlock keyed on the matched person id.
package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/apollo-cli/internal/cost"
	"github.com/sells-group/apollo-cli/internal/model"
	"github.com/sells-group/apollo-cli/pkg/apollo"
)

// Enricher runs the two-stage lookup for a single LinkedIn URL. The ledger
// is shared across the batch and charged once per successful unlock.
type Enricher struct {
	client apollo.Client
	ledger *cost.Ledger
}

// NewEnricher creates an Enricher backed by the given Apollo client and
// credit ledger.
func NewEnricher(client apollo.Client, ledger *cost.Ledger) *Enricher {
	return &Enricher{client: client, ledger: ledger}
}

// Enrich processes one LinkedIn URL start to finish. Every failure mode is
// absorbed into the returned record's status; Enrich never aborts the batch.
func (e *Enricher) Enrich(ctx context.Context, rawURL string) model.PersonRecord {
	log := zap.L().With(zap.String("linkedin_url", rawURL))

	// Stage 0: parse. No slug means no remote calls at all.
	slug := ProfileSlug(rawURL)
	if slug == "" {
		log.Warn("enrich: could not parse profile identifier, skipping")
		return model.PersonRecord{
			LinkedInURL: rawURL,
			Status:      model.RowStatusInvalidURL,
		}
	}

	// Stage 1: identity match. Transport failure is treated the same as a
	// clean no-match.
	log.Info("enrich: stage 1 match", zap.String("slug", slug))
	matched, err := e.client.Match(ctx, apollo.MatchRequest{
		LinkedInURL:    rawURL,
		MatchOnWebsite: true,
	})
	if err != nil {
		log.Warn("enrich: match call failed", zap.Error(err))
		matched = nil
	}
	if matched == nil {
		log.Info("enrich: no match found")
		return model.PersonRecord{
			LinkedInURL: rawURL,
			Status:      model.RowStatusNoMatch,
		}
	}

	rec := ExtractPerson(matched)

	// Stage 2: mobile unlock. Attempted only when there is a person id to
	// key the request and the number is neither verified nor already paid
	// for.
	switch {
	case rec.MobileStatusRaw == model.MobileStatusVerified:
		log.Info("enrich: mobile already verified, skipping unlock")

	case rec.PersonID != "" && rec.MobileStatusRaw.Unlockable():
		rec = e.unlock(ctx, log, rec)

	default:
		log.Info("enrich: unlock not attempted", zap.String("mobile_status", string(rec.MobileStatusRaw)))
	}

	rec.CreditsUsed = e.ledger.Total()
	rec.Status = model.RowStatusEnriched
	return rec
}

// unlock issues the stage-2 call and merges its outcome into the record.
// A credit is charged only when the unlock returns a non-empty number, in
// which case the whole record is re-extracted from the unlock payload: the
// unlock response is the fresher snapshot, so all fields are taken from it,
// not just the phone.
func (e *Enricher) unlock(ctx context.Context, log *zap.Logger, rec model.PersonRecord) model.PersonRecord {
	log.Info("enrich: stage 2 unlock",
		zap.String("person_id", rec.PersonID),
		zap.String("mobile_status", string(rec.MobileStatusRaw)),
	)

	unlocked, err := e.client.UnlockMobile(ctx, apollo.UnlockRequest{
		ID:              rec.PersonID,
		MobilePhoneOnly: true,
	})
	if err != nil {
		log.Warn("enrich: unlock call failed, keeping stage 1 data", zap.Error(err))
		return rec
	}
	if unlocked == nil {
		log.Warn("enrich: unlock returned no person, keeping stage 1 data")
		return rec
	}

	if unlocked.MobilePhoneNumber == "" {
		log.Info("enrich: unlock returned no number, no credit charged")
		return rec
	}

	total := e.ledger.ChargeUnlock()
	log.Info("enrich: mobile unlocked",
		zap.String("mobile_status", unlocked.MobilePhoneStatus),
		zap.Int("credits_total", total),
	)
	return ExtractPerson(unlocked)
}
