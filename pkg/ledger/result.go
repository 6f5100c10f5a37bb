package ledger

// IssuanceID extracts the synthesized issuance identifier from an issuance
// create submission result. The ledger chooses the identifier, not the
// client, and returns it only inside the transaction metadata. Its absence
// is a hard failure: there is no sane default for a token identifier.
func (r *SubmissionResult) IssuanceID() (string, error) {
	if r == nil || r.Meta == nil {
		return "", ErrMissingIssuanceID
	}

	if !ValidIssuanceID(r.Meta.IssuanceID) {
		return "", ErrMissingIssuanceID
	}

	return r.Meta.IssuanceID, nil
}
