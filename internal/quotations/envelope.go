package quotations

import (
	"encoding/json"
	"strings"
)

// Historic deployments stored the staff reply inside the token column as
// a JSON object, keeping the original credential under legacyTokenKey.
// New writes go to the quotation_replies table; this codec survives only
// to read rows written by the old scheme.
const (
	replyKey       = "__reply"
	legacyTokenKey = "__token"
)

type tokenEnvelope struct {
	Token string `json:"__token"`
	Reply *Reply `json:"__reply,omitempty"`
}

// looksEnveloped is a cheap pre-check so plain hex credentials skip the
// JSON parse entirely.
func looksEnveloped(token string) bool {
	return strings.HasPrefix(strings.TrimSpace(token), "{")
}

// DecodeToken splits a stored token column value into the guest
// credential and, when the value is a legacy envelope, the embedded
// reply. It never fails: anything that is not a well-formed envelope is
// returned unchanged as the credential.
func DecodeToken(stored string) (credential string, reply *Reply) {
	if !looksEnveloped(stored) {
		return stored, nil
	}
	var env tokenEnvelope
	if err := json.Unmarshal([]byte(stored), &env); err != nil || env.Token == "" {
		return stored, nil
	}
	return env.Token, env.Reply
}

// EncodeToken wraps a credential and reply into the legacy envelope
// format. Kept for the migration path that rewrites old rows; the
// credential survives encode/decode unchanged.
func EncodeToken(credential string, reply Reply) (string, error) {
	// Re-wrapping an already-enveloped value must not nest envelopes.
	credential, _ = DecodeToken(credential)
	raw, err := json.Marshal(tokenEnvelope{Token: credential, Reply: &reply})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
