package dtos

// ListingDocument is one upstream listing as an opaque key/value document.
// Only a subset of keys is projected onto typed columns; the rest travels
// untouched into raw_data.
type ListingDocument map[string]interface{}

// ID returns the upstream identifier (`_id`, falling back to `id`).
func (d ListingDocument) ID() string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := d[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// IsActive reports whether the document should take part in a full-catalog
// sync: an explicit "active" status, or no status at all. When `status` is
// absent the Guesty `active` flag is honoured if present.
func (d ListingDocument) IsActive() bool {
	if raw, ok := d["status"]; ok && raw != nil {
		s, isString := raw.(string)
		if !isString {
			return true
		}
		return s == "" || s == "active"
	}
	if active, ok := d["active"].(bool); ok {
		return active
	}
	return true
}

// GuestyTokenResponse is the body returned by the OAuth2 token endpoint.
type GuestyTokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}
