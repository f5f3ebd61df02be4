package entities

// UserContext holds the shopping preferences accumulated for one chat
// session. It is owned by the session repository; mutation happens only
// through the context service and shortlist commands.
type UserContext struct {
	Vehicle        string  `json:"vehicle,omitempty"`
	MaxBudget      float64 `json:"max_budget,omitempty"`
	CertPreference string  `json:"cert_preference,omitempty"`
	Shortlist      []int   `json:"shortlist,omitempty"`
	RidingStyle    string  `json:"riding_style,omitempty"`
}

// Clone returns a snapshot safe to read outside the session lock.
func (c *UserContext) Clone() *UserContext {
	if c == nil {
		return &UserContext{}
	}
	cp := *c
	cp.Shortlist = append([]int(nil), c.Shortlist...)
	return &cp
}

// InShortlist reports whether the product id is already shortlisted.
func (c *UserContext) InShortlist(productID int) bool {
	for _, id := range c.Shortlist {
		if id == productID {
			return true
		}
	}
	return false
}

// AddToShortlist appends the product id, preserving insertion order and
// uniqueness. Returns false when the id was already present.
func (c *UserContext) AddToShortlist(productID int) bool {
	if c.InShortlist(productID) {
		return false
	}
	c.Shortlist = append(c.Shortlist, productID)
	return true
}

// ClearShortlist empties the shortlist. Other preferences are kept.
func (c *UserContext) ClearShortlist() {
	c.Shortlist = nil
}
