package fitserver

// createFitResponse is returned by POST /fits.
type createFitResponse struct {
	ID string `json:"id"`
}

// addHolderRequest is the body of POST /fits/{fitID}/holders.
type addHolderRequest struct {
	TypeID int32 `json:"typeId"`
}

// addHolderResponse is returned by POST /fits/{fitID}/holders.
type addHolderResponse struct {
	ID string `json:"id"`
}

// pairRequest is the body of POST /holders/{holderID}/pair.
type pairRequest struct {
	OtherHolderID string `json:"otherHolderId"`
}

// setStateRequest is the body of PATCH /holders/{holderID}/state.
type setStateRequest struct {
	State int8 `json:"state"`
}

// setSkillLevelRequest is the body of PATCH /holders/{holderID}/skill-level.
type setSkillLevelRequest struct {
	Level int `json:"level"`
}

// attributeResponse is returned by GET /holders/{holderID}/attributes/{attrID}.
type attributeResponse struct {
	Value float64 `json:"value"`
}

// violationDTO is one reported restriction violation, holder identified by
// the server's own holder ID rather than a *fit.Holder pointer.
type violationDTO struct {
	HolderID string             `json:"holderId"`
	Data     map[string]float64 `json:"data"`
}

// validateResponse is returned by GET /fits/{fitID}/validate.
type validateResponse struct {
	OK         bool                      `json:"ok"`
	Violations map[string][]violationDTO `json:"violations,omitempty"`
}

// errorResponse is the JSON body written on any non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// invalidatedEvent is pushed over the fit's WebSocket connection after
// every mutation that evicted at least one cached attribute value (spec's
// fitserver entry: "pushes an invalidated event naming the holder+
// attribute pairs evicted by the most recent mutation").
type invalidatedEvent struct {
	Type    string            `json:"type"`
	Entries []invalidatedItem `json:"entries"`
}

type invalidatedItem struct {
	HolderID string `json:"holderId"`
	AttrID   int32  `json:"attrId"`
}
