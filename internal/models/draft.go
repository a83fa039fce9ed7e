package models

// Draft is the in-progress booking request for one session. Field names on the
// wire follow the storefront contract, including its mixed-case legacy keys.
type Draft struct {
	RequestID             string                 `json:"request_id"`
	ServiceType           string                 `json:"service_type"`
	AirconType            string                 `json:"aircon_type"`
	Brand                 string                 `json:"brand"`
	CustomerType          string                 `json:"customer_type"`
	CustomerUID           string                 `json:"customer_uid"`
	ClientName            string                 `json:"clientName"`
	CustomerPhone         string                 `json:"customer_phone"`
	CustomerAddress       string                 `json:"customer_address"`
	CustomerAddressDetail string                 `json:"customer_address_detail"`
	PartnerUID            string                 `json:"partner_uid"`
	PartnerName           string                 `json:"partner_name"`
	PartnerAddress        string                 `json:"partner_address"`
	PartnerAddressDetail  string                 `json:"partner_address_detail"`
	PartnerFlow           bool                   `json:"partner_flow"`
	SelectedTechnician    map[string]interface{} `json:"selectedTechnician,omitempty"`
	EngineerUID           string                 `json:"engineer_uid"`
	EngineerName          string                 `json:"engineer_name"`
	EngineerPhone         string                 `json:"engineer_phone"`
	EngineerProfileImage  string                 `json:"engineer_profile_image"`
	ServiceDate           string                 `json:"service_date"`
	ServiceTime           string                 `json:"service_time"`
	ServiceImages         []string               `json:"service_images"`
	AcceptedAt            string                 `json:"accepted_at"`
	CreatedAt             string                 `json:"created_at"`
	CompletedAt           string                 `json:"completed_at"`
	PaymentRequestedAt    string                 `json:"payment_requested_at"`
	Memo                  string                 `json:"memo"`
	DetailInfo            string                 `json:"detailInfo"`
	Sprint                []string               `json:"sprint"`
	Status                int                    `json:"status"`
}

// DefaultDraft returns a blank draft with the initial status.
func DefaultDraft() *Draft {
	return &Draft{
		ServiceImages: []string{},
		Sprint:        []string{},
		Status:        StatusRequested,
	}
}

// ValidStatus reports whether v is an allowed request status.
func ValidStatus(v int) bool {
	return v >= StatusRequested && v <= StatusPaymentRequested
}

// ApplyPatch merges known draft keys from patch into d. Unknown keys are
// ignored so a superset payload round-trips safely. An invalid status value
// in the patch leaves the current status untouched.
func (d *Draft) ApplyPatch(patch map[string]interface{}) {
	for key, value := range patch {
		switch key {
		case "service_type":
			d.ServiceType = asString(value)
		case "aircon_type":
			d.AirconType = asString(value)
		case "brand":
			d.Brand = asString(value)
		case "customer_type":
			d.CustomerType = asString(value)
		case "customer_uid":
			d.CustomerUID = asString(value)
		case "clientName":
			d.ClientName = asString(value)
		case "customer_phone":
			d.CustomerPhone = asString(value)
		case "customer_address":
			d.CustomerAddress = asString(value)
		case "customer_address_detail":
			d.CustomerAddressDetail = asString(value)
		case "partner_uid":
			d.PartnerUID = asString(value)
		case "partner_name":
			d.PartnerName = asString(value)
		case "partner_address":
			d.PartnerAddress = asString(value)
		case "partner_address_detail":
			d.PartnerAddressDetail = asString(value)
		case "partner_flow":
			d.PartnerFlow = asBool(value)
		case "selectedTechnician":
			d.SelectedTechnician = asMap(value)
		case "engineer_uid":
			d.EngineerUID = asString(value)
		case "engineer_name":
			d.EngineerName = asString(value)
		case "engineer_phone":
			d.EngineerPhone = asString(value)
		case "engineer_profile_image":
			d.EngineerProfileImage = asString(value)
		case "service_date":
			d.ServiceDate = asString(value)
		case "service_time":
			d.ServiceTime = asString(value)
		case "service_images":
			d.ServiceImages = asStringSlice(value)
		case "accepted_at":
			d.AcceptedAt = asString(value)
		case "completed_at":
			d.CompletedAt = asString(value)
		case "payment_requested_at":
			d.PaymentRequestedAt = asString(value)
		case "memo":
			d.Memo = asString(value)
		case "detailInfo":
			d.DetailInfo = asString(value)
		case "status":
			if s, ok := asInt(value); ok && ValidStatus(s) {
				d.Status = s
			}
		}
	}
}

// ClearPartner blanks the partner branch of the draft.
func (d *Draft) ClearPartner() {
	d.PartnerUID = ""
	d.PartnerName = ""
	d.PartnerAddress = ""
	d.PartnerAddressDetail = ""
	d.PartnerFlow = false
	d.SelectedTechnician = nil
}

// ToRequest converts the draft into the persisted record shape. Only
// allow-listed fields survive; when the partner flow was not taken the four
// partner fields are forced to empty regardless of what the draft holds.
func (d *Draft) ToRequest() *ServiceRequest {
	req := &ServiceRequest{
		RequestID:             d.RequestID,
		ServiceType:           d.ServiceType,
		AirconType:            d.AirconType,
		Brand:                 d.Brand,
		CustomerType:          d.CustomerType,
		CustomerUID:           d.CustomerUID,
		ClientName:            d.ClientName,
		CustomerPhone:         d.CustomerPhone,
		CustomerAddress:       d.CustomerAddress,
		CustomerAddressDetail: d.CustomerAddressDetail,
		PartnerUID:            d.PartnerUID,
		PartnerName:           d.PartnerName,
		PartnerAddress:        d.PartnerAddress,
		PartnerAddressDetail:  d.PartnerAddressDetail,
		EngineerUID:           d.EngineerUID,
		EngineerName:          d.EngineerName,
		EngineerPhone:         d.EngineerPhone,
		EngineerProfileImage:  d.EngineerProfileImage,
		ServiceDate:           d.ServiceDate,
		ServiceTime:           d.ServiceTime,
		ServiceImages:         append([]string(nil), d.ServiceImages...),
		AcceptedAt:            d.AcceptedAt,
		CreatedAt:             d.CreatedAt,
		CompletedAt:           d.CompletedAt,
		PaymentRequestedAt:    d.PaymentRequestedAt,
		Memo:                  d.Memo,
		DetailInfo:            d.DetailInfo,
		Sprint:                append([]string(nil), d.Sprint...),
		Status:                d.Status,
	}

	if !d.PartnerFlow {
		req.PartnerUID = ""
		req.PartnerName = ""
		req.PartnerAddress = ""
		req.PartnerAddressDetail = ""
	}

	return req
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

func asStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
