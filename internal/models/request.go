package models

import "time"

// ServiceRequest is a finalized booking as stored in the requests table.
// It deliberately carries only the allow-listed draft fields: session-local
// helpers like partner_flow and selectedTechnician never reach storage.
type ServiceRequest struct {
	RequestID             string    `json:"request_id"`
	ServiceType           string    `json:"service_type"`
	AirconType            string    `json:"aircon_type"`
	Brand                 string    `json:"brand"`
	CustomerType          string    `json:"customer_type"`
	CustomerUID           string    `json:"customer_uid"`
	ClientName            string    `json:"clientName"`
	CustomerPhone         string    `json:"customer_phone"`
	CustomerAddress       string    `json:"customer_address"`
	CustomerAddressDetail string    `json:"customer_address_detail"`
	PartnerUID            string    `json:"partner_uid"`
	PartnerName           string    `json:"partner_name"`
	PartnerAddress        string    `json:"partner_address"`
	PartnerAddressDetail  string    `json:"partner_address_detail"`
	EngineerUID           string    `json:"engineer_uid"`
	EngineerName          string    `json:"engineer_name"`
	EngineerPhone         string    `json:"engineer_phone"`
	EngineerProfileImage  string    `json:"engineer_profile_image"`
	ServiceDate           string    `json:"service_date"`
	ServiceTime           string    `json:"service_time"`
	ServiceImages         []string  `json:"service_images"`
	AcceptedAt            string    `json:"accepted_at"`
	CreatedAt             string    `json:"created_at"`
	CompletedAt           string    `json:"completed_at"`
	PaymentRequestedAt    string    `json:"payment_requested_at"`
	Memo                  string    `json:"memo"`
	DetailInfo            string    `json:"detailInfo"`
	Sprint                []string  `json:"sprint"`
	Status                int       `json:"status"`
	SubmittedAt           time.Time `json:"submitted_at"`
}

// PartnerInfo is the payload of a partner selection in the funnel.
type PartnerInfo struct {
	UID           string                 `json:"partner_uid"`
	Name          string                 `json:"partner_name"`
	Address       string                 `json:"partner_address"`
	AddressDetail string                 `json:"partner_address_detail"`
	Technician    map[string]interface{} `json:"technician,omitempty"`
}

// Tracking holds the ambient session tracking values read at submission time.
// Any of them may be empty.
type Tracking struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
}

// SubmitInput is everything the submission pipeline needs beyond the draft.
type SubmitInput struct {
	SessionID   string   `json:"-"`
	CustomerUID string   `json:"customer_uid"`
	Agreed      bool     `json:"agreed"`
	Tracking    Tracking `json:"tracking"`
}

// BookingAlert is the outbound notification body sent after a submission.
type BookingAlert struct {
	ServiceDate     string `json:"service_date"`
	ServiceTime     string `json:"service_time"`
	Brand           string `json:"brand"`
	AirconType      string `json:"aircon_type"`
	ServiceType     string `json:"service_type"`
	CustomerAddress string `json:"customer_address"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerType    string `json:"customer_type"`
	PartnerID       string `json:"partner_id,omitempty"`
}
