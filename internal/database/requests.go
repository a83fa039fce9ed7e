package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"aircare/internal/models"
)

const requestColumns = `request_id, service_type, aircon_type, brand, customer_type,
		customer_uid, client_name, customer_phone, customer_address, customer_address_detail,
		partner_uid, partner_name, partner_address, partner_address_detail,
		engineer_uid, engineer_name, engineer_phone, engineer_profile_image,
		service_date, service_time, service_images,
		accepted_at, created_at, completed_at, payment_requested_at,
		memo, detail_info, sprint, status, submitted_at`

func (db *DB) CreateRequest(ctx context.Context, req *models.ServiceRequest) error {
	images, err := json.Marshal(req.ServiceImages)
	if err != nil {
		return fmt.Errorf("failed to marshal service images: %w", err)
	}
	sprint, err := json.Marshal(req.Sprint)
	if err != nil {
		return fmt.Errorf("failed to marshal sprint: %w", err)
	}

	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}

	query := `INSERT INTO requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.ExecContext(ctx, query,
		req.RequestID,
		req.ServiceType,
		req.AirconType,
		req.Brand,
		req.CustomerType,
		req.CustomerUID,
		req.ClientName,
		req.CustomerPhone,
		req.CustomerAddress,
		req.CustomerAddressDetail,
		req.PartnerUID,
		req.PartnerName,
		req.PartnerAddress,
		req.PartnerAddressDetail,
		req.EngineerUID,
		req.EngineerName,
		req.EngineerPhone,
		req.EngineerProfileImage,
		req.ServiceDate,
		req.ServiceTime,
		string(images),
		req.AcceptedAt,
		req.CreatedAt,
		req.CompletedAt,
		req.PaymentRequestedAt,
		req.Memo,
		req.DetailInfo,
		string(sprint),
		req.Status,
		req.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

func (db *DB) GetRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE request_id = ?`
	row := db.QueryRowContext(ctx, query, requestID)

	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

func (db *DB) GetRequestsByPhone(ctx context.Context, phone string) ([]*models.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE customer_phone = ? ORDER BY submitted_at DESC`
	rows, err := db.QueryContext(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests by phone: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func (db *DB) GetRequestsByDateRange(ctx context.Context, start, end time.Time) ([]*models.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
		WHERE submitted_at >= ? AND submitted_at < ? ORDER BY submitted_at`
	rows, err := db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests by date range: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func (db *DB) UpdateRequestStatus(ctx context.Context, requestID string, status int) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}

	result, err := db.ExecContext(ctx, `UPDATE requests SET status = ? WHERE request_id = ?`, status, requestID)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	var images, sprint string

	err := row.Scan(
		&req.RequestID,
		&req.ServiceType,
		&req.AirconType,
		&req.Brand,
		&req.CustomerType,
		&req.CustomerUID,
		&req.ClientName,
		&req.CustomerPhone,
		&req.CustomerAddress,
		&req.CustomerAddressDetail,
		&req.PartnerUID,
		&req.PartnerName,
		&req.PartnerAddress,
		&req.PartnerAddressDetail,
		&req.EngineerUID,
		&req.EngineerName,
		&req.EngineerPhone,
		&req.EngineerProfileImage,
		&req.ServiceDate,
		&req.ServiceTime,
		&images,
		&req.AcceptedAt,
		&req.CreatedAt,
		&req.CompletedAt,
		&req.PaymentRequestedAt,
		&req.Memo,
		&req.DetailInfo,
		&sprint,
		&req.Status,
		&req.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(images), &req.ServiceImages); err != nil {
		req.ServiceImages = []string{}
	}
	if err := json.Unmarshal([]byte(sprint), &req.Sprint); err != nil {
		req.Sprint = []string{}
	}

	return &req, nil
}

func collectRequests(rows *sql.Rows) ([]*models.ServiceRequest, error) {
	var requests []*models.ServiceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return requests, nil
}
