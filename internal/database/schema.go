package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ReservationSchema creates the tables owned by the reservation service.
var ReservationSchema = []string{
	`CREATE TABLE IF NOT EXISTS hotels (
		id        INT AUTO_INCREMENT PRIMARY KEY,
		hotel_uid CHAR(36)     NOT NULL UNIQUE,
		name      VARCHAR(255) NOT NULL,
		country   VARCHAR(80)  NOT NULL,
		city      VARCHAR(80)  NOT NULL,
		address   VARCHAR(255) NOT NULL,
		stars     INT          NULL,
		price     INT          NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id              INT AUTO_INCREMENT PRIMARY KEY,
		reservation_uid CHAR(36)    NOT NULL UNIQUE,
		username        VARCHAR(80) NOT NULL,
		payment_uid     CHAR(36)    NOT NULL,
		hotel_id        INT         NULL,
		status          VARCHAR(20) NOT NULL,
		start_date      DATETIME    NULL,
		end_date        DATETIME    NULL,
		INDEX idx_reservations_username (username),
		CONSTRAINT fk_reservations_hotel FOREIGN KEY (hotel_id) REFERENCES hotels (id),
		CONSTRAINT chk_reservations_status CHECK (status IN ('PAID', 'CANCELED'))
	)`,
}

// PaymentSchema creates the table owned by the payment service.
var PaymentSchema = []string{
	`CREATE TABLE IF NOT EXISTS payments (
		id          INT AUTO_INCREMENT PRIMARY KEY,
		payment_uid CHAR(36)    NOT NULL UNIQUE,
		status      VARCHAR(20) NOT NULL,
		price       INT         NOT NULL,
		CONSTRAINT chk_payments_status CHECK (status IN ('PAID', 'CANCELED'))
	)`,
}

// LoyaltySchema creates the table owned by the loyalty service.
var LoyaltySchema = []string{
	`CREATE TABLE IF NOT EXISTS loyalty (
		id                INT AUTO_INCREMENT PRIMARY KEY,
		username          VARCHAR(80) NOT NULL UNIQUE,
		reservation_count INT         NOT NULL DEFAULT 0,
		status            VARCHAR(80) NOT NULL DEFAULT 'BRONZE',
		discount          INT         NOT NULL,
		CONSTRAINT chk_loyalty_count CHECK (reservation_count >= 0),
		CONSTRAINT chk_loyalty_status CHECK (status IN ('BRONZE', 'SILVER', 'GOLD'))
	)`,
}

// EnsureSchema executes the given DDL statements in order.  Every statement
// must be idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
